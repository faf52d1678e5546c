package application

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistrationRepo struct {
	mu        sync.Mutex
	existing  map[string]bool
	created   []domain.Registration
	existsErr error
	createErr error
}

func (r *fakeRegistrationRepo) ExistsByUserID(_ context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.existsErr != nil {
		return false, r.existsErr
	}
	return r.existing[userID], nil
}

func (r *fakeRegistrationRepo) Create(_ context.Context, registration *domain.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, *registration)
	return nil
}

func (r *fakeRegistrationRepo) Find(context.Context, RegistrationFilter, Paging) ([]domain.Registration, error) {
	return nil, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []domain.Registration
}

func (n *fakeNotifier) NotifyRegistrationReceipt(_ context.Context, registration domain.Registration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, registration)
}

func (n *fakeNotifier) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func submittableForm() domain.FormState {
	age := 34
	form := domain.NewFormState()
	form.Step = domain.StepConfirm
	form.Fields = domain.Fields{
		Name:     " 山田太郎 ",
		Gender:   domain.GenderMale,
		Age:      &age,
		Phone:    "０９０-１２３４-５６７８",
		Email:    "taro@example.com",
		Category: "kitchen_car",
		Genre:    "クレープ",
	}
	for _, slot := range domain.DocumentSlots {
		form.Documents.Set(slot, "https://media.example.com/"+string(slot)+".jpg")
	}
	form.TermsAccepted = true
	return form
}

func TestSubmitNormalizesAndPersists(t *testing.T) {
	repo := &fakeRegistrationRepo{existing: map[string]bool{}}
	notifier := &fakeNotifier{}
	service := NewRegistrationService(repo, notifier, log.New(io.Discard, "", 0))

	registration, err := service.Submit(context.Background(), "user-1", submittableForm(), "2027-03-31")
	require.NoError(t, err)

	assert.Equal(t, "山田太郎", registration.Name)
	assert.Equal(t, "09012345678", registration.Phone)
	assert.Equal(t, "キッチンカー", registration.Category)
	assert.Equal(t, "2027-03-31", registration.LicenseExpiresOn)
	assert.False(t, registration.CreatedAt.IsZero())

	repo.mu.Lock()
	require.Len(t, repo.created, 1)
	repo.mu.Unlock()

	require.Eventually(t, func() bool { return notifier.callCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestSubmitRejectsDuplicate(t *testing.T) {
	repo := &fakeRegistrationRepo{existing: map[string]bool{"user-1": true}}
	service := NewRegistrationService(repo, nil, log.New(io.Discard, "", 0))

	_, err := service.Submit(context.Background(), "user-1", submittableForm(), "")
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	repo.mu.Lock()
	assert.Empty(t, repo.created)
	repo.mu.Unlock()
}

func TestSubmitExistenceCheckFailure(t *testing.T) {
	repo := &fakeRegistrationRepo{existsErr: errors.New("db down")}
	service := NewRegistrationService(repo, nil, log.New(io.Discard, "", 0))

	_, err := service.Submit(context.Background(), "user-1", submittableForm(), "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyRegistered)
}

func TestSubmitCreateFailure(t *testing.T) {
	repo := &fakeRegistrationRepo{existing: map[string]bool{}, createErr: errors.New("db down")}
	notifier := &fakeNotifier{}
	service := NewRegistrationService(repo, notifier, log.New(io.Discard, "", 0))

	_, err := service.Submit(context.Background(), "user-1", submittableForm(), "")
	require.Error(t, err)

	// 保存に失敗したら通知も送らない
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, notifier.callCount())
}

func TestPagingNormalize(t *testing.T) {
	assert.Equal(t, Paging{Page: 1, Limit: 20}, Paging{}.Normalize())
	assert.Equal(t, Paging{Page: 1, Limit: 100}, Paging{Page: 1, Limit: 500}.Normalize())
	assert.Equal(t, 0, Paging{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, Paging{Page: 3, Limit: 20}.Offset())
}
