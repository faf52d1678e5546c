package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	mu      sync.Mutex
	status  domain.VerificationStatus
	release chan struct{}
	calls   []string
}

func (v *fakeVerifier) Verify(_ context.Context, imageURL string) domain.VerificationStatus {
	v.mu.Lock()
	v.calls = append(v.calls, imageURL)
	release := v.release
	status := v.status
	v.mu.Unlock()

	if release != nil {
		<-release
	}
	return status
}

type submitCall struct {
	userID        string
	form          domain.FormState
	licenseExpiry string
}

type fakeSubmitter struct {
	mu    sync.Mutex
	err   error
	calls []submitCall
}

func (s *fakeSubmitter) Submit(_ context.Context, userID string, form domain.FormState, licenseExpiry string) (*domain.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, submitCall{userID: userID, form: form, licenseExpiry: licenseExpiry})
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Registration{UserID: userID, LicenseExpiresOn: licenseExpiry}, nil
}

func (s *fakeSubmitter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newTestManager(store *fakeDraftStore, verifier *fakeVerifier, submitter *fakeSubmitter) *Manager {
	return NewManager(ManagerConfig{
		Logger:    testLogger(),
		Drafts:    store,
		Verifier:  verifier,
		Submitter: submitter,
		Debounce:  10 * time.Millisecond,
	})
}

func fillValidForm(t *testing.T, session *Session) {
	t.Helper()
	form := validForm()
	session.SetFields(form.Fields)
	for _, slot := range domain.DocumentSlots {
		require.NoError(t, session.AttachDocument(slot, form.Documents.Get(slot)))
	}
	session.MarkTermsViewed()
	session.SetTermsAccepted(true)
}

func TestSessionNextBlockedWhenInvalid(t *testing.T) {
	manager := newTestManager(&fakeDraftStore{}, &fakeVerifier{}, &fakeSubmitter{})
	defer manager.CloseAll()

	session := manager.Open(context.Background(), "user-1")
	result := session.Next()

	assert.False(t, result.Moved)
	assert.Equal(t, domain.StepInput, result.Step)
	assert.False(t, result.Validation.OK())
	assert.Equal(t, FieldName, result.Validation.FocusField)
}

func TestSessionWizardFlowToCompletion(t *testing.T) {
	store := &fakeDraftStore{}
	verifier := &fakeVerifier{status: domain.VerificationValidStatus("2027-03-31")}
	submitter := &fakeSubmitter{}
	manager := newTestManager(store, verifier, submitter)
	defer manager.CloseAll()

	session := manager.Open(context.Background(), "user-1")
	fillValidForm(t, session)

	// 営業許可証の確認結果が合流するまで待つ
	require.Eventually(t, func() bool {
		return session.Snapshot().Verification.State == domain.VerificationValid
	}, time.Second, 5*time.Millisecond)

	result := session.Next()
	require.True(t, result.Moved)
	assert.Equal(t, domain.StepConfirm, result.Step)
	assert.True(t, result.ScrollTop)

	registration, err := session.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2027-03-31", registration.LicenseExpiresOn)

	require.Equal(t, 1, submitter.callCount())
	submitter.mu.Lock()
	assert.Equal(t, "user-1", submitter.calls[0].userID)
	assert.Equal(t, "2027-03-31", submitter.calls[0].licenseExpiry)
	submitter.mu.Unlock()

	view := session.Snapshot()
	assert.Equal(t, domain.StepComplete, view.Step)
	assert.Equal(t, domain.Fields{}, view.Fields)
	assert.False(t, view.DraftExists)
	assert.Equal(t, domain.VerificationIdle, view.Verification.State)
}

func TestSessionInvalidLicenseResultDoesNotBlock(t *testing.T) {
	verifier := &fakeVerifier{status: domain.VerificationInvalidStatus("期限切れです")}
	submitter := &fakeSubmitter{}
	manager := newTestManager(&fakeDraftStore{}, verifier, submitter)
	defer manager.CloseAll()

	session := manager.Open(context.Background(), "user-1")
	fillValidForm(t, session)

	require.Eventually(t, func() bool {
		return session.Snapshot().Verification.State == domain.VerificationInvalid
	}, time.Second, 5*time.Millisecond)

	// 確認結果は助言なので遷移も送信も止めない
	result := session.Next()
	require.True(t, result.Moved)

	registration, err := session.Submit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, registration.LicenseExpiresOn)
}

func TestSessionRemoveLicenseDiscardsInFlightResult(t *testing.T) {
	release := make(chan struct{})
	verifier := &fakeVerifier{
		status:  domain.VerificationValidStatus("2027-03-31"),
		release: release,
	}
	manager := newTestManager(&fakeDraftStore{}, verifier, &fakeSubmitter{})
	defer manager.CloseAll()

	session := manager.Open(context.Background(), "user-1")
	require.NoError(t, session.AttachDocument(domain.SlotBusinessLicense, "https://media.example.com/license.jpg"))
	assert.Equal(t, domain.VerificationVerifying, session.Snapshot().Verification.State)

	require.NoError(t, session.RemoveDocument(domain.SlotBusinessLicense))
	assert.Equal(t, domain.VerificationIdle, session.Snapshot().Verification.State)

	// 取り外し後に届いた結果は捨てられる
	close(release)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, domain.VerificationIdle, session.Snapshot().Verification.State)
}

func TestSessionLicenseReplacementUsesLatestResult(t *testing.T) {
	verifier := &fakeVerifier{status: domain.VerificationValidStatus("2026-01-01")}
	manager := newTestManager(&fakeDraftStore{}, verifier, &fakeSubmitter{})
	defer manager.CloseAll()

	session := manager.Open(context.Background(), "user-1")
	require.NoError(t, session.AttachDocument(domain.SlotBusinessLicense, "https://media.example.com/old.jpg"))

	verifier.mu.Lock()
	verifier.status = domain.VerificationValidStatus("2027-12-31")
	verifier.mu.Unlock()
	require.NoError(t, session.AttachDocument(domain.SlotBusinessLicense, "https://media.example.com/new.jpg"))

	require.Eventually(t, func() bool {
		view := session.Snapshot()
		return view.Verification.State == domain.VerificationValid &&
			view.Verification.ExpirationDate == "2027-12-31"
	}, time.Second, 5*time.Millisecond)
}

func TestSessionSubmitRequiresConfirmStep(t *testing.T) {
	manager := newTestManager(&fakeDraftStore{}, &fakeVerifier{}, &fakeSubmitter{})
	defer manager.CloseAll()

	session := manager.Open(context.Background(), "user-1")
	_, err := session.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotOnConfirmStep)
}

func TestSessionSubmitFailureKeepsDraftAndStep(t *testing.T) {
	store := &fakeDraftStore{}
	submitter := &fakeSubmitter{err: errors.New("db down")}
	verifier := &fakeVerifier{status: domain.VerificationValidStatus("2027-03-31")}
	manager := newTestManager(store, verifier, submitter)
	defer manager.CloseAll()

	session := manager.Open(context.Background(), "user-1")
	fillValidForm(t, session)
	require.Eventually(t, func() bool { return store.upsertCount() > 0 }, time.Second, 5*time.Millisecond)
	require.True(t, session.Next().Moved)

	_, err := session.Submit(context.Background())
	require.Error(t, err)

	// 失敗時は確認ステップに留まり、下書きも残る
	view := session.Snapshot()
	assert.Equal(t, domain.StepConfirm, view.Step)
	assert.True(t, view.DraftExists)
	assert.Equal(t, 0, store.deleteCount())
}

func TestSessionDoubleSubmitSerialized(t *testing.T) {
	store := &fakeDraftStore{}
	submitter := &fakeSubmitter{}
	manager := newTestManager(store, &fakeVerifier{}, submitter)
	defer manager.CloseAll()

	session := manager.Open(context.Background(), "user-1")
	fillValidForm(t, session)
	require.True(t, session.Next().Moved)

	_, err := session.Submit(context.Background())
	require.NoError(t, err)

	// 2 回目はフォームが完了ステップへ進んでいるので確定できない
	_, err = session.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotOnConfirmStep)
	assert.Equal(t, 1, submitter.callCount())
}

func TestSessionAttachUnknownSlot(t *testing.T) {
	manager := newTestManager(&fakeDraftStore{}, &fakeVerifier{}, &fakeSubmitter{})
	defer manager.CloseAll()

	session := manager.Open(context.Background(), "user-1")
	err := session.AttachDocument(domain.DocumentSlot("unknown"), "https://media.example.com/x.jpg")
	assert.ErrorIs(t, err, ErrUnknownDocumentSlot)
	assert.ErrorIs(t, session.RemoveDocument(domain.DocumentSlot("unknown")), ErrUnknownDocumentSlot)
}

func TestManagerOpenRestoresDraft(t *testing.T) {
	saved := testPayload("山田太郎")
	saved.Step = 2
	store := &fakeDraftStore{payload: &saved}
	manager := newTestManager(store, &fakeVerifier{}, &fakeSubmitter{})
	defer manager.CloseAll()

	session := manager.Open(context.Background(), "user-1")
	view := session.Snapshot()

	assert.Equal(t, domain.StepConfirm, view.Step)
	assert.Equal(t, "山田太郎", view.Fields.Name)
	assert.True(t, view.DraftExists)

	// 同じユーザーには同じセッションを返す
	again := manager.Open(context.Background(), "user-1")
	assert.Same(t, session, again)

	// 復元直後に再保存は走らない
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, store.upsertCount())
}

func TestManagerCloseRemovesSession(t *testing.T) {
	manager := newTestManager(&fakeDraftStore{}, &fakeVerifier{}, &fakeSubmitter{})

	session := manager.Open(context.Background(), "user-1")
	session.SetFields(domain.Fields{Name: "山田太郎"})
	manager.Close("user-1")

	_, ok := manager.Get("user-1")
	assert.False(t, ok)
}
