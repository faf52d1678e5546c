package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shutten-navi/shutten-navi-services/api/internal/organizer/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventRepo struct {
	events  map[string]domain.Event
	created []domain.Event
	updated []domain.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[string]domain.Event{}}
}

func (r *fakeEventRepo) Find(context.Context, EventFilter, Paging) ([]domain.Event, error) {
	out := make([]domain.Event, 0, len(r.events))
	for _, event := range r.events {
		out = append(out, event)
	}
	return out, nil
}

func (r *fakeEventRepo) FindByID(_ context.Context, id string) (*domain.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &event, nil
}

func (r *fakeEventRepo) Create(_ context.Context, event *domain.Event) error {
	event.ID = "generated-id"
	r.events[event.ID] = *event
	r.created = append(r.created, *event)
	return nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *domain.Event) error {
	r.events[event.ID] = *event
	r.updated = append(r.updated, *event)
	return nil
}

func validCommand() UpsertEventCommand {
	return UpsertEventCommand{
		Title:               "下北沢キッチンカーフェスタ",
		Prefecture:          "東京都",
		Venue:               "駅前広場",
		StartsAt:            "2026-10-10T10:00:00+09:00",
		EndsAt:              "2026-10-10T17:00:00+09:00",
		VendorCapacity:      20,
		ApplicationDeadline: "2026-10-01T23:59:59+09:00",
		Published:           true,
	}
}

func TestEventCreate(t *testing.T) {
	repo := newFakeEventRepo()
	service := NewEventCommandService(repo)

	event, err := service.Create(context.Background(), validCommand())
	require.NoError(t, err)

	assert.Equal(t, "generated-id", event.ID)
	assert.Equal(t, "下北沢キッチンカーフェスタ", event.Title)
	assert.True(t, event.Published)
	assert.False(t, event.CreatedAt.IsZero())
	require.Len(t, repo.created, 1)
}

func TestEventCreateValidation(t *testing.T) {
	service := NewEventCommandService(newFakeEventRepo())

	cmd := validCommand()
	cmd.Title = "  "
	_, err := service.Create(context.Background(), cmd)
	assert.EqualError(t, err, "イベント名は必須です")

	cmd = validCommand()
	cmd.Prefecture = ""
	_, err = service.Create(context.Background(), cmd)
	assert.EqualError(t, err, "都道府県は必須です")

	cmd = validCommand()
	cmd.StartsAt = "2026/10/10"
	_, err = service.Create(context.Background(), cmd)
	assert.EqualError(t, err, "開催開始日時の形式が正しくありません")

	cmd = validCommand()
	cmd.EndsAt = "2026-10-09T10:00:00+09:00"
	_, err = service.Create(context.Background(), cmd)
	assert.EqualError(t, err, "開催終了日時は開始日時より後にしてください")

	cmd = validCommand()
	cmd.VendorCapacity = -1
	_, err = service.Create(context.Background(), cmd)
	assert.EqualError(t, err, "出店枠数は0以上で入力してください")
}

func TestEventUpdatePreservesCreatedAt(t *testing.T) {
	repo := newFakeEventRepo()
	createdAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.events["event-1"] = domain.Event{ID: "event-1", Title: "旧タイトル", CreatedAt: createdAt}

	service := NewEventCommandService(repo)
	event, err := service.Update(context.Background(), "event-1", validCommand())
	require.NoError(t, err)

	assert.Equal(t, "event-1", event.ID)
	assert.Equal(t, createdAt, event.CreatedAt)
	assert.Equal(t, "下北沢キッチンカーフェスタ", event.Title)
	assert.True(t, event.UpdatedAt.After(createdAt))
}

func TestEventUpdateMissing(t *testing.T) {
	service := NewEventCommandService(newFakeEventRepo())
	_, err := service.Update(context.Background(), "missing", validCommand())
	assert.Error(t, err)
}

func TestAcceptingApplications(t *testing.T) {
	now := time.Date(2026, 10, 5, 12, 0, 0, 0, time.UTC)

	event := domain.Event{
		Published: true,
		StartsAt:  now.AddDate(0, 0, 5),
	}
	assert.True(t, event.AcceptingApplications(now))

	event.ApplicationDeadline = now.AddDate(0, 0, -1)
	assert.False(t, event.AcceptingApplications(now))

	event.ApplicationDeadline = now.AddDate(0, 0, 1)
	assert.True(t, event.AcceptingApplications(now))

	event.Published = false
	assert.False(t, event.AcceptingApplications(now))
}
