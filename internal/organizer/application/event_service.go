package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shutten-navi/shutten-navi-services/api/internal/organizer/domain"
)

// eventQueryService は EventQueryService の実装。
type eventQueryService struct {
	repo EventRepository
}

// NewEventQueryService はイベント参照サービスを返す。
func NewEventQueryService(repo EventRepository) EventQueryService {
	return &eventQueryService{repo: repo}
}

func (s *eventQueryService) List(ctx context.Context, filter EventFilter, paging Paging) ([]domain.Event, error) {
	return s.repo.Find(ctx, filter, paging)
}

func (s *eventQueryService) Detail(ctx context.Context, id string) (*domain.Event, error) {
	return s.repo.FindByID(ctx, id)
}

// eventCommandService は EventCommandService の実装。
type eventCommandService struct {
	repo EventRepository
}

// NewEventCommandService はイベント編集サービスを返す。
func NewEventCommandService(repo EventRepository) EventCommandService {
	return &eventCommandService{repo: repo}
}

func (s *eventCommandService) Create(ctx context.Context, cmd UpsertEventCommand) (*domain.Event, error) {
	event, err := buildEvent(cmd)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventCommandService) Update(ctx context.Context, id string, cmd UpsertEventCommand) (*domain.Event, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event, err := buildEvent(cmd)
	if err != nil {
		return nil, err
	}
	event.ID = existing.ID
	event.CreatedAt = existing.CreatedAt
	event.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// buildEvent は入力を検証しつつドメインイベントへ変換する。
func buildEvent(cmd UpsertEventCommand) (*domain.Event, error) {
	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		return nil, errors.New("イベント名は必須です")
	}
	prefecture := strings.TrimSpace(cmd.Prefecture)
	if prefecture == "" {
		return nil, errors.New("都道府県は必須です")
	}

	startsAt, err := parseEventTime(cmd.StartsAt)
	if err != nil {
		return nil, errors.New("開催開始日時の形式が正しくありません")
	}
	endsAt, err := parseEventTime(cmd.EndsAt)
	if err != nil {
		return nil, errors.New("開催終了日時の形式が正しくありません")
	}
	if !endsAt.IsZero() && !startsAt.IsZero() && endsAt.Before(startsAt) {
		return nil, errors.New("開催終了日時は開始日時より後にしてください")
	}

	deadline := time.Time{}
	if strings.TrimSpace(cmd.ApplicationDeadline) != "" {
		deadline, err = parseEventTime(cmd.ApplicationDeadline)
		if err != nil {
			return nil, errors.New("申込締切日時の形式が正しくありません")
		}
	}

	if cmd.VendorCapacity < 0 {
		return nil, errors.New("出店枠数は0以上で入力してください")
	}

	return &domain.Event{
		Title:               title,
		Prefecture:          prefecture,
		Venue:               strings.TrimSpace(cmd.Venue),
		Description:         strings.TrimSpace(cmd.Description),
		StartsAt:            startsAt,
		EndsAt:              endsAt,
		VendorCapacity:      cmd.VendorCapacity,
		ApplicationDeadline: deadline,
		Published:           cmd.Published,
	}, nil
}

func parseEventTime(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, trimmed)
}
