package application

import (
	"context"

	exhibitorapp "github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/application"
	exhibitordomain "github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/domain"
	"github.com/shutten-navi/shutten-navi-services/api/internal/organizer/domain"
)

// EventRepository はイベント集約の読み書きを提供するポート。
type EventRepository interface {
	Find(ctx context.Context, filter EventFilter, paging Paging) ([]domain.Event, error)
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
}

// RegistrationReader は主催者が本登録一覧を参照するためのポート。
// 検索条件の型は出店者側アプリケーション層のものを共用する。
type RegistrationReader interface {
	Find(ctx context.Context, filter exhibitorapp.RegistrationFilter, paging exhibitorapp.Paging) ([]exhibitordomain.Registration, error)
}

// EventFilter はイベント検索条件。
type EventFilter struct {
	Prefecture    string
	Keyword       string
	PublishedOnly bool
}

// Paging はページネーション指定。
type Paging struct {
	Page  int
	Limit int
}

// EventQueryService は公開側のイベント参照ユースケース。
type EventQueryService interface {
	List(ctx context.Context, filter EventFilter, paging Paging) ([]domain.Event, error)
	Detail(ctx context.Context, id string) (*domain.Event, error)
}

// EventCommandService は主催者側のイベント作成・更新ユースケース。
type EventCommandService interface {
	Create(ctx context.Context, cmd UpsertEventCommand) (*domain.Event, error)
	Update(ctx context.Context, id string, cmd UpsertEventCommand) (*domain.Event, error)
}

// UpsertEventCommand はイベント作成・更新の入力。
type UpsertEventCommand struct {
	Title               string
	Prefecture          string
	Venue               string
	Description         string
	StartsAt            string
	EndsAt              string
	VendorCapacity      int
	ApplicationDeadline string
	Published           bool
}
