package mongo

import (
	"context"
	"regexp"
	"strings"

	"github.com/shutten-navi/shutten-navi-services/api/internal/organizer/application"
	"github.com/shutten-navi/shutten-navi-services/api/internal/organizer/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventRepository はイベント集約を MongoDB で扱う実装リポジトリ。
type EventRepository struct {
	events *mongo.Collection
}

// NewEventRepository はイベントコレクションを束縛したリポジトリを構築する。
func NewEventRepository(db *mongo.Database, eventCollection string) *EventRepository {
	return &EventRepository{events: db.Collection(eventCollection)}
}

// Find は都道府県・キーワード条件を Mongo クエリへ落とし込み、開催日の
// 昇順でイベント一覧を返す。
func (r *EventRepository) Find(ctx context.Context, filter application.EventFilter, paging application.Paging) ([]domain.Event, error) {
	mongoFilter := bson.M{}
	if filter.PublishedOnly {
		mongoFilter["published"] = true
	}
	if prefecture := strings.TrimSpace(filter.Prefecture); prefecture != "" {
		mongoFilter["prefecture"] = prefecture
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
		mongoFilter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"venue": pattern},
			bson.M{"description": pattern},
		}
	}

	page := paging.Page
	if page < 1 {
		page = 1
	}
	limit := paging.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "startsAt", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.events.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := make([]domain.Event, 0)
	for cursor.Next(ctx) {
		var doc EventDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		events = append(events, mapEventDocument(doc))
	}
	return events, cursor.Err()
}

// FindByID はイベント ID から単一イベントを取得する。
func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	var doc EventDocument
	if err := r.events.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, err
	}

	event := mapEventDocument(doc)
	return &event, nil
}

// Create はイベントを追加し、採番した ID をドメインモデルへ反映する。
func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	doc := mapEventToDocument(*event)
	doc.ID = primitive.NewObjectID()

	if _, err := r.events.InsertOne(ctx, doc); err != nil {
		return err
	}
	event.ID = doc.ID.Hex()
	return nil
}

// Update は既存イベントを全量更新する。
func (r *EventRepository) Update(ctx context.Context, event *domain.Event) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(event.ID))
	if err != nil {
		return err
	}

	doc := mapEventToDocument(*event)
	doc.ID = objectID
	_, err = r.events.ReplaceOne(ctx, bson.M{"_id": objectID}, doc)
	return err
}

// mapEventDocument は Mongo ドキュメントを公開ドメイン Event へ復元する。
func mapEventDocument(doc EventDocument) domain.Event {
	return domain.Event{
		ID:                  doc.ID.Hex(),
		Title:               doc.Title,
		Prefecture:          doc.Prefecture,
		Venue:               doc.Venue,
		Description:         doc.Description,
		StartsAt:            doc.StartsAt,
		EndsAt:              doc.EndsAt,
		VendorCapacity:      doc.VendorCapacity,
		ApplicationDeadline: doc.ApplicationDeadline,
		Published:           doc.Published,
		CreatedAt:           doc.CreatedAt,
		UpdatedAt:           doc.UpdatedAt,
	}
}

// mapEventToDocument はドメイン Event を Mongo ドキュメントへ変換する。
func mapEventToDocument(event domain.Event) EventDocument {
	return EventDocument{
		Title:               event.Title,
		Prefecture:          event.Prefecture,
		Venue:               event.Venue,
		Description:         event.Description,
		StartsAt:            event.StartsAt,
		EndsAt:              event.EndsAt,
		VendorCapacity:      event.VendorCapacity,
		ApplicationDeadline: event.ApplicationDeadline,
		Published:           event.Published,
		CreatedAt:           event.CreatedAt,
		UpdatedAt:           event.UpdatedAt,
	}
}
