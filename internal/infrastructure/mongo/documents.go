package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DraftDocument は registration_drafts コレクションの 1 行。
// payload はアプリ側スキーマに依存しない不透明な JSON 文字列で、
// (userId, formType) の複合キーで upsert する。
type DraftDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	FormType  string             `bson:"formType"`
	Payload   string             `bson:"payload"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// EventDocument は events コレクションの 1 行。
type EventDocument struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Title               string             `bson:"title"`
	Prefecture          string             `bson:"prefecture"`
	Venue               string             `bson:"venue,omitempty"`
	Description         string             `bson:"description,omitempty"`
	StartsAt            time.Time          `bson:"startsAt"`
	EndsAt              time.Time          `bson:"endsAt,omitempty"`
	VendorCapacity      int                `bson:"vendorCapacity,omitempty"`
	ApplicationDeadline time.Time          `bson:"applicationDeadline,omitempty"`
	Published           bool               `bson:"published"`
	CreatedAt           time.Time          `bson:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt"`
}
