package mongo

import (
	"context"
	"errors"
	"time"

	exhibitordomain "github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DraftRepository は下書きスナップショットを MongoDB で扱う実装リポジトリ。
// workflow.DraftStore を満たす。
type DraftRepository struct {
	drafts *mongo.Collection
}

// NewDraftRepository は下書きコレクションを束縛したリポジトリを構築する。
func NewDraftRepository(db *mongo.Database, draftCollection string) *DraftRepository {
	return &DraftRepository{drafts: db.Collection(draftCollection)}
}

// Upsert は (userId, formType) をキーに下書きを insert-or-update する。
// ペイロードは不透明な JSON 文字列として保存する。
func (r *DraftRepository) Upsert(ctx context.Context, userID, formType string, payload exhibitordomain.DraftPayload) error {
	encoded, err := payload.Encode()
	if err != nil {
		return err
	}

	filter := bson.M{"userId": userID, "formType": formType}
	update := bson.M{"$set": bson.M{
		"payload":   encoded,
		"updatedAt": time.Now().UTC(),
	}}
	opts := options.Update().SetUpsert(true)

	_, err = r.drafts.UpdateOne(ctx, filter, update, opts)
	return err
}

// Delete は下書きを削除する。対象が既に無い場合も成功として扱う。
// 他セッションが先に消した下書きへの削除要求を許容するため。
func (r *DraftRepository) Delete(ctx context.Context, userID, formType string) error {
	_, err := r.drafts.DeleteOne(ctx, bson.M{"userId": userID, "formType": formType})
	return err
}

// Find は最新の下書きペイロードを返す。存在しなければ nil を返す。
func (r *DraftRepository) Find(ctx context.Context, userID, formType string) (*exhibitordomain.DraftPayload, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "updatedAt", Value: -1}})

	var doc DraftDocument
	err := r.drafts.FindOne(ctx, bson.M{"userId": userID, "formType": formType}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	payload, err := exhibitordomain.DecodeDraftPayload(doc.Payload)
	if err != nil {
		return nil, err
	}
	return &payload, nil
}
