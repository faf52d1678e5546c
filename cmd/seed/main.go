package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedOptions struct {
	envName         string
	eventCount      int
	draftCount      int
	dropCollections bool
	randomSeed      int64
}

type collections struct {
	events string
	drafts string
	pings  string
}

type eventDocument struct {
	ID                  primitive.ObjectID `bson:"_id"`
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

type draftDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	UserID    string             `bson:"userId"`
	FormType  string             `bson:"formType"`
	Payload   string             `bson:"payload"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

var prefectures = []string{"東京都", "神奈川県", "千葉県", "埼玉県", "大阪府", "京都府", "愛知県", "福岡県", "北海道", "宮城県"}

var eventTitles = []string{
	"キッチンカーフェスタ",
	"グルメマルシェ",
	"手づくり市",
	"フードトラックサミット",
	"地域ふれあい祭り",
	"クラフトビールガーデン",
	"朝市マルシェ",
}

var venues = []string{"中央公園", "駅前広場", "河川敷グラウンド", "市民ホール前", "商店街アーケード"}

var sampleGenres = []string{"クレープ", "カレー", "たこ焼き", "コーヒー", "ケバブ", "からあげ"}

func main() {
	opts := parseFlags()

	if err := loadEnvFiles(opts.envName); err != nil {
		log.Fatalf("環境変数の読み込みに失敗しました: %v", err)
	}

	cfg := collections{
		events: envOrDefault("EVENT_COLLECTION", "events"),
		drafts: envOrDefault("DRAFT_COLLECTION", "registration_drafts"),
		pings:  envOrDefault("PING_COLLECTION", "pings"),
	}

	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "shutten-navi")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(dbName)

	if opts.dropCollections {
		if err := dropCollections(ctx, db, cfg); err != nil {
			log.Fatalf("コレクション削除に失敗しました: %v", err)
		}
		log.Printf("既存コレクションを削除しました")
	}

	if err := ensureIndexes(ctx, db, cfg); err != nil {
		log.Fatalf("インデックス作成に失敗しました: %v", err)
	}

	rng := rand.New(rand.NewSource(opts.randomSeed))

	eventDocs := generateEvents(rng, opts.eventCount)
	if len(eventDocs) == 0 {
		log.Fatal("event docs が生成されませんでした")
	}
	if err := insertMany(ctx, db.Collection(cfg.events), toAnySlice(eventDocs)); err != nil {
		log.Fatalf("イベントデータの挿入に失敗しました: %v", err)
	}

	draftDocs := generateDrafts(rng, opts.draftCount)
	if len(draftDocs) > 0 {
		if err := insertMany(ctx, db.Collection(cfg.drafts), toAnySlice(draftDocs)); err != nil {
			log.Fatalf("下書きデータの挿入に失敗しました: %v", err)
		}
	}

	if _, err := db.Collection(cfg.pings).InsertOne(ctx, bson.M{
		"message":   "pong",
		"createdAt": time.Now(),
	}); err != nil {
		log.Fatalf("ping ドキュメントの挿入に失敗しました: %v", err)
	}

	log.Printf("Seed 完了: events=%d drafts=%d", len(eventDocs), len(draftDocs))
	log.Printf("Mongo: %s / %s (env=%s)", mongoURI, dbName, opts.envName)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envName, "env", "local", "backend/env 内の env ファイル名 (例: local, staging)")
	flag.IntVar(&opts.eventCount, "events", 12, "生成するイベント数")
	flag.IntVar(&opts.draftCount, "drafts", 5, "生成する登録下書き数")
	flag.BoolVar(&opts.dropCollections, "drop", true, "既存コレクションを削除してから投入する")
	defaultSeed := time.Now().UnixNano()
	flag.Int64Var(&opts.randomSeed, "seed", defaultSeed, "乱数シード（再現用）")
	flag.Parse()

	if opts.eventCount <= 0 {
		log.Fatal("events は 1 以上を指定してください")
	}
	if opts.draftCount < 0 {
		opts.draftCount = 0
	}
	return opts
}

func loadEnvFiles(envName string) error {
	base := filepath.Clean(filepath.Join("..", "env"))
	files := []string{
		filepath.Join(base, "shared.env"),
		filepath.Join(base, fmt.Sprintf("%s.env", envName)),
	}
	for _, file := range files {
		if err := loadEnvFile(file); err != nil {
			return err
		}
	}
	return nil
}

func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%s の読み込みに失敗しました: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func dropCollections(ctx context.Context, db *mongo.Database, cfg collections) error {
	for _, name := range []string{cfg.events, cfg.drafts, cfg.pings} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			return err
		}
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, cfg collections) error {
	eventIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "startsAt", Value: 1}}},
		{Keys: bson.D{{Key: "prefecture", Value: 1}, {Key: "startsAt", Value: 1}}},
	}
	if _, err := db.Collection(cfg.events).Indexes().CreateMany(ctx, eventIndexes); err != nil {
		return err
	}

	draftIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "formType", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := db.Collection(cfg.drafts).Indexes().CreateMany(ctx, draftIndexes)
	return err
}

func generateEvents(rng *rand.Rand, count int) []eventDocument {
	docs := make([]eventDocument, 0, count)
	now := time.Now()

	for i := 0; i < count; i++ {
		prefecture := prefectures[rng.Intn(len(prefectures))]
		title := fmt.Sprintf("%s %s vol.%d", prefecture, eventTitles[rng.Intn(len(eventTitles))], i+1)

		startsAt := now.AddDate(0, 0, 7+rng.Intn(90)).Truncate(time.Hour)
		endsAt := startsAt.Add(time.Duration(4+rng.Intn(6)) * time.Hour)
		deadline := startsAt.AddDate(0, 0, -(3 + rng.Intn(10)))

		docs = append(docs, eventDocument{
			ID:                  primitive.NewObjectID(),
			Title:               title,
			Prefecture:          prefecture,
			Venue:               venues[rng.Intn(len(venues))],
			Description:         "地元のキッチンカーと手づくり出店が集まるイベントです。",
			StartsAt:            startsAt,
			EndsAt:              endsAt,
			VendorCapacity:      10 + rng.Intn(40),
			ApplicationDeadline: deadline,
			Published:           rng.Intn(10) > 1,
			CreatedAt:           now,
			UpdatedAt:           now,
		})
	}
	return docs
}

func generateDrafts(rng *rand.Rand, count int) []draftDocument {
	docs := make([]draftDocument, 0, count)
	now := time.Now()

	for i := 0; i < count; i++ {
		genre := sampleGenres[rng.Intn(len(sampleGenres))]
		payload := fmt.Sprintf(
			`{"version":1,"step":1,"fields":{"name":"サンプル出店者%d","gender":"","age":null,"phone":"","email":"","category":"キッチンカー","genre":"%s"},"documents":{},"termsAccepted":false,"hasViewedTerms":false}`,
			i+1, genre,
		)
		docs = append(docs, draftDocument{
			ID:        primitive.NewObjectID(),
			UserID:    fmt.Sprintf("seed-user-%03d", i+1),
			FormType:  "exhibitor_registration",
			Payload:   payload,
			UpdatedAt: now.Add(-time.Duration(rng.Intn(72)) * time.Hour),
		})
	}
	return docs
}

func insertMany(ctx context.Context, collection *mongo.Collection, docs []any) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := collection.InsertMany(ctx, docs)
	return err
}

func toAnySlice[T any](docs []T) []any {
	out := make([]any, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc)
	}
	return out
}
