package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/shutten-navi/shutten-navi-services/api/internal/infrastructure/postgres/migrations"
)

// Open は DSN から Postgres 接続を開き、疎通確認とマイグレーション適用まで
// 済ませて返す。本登録ストアの初期化はこの 1 箇所に集約する。
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("Postgres 接続のオープンに失敗: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("Postgres への疎通確認に失敗: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("マイグレーションの適用に失敗: %w", err)
	}

	return db, nil
}

// RunMigrations は埋め込み済みのマイグレーションを適用する。
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
