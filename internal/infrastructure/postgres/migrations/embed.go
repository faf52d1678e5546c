package migrations

import "embed"

// Migrations は goose が適用する SQL マイグレーション一式。
//
//go:embed *.sql
var Migrations embed.FS
