package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/tieubaoca/rag-studio-be/types"
)

// NewSQLiteDB opens the local application database and creates the
// tables for files, settings and the chunk catalog.
func NewSQLiteDB(path string, debug bool) (*bun.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, fmt.Sprintf("file:%s?cache=shared", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithEnabled(debug)))

	ctx := context.Background()
	models := []interface{}{
		(*types.FileRecord)(nil),
		(*SettingRecord)(nil),
		(*types.ChunkRecord)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to create table: %w", err)
		}
	}

	return db, nil
}

// SettingRecord is one persisted settings blob, keyed by name. Secret
// fields inside Value are encrypted before they get here.
type SettingRecord struct {
	bun.BaseModel `bun:"table:settings"`

	Key       string `bun:"key,pk"`
	Value     string `bun:"value,notnull"`
	UpdatedAt string `bun:"updated_at"`
}
