package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/tieubaoca/rag-studio-be/database"
)

type SettingsRepo interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SaveSetting(ctx context.Context, key, value string) error
}

type settingsRepo struct {
	db *bun.DB
}

func NewSettingsRepo(db *bun.DB) SettingsRepo {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) GetSetting(ctx context.Context, key string) (string, error) {
	var rec database.SettingRecord
	err := r.db.NewSelect().Model(&rec).Where("key = ?", key).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return rec.Value, nil
}

func (r *settingsRepo) SaveSetting(ctx context.Context, key, value string) error {
	rec := database.SettingRecord{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	_, err := r.db.NewInsert().
		Model(&rec).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}
