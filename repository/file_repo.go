package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/tieubaoca/rag-studio-be/types"
)

var ErrNotFound = errors.New("record not found")

type FileRepo interface {
	CreateFile(ctx context.Context, file *types.FileRecord) error
	GetFile(ctx context.Context, id string) (*types.FileRecord, error)
	ListFiles(ctx context.Context, status string) ([]types.FileRecord, error)
	UpdateStatus(ctx context.Context, id, status string) error
	DeleteFile(ctx context.Context, id string) error
}

type fileRepo struct {
	db *bun.DB
}

func NewFileRepo(db *bun.DB) FileRepo {
	return &fileRepo{db: db}
}

func (r *fileRepo) CreateFile(ctx context.Context, file *types.FileRecord) error {
	_, err := r.db.NewInsert().Model(file).Exec(ctx)
	return err
}

func (r *fileRepo) GetFile(ctx context.Context, id string) (*types.FileRecord, error) {
	var file types.FileRecord
	err := r.db.NewSelect().Model(&file).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepo) ListFiles(ctx context.Context, status string) ([]types.FileRecord, error) {
	var files []types.FileRecord
	q := r.db.NewSelect().Model(&files).OrderExpr("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return files, nil
}

func (r *fileRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.db.NewUpdate().
		Model((*types.FileRecord)(nil)).
		Set("status = ?", status).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (r *fileRepo) DeleteFile(ctx context.Context, id string) error {
	_, err := r.db.NewDelete().Model((*types.FileRecord)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}
