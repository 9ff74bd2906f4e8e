package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/tieubaoca/rag-studio-be/types"
)

// ChunkRepo is the relational mirror of the vector store. The vector
// index only answers similarity queries, so listing, text search, stats
// and cascade lookups go through this catalog.
type ChunkRepo interface {
	CreateChunks(ctx context.Context, chunks []types.ChunkRecord) error
	ListChunks(ctx context.Context, offset, limit int, search string) ([]types.ChunkRecord, int, error)
	ListIDs(ctx context.Context) ([]string, error)
	DeleteChunks(ctx context.Context, ids []string) error
	DeleteByFileID(ctx context.Context, fileID string) error
	DeleteAll(ctx context.Context) error
	Stats(ctx context.Context) (total int, tokens int, lastUpdated string, err error)
}

type chunkRepo struct {
	db *bun.DB
}

func NewChunkRepo(db *bun.DB) ChunkRepo {
	return &chunkRepo{db: db}
}

func (r *chunkRepo) CreateChunks(ctx context.Context, chunks []types.ChunkRecord) error {
	if len(chunks) == 0 {
		return nil
	}
	_, err := r.db.NewInsert().Model(&chunks).Exec(ctx)
	return err
}

func (r *chunkRepo) ListChunks(ctx context.Context, offset, limit int, search string) ([]types.ChunkRecord, int, error) {
	countQ := r.db.NewSelect().Model((*types.ChunkRecord)(nil))
	if search != "" {
		countQ = countQ.Where("text LIKE ?", "%"+search+"%")
	}
	total, err := countQ.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	var chunks []types.ChunkRecord
	q := r.db.NewSelect().Model(&chunks).OrderExpr("created_at ASC, id ASC")
	if search != "" {
		q = q.Where("text LIKE ?", "%"+search+"%")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, 0, err
	}
	return chunks, total, nil
}

func (r *chunkRepo) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.NewSelect().
		Model((*types.ChunkRecord)(nil)).
		Column("id").
		OrderExpr("created_at ASC, id ASC").
		Scan(ctx, &ids)
	return ids, err
}

func (r *chunkRepo) DeleteChunks(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.NewDelete().
		Model((*types.ChunkRecord)(nil)).
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx)
	return err
}

func (r *chunkRepo) DeleteByFileID(ctx context.Context, fileID string) error {
	_, err := r.db.NewDelete().
		Model((*types.ChunkRecord)(nil)).
		Where("file_id = ?", fileID).
		Exec(ctx)
	return err
}

func (r *chunkRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.NewDelete().
		Model((*types.ChunkRecord)(nil)).
		Where("1 = 1").
		Exec(ctx)
	return err
}

func (r *chunkRepo) Stats(ctx context.Context) (int, int, string, error) {
	total, err := r.db.NewSelect().Model((*types.ChunkRecord)(nil)).Count(ctx)
	if err != nil {
		return 0, 0, "", err
	}
	if total == 0 {
		return 0, 0, "", nil
	}

	var tokens sql.NullInt64
	if err := r.db.NewSelect().
		Model((*types.ChunkRecord)(nil)).
		ColumnExpr("SUM(token_count)").
		Scan(ctx, &tokens); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, 0, "", err
	}

	var last sql.NullString
	if err := r.db.NewSelect().
		Model((*types.ChunkRecord)(nil)).
		ColumnExpr("MAX(created_at)").
		Scan(ctx, &last); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, 0, "", err
	}

	return total, int(tokens.Int64), last.String, nil
}
