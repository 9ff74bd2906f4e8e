package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tieubaoca/rag-studio-be/database"
	"github.com/tieubaoca/rag-studio-be/repository"
	"github.com/tieubaoca/rag-studio-be/types"
)

func newTestProjector(t *testing.T) (*ProjectorService, *RAGService) {
	t.Helper()
	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "proj.db"), false)
	require.NoError(t, err)
	store, err := database.NewMemoryChromaStore("proj_collection")
	require.NoError(t, err)

	fileRepo := repository.NewFileRepo(db)
	chunkRepo := repository.NewChunkRepo(db)
	fileService := NewFileService(t.TempDir(), fileRepo, chunkRepo, store)
	rag := NewRAGService(store, chunkRepo, fileService)
	return NewProjectorService(store, chunkRepo), rag
}

func TestProject2D(t *testing.T) {
	projector, _ := newTestProjector(t)

	embeddings := [][]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
	points, err := projector.Project(embeddings, "pca", 2)
	require.NoError(t, err)
	require.Len(t, points, 4)
	for _, p := range points {
		assert.Nil(t, p.Z)
	}
}

func TestProject3D(t *testing.T) {
	projector, _ := newTestProjector(t)

	embeddings := [][]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
	points, err := projector.Project(embeddings, "pca", 3)
	require.NoError(t, err)
	require.Len(t, points, 4)
	for _, p := range points {
		require.NotNil(t, p.Z)
	}
}

func TestProjectTooFewRows(t *testing.T) {
	projector, _ := newTestProjector(t)

	points, err := projector.Project([][]float32{{1, 0, 0}}, "pca", 2)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestProjectUnsupportedMethod(t *testing.T) {
	projector, _ := newTestProjector(t)

	_, err := projector.Project([][]float32{{1, 0}, {0, 1}}, "tsne", 2)
	assert.Error(t, err)
}

func TestProjectBadComponentCount(t *testing.T) {
	projector, _ := newTestProjector(t)

	_, err := projector.Project([][]float32{{1, 0}, {0, 1}}, "pca", 5)
	assert.Error(t, err)
}

func TestProjectStoredDecoratesPoints(t *testing.T) {
	projector, rag := newTestProjector(t)
	ctx := context.Background()

	_, err := rag.storeWith(ctx, &fakeEmbedder{dim: 4}, types.StoreRequest{
		Chunks: []types.Chunk{
			{Text: "first stored chunk"},
			{Text: "second stored chunk"},
			{Text: "third stored chunk"},
		},
		Metadatas: []map[string]interface{}{
			{"filename": "doc.pdf"},
			{"filename": "doc.pdf"},
			{"filename": "doc.pdf"},
		},
	})
	require.NoError(t, err)

	points, err := projector.ProjectStored(ctx, "pca", 2)
	require.NoError(t, err)
	require.Len(t, points, 3)
	for _, p := range points {
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, "doc.pdf", p.Source)
		assert.NotEmpty(t, p.TextPreview)
		assert.Equal(t, 3, p.TokenCount)
	}
}

func TestProjectStoredEmpty(t *testing.T) {
	projector, _ := newTestProjector(t)

	points, err := projector.ProjectStored(context.Background(), "pca", 2)
	require.NoError(t, err)
	assert.Empty(t, points)
}
