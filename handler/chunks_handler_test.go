package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tieubaoca/rag-studio-be/database"
	"github.com/tieubaoca/rag-studio-be/repository"
	"github.com/tieubaoca/rag-studio-be/types"
)

func newChunksRouter(t *testing.T) (*gin.Engine, repository.ChunkRepo, *database.ChromaStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "handler.db"), false)
	require.NoError(t, err)
	store, err := database.NewMemoryChromaStore("handler_collection")
	require.NoError(t, err)
	chunkRepo := repository.NewChunkRepo(db)

	h := NewChunksHandler(chunkRepo, store)
	router := gin.New()
	router.GET("/documents", h.HandleDocuments)
	router.GET("/list", h.HandleList)
	router.GET("/stats", h.HandleStats)
	router.DELETE("/delete", h.HandleDelete)
	return router, chunkRepo, store
}

func TestHandleListEmpty(t *testing.T) {
	router, _, _ := newChunksRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/list", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res types.ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Zero(t, res.Total)
	assert.NotNil(t, res.Chunks)
}

func TestHandleListPaginationParams(t *testing.T) {
	router, chunkRepo, _ := newChunksRouter(t)
	require.NoError(t, chunkRepo.CreateChunks(context.Background(), []types.ChunkRecord{
		{ID: "a", Text: "first chunk", CreatedAt: "2026-08-28T00:00:00Z"},
		{ID: "b", Text: "second chunk", CreatedAt: "2026-08-28T00:00:01Z"},
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/list?offset=1&limit=1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res types.ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Chunks, 1)
	assert.Equal(t, "b", res.Chunks[0].ID)
}

func TestHandleDocumentsReturnsEverything(t *testing.T) {
	router, chunkRepo, _ := newChunksRouter(t)
	require.NoError(t, chunkRepo.CreateChunks(context.Background(), []types.ChunkRecord{
		{ID: "a", Text: "first chunk", Metadata: `{"filename":"doc.pdf"}`, CreatedAt: "2026-08-28T00:00:00Z"},
		{ID: "b", Text: "second chunk", CreatedAt: "2026-08-28T00:00:01Z"},
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res types.DocumentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Count)
	require.Len(t, res.Documents, 2)
	assert.Equal(t, "a", res.Documents[0].ID)
	assert.Equal(t, "doc.pdf", res.Documents[0].Metadata["filename"])
}

func TestHandleDeleteRequiresExactlyOneMode(t *testing.T) {
	router, _, _ := newChunksRouter(t)

	for _, body := range []string{
		`{}`,
		`{"ids": ["a"], "delete_all": true}`,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/delete", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code, body)
		var res types.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.NotEmpty(t, res.Error)
	}
}

func TestHandleDeleteByIDs(t *testing.T) {
	router, chunkRepo, store := newChunksRouter(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []database.VectorDocument{
		{ID: "a", Text: "one", Embedding: []float32{1, 0}},
		{ID: "b", Text: "two", Embedding: []float32{0, 1}},
	}))
	require.NoError(t, chunkRepo.CreateChunks(ctx, []types.ChunkRecord{
		{ID: "a", Text: "one"},
		{ID: "b", Text: "two"},
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/delete", strings.NewReader(`{"ids": ["a"]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, store.Count())
	ids, err := chunkRepo.ListIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)
}

func TestHandleStats(t *testing.T) {
	router, chunkRepo, _ := newChunksRouter(t)
	require.NoError(t, chunkRepo.CreateChunks(context.Background(), []types.ChunkRecord{
		{ID: "a", Text: "three word chunk", TokenCount: 3, CreatedAt: "2026-08-28T00:00:00Z"},
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res types.StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 1, res.TotalChunks)
	assert.Equal(t, 3, res.TotalTokens)
}
