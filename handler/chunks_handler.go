package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/rag-studio-be/database"
	"github.com/tieubaoca/rag-studio-be/repository"
	"github.com/tieubaoca/rag-studio-be/types"
)

// ChunksHandler serves the knowledge-base inspection endpoints: listing,
// stats and deletion.
type ChunksHandler struct {
	chunkRepo repository.ChunkRepo
	store     *database.ChromaStore
}

func NewChunksHandler(chunkRepo repository.ChunkRepo, store *database.ChromaStore) *ChunksHandler {
	return &ChunksHandler{chunkRepo: chunkRepo, store: store}
}

func (h *ChunksHandler) HandleList(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	search := c.Query("q")

	records, total, err := h.chunkRepo.ListChunks(c.Request.Context(), offset, limit, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	chunks := make([]types.StoredChunk, 0, len(records))
	for _, r := range records {
		metadata := map[string]string{}
		if r.Metadata != "" {
			_ = json.Unmarshal([]byte(r.Metadata), &metadata)
		}
		chunks = append(chunks, types.StoredChunk{
			ID:       r.ID,
			Text:     r.Text,
			Metadata: metadata,
		})
	}

	c.JSON(http.StatusOK, types.ListResponse{
		Chunks: chunks,
		Total:  total,
		Offset: offset,
		Limit:  limit,
		Q:      search,
	})
}

// HandleDocuments dumps the whole knowledge base without pagination,
// for small local collections where the frontend wants everything at
// once.
func (h *ChunksHandler) HandleDocuments(c *gin.Context) {
	records, _, err := h.chunkRepo.ListChunks(c.Request.Context(), 0, 0, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	documents := make([]types.StoredChunk, 0, len(records))
	for _, r := range records {
		metadata := map[string]string{}
		if r.Metadata != "" {
			_ = json.Unmarshal([]byte(r.Metadata), &metadata)
		}
		documents = append(documents, types.StoredChunk{
			ID:       r.ID,
			Text:     r.Text,
			Metadata: metadata,
		})
	}

	c.JSON(http.StatusOK, types.DocumentsResponse{
		Documents: documents,
		Count:     len(documents),
	})
}

func (h *ChunksHandler) HandleStats(c *gin.Context) {
	total, tokens, lastUpdated, err := h.chunkRepo.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, types.StatsResponse{
		TotalChunks: total,
		TotalTokens: tokens,
		LastUpdated: lastUpdated,
	})
}

// HandleDelete removes chunks by id or wipes the knowledge base. The
// request must carry exactly one of ids or delete_all.
func (h *ChunksHandler) HandleDelete(c *gin.Context) {
	var req types.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.DeleteAll == (len(req.IDs) > 0) {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "provide either ids or delete_all"})
		return
	}

	ctx := c.Request.Context()
	if req.DeleteAll {
		if err := h.store.DeleteAll(ctx); err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
			return
		}
		if err := h.chunkRepo.DeleteAll(ctx); err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, types.DeleteResponse{
			Status:  "success",
			Message: "all chunks deleted",
		})
		return
	}

	if err := h.store.Delete(ctx, req.IDs...); err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.chunkRepo.DeleteChunks(ctx, req.IDs); err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, types.DeleteResponse{
		Status:     "success",
		Message:    "chunks deleted",
		DeletedIDs: req.IDs,
	})
}
