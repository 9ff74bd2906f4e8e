package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/rag-studio-be/database"
	"github.com/tieubaoca/rag-studio-be/service"
	"github.com/tieubaoca/rag-studio-be/types"
)

type StoreHandler struct {
	rag *service.RAGService
}

func NewStoreHandler(rag *service.RAGService) *StoreHandler {
	return &StoreHandler{rag: rag}
}

// HandleStore embeds and persists chunks into the knowledge base.
func (h *StoreHandler) HandleStore(c *gin.Context) {
	var req types.StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid request body"})
		return
	}
	if len(req.Chunks) == 0 {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "chunks is required"})
		return
	}

	count, err := h.rag.Store(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, database.ErrDimensionMismatch) || errors.Is(err, service.ErrUnknownProvider) {
			status = http.StatusBadRequest
		}
		c.JSON(status, types.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.StoreResponse{
		Status:  "success",
		Count:   count,
		Message: fmt.Sprintf("stored %d chunks", count),
	})
}
