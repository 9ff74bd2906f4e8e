package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/rag-studio-be/service"
	"github.com/tieubaoca/rag-studio-be/types"
)

type QueryHandler struct {
	rag      *service.RAGService
	settings *service.SettingsService
}

func NewQueryHandler(rag *service.RAGService, settings *service.SettingsService) *QueryHandler {
	return &QueryHandler{rag: rag, settings: settings}
}

// HandleQuery answers a question against the knowledge base with the
// providers named in the request.
func (h *QueryHandler) HandleQuery(c *gin.Context) {
	var req types.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "query is required"})
		return
	}

	historyLimit := 0
	if settings, err := h.settings.Load(c.Request.Context()); err == nil {
		historyLimit = settings.ChatHistoryLimit
	}

	res, err := h.rag.Query(c.Request.Context(), req, historyLimit)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrUnknownProvider) {
			status = http.StatusBadRequest
		}
		c.JSON(status, types.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}
