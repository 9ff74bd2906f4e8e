package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/rag-studio-be/service"
	"github.com/tieubaoca/rag-studio-be/types"
)

type VisualizeHandler struct {
	projector *service.ProjectorService
}

func NewVisualizeHandler(projector *service.ProjectorService) *VisualizeHandler {
	return &VisualizeHandler{projector: projector}
}

// HandleVisualize embeds ad-hoc texts and projects them to 2D/3D.
func (h *VisualizeHandler) HandleVisualize(c *gin.Context) {
	var req types.VisualizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid request body"})
		return
	}
	if len(req.Texts) == 0 {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "texts is required"})
		return
	}

	embedder, err := service.ResolveEmbeddingProvider(req.Provider, req.Config)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}
	embeddings, err := embedder.EmbedBatch(c.Request.Context(), req.Texts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	points, err := h.projector.Project(embeddings, req.Method, req.NComponents)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}

	method := req.Method
	if method == "" {
		method = "pca"
	}
	c.JSON(http.StatusOK, types.VisualizeResponse{
		Points:      points,
		Total:       len(points),
		Method:      method,
		NComponents: req.NComponents,
	})
}

// HandleVisualizeStored projects every stored vector.
func (h *VisualizeHandler) HandleVisualizeStored(c *gin.Context) {
	method := c.DefaultQuery("method", "pca")
	nComponents, err := strconv.Atoi(c.DefaultQuery("n_components", "2"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid n_components"})
		return
	}

	points, err := h.projector.ProjectStored(c.Request.Context(), method, nComponents)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, types.VisualizeResponse{
		Points:      points,
		Total:       len(points),
		Method:      method,
		NComponents: nComponents,
	})
}
