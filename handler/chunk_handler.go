package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/rag-studio-be/service"
	"github.com/tieubaoca/rag-studio-be/types"
)

type ChunkHandler struct{}

func NewChunkHandler() *ChunkHandler {
	return &ChunkHandler{}
}

// HandleChunk splits text with the requested strategy. The semantic
// strategy needs a provider_config to embed sentences with.
func (h *ChunkHandler) HandleChunk(c *gin.Context) {
	var req types.ChunkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Strategy == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "strategy is required"})
		return
	}

	var embedder service.EmbeddingProvider
	if req.Strategy == service.StrategySemantic {
		if req.ProviderConfig == nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "semantic chunking requires provider_config"})
			return
		}
		var err error
		embedder, err = service.ResolveEmbeddingProvider(req.ProviderConfig.Type, *req.ProviderConfig)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
			return
		}
	}

	chunker, err := service.NewChunker(req.Strategy, req.Config, embedder)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}

	chunks, metrics, err := service.ChunkWithMetrics(c.Request.Context(), chunker, req.Text, req.Pages)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}
	if chunks == nil {
		chunks = []types.Chunk{}
	}
	c.JSON(http.StatusOK, types.ChunkResponse{Chunks: chunks, Metrics: metrics})
}

// HandleEmbed embeds raw texts with the requested provider.
func (h *ChunkHandler) HandleEmbed(c *gin.Context) {
	var req types.EmbedRequest
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

	dimension := embedder.Dimension()
	if len(embeddings) > 0 {
		dimension = len(embeddings[0])
	}
	c.JSON(http.StatusOK, types.EmbedResponse{
		Embeddings: embeddings,
		Count:      len(embeddings),
		Dimension:  dimension,
	})
}
