package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/rag-studio-be/repository"
	"github.com/tieubaoca/rag-studio-be/service"
	"github.com/tieubaoca/rag-studio-be/types"
)

type FileHandler struct {
	files *service.FileService
}

func NewFileHandler(files *service.FileService) *FileHandler {
	return &FileHandler{files: files}
}

// HandleList returns uploaded files, filtered by status (default chunked).
func (h *FileHandler) HandleList(c *gin.Context) {
	status := c.Query("status")
	files, err := h.files.ListFiles(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}
	if files == nil {
		files = []types.FileRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

// HandleDelete removes a file and everything derived from it.
func (h *FileHandler) HandleDelete(c *gin.Context) {
	id := c.Param("id")
	err := h.files.Delete(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "file not found: " + id})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "id": id})
}
