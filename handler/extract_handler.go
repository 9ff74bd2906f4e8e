package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/rag-studio-be/service"
	"github.com/tieubaoca/rag-studio-be/types"
)

var supportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
	".md":   true,
}

type ExtractHandler struct {
	extract *service.ExtractService
	files   *service.FileService
}

func NewExtractHandler(extract *service.ExtractService, files *service.FileService) *ExtractHandler {
	return &ExtractHandler{extract: extract, files: files}
}

// HandleExtract saves the uploaded document and returns its cleaned text
// with the per-page breakdown.
func (h *ExtractHandler) HandleExtract(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "missing file upload"})
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !supportedExtensions[ext] {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "unsupported file type: " + ext})
		return
	}

	record, err := h.files.Upload(c.Request.Context(), file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	text, pages, err := h.extract.Extract(record.PhysicalPath, record.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.ExtractResult{
		Text:      text,
		Pages:     pages,
		Filename:  record.Filename,
		FileID:    record.ID,
		SavedPath: record.PhysicalPath,
	})
}
