package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/tieubaoca/rag-studio-be/database"
	"github.com/tieubaoca/rag-studio-be/repository"
	"github.com/tieubaoca/rag-studio-be/types"
	"github.com/tieubaoca/rag-studio-be/utils"
)

// FileService owns the lifecycle of uploaded documents: physical file,
// catalog record, and the vector chunks derived from them.
type FileService struct {
	uploadDir string
	fileRepo  repository.FileRepo
	chunkRepo repository.ChunkRepo
	store     *database.ChromaStore
}

func NewFileService(uploadDir string, fileRepo repository.FileRepo, chunkRepo repository.ChunkRepo, store *database.ChromaStore) *FileService {
	return &FileService{
		uploadDir: uploadDir,
		fileRepo:  fileRepo,
		chunkRepo: chunkRepo,
		store:     store,
	}
}

// Upload persists a multipart upload under a fresh uuid and records it
// with status uploaded.
func (s *FileService) Upload(ctx context.Context, file *multipart.FileHeader) (*types.FileRecord, error) {
	id := uuid.New().String()
	physical := id + filepath.Ext(file.Filename)
	savedPath, err := utils.SaveUploadedFile(file, s.uploadDir, physical)
	if err != nil {
		return nil, err
	}

	record := &types.FileRecord{
		ID:           id,
		Filename:     file.Filename,
		PhysicalPath: savedPath,
		Size:         file.Size,
		MimeType:     file.Header.Get("Content-Type"),
		Status:       types.FileStatusUploaded,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.fileRepo.CreateFile(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record uploaded file: %w", err)
	}
	return record, nil
}

func (s *FileService) ListFiles(ctx context.Context, status string) ([]types.FileRecord, error) {
	if status == "" {
		status = types.FileStatusChunked
	}
	return s.fileRepo.ListFiles(ctx, status)
}

// MarkChunked flips file records to chunked once their chunks have been
// stored in the knowledge base.
func (s *FileService) MarkChunked(ctx context.Context, fileIDs []string) error {
	for _, id := range fileIDs {
		if err := s.fileRepo.UpdateStatus(ctx, id, types.FileStatusChunked); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the file's vector chunks, its catalog entries, the
// physical file, and finally the record itself.
func (s *FileService) Delete(ctx context.Context, id string) error {
	record, err := s.fileRepo.GetFile(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteWhere(ctx, map[string]string{"file_id": id}); err != nil {
		return fmt.Errorf("failed to delete vector chunks: %w", err)
	}
	if err := s.chunkRepo.DeleteByFileID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete chunk catalog entries: %w", err)
	}
	if record.PhysicalPath != "" {
		if err := os.Remove(record.PhysicalPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete file from disk: %w", err)
		}
	}
	return s.fileRepo.DeleteFile(ctx, id)
}
