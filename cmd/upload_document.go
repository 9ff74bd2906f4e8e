/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tieubaoca/rag-studio-be/config"
	"github.com/tieubaoca/rag-studio-be/database"
	"github.com/tieubaoca/rag-studio-be/repository"
	"github.com/tieubaoca/rag-studio-be/service"
	"github.com/tieubaoca/rag-studio-be/types"
	"github.com/tieubaoca/rag-studio-be/utils"
)

// uploadDocumentCmd ingests one document from the command line without
// going through the HTTP surface. It uses the stored settings for the
// embedding provider.
var uploadDocumentCmd = &cobra.Command{
	Use:   "upload-document",
	Short: "Extract, chunk and store a local document",
	Run: func(cmd *cobra.Command, args []string) {
		filePath, _ := cmd.Flags().GetString("file")
		strategy, _ := cmd.Flags().GetString("strategy")
		chunkSize, _ := cmd.Flags().GetInt("chunk-size")
		overlap, _ := cmd.Flags().GetInt("overlap")
		if filePath == "" {
			log.Fatal().Msg("--file is required")
		}

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}
		db, err := database.NewSQLiteDB(cfg.DatabasePath, cfg.DebugSQL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open local database")
		}
		store, err := database.NewChromaStore(cfg.ChromaPath, cfg.CollectionName)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open vector store")
		}

		fileRepo := repository.NewFileRepo(db)
		chunkRepo := repository.NewChunkRepo(db)
		settingsService := service.NewSettingsService(repository.NewSettingsRepo(db), cfg.EncryptionKey, cfg.OllamaURL)
		fileService := service.NewFileService(cfg.UploadDir, fileRepo, chunkRepo, store)
		ragService := service.NewRAGService(store, chunkRepo, fileService)

		ctx := context.Background()
		if ids, err := chunkRepo.ListIDs(ctx); err == nil && len(ids) > 0 {
			if err := store.SeedDimension(ctx, ids[0]); err != nil {
				log.Warn().Err(err).Msg("could not seed vector dimension from stored chunks")
			}
		}
		settings, err := settingsService.Load(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load settings")
		}

		filename := filepath.Base(filePath)
		info, err := os.Stat(filePath)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot read input file")
		}
		record := &types.FileRecord{
			ID:           uuid.New().String(),
			Filename:     filename,
			PhysicalPath: filePath,
			Size:         info.Size(),
			MimeType:     mime.TypeByExtension(filepath.Ext(filename)),
			Status:       types.FileStatusUploaded,
			CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		}
		if err := fileRepo.CreateFile(ctx, record); err != nil {
			log.Fatal().Err(err).Msg("failed to record file")
		}

		text, pages, err := service.NewExtractService().Extract(filePath, filename)
		if err != nil {
			log.Fatal().Err(err).Msg("extraction failed")
		}

		chunkCfg := types.ChunkConfig{ChunkSize: chunkSize, ChunkOverlap: overlap}
		var embedder service.EmbeddingProvider
		if strategy == service.StrategySemantic {
			embedder, err = service.ResolveEmbeddingProvider(settings.EmbeddingProvider, settings.EmbeddingConfig())
			if err != nil {
				log.Fatal().Err(err).Msg("failed to resolve embedding provider")
			}
		}
		chunker, err := service.NewChunker(strategy, chunkCfg, embedder)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid chunking strategy")
		}
		chunks, metrics, err := service.ChunkWithMetrics(ctx, chunker, text, pages)
		if err != nil {
			log.Fatal().Err(err).Msg("chunking failed")
		}

		metadatas := make([]map[string]interface{}, len(chunks))
		for i := range chunks {
			metadatas[i] = map[string]interface{}{
				"file_id":  record.ID,
				"filename": filename,
				"title":    utils.GetFileNameWithoutExt(filename),
			}
		}
		count, err := ragService.Store(ctx, types.StoreRequest{
			Chunks:    chunks,
			Metadatas: metadatas,
			Provider:  settings.EmbeddingProvider,
			Config:    settings.EmbeddingConfig(),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("store failed")
		}
		log.Info().
			Int("chunks", count).
			Float64("avg_size", metrics.AvgSize).
			Str("file_id", record.ID).
			Msg("document ingested")
	},
}

func init() {
	rootCmd.AddCommand(uploadDocumentCmd)
	uploadDocumentCmd.Flags().StringP("file", "f", "", "path to the document")
	uploadDocumentCmd.Flags().StringP("strategy", "s", "paragraph", "chunking strategy")
	uploadDocumentCmd.Flags().Int("chunk-size", 1000, "chunk size in characters")
	uploadDocumentCmd.Flags().Int("overlap", 200, "chunk overlap in characters")
}
