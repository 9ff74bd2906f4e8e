/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tieubaoca/rag-studio-be/config"
	"github.com/tieubaoca/rag-studio-be/database"
	"github.com/tieubaoca/rag-studio-be/handler"
	"github.com/tieubaoca/rag-studio-be/middleware"
	"github.com/tieubaoca/rag-studio-be/repository"
	"github.com/tieubaoca/rag-studio-be/service"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the RAG backend server",
	Long:  `Starts the HTTP server that powers the RAG studio frontend.`,
	Run: func(cmd *cobra.Command, args []string) {
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
		settingsRepo := repository.NewSettingsRepo(db)
		chunkRepo := repository.NewChunkRepo(db)

		// Restore the vector dimension guard from whatever a previous run
		// persisted, so mismatched embeddings are rejected after a restart.
		if ids, err := chunkRepo.ListIDs(cmd.Context()); err == nil && len(ids) > 0 {
			if err := store.SeedDimension(cmd.Context(), ids[0]); err != nil {
				log.Warn().Err(err).Msg("could not seed vector dimension from stored chunks")
			}
		}

		extractService := service.NewExtractService()
		fileService := service.NewFileService(cfg.UploadDir, fileRepo, chunkRepo, store)
		settingsService := service.NewSettingsService(settingsRepo, cfg.EncryptionKey, cfg.OllamaURL)
		ragService := service.NewRAGService(store, chunkRepo, fileService)
		projectorService := service.NewProjectorService(store, chunkRepo)
		wsService := service.NewWebSocketService(ragService, settingsService)

		corsHandler := handler.NewCorsHandler(cfg.CORSOrigins)
		healthHandler := handler.NewHealthHandler()
		settingsHandler := handler.NewSettingsHandler(settingsService)
		extractHandler := handler.NewExtractHandler(extractService, fileService)
		chunkHandler := handler.NewChunkHandler()
		storeHandler := handler.NewStoreHandler(ragService)
		queryHandler := handler.NewQueryHandler(ragService, settingsService)
		chunksHandler := handler.NewChunksHandler(chunkRepo, store)
		fileHandler := handler.NewFileHandler(fileService)
		visualizeHandler := handler.NewVisualizeHandler(projectorService)
		wsHandler := handler.NewWebSocketHandler(wsService)

		gin.SetMode(gin.ReleaseMode)
		router := gin.New()
		router.Use(gin.Recovery())
		router.Use(middleware.RequestLogger())
		router.Use(corsHandler.CorsMiddleware)

		router.GET("/", healthHandler.HandleRoot)
		router.GET("/health", healthHandler.HandleHealth)
		router.GET("/settings", settingsHandler.HandleGet)
		router.POST("/settings", settingsHandler.HandleSave)
		router.POST("/extract", extractHandler.HandleExtract)
		router.POST("/chunk", chunkHandler.HandleChunk)
		router.POST("/embed", chunkHandler.HandleEmbed)
		router.POST("/store", storeHandler.HandleStore)
		router.POST("/query", queryHandler.HandleQuery)
		router.GET("/documents", chunksHandler.HandleDocuments)
		router.GET("/list", chunksHandler.HandleList)
		router.GET("/stats", chunksHandler.HandleStats)
		router.DELETE("/delete", chunksHandler.HandleDelete)
		router.GET("/files", fileHandler.HandleList)
		router.DELETE("/files/:id", fileHandler.HandleDelete)
		router.POST("/visualize", visualizeHandler.HandleVisualize)
		router.GET("/visualize_stored", visualizeHandler.HandleVisualizeStored)
		router.GET("/ws", wsHandler.HandleChat)

		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
