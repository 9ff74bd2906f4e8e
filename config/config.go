package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// DevEncryptionKey protects settings secrets at rest when no
// SETTINGS_ENCRYPTION_KEY is configured. It keeps the local demo
// working out of the box; set a real key for anything beyond that.
const DevEncryptionKey = "rag-studio-local-dev-key"

type Config struct {
	Port           string   `mapstructure:"port"`
	UploadDir      string   `mapstructure:"upload_dir"`
	DatabasePath   string   `mapstructure:"database_path"`
	ChromaPath     string   `mapstructure:"chroma_path"`
	CollectionName string   `mapstructure:"collection_name"`
	EncryptionKey  string   `mapstructure:"SETTINGS_ENCRYPTION_KEY"`
	OllamaURL      string   `mapstructure:"ollama_url"`
	CORSOrigins    []string `mapstructure:"cors_origins"`
	DebugSQL       bool     `mapstructure:"debug_sql"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("port", "8000")
	v.SetDefault("upload_dir", "./uploads")
	v.SetDefault("database_path", "./data/rag_app.db")
	v.SetDefault("chroma_path", "./chroma_db")
	v.SetDefault("collection_name", "rag_collection")
	v.SetDefault("ollama_url", "http://localhost:11434")
	v.SetDefault("cors_origins", []string{
		"http://localhost:5173",
		"http://localhost:3000",
		"http://localhost:5174",
	})

	v.AutomaticEnv()
	v.BindEnv("SETTINGS_ENCRYPTION_KEY")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine for a local demo, defaults and
		// environment variables carry the rest.
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.EncryptionKey == "" {
		log.Warn().Msg("SETTINGS_ENCRYPTION_KEY not set, falling back to the built-in development key")
		config.EncryptionKey = DevEncryptionKey
	}

	return &config, nil
}
