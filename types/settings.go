package types

// SecretMask is what GET /settings returns in place of stored secrets.
// Sending the mask back on POST keeps the stored value.
const SecretMask = "********"

// Settings is the singleton application settings record. JSON keys are
// camelCase to match the frontend's localStorage shape.
type Settings struct {
	EmbeddingProvider string `json:"embeddingProvider"`
	LLMProvider       string `json:"llmProvider"`

	// Global generation parameters
	SystemContext     string  `json:"systemContext"`
	RetrievalAccuracy float64 `json:"retrievalAccuracy"`
	ChatHistoryLimit  int     `json:"chatHistoryLimit"`
	Temperature       float64 `json:"temperature"`
	MaxTokens         int     `json:"maxTokens"`

	// Vertex
	VertexProjectID       string `json:"vertexProjectId"`
	VertexLocation        string `json:"vertexLocation"`
	VertexModel           string `json:"vertexModel"`
	VertexLLMModel        string `json:"vertexLLMModel"`
	VertexCredentialsJSON string `json:"vertexCredentialsJSON"`

	// OpenAI
	OpenAIAPIKey   string `json:"openaiApiKey"`
	OpenAIModel    string `json:"openaiModel"`
	OpenAILLMModel string `json:"openaiLLMModel"`

	// Local (Ollama)
	LocalModel    string `json:"localModel"`
	LocalLLMModel string `json:"localLLMModel"`
	LocalBaseURL  string `json:"localBaseURL"`

	// Azure
	AzureAPIKey     string `json:"azureApiKey"`
	AzureEndpoint   string `json:"azureEndpoint"`
	AzureAPIVersion string `json:"azureApiVersion"`
	AzureDeployment string `json:"azureDeployment"`

	// AWS
	AWSRegion          string `json:"awsRegion"`
	AWSAccessKeyID     string `json:"awsAccessKeyId"`
	AWSSecretAccessKey string `json:"awsSecretAccessKey"`
	AWSModel           string `json:"awsModel"`
}

// DefaultSettings mirrors the frontend defaults.
func DefaultSettings() Settings {
	return Settings{
		EmbeddingProvider: ProviderLocal,
		LLMProvider:       ProviderVertex,
		RetrievalAccuracy: 0.0,
		ChatHistoryLimit:  5,
		Temperature:       0.7,
		MaxTokens:         2048,
		VertexLocation:    "us-central1",
		VertexModel:       "text-embedding-004",
		VertexLLMModel:    "gemini-2.5-pro",
		OpenAIModel:       "text-embedding-3-small",
		OpenAILLMModel:    "gpt-4o-mini",
		LocalModel:        "nomic-embed-text",
		LocalLLMModel:     "llama3",
		LocalBaseURL:      "http://localhost:11434",
		AzureAPIVersion:   "2023-05-15",
		AWSRegion:         "us-east-1",
		AWSModel:          "amazon.titan-embed-text-v1",
	}
}

// SecretFields returns pointers to every field that must be encrypted at
// rest and masked on read.
func (s *Settings) SecretFields() []*string {
	return []*string{
		&s.VertexCredentialsJSON,
		&s.OpenAIAPIKey,
		&s.AzureAPIKey,
		&s.AWSAccessKeyID,
		&s.AWSSecretAccessKey,
	}
}

// EmbeddingConfig resolves the stored settings into the ProviderConfig for
// the selected embedding provider.
func (s *Settings) EmbeddingConfig() ProviderConfig {
	cfg := ProviderConfig{Type: s.EmbeddingProvider}
	switch s.EmbeddingProvider {
	case ProviderVertex:
		cfg.ProjectID = s.VertexProjectID
		cfg.Location = s.VertexLocation
		cfg.ModelName = s.VertexModel
		cfg.CredentialsJSON = s.VertexCredentialsJSON
	case ProviderOpenAI:
		cfg.APIKey = s.OpenAIAPIKey
		cfg.ModelName = s.OpenAIModel
	case ProviderAzure:
		cfg.APIKey = s.AzureAPIKey
		cfg.AzureEndpoint = s.AzureEndpoint
		cfg.APIVersion = s.AzureAPIVersion
		cfg.DeploymentName = s.AzureDeployment
	case ProviderAWS:
		cfg.RegionName = s.AWSRegion
		cfg.AccessKeyID = s.AWSAccessKeyID
		cfg.SecretAccessKey = s.AWSSecretAccessKey
		cfg.ModelID = s.AWSModel
	case ProviderLocal:
		cfg.ModelName = s.LocalModel
		cfg.BaseURL = s.LocalBaseURL
	}
	return cfg
}

// LLMConfig resolves the stored settings into the ProviderConfig for the
// selected LLM provider, including global generation parameters.
func (s *Settings) LLMConfig() ProviderConfig {
	temp := s.Temperature
	cfg := ProviderConfig{
		Type:         s.LLMProvider,
		SystemPrompt: s.SystemContext,
		Temperature:  &temp,
		MaxTokens:    s.MaxTokens,
	}
	switch s.LLMProvider {
	case ProviderVertex:
		cfg.ProjectID = s.VertexProjectID
		cfg.Location = s.VertexLocation
		cfg.ModelName = s.VertexLLMModel
		cfg.CredentialsJSON = s.VertexCredentialsJSON
	case ProviderOpenAI:
		cfg.APIKey = s.OpenAIAPIKey
		cfg.ModelName = s.OpenAILLMModel
	case ProviderAzure:
		cfg.APIKey = s.AzureAPIKey
		cfg.AzureEndpoint = s.AzureEndpoint
		cfg.APIVersion = s.AzureAPIVersion
		cfg.DeploymentName = s.AzureDeployment
	case ProviderLocal:
		cfg.ModelName = s.LocalLLMModel
		cfg.BaseURL = s.LocalBaseURL
	}
	return cfg
}
