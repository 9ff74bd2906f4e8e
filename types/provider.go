package types

// Provider names accepted by the resolver.
const (
	ProviderVertex = "vertex"
	ProviderOpenAI = "openai"
	ProviderAzure  = "azure"
	ProviderAWS    = "aws"
	ProviderLocal  = "local"
)

// ProviderConfig is a flat record holding everything any provider might
// need. Fields irrelevant to the selected provider are ignored.
type ProviderConfig struct {
	Type string `json:"type,omitempty"`

	// Vertex
	ProjectID       string `json:"project_id,omitempty"`
	Location        string `json:"location,omitempty"`
	CredentialsJSON string `json:"credentials_json,omitempty"`

	// OpenAI / Azure
	APIKey         string `json:"api_key,omitempty"`
	AzureEndpoint  string `json:"azure_endpoint,omitempty"`
	APIVersion     string `json:"api_version,omitempty"`
	DeploymentName string `json:"deployment_name,omitempty"`

	// AWS Bedrock
	RegionName      string `json:"region_name,omitempty"`
	AccessKeyID     string `json:"access_key_id,omitempty"`
	SecretAccessKey string `json:"secret_access_key,omitempty"`
	ModelID         string `json:"model_id,omitempty"`

	// Local (Ollama)
	BaseURL string `json:"base_url,omitempty"`

	ModelName string `json:"model_name,omitempty"`

	// Generation parameters (LLM only)
	SystemPrompt string   `json:"system_prompt,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	MaxTokens    int      `json:"max_tokens,omitempty"`
}
