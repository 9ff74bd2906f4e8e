package types

type ChunkRequest struct {
	Text           string          `json:"text"`
	Strategy       string          `json:"strategy"`
	Config         ChunkConfig     `json:"config"`
	ProviderConfig *ProviderConfig `json:"provider_config,omitempty"`
	Pages          []Page          `json:"pages,omitempty"`
}

type EmbedRequest struct {
	Texts    []string       `json:"texts"`
	Provider string         `json:"provider"`
	Config   ProviderConfig `json:"config"`
}

// StoreRequest carries chunks to embed and persist. Metadatas are
// positional and merged over each chunk's own metadata.
type StoreRequest struct {
	Chunks    []Chunk                  `json:"chunks"`
	Metadatas []map[string]interface{} `json:"metadatas,omitempty"`
	Provider  string                   `json:"provider"`
	Config    ProviderConfig           `json:"config"`
}

type QueryRequest struct {
	Query             string         `json:"query"`
	EmbeddingProvider string         `json:"embedding_provider,omitempty"`
	EmbeddingConfig   ProviderConfig `json:"embedding_config,omitempty"`
	LLMProvider       string         `json:"llm_provider,omitempty"`
	LLMConfig         ProviderConfig `json:"llm_config,omitempty"`
	NResults          int            `json:"n_results,omitempty"`
	MinScore          float64        `json:"min_score,omitempty"`
	History           []Message      `json:"history,omitempty"`
}

type DeleteRequest struct {
	IDs       []string `json:"ids,omitempty"`
	DeleteAll bool     `json:"delete_all,omitempty"`
}

type VisualizeRequest struct {
	Texts       []string       `json:"texts"`
	Provider    string         `json:"provider"`
	Config      ProviderConfig `json:"config"`
	Method      string         `json:"method,omitempty"`
	NComponents int            `json:"n_components,omitempty"`
}
