package types

// ErrorResponse is the single error body every handler returns.
type ErrorResponse struct {
	Error string `json:"error"`
}

type ChunkResponse struct {
	Chunks  []Chunk      `json:"chunks"`
	Metrics ChunkMetrics `json:"metrics"`
}

type EmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Count      int         `json:"count"`
	Dimension  int         `json:"dimension"`
}

type StoreResponse struct {
	Status  string `json:"status"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

type QueryResponse struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
	Query   string   `json:"query"`
}

type ListResponse struct {
	Chunks []StoredChunk `json:"chunks"`
	Total  int           `json:"total"`
	Offset int           `json:"offset"`
	Limit  int           `json:"limit"`
	Q      string        `json:"q,omitempty"`
}

type DocumentsResponse struct {
	Documents []StoredChunk `json:"documents"`
	Count     int           `json:"count"`
}

type StatsResponse struct {
	TotalChunks int    `json:"total_chunks"`
	TotalTokens int    `json:"total_tokens"`
	LastUpdated string `json:"last_updated,omitempty"`
}

type DeleteResponse struct {
	Status     string   `json:"status"`
	Message    string   `json:"message"`
	DeletedIDs []string `json:"deleted_ids,omitempty"`
}

// Point is one projected vector for the visualization view.
type Point struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Z           *float64 `json:"z,omitempty"`
	ID          string  `json:"id,omitempty"`
	Source      string  `json:"source,omitempty"`
	TextPreview string  `json:"text_preview,omitempty"`
	TokenCount  int     `json:"token_count,omitempty"`
}

type VisualizeResponse struct {
	Points      []Point `json:"points"`
	Total       int     `json:"total"`
	Method      string  `json:"method"`
	NComponents int     `json:"n_components,omitempty"`
}
