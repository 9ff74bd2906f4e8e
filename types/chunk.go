package types

import "github.com/uptrace/bun"

// Chunk is the retrieval unit: a text span plus metadata derived while
// splitting (pages covered, markdown section).
type Chunk struct {
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
}

type ChunkMetadata struct {
	PageNumbers []int  `json:"page_numbers,omitempty"`
	Section     string `json:"section,omitempty"`
}

// ChunkConfig is the flat per-strategy configuration record. Each
// strategy reads only the fields it cares about.
type ChunkConfig struct {
	ChunkSize         int      `json:"chunk_size,omitempty"`
	ChunkOverlap      int      `json:"chunk_overlap,omitempty"`
	MinChunkSize      int      `json:"min_chunk_size,omitempty"`
	SentencesPerChunk int      `json:"sentences_per_chunk,omitempty"`
	Overlap           int      `json:"overlap,omitempty"`
	SplitLevel        int      `json:"split_level,omitempty"`
	Threshold         float64  `json:"threshold,omitempty"`
	Separators        []string `json:"separators,omitempty"`
}

// ChunkMetrics summarizes one chunking run.
type ChunkMetrics struct {
	TotalChunks int     `json:"total_chunks"`
	AvgSize     float64 `json:"avg_size"`
	MinSize     int     `json:"min_size"`
	MaxSize     int     `json:"max_size"`
	ElapsedMs   float64 `json:"elapsed_ms"`
}

// StoredChunk is a chunk as it exists in the knowledge base.
type StoredChunk struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

// Source is a retrieved chunk cited in a query answer.
type Source struct {
	ChunkID  string            `json:"chunk_id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
	Score    float64           `json:"score"`
}

// ChunkRecord mirrors a stored chunk in the local catalog so listing,
// search and stats do not have to go through the vector index.
type ChunkRecord struct {
	bun.BaseModel `bun:"table:chunks"`

	ID         string `bun:"id,pk"`
	Text       string `bun:"text,notnull"`
	Metadata   string `bun:"metadata"`
	FileID     string `bun:"file_id"`
	TokenCount int    `bun:"token_count"`
	CreatedAt  string `bun:"created_at"`
}
