package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tieubaoca/rag-studio-be/database"
	"github.com/tieubaoca/rag-studio-be/repository"
	"github.com/tieubaoca/rag-studio-be/types"
	"github.com/tieubaoca/rag-studio-be/utils"
)

const noDocumentsAnswer = "I could not find any relevant documents in the knowledge base to answer your question. Please upload and store some documents first."

// RAGService orchestrates ingestion into and retrieval from the
// knowledge base.
type RAGService struct {
	store       *database.ChromaStore
	chunkRepo   repository.ChunkRepo
	fileService *FileService
}

func NewRAGService(store *database.ChromaStore, chunkRepo repository.ChunkRepo, fileService *FileService) *RAGService {
	return &RAGService{
		store:       store,
		chunkRepo:   chunkRepo,
		fileService: fileService,
	}
}

// Store embeds the request's chunks and persists them to the vector
// store and the chunk catalog. Files referenced by the stored metadata
// are marked chunked.
func (s *RAGService) Store(ctx context.Context, req types.StoreRequest) (int, error) {
	embedder, err := ResolveEmbeddingProvider(req.Provider, req.Config)
	if err != nil {
		return 0, err
	}
	return s.storeWith(ctx, embedder, req)
}

func (s *RAGService) storeWith(ctx context.Context, embedder EmbeddingProvider, req types.StoreRequest) (int, error) {
	if len(req.Chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(req.Chunks))
	for i, c := range req.Chunks {
		texts[i] = c.Text
	}
	embeddings, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(embeddings) != len(req.Chunks) {
		return 0, fmt.Errorf("provider returned %d embeddings for %d chunks", len(embeddings), len(req.Chunks))
	}

	now := time.Now().UTC().Format(time.RFC3339)
	docs := make([]database.VectorDocument, 0, len(req.Chunks))
	records := make([]types.ChunkRecord, 0, len(req.Chunks))
	fileIDs := map[string]bool{}

	for i, chunk := range req.Chunks {
		metadata := chunkMetadataMap(chunk.Metadata)
		if i < len(req.Metadatas) {
			for k, v := range req.Metadatas[i] {
				if v == nil {
					continue
				}
				metadata[k] = metadataString(v)
			}
		}
		metadata["created_at"] = now
		if id := metadata["file_id"]; id != "" {
			fileIDs[id] = true
		}

		id := uuid.New().String()
		docs = append(docs, database.VectorDocument{
			ID:        id,
			Text:      chunk.Text,
			Metadata:  metadata,
			Embedding: embeddings[i],
		})

		metaJSON, _ := json.Marshal(metadata)
		records = append(records, types.ChunkRecord{
			ID:         id,
			Text:       chunk.Text,
			Metadata:   string(metaJSON),
			FileID:     metadata["file_id"],
			TokenCount: utils.CountTokens(chunk.Text),
			CreatedAt:  now,
		})
	}

	if err := s.store.Upsert(ctx, docs); err != nil {
		return 0, err
	}
	if err := s.chunkRepo.CreateChunks(ctx, records); err != nil {
		return 0, fmt.Errorf("failed to catalog chunks: %w", err)
	}

	if len(fileIDs) > 0 {
		ids := make([]string, 0, len(fileIDs))
		for id := range fileIDs {
			ids = append(ids, id)
		}
		if err := s.fileService.MarkChunked(ctx, ids); err != nil {
			log.Warn().Err(err).Msg("failed to mark files as chunked")
		}
	}
	return len(docs), nil
}

// Query answers a question against the knowledge base. historyLimit
// bounds how many of the most recent turns reach the prompt; 0 keeps
// them all.
func (s *RAGService) Query(ctx context.Context, req types.QueryRequest, historyLimit int) (*types.QueryResponse, error) {
	embedder, err := ResolveEmbeddingProvider(req.EmbeddingProvider, req.EmbeddingConfig)
	if err != nil {
		return nil, err
	}
	llm, err := ResolveLLMProvider(req.LLMProvider, req.LLMConfig)
	if err != nil {
		return nil, err
	}
	return s.queryWith(ctx, embedder, llm, req, historyLimit)
}

func (s *RAGService) queryWith(ctx context.Context, embedder EmbeddingProvider, llm LLMProvider, req types.QueryRequest, historyLimit int) (*types.QueryResponse, error) {
	k := req.NResults
	if k <= 0 {
		k = 5
	}

	queryEmbedding, err := embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	// Overfetch so the score filter still has k candidates to choose from.
	results, err := s.store.Query(ctx, queryEmbedding, 2*k, nil)
	if err != nil {
		return nil, err
	}

	var sources []types.Source
	for _, r := range results {
		if r.Score < req.MinScore {
			continue
		}
		sources = append(sources, types.Source{
			ChunkID:  r.ID,
			Text:     r.Text,
			Metadata: r.Metadata,
			Score:    r.Score,
		})
		if len(sources) == k {
			break
		}
	}

	history := req.History
	if historyLimit > 0 && len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	if len(sources) == 0 && len(history) == 0 {
		return &types.QueryResponse{
			Answer:  noDocumentsAnswer,
			Sources: []types.Source{},
			Query:   req.Query,
		}, nil
	}

	prompt := buildPrompt(req.Query, sources, history)
	temperature := 0.7
	if req.LLMConfig.Temperature != nil {
		temperature = *req.LLMConfig.Temperature
	}
	answer, err := llm.Generate(ctx, req.LLMConfig.SystemPrompt, prompt, temperature, req.LLMConfig.MaxTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	if sources == nil {
		sources = []types.Source{}
	}
	return &types.QueryResponse{
		Answer:  answer,
		Sources: sources,
		Query:   req.Query,
	}, nil
}

func buildPrompt(query string, sources []types.Source, history []types.Message) string {
	var b strings.Builder
	b.WriteString("Answer the question using the documents below. Cite only what the documents support; say so when they do not contain the answer.\n\n")

	if len(sources) > 0 {
		for i, src := range sources {
			fmt.Fprintf(&b, "Document %d:\n%s\n\n", i+1, src.Text)
		}
	} else {
		b.WriteString("No documents matched the question.\n\n")
	}

	if len(history) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, m := range history {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Question: %s", query)
	return b.String()
}

func chunkMetadataMap(m types.ChunkMetadata) map[string]string {
	out := map[string]string{}
	if len(m.PageNumbers) > 0 {
		parts := make([]string, len(m.PageNumbers))
		for i, p := range m.PageNumbers {
			parts[i] = strconv.Itoa(p)
		}
		out["page_numbers"] = strings.Join(parts, ",")
	}
	if m.Section != "" {
		out["section"] = m.Section
	}
	return out
}

// metadataString flattens arbitrary JSON metadata values; chromem only
// stores string maps.
func metadataString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		raw, _ := json.Marshal(t)
		return string(raw)
	}
}
