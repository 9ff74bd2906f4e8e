package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/philippgille/chromem-go"
)

// ErrDimensionMismatch is returned when a vector's dimensionality does not
// match what the collection already holds. A provider mismatch between
// ingestion and query time surfaces here instead of producing garbage
// similarities.
var ErrDimensionMismatch = errors.New("embedding dimension does not match stored collection")

// VectorDocument is one entry in the vector store.
type VectorDocument struct {
	ID        string
	Text      string
	Metadata  map[string]string
	Embedding []float32
}

// VectorResult is a similarity-search hit.
type VectorResult struct {
	ID       string
	Text     string
	Metadata map[string]string
	Score    float64
}

// ChromaStore wraps one chromem-go collection. All embeddings are
// computed by the caller; chromem never embeds anything itself.
type ChromaStore struct {
	db             *chromem.DB
	collection     *chromem.Collection
	collectionName string
	dimension      int
}

// rejectingEmbeddingFunc guards against any code path that would make
// chromem embed on its own.
func rejectingEmbeddingFunc(_ context.Context, _ string) ([]float32, error) {
	return nil, errors.New("embeddings must be provided explicitly")
}

// NewChromaStore opens (or creates) a persistent collection under path.
func NewChromaStore(path, collectionName string) (*ChromaStore, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector database: %w", err)
	}
	return newStore(db, collectionName)
}

// NewMemoryChromaStore creates an in-memory store, used by tests.
func NewMemoryChromaStore(collectionName string) (*ChromaStore, error) {
	return newStore(chromem.NewDB(), collectionName)
}

func newStore(db *chromem.DB, collectionName string) (*ChromaStore, error) {
	collection, err := db.GetOrCreateCollection(collectionName, nil, rejectingEmbeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %w", err)
	}
	return &ChromaStore{
		db:             db,
		collection:     collection,
		collectionName: collectionName,
	}, nil
}

// SeedDimension restores the dimensionality guard from a document that
// is already persisted. The guard otherwise starts at zero on every
// process start, which would let a mismatched upsert or query through
// after a restart.
func (s *ChromaStore) SeedDimension(ctx context.Context, id string) error {
	if s.dimension != 0 || id == "" {
		return nil
	}
	doc, err := s.collection.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to seed dimension from %s: %w", id, err)
	}
	s.dimension = len(doc.Embedding)
	return nil
}

// Upsert adds documents with precomputed embeddings. All vectors must
// share one dimensionality, and it must match whatever the collection
// already holds.
func (s *ChromaStore) Upsert(ctx context.Context, docs []VectorDocument) error {
	if len(docs) == 0 {
		return nil
	}

	dim := len(docs[0].Embedding)
	for _, d := range docs {
		if len(d.Embedding) != dim {
			return ErrDimensionMismatch
		}
	}
	if s.dimension != 0 && s.dimension != dim {
		return fmt.Errorf("%w: got %d, collection has %d", ErrDimensionMismatch, dim, s.dimension)
	}

	chromemDocs := make([]chromem.Document, 0, len(docs))
	for _, d := range docs {
		chromemDocs = append(chromemDocs, chromem.Document{
			ID:        d.ID,
			Content:   d.Text,
			Metadata:  d.Metadata,
			Embedding: d.Embedding,
		})
	}
	if err := s.collection.AddDocuments(ctx, chromemDocs, 1); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	s.dimension = dim
	return nil
}

// Query runs a similarity search. k is clamped to the collection size; an
// empty collection yields an empty result, not an error.
func (s *ChromaStore) Query(ctx context.Context, embedding []float32, k int, where map[string]string) ([]VectorResult, error) {
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if s.dimension != 0 && len(embedding) != s.dimension {
		return nil, fmt.Errorf("%w: query has %d, collection has %d", ErrDimensionMismatch, len(embedding), s.dimension)
	}
	if k > count {
		k = count
	}
	if k <= 0 {
		k = 1
	}

	results, err := s.collection.QueryEmbedding(ctx, embedding, k, where, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}

	out := make([]VectorResult, 0, len(results))
	for _, r := range results {
		out = append(out, VectorResult{
			ID:       r.ID,
			Text:     r.Content,
			Metadata: r.Metadata,
			Score:    float64(r.Similarity),
		})
	}
	return out, nil
}

// GetByID fetches one stored document, embedding included.
func (s *ChromaStore) GetByID(ctx context.Context, id string) (VectorDocument, error) {
	doc, err := s.collection.GetByID(ctx, id)
	if err != nil {
		return VectorDocument{}, fmt.Errorf("failed to get document %s: %w", id, err)
	}
	return VectorDocument{
		ID:        doc.ID,
		Text:      doc.Content,
		Metadata:  doc.Metadata,
		Embedding: doc.Embedding,
	}, nil
}

// Delete removes documents by id.
func (s *ChromaStore) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if s.collection.Count() == 0 {
		return nil
	}
	if err := s.collection.Delete(ctx, nil, nil, ids...); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	return nil
}

// DeleteWhere removes every document whose metadata matches the filter.
func (s *ChromaStore) DeleteWhere(ctx context.Context, where map[string]string) error {
	if s.collection.Count() == 0 {
		return nil
	}
	if err := s.collection.Delete(ctx, where, nil); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	return nil
}

// DeleteAll drops and recreates the collection.
func (s *ChromaStore) DeleteAll(ctx context.Context) error {
	if err := s.db.DeleteCollection(s.collectionName); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	collection, err := s.db.GetOrCreateCollection(s.collectionName, nil, rejectingEmbeddingFunc)
	if err != nil {
		return fmt.Errorf("failed to recreate collection: %w", err)
	}
	s.collection = collection
	s.dimension = 0
	return nil
}

// Count returns the number of stored documents.
func (s *ChromaStore) Count() int {
	return s.collection.Count()
}
