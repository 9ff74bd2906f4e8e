package service

import (
	"context"
	"hash/fnv"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tieubaoca/rag-studio-be/database"
	"github.com/tieubaoca/rag-studio-be/repository"
	"github.com/tieubaoca/rag-studio-be/types"
)

// fakeEmbedder returns canned vectors when configured, otherwise a
// deterministic vector derived from the text.
type fakeEmbedder struct {
	vectors map[string][]float32
	dim     int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	dim := f.dim
	if dim == 0 {
		dim = 4
	}
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()
	out := make([]float32, dim)
	for i := range out {
		seed = seed*1664525 + 1013904223
		out[i] = float32(seed%1000)/1000 + 0.001
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) Dimension() int { return f.dim }

type fakeLLM struct {
	lastPrompt string
	lastSystem string
	answer     string
}

func (f *fakeLLM) Generate(_ context.Context, system, prompt string, _ float64, _ int) (string, error) {
	f.lastSystem = system
	f.lastPrompt = prompt
	if f.answer == "" {
		return "canned answer", nil
	}
	return f.answer, nil
}

func newTestRAG(t *testing.T) (*RAGService, *database.ChromaStore, repository.ChunkRepo, repository.FileRepo) {
	t.Helper()
	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"), false)
	require.NoError(t, err)
	store, err := database.NewMemoryChromaStore("test_collection")
	require.NoError(t, err)

	fileRepo := repository.NewFileRepo(db)
	chunkRepo := repository.NewChunkRepo(db)
	fileService := NewFileService(t.TempDir(), fileRepo, chunkRepo, store)
	return NewRAGService(store, chunkRepo, fileService), store, chunkRepo, fileRepo
}

func storeWithFakeProvider(t *testing.T, rag *RAGService, chunks []types.Chunk, metadatas []map[string]interface{}) int {
	t.Helper()
	count, err := rag.storeWith(context.Background(), &fakeEmbedder{dim: 4}, types.StoreRequest{
		Chunks:    chunks,
		Metadatas: metadatas,
	})
	require.NoError(t, err)
	return count
}

func TestStoreAndCatalog(t *testing.T) {
	rag, store, chunkRepo, _ := newTestRAG(t)

	chunks := []types.Chunk{
		{Text: "alpha text here", Metadata: types.ChunkMetadata{PageNumbers: []int{1}}},
		{Text: "beta text here", Metadata: types.ChunkMetadata{PageNumbers: []int{2}, Section: "Intro"}},
	}
	metadatas := []map[string]interface{}{
		{"file_id": "f-1", "filename": "doc.pdf"},
		{"file_id": "f-1", "filename": "doc.pdf"},
	}
	count := storeWithFakeProvider(t, rag, chunks, metadatas)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, store.Count())

	records, total, err := chunkRepo.ListChunks(context.Background(), 0, 10, "")
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "f-1", records[0].FileID)
	assert.Equal(t, 3, records[0].TokenCount)
}

func TestStoreMarksFilesChunked(t *testing.T) {
	rag, _, _, fileRepo := newTestRAG(t)
	ctx := context.Background()

	require.NoError(t, fileRepo.CreateFile(ctx, &types.FileRecord{
		ID: "f-9", Filename: "a.pdf", PhysicalPath: "/tmp/a.pdf", Status: types.FileStatusUploaded,
	}))

	storeWithFakeProvider(t, rag,
		[]types.Chunk{{Text: "content"}},
		[]map[string]interface{}{{"file_id": "f-9"}},
	)

	file, err := fileRepo.GetFile(ctx, "f-9")
	require.NoError(t, err)
	assert.Equal(t, types.FileStatusChunked, file.Status)
}

func TestQueryReturnsSources(t *testing.T) {
	rag, _, _, _ := newTestRAG(t)
	embedder := &fakeEmbedder{dim: 4}

	_, err := rag.storeWith(context.Background(), embedder, types.StoreRequest{
		Chunks: []types.Chunk{
			{Text: "the capital of france is paris"},
			{Text: "unrelated gardening advice"},
		},
	})
	require.NoError(t, err)

	llm := &fakeLLM{answer: "Paris."}
	res, err := rag.queryWith(context.Background(), embedder, llm, types.QueryRequest{
		Query:    "what is the capital of france",
		NResults: 2,
	}, 0)
	require.NoError(t, err)

	assert.Equal(t, "Paris.", res.Answer)
	assert.NotEmpty(t, res.Sources)
	assert.Contains(t, llm.lastPrompt, "Document 1:")
	assert.Contains(t, llm.lastPrompt, "what is the capital of france")
}

func TestQueryRoundTripOwnText(t *testing.T) {
	rag, _, _, _ := newTestRAG(t)
	embedder := &fakeEmbedder{dim: 4}
	stored := "exact text that was stored"

	_, err := rag.storeWith(context.Background(), embedder, types.StoreRequest{
		Chunks: []types.Chunk{
			{Text: stored},
			{Text: "a different chunk entirely"},
			{Text: "yet another unrelated chunk"},
		},
	})
	require.NoError(t, err)

	res, err := rag.queryWith(context.Background(), embedder, &fakeLLM{}, types.QueryRequest{
		Query:    stored,
		NResults: 1,
		MinScore: 0.99,
	}, 0)
	require.NoError(t, err)

	require.Len(t, res.Sources, 1)
	assert.Equal(t, stored, res.Sources[0].Text)
	assert.Greater(t, res.Sources[0].Score, 0.99)
}

func TestQueryEmptyStoreNoHistory(t *testing.T) {
	rag, _, _, _ := newTestRAG(t)
	llm := &fakeLLM{}

	res, err := rag.queryWith(context.Background(), &fakeEmbedder{dim: 4}, llm, types.QueryRequest{
		Query: "anything",
	}, 0)
	require.NoError(t, err)

	assert.Equal(t, noDocumentsAnswer, res.Answer)
	assert.Empty(t, res.Sources)
	assert.Empty(t, llm.lastPrompt)
}

func TestQueryEmptyStoreWithHistory(t *testing.T) {
	rag, _, _, _ := newTestRAG(t)
	llm := &fakeLLM{answer: "from history"}

	res, err := rag.queryWith(context.Background(), &fakeEmbedder{dim: 4}, llm, types.QueryRequest{
		Query: "follow-up",
		History: []types.Message{
			{Role: "user", Content: "earlier question"},
			{Role: "assistant", Content: "earlier answer"},
		},
	}, 0)
	require.NoError(t, err)

	assert.Equal(t, "from history", res.Answer)
	assert.Contains(t, llm.lastPrompt, "earlier question")
	assert.Empty(t, res.Sources)
}

func TestQueryHistoryLimit(t *testing.T) {
	rag, _, _, _ := newTestRAG(t)
	llm := &fakeLLM{}

	history := []types.Message{
		{Role: "user", Content: "oldest turn"},
		{Role: "assistant", Content: "middle turn"},
		{Role: "user", Content: "newest turn"},
	}
	_, err := rag.queryWith(context.Background(), &fakeEmbedder{dim: 4}, llm, types.QueryRequest{
		Query:   "q",
		History: history,
	}, 2)
	require.NoError(t, err)

	assert.NotContains(t, llm.lastPrompt, "oldest turn")
	assert.Contains(t, llm.lastPrompt, "middle turn")
	assert.Contains(t, llm.lastPrompt, "newest turn")
}

func TestQueryMinScoreFiltersEverything(t *testing.T) {
	rag, _, _, _ := newTestRAG(t)
	embedder := &fakeEmbedder{dim: 4}

	_, err := rag.storeWith(context.Background(), embedder, types.StoreRequest{
		Chunks: []types.Chunk{{Text: "some stored content"}},
	})
	require.NoError(t, err)

	llm := &fakeLLM{}
	res, err := rag.queryWith(context.Background(), embedder, llm, types.QueryRequest{
		Query:    "totally different",
		MinScore: 1.1,
	}, 0)
	require.NoError(t, err)

	assert.Equal(t, noDocumentsAnswer, res.Answer)
	assert.Empty(t, res.Sources)
}
