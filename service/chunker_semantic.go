package service

import (
	"context"
	"math"
	"strings"

	"github.com/tieubaoca/rag-studio-be/types"
)

// semanticChunker embeds every sentence and starts a new chunk when the
// cosine similarity between consecutive sentences drops below threshold.
type semanticChunker struct {
	cfg      types.ChunkConfig
	embedder EmbeddingProvider
}

func (c *semanticChunker) Chunk(ctx context.Context, text string, pages []types.Page) ([]types.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	po := buildPageOffsets(pages)
	sents := splitSentences(text)
	if len(sents) < 2 {
		return spansToChunks([]span{{text: text, start: 0, end: len(text)}}, po), nil
	}

	texts := make([]string, len(sents))
	for i, s := range sents {
		texts[i] = s.text
	}
	embeddings, err := c.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}

	var spans []span
	cur := sents[0]
	for i := 1; i < len(sents); i++ {
		if cosineSimilarity(embeddings[i-1], embeddings[i]) < c.cfg.Threshold {
			spans = append(spans, cur)
			cur = sents[i]
			continue
		}
		cur.text = cur.text + " " + sents[i].text
		cur.end = sents[i].end
	}
	spans = append(spans, cur)
	return spansToChunks(spans, po), nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
