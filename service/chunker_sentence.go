package service

import (
	"context"
	"strings"

	"github.com/tieubaoca/rag-studio-be/types"
)

// sentenceChunker groups N sentences per chunk with M sentences of
// overlap between consecutive chunks.
type sentenceChunker struct {
	cfg types.ChunkConfig
}

func (c *sentenceChunker) Chunk(_ context.Context, text string, pages []types.Page) ([]types.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	po := buildPageOffsets(pages)
	sents := splitSentences(text)

	n := c.cfg.SentencesPerChunk
	if len(sents) <= n {
		return spansToChunks([]span{{text: text, start: 0, end: len(text)}}, po), nil
	}

	stride := n - c.cfg.Overlap
	if stride < 1 {
		stride = 1
	}
	var spans []span
	for i := 0; i < len(sents); i += stride {
		end := i + n
		if end > len(sents) {
			end = len(sents)
		}
		group := sents[i:end]
		var parts []string
		for _, s := range group {
			parts = append(parts, s.text)
		}
		spans = append(spans, span{
			text:  strings.Join(parts, " "),
			start: group[0].start,
			end:   group[len(group)-1].end,
		})
		if end == len(sents) {
			break
		}
	}
	return spansToChunks(spans, po), nil
}
