package service

import (
	"context"

	"github.com/tieubaoca/rag-studio-be/types"
)

// characterChunker slides a fixed-size window over the text. Window
// size and overlap count runes, not bytes, so multibyte text is never
// cut mid-sequence. The last chunk may be shorter than chunk_size.
type characterChunker struct {
	cfg types.ChunkConfig
}

func (c *characterChunker) Chunk(_ context.Context, text string, pages []types.Page) ([]types.Chunk, error) {
	if len(text) == 0 {
		return nil, nil
	}
	po := buildPageOffsets(pages)
	step := c.cfg.ChunkSize - c.cfg.ChunkOverlap
	if step < 1 {
		step = 1
	}
	offsets := runeOffsets(text)
	n := len(offsets) - 1
	var spans []span
	for start := 0; start < n; start += step {
		end := start + c.cfg.ChunkSize
		if end > n {
			end = n
		}
		lo, hi := offsets[start], offsets[end]
		spans = append(spans, span{text: text[lo:hi], start: lo, end: hi})
		if end == n {
			break
		}
	}
	return spansToChunks(spans, po), nil
}
