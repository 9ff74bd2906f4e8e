package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/tieubaoca/rag-studio-be/types"
)

var paragraphBreakRe = regexp.MustCompile(`\n\s*\n`)

// paragraphChunker splits on blank lines and merges short runs until
// each chunk reaches min_chunk_size.
type paragraphChunker struct {
	cfg types.ChunkConfig
}

func (c *paragraphChunker) Chunk(_ context.Context, text string, pages []types.Page) ([]types.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	po := buildPageOffsets(pages)

	var paras []span
	prev := 0
	for _, loc := range paragraphBreakRe.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[prev:loc[0]]); s != "" {
			paras = append(paras, span{text: s, start: prev, end: loc[0]})
		}
		prev = loc[1]
	}
	if s := strings.TrimSpace(text[prev:]); s != "" {
		paras = append(paras, span{text: s, start: prev, end: len(text)})
	}

	var spans []span
	var cur *span
	for _, p := range paras {
		if cur == nil {
			cp := p
			cur = &cp
			continue
		}
		if len(cur.text) < c.cfg.MinChunkSize {
			cur.text = cur.text + "\n\n" + p.text
			cur.end = p.end
			continue
		}
		spans = append(spans, *cur)
		cp := p
		cur = &cp
	}
	if cur != nil {
		spans = append(spans, *cur)
	}
	return spansToChunks(spans, po), nil
}
