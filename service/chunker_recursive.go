package service

import (
	"context"
	"strings"

	"github.com/tieubaoca/rag-studio-be/types"
)

// recursiveChunker tries each separator in order, recursively splitting
// pieces that still exceed chunk_size, then merges adjacent pieces back
// together with overlap.
type recursiveChunker struct {
	cfg types.ChunkConfig
}

func (c *recursiveChunker) Chunk(_ context.Context, text string, pages []types.Page) ([]types.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	po := buildPageOffsets(pages)
	pieces := c.split(span{text: text, start: 0, end: len(text)}, c.cfg.Separators)
	merged := c.merge(pieces)
	return spansToChunks(merged, po), nil
}

func (c *recursiveChunker) split(s span, separators []string) []span {
	if len(s.text) <= c.cfg.ChunkSize || len(separators) == 0 {
		return []span{s}
	}
	sep := separators[0]
	rest := separators[1:]

	if sep == "" {
		// Last resort: hard cut at chunk_size, snapped back so a cut
		// never lands inside a multibyte rune.
		var out []span
		for off := 0; off < len(s.text); {
			end := off + c.cfg.ChunkSize
			if end >= len(s.text) {
				end = len(s.text)
			} else if snapped := snapToRuneStart(s.text, end); snapped > off {
				end = snapped
			}
			out = append(out, span{text: s.text[off:end], start: s.start + off, end: s.start + end})
			off = end
		}
		return out
	}

	parts := strings.Split(s.text, sep)
	if len(parts) == 1 {
		return c.split(s, rest)
	}
	var out []span
	off := 0
	for i, p := range parts {
		if i > 0 {
			off += len(sep)
		}
		piece := span{text: p, start: s.start + off, end: s.start + off + len(p)}
		off += len(p)
		if strings.TrimSpace(p) == "" {
			continue
		}
		if len(p) > c.cfg.ChunkSize {
			out = append(out, c.split(piece, rest)...)
		} else {
			out = append(out, piece)
		}
	}
	return out
}

// merge packs pieces into chunks up to chunk_size, re-seeding each new
// chunk with trailing pieces of the previous one to provide overlap.
func (c *recursiveChunker) merge(pieces []span) []span {
	var out []span
	var window []span
	windowLen := 0

	flush := func() {
		if len(window) == 0 {
			return
		}
		var parts []string
		for _, p := range window {
			parts = append(parts, p.text)
		}
		out = append(out, span{
			text:  strings.Join(parts, " "),
			start: window[0].start,
			end:   window[len(window)-1].end,
		})
	}

	for _, p := range pieces {
		if windowLen > 0 && windowLen+len(p.text) > c.cfg.ChunkSize {
			flush()
			// Keep trailing pieces whose combined length fits the overlap.
			var kept []span
			keptLen := 0
			for i := len(window) - 1; i >= 0; i-- {
				if keptLen+len(window[i].text) > c.cfg.ChunkOverlap {
					break
				}
				keptLen += len(window[i].text)
				kept = append([]span{window[i]}, kept...)
			}
			window = kept
			windowLen = keptLen
		}
		window = append(window, p)
		windowLen += len(p.text)
	}
	flush()
	return out
}
