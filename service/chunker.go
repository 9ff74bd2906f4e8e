package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tieubaoca/rag-studio-be/types"
)

const (
	StrategyCharacter    = "character"
	StrategyParagraph    = "paragraph"
	StrategySentence     = "sentence"
	StrategyHierarchical = "hierarchical"
	StrategySemantic     = "semantic"
	StrategyRecursive    = "recursive"
)

// Chunker splits an extracted document into retrieval units. The pages
// slice may be nil when the source format has no page structure.
type Chunker interface {
	Chunk(ctx context.Context, text string, pages []types.Page) ([]types.Chunk, error)
}

// PageSeparator joins per-page text into the single string chunkers
// operate on. Offsets into that string map back to page numbers.
const PageSeparator = "\n\n"

// NewChunker returns the strategy named by the request. The semantic
// strategy needs an embedding provider, every other strategy ignores it.
func NewChunker(strategy string, cfg types.ChunkConfig, embedder EmbeddingProvider) (Chunker, error) {
	applyChunkDefaults(&cfg)
	switch strategy {
	case StrategyCharacter:
		return &characterChunker{cfg: cfg}, nil
	case StrategyParagraph:
		return &paragraphChunker{cfg: cfg}, nil
	case StrategySentence:
		return &sentenceChunker{cfg: cfg}, nil
	case StrategyHierarchical:
		return &hierarchicalChunker{cfg: cfg}, nil
	case StrategySemantic:
		if embedder == nil {
			return nil, fmt.Errorf("semantic chunking requires an embedding provider")
		}
		return &semanticChunker{cfg: cfg, embedder: embedder}, nil
	case StrategyRecursive:
		return &recursiveChunker{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("unknown chunking strategy: %q", strategy)
	}
}

func applyChunkDefaults(cfg *types.ChunkConfig) {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = 0
	}
	if cfg.ChunkOverlap == 0 {
		cfg.ChunkOverlap = 200
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = cfg.ChunkSize / 2
	}
	if cfg.MinChunkSize <= 0 {
		cfg.MinChunkSize = 100
	}
	if cfg.SentencesPerChunk <= 0 {
		cfg.SentencesPerChunk = 5
	}
	if cfg.Overlap < 0 {
		cfg.Overlap = 0
	}
	if cfg.SplitLevel <= 0 {
		cfg.SplitLevel = 2
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = 0.7
	}
	if len(cfg.Separators) == 0 {
		cfg.Separators = []string{"\n\n", "\n", " ", ""}
	}
}

// ChunkWithMetrics runs a chunker and reports size statistics for the UI.
func ChunkWithMetrics(ctx context.Context, c Chunker, text string, pages []types.Page) ([]types.Chunk, types.ChunkMetrics, error) {
	start := time.Now()
	chunks, err := c.Chunk(ctx, text, pages)
	if err != nil {
		return nil, types.ChunkMetrics{}, err
	}
	metrics := types.ChunkMetrics{
		TotalChunks: len(chunks),
		ElapsedMs:   float64(time.Since(start).Microseconds()) / 1000.0,
	}
	if len(chunks) == 0 {
		return chunks, metrics, nil
	}
	total := 0
	metrics.MinSize = len(chunks[0].Text)
	for _, ch := range chunks {
		n := len(ch.Text)
		total += n
		if n < metrics.MinSize {
			metrics.MinSize = n
		}
		if n > metrics.MaxSize {
			metrics.MaxSize = n
		}
	}
	metrics.AvgSize = float64(total) / float64(len(chunks))
	return chunks, metrics, nil
}

// pageOffsets records the half-open character span each page occupies in
// the joined document text.
type pageOffsets struct {
	starts []int
	ends   []int
	pages  []int
}

func buildPageOffsets(pages []types.Page) *pageOffsets {
	if len(pages) == 0 {
		return nil
	}
	po := &pageOffsets{}
	pos := 0
	for i, p := range pages {
		if i > 0 {
			pos += len(PageSeparator)
		}
		po.starts = append(po.starts, pos)
		pos += len(p.Text)
		po.ends = append(po.ends, pos)
		po.pages = append(po.pages, p.PageNumber)
	}
	return po
}

// pagesFor returns the page numbers overlapping the span [start, end).
func (po *pageOffsets) pagesFor(start, end int) []int {
	if po == nil {
		return nil
	}
	var out []int
	for i := range po.starts {
		if po.starts[i] < end && po.ends[i] > start {
			out = append(out, po.pages[i])
		}
	}
	return out
}

// span is a chunk candidate anchored to its position in the source text.
type span struct {
	text  string
	start int
	end   int
}

func spansToChunks(spans []span, po *pageOffsets) []types.Chunk {
	chunks := make([]types.Chunk, 0, len(spans))
	for _, s := range spans {
		text := strings.TrimSpace(s.text)
		if text == "" {
			continue
		}
		chunks = append(chunks, types.Chunk{
			Text: text,
			Metadata: types.ChunkMetadata{
				PageNumbers: po.pagesFor(s.start, s.end),
			},
		})
	}
	return chunks
}

// runeOffsets returns the byte offset of every rune in text, with
// len(text) appended as a sentinel. Chunk boundaries computed in rune
// units map through it back to byte positions, so windows never cut a
// multibyte sequence.
func runeOffsets(text string) []int {
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}

// snapToRuneStart moves a byte index backward to the start of the rune
// containing it.
func snapToRuneStart(text string, i int) int {
	for i > 0 && i < len(text) && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}

var sentenceEndRe = regexp.MustCompile(`[.!?]+[)"'\x60]*\s+`)

// splitSentences cuts text after terminal punctuation followed by
// whitespace, keeping source offsets for page attribution.
func splitSentences(text string) []span {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var spans []span
	prev := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[prev:loc[1]]); s != "" {
			spans = append(spans, span{text: s, start: prev, end: loc[1]})
		}
		prev = loc[1]
	}
	if s := strings.TrimSpace(text[prev:]); s != "" {
		spans = append(spans, span{text: s, start: prev, end: len(text)})
	}
	return spans
}
