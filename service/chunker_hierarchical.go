package service

import (
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/tieubaoca/rag-studio-be/types"
)

// hierarchicalChunker splits markdown at headings up to split_level and
// records the section title on each chunk.
type hierarchicalChunker struct {
	cfg types.ChunkConfig
}

type headingMark struct {
	offset int
	title  string
}

func (c *hierarchicalChunker) Chunk(_ context.Context, text string, pages []types.Page) ([]types.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	po := buildPageOffsets(pages)
	source := []byte(text)

	marks := c.findHeadings(source)
	if len(marks) == 0 {
		chunks := spansToChunks([]span{{text: text, start: 0, end: len(text)}}, po)
		return chunks, nil
	}

	type section struct {
		span
		title string
	}
	var sections []section
	if marks[0].offset > 0 {
		sections = append(sections, section{
			span:  span{text: text[:marks[0].offset], start: 0, end: marks[0].offset},
			title: "Introduction",
		})
	}
	for i, m := range marks {
		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1].offset
		}
		sections = append(sections, section{
			span:  span{text: text[m.offset:end], start: m.offset, end: end},
			title: m.title,
		})
	}

	var chunks []types.Chunk
	for _, s := range sections {
		body := strings.TrimSpace(s.text)
		if body == "" {
			continue
		}
		chunks = append(chunks, types.Chunk{
			Text: body,
			Metadata: types.ChunkMetadata{
				PageNumbers: po.pagesFor(s.start, s.end),
				Section:     s.title,
			},
		})
	}
	return chunks, nil
}

// findHeadings walks the markdown AST and returns the byte offset of the
// start of each heading line, widened from goldmark's content segment
// back to the leading "#".
func (c *hierarchicalChunker) findHeadings(source []byte) []headingMark {
	parser := goldmark.New().Parser()
	doc := parser.Parse(gmtext.NewReader(source))

	var marks []headingMark
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Level > c.cfg.SplitLevel {
			return ast.WalkContinue, nil
		}
		lines := h.Lines()
		if lines.Len() == 0 {
			return ast.WalkContinue, nil
		}
		offset := lines.At(0).Start
		for offset > 0 && source[offset-1] != '\n' {
			offset--
		}
		var title strings.Builder
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			title.Write(seg.Value(source))
		}
		marks = append(marks, headingMark{
			offset: offset,
			title:  strings.TrimSpace(title.String()),
		})
		return ast.WalkSkipChildren, nil
	})
	return marks
}
