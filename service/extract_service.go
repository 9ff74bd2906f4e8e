package service

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/tieubaoca/rag-studio-be/types"
	"github.com/tieubaoca/rag-studio-be/utils"
)

// ExtractService turns uploaded documents into cleaned text plus their
// per-page breakdown. Formats without pages produce a single page.
type ExtractService struct{}

func NewExtractService() *ExtractService {
	return &ExtractService{}
}

// Extract reads the saved file and returns cleaned full text and pages.
// The full text is the pages joined with the chunker's page separator so
// chunk offsets map back to page numbers.
func (s *ExtractService) Extract(path, filename string) (string, []types.Page, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var pages []types.Page
	var err error
	switch ext {
	case ".pdf":
		pages, err = s.extractPDF(path)
	case ".docx":
		pages, err = s.extractDOCX(path)
	case ".txt", ".md":
		pages, err = s.extractPlain(path)
	default:
		return "", nil, fmt.Errorf("unsupported file format: %s", ext)
	}
	if err != nil {
		return "", nil, err
	}

	var texts []string
	var kept []types.Page
	for _, p := range pages {
		cleaned := utils.CleanText(p.Text)
		if cleaned == "" {
			continue
		}
		kept = append(kept, types.Page{PageNumber: p.PageNumber, Text: cleaned})
		texts = append(texts, cleaned)
	}
	if len(kept) == 0 {
		return "", nil, fmt.Errorf("no text could be extracted from %s", filename)
	}
	return strings.Join(texts, PageSeparator), kept, nil
}

func (s *ExtractService) extractPDF(path string) ([]types.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}

	var pages []types.Page
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract page %d: %w", i, err)
		}
		pages = append(pages, types.Page{PageNumber: i, Text: text})
	}
	return pages, nil
}

var xmlTagRe = regexp.MustCompile(`<[^>]+>`)

func (s *ExtractService) extractDOCX(path string) ([]types.Page, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read DOCX: %w", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = xmlTagRe.ReplaceAllString(content, "")
	content = strings.NewReplacer(
		"&amp;", "&", "&lt;", "<", "&gt;", ">",
		"&quot;", `"`, "&apos;", "'",
	).Replace(content)
	return []types.Page{{PageNumber: 1, Text: content}}, nil
}

func (s *ExtractService) extractPlain(path string) ([]types.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return []types.Page{{PageNumber: 1, Text: string(data)}}, nil
}
