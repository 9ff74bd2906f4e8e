package types

import "github.com/uptrace/bun"

// Page is one page of extracted text. Extractors that have no page
// concept (DOCX, TXT, MD) produce a single page.
type Page struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

// ExtractResult is the full output of text extraction for one uploaded file.
type ExtractResult struct {
	Text      string `json:"text"`
	Pages     []Page `json:"pages"`
	Filename  string `json:"filename"`
	FileID    string `json:"file_id"`
	SavedPath string `json:"saved_path"`
}

// FileRecord is the catalog entry for an uploaded file.
type FileRecord struct {
	bun.BaseModel `bun:"table:files" json:"-"`

	ID           string `bun:"id,pk" json:"id"`
	Filename     string `bun:"filename,notnull" json:"filename"`
	PhysicalPath string `bun:"physical_path,notnull" json:"physical_path"`
	Size         int64  `bun:"size" json:"size"`
	MimeType     string `bun:"mime_type" json:"mime_type"`
	Status       string `bun:"status,default:'uploaded'" json:"status"`
	CreatedAt    string `bun:"created_at" json:"created_at"`
}

const (
	FileStatusUploaded = "uploaded"
	FileStatusChunked  = "chunked"
)
