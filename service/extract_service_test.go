package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExtractPlainText(t *testing.T) {
	path := writeTempFile(t, "notes.txt", "Some extracted content.\n\nSecond paragraph.")

	text, pages, err := NewExtractService().Extract(path, "notes.txt")
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].PageNumber)
	assert.Contains(t, text, "Some extracted content.")
	assert.Contains(t, text, "Second paragraph.")
}

func TestExtractMarkdown(t *testing.T) {
	path := writeTempFile(t, "readme.md", "# Title\n\nBody text.")

	text, pages, err := NewExtractService().Extract(path, "readme.md")
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Contains(t, text, "# Title")
}

func TestExtractCleansText(t *testing.T) {
	path := writeTempFile(t, "dirty.txt", "Messy\f   input\t\twith   artifacts")

	text, _, err := NewExtractService().Extract(path, "dirty.txt")
	require.NoError(t, err)
	assert.Equal(t, "Messy input with artifacts", text)
}

func TestExtractUnsupportedExtension(t *testing.T) {
	path := writeTempFile(t, "sheet.xlsx", "not really a spreadsheet")

	_, _, err := NewExtractService().Extract(path, "sheet.xlsx")
	assert.ErrorContains(t, err, "unsupported file format")
}

func TestExtractEmptyFile(t *testing.T) {
	path := writeTempFile(t, "empty.txt", "   \n\n  ")

	_, _, err := NewExtractService().Extract(path, "empty.txt")
	assert.Error(t, err)
}

func TestExtractMissingFile(t *testing.T) {
	_, _, err := NewExtractService().Extract(filepath.Join(t.TempDir(), "gone.txt"), "gone.txt")
	assert.Error(t, err)
}
