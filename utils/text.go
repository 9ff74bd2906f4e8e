package utils

import (
	"regexp"
	"strings"
)

var (
	multiSpaceRe   = regexp.MustCompile(` +`)
	multiNewlineRe = regexp.MustCompile(`\n\n+`)
	dotsRe         = regexp.MustCompile(`\.{4,}`)
	pageNumRe      = regexp.MustCompile(`\n\s*[-–—]?\s*\d+\s*[-–—]?\s*\n`)
	pageWordRe     = regexp.MustCompile(`(?i)\n\s*Page\s+\d+\s*\n`)
	controlRe      = regexp.MustCompile("[\f\r\v\x00\uFFFD\x1b]")
)

// CleanText normalizes extracted text: strips control characters and
// common extraction artifacts, collapses runs of spaces and blank lines.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	text = controlRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\t", " ")
	text = multiSpaceRe.ReplaceAllString(text, " ")
	text = multiNewlineRe.ReplaceAllString(text, "\n\n")

	// Artifacts: table-of-contents dot runs, bare page numbers.
	text = dotsRe.ReplaceAllString(text, " ")
	text = pageNumRe.ReplaceAllString(text, "\n")
	text = pageWordRe.ReplaceAllString(text, "\n")

	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// CountTokens is the knowledge-base token metric: whitespace-separated
// words, matching what the stats endpoint reports.
func CountTokens(text string) int {
	return len(strings.Fields(text))
}
