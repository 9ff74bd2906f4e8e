package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	in := "Heading\f\n\n\n\nBody   with   spaces\t here.\nContents ........ 12\n"
	out := CleanText(in)

	assert.NotContains(t, out, "\f")
	assert.NotContains(t, out, "    ")
	assert.NotContains(t, out, "....")
	assert.Contains(t, out, "Body with spaces here.")
}

func TestCleanTextStripsControlCharacters(t *testing.T) {
	in := "before\x00middle\x1bafter�end"
	out := CleanText(in)

	assert.NotContains(t, out, "\x00")
	assert.NotContains(t, out, "\x1b")
	assert.NotContains(t, out, "�")
	assert.Equal(t, "beforemiddleafterend", out)
}

func TestCleanTextStripsBarePageNumbers(t *testing.T) {
	in := "end of page one\n 12 \nstart of page two"
	out := CleanText(in)
	assert.NotContains(t, out, "12")
}

func TestCleanTextEmpty(t *testing.T) {
	assert.Equal(t, "", CleanText(""))
	assert.Equal(t, "", CleanText("  \n\n  "))
}

func TestCountTokens(t *testing.T) {
	assert.Equal(t, 0, CountTokens(""))
	assert.Equal(t, 3, CountTokens("three simple words"))
	assert.Equal(t, 2, CountTokens("  padded   input  "))
}
