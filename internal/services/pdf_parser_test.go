package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPagesMissingFile(t *testing.T) {
	parser := NewPDFParserService(nil)

	_, err := parser.ExtractPages(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorContains(t, err, "file does not exist")

	_, err = parser.ExtractTextWithMetaData(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Jane Doe\nGo Engineer", CleanText("  Jane Doe  \n\n\n   Go Engineer \n"))
	assert.Empty(t, CleanText(" \n \n"))
}
