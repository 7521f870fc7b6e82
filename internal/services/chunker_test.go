package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextKeepsShortTextWhole(t *testing.T) {
	chunks := NewTextChunker().ChunkText("Backend Engineer\n\nWe build Go services.", 500, 50)
	assert.Equal(t, []string{"Backend Engineer\n\nWe build Go services."}, chunks)
}

func TestChunkTextSplitsParagraphs(t *testing.T) {
	para := strings.Repeat("a", 60)
	text := strings.Join([]string{para, para, para}, "\n\n")

	chunks := NewTextChunker().ChunkText(text, 100, 0)
	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.Equal(t, para, c)
	}
}

func TestChunkTextCarriesOverlap(t *testing.T) {
	first := strings.Repeat("x", 70) + "TAIL"
	second := strings.Repeat("y", 70)

	chunks := NewTextChunker().ChunkText(first+"\n\n"+second, 100, 4)
	require.Len(t, chunks, 2)
	assert.True(t, strings.HasPrefix(chunks[1], "TAIL\n\n"), chunks[1])
}

func TestChunkTextSplitsLongParagraphBySentence(t *testing.T) {
	sentence := strings.Repeat("word ", 10) + "end."
	text := strings.Repeat(sentence+" ", 10)

	chunks := NewTextChunker().ChunkText(text, 120, 0)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 120)
	}
}

func TestChunkTextNormalizesArguments(t *testing.T) {
	assert.Empty(t, NewTextChunker().ChunkText("   \n\n  ", 0, -1))
	assert.Equal(t, "abc", getLastNChars("abc", 10))
	assert.Equal(t, "bc", getLastNChars("abc", 2))
	assert.Empty(t, getLastNChars("abc", 0))
}
