package services

import (
	"strings"
	"unicode/utf8"
)

// TextChunker splits reference documents into embedding sized pieces.
type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// chunkBuilder accumulates pieces and cuts a chunk when the next piece would
// overflow. Sizes are counted in runes.
type chunkBuilder struct {
	max     int
	overlap int
	chunks  []string
	current strings.Builder
	size    int
}

func (b *chunkBuilder) add(piece, sep string) {
	pieceSize := utf8.RuneCountInString(piece)
	sepSize := utf8.RuneCountInString(sep)

	if b.size > 0 && b.size+sepSize+pieceSize > b.max {
		b.cut()
	}

	if b.size > 0 {
		b.current.WriteString(sep)
		b.size += sepSize
	}
	b.current.WriteString(piece)
	b.size += pieceSize
}

// cut emits the current chunk and seeds the next one with its tail.
func (b *chunkBuilder) cut() {
	prev := b.current.String()
	b.chunks = append(b.chunks, prev)
	b.current.Reset()

	tail := getLastNChars(prev, b.overlap)
	b.current.WriteString(tail)
	b.size = utf8.RuneCountInString(tail)
}

func (b *chunkBuilder) finish() []string {
	if b.size > 0 {
		b.chunks = append(b.chunks, b.current.String())
	}
	return b.chunks
}

// ChunkText implements TextChunker. Paragraphs are kept whole when they fit;
// longer ones are split into sentences.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = defaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	b := &chunkBuilder{max: maxChunkSize, overlap: overlap}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= maxChunkSize {
			b.add(para, "\n\n")
			continue
		}

		for _, sentence := range splitIntoSentences(para) {
			b.add(sentence, " ")
		}
	}

	return b.finish()
}

func splitIntoSentences(text string) []string {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	result := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if s = strings.TrimSpace(s); s != "" {
			result = append(result, s)
		}
	}
	return result
}

func getLastNChars(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
