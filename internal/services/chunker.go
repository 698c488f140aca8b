package services

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 100
)

// TextChunker splits resume text into overlapping pieces small enough to embed.
type TextChunker interface {
	Chunk(text string) []string
}

type textChunker struct {
	size    int
	overlap int
}

// NewTextChunker returns a chunker producing pieces of at most size runes
// (plus the carried overlap). Invalid settings fall back to the defaults.
func NewTextChunker(size, overlap int) TextChunker {
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 4
	}
	return &textChunker{size: size, overlap: overlap}
}

type chunkBuilder struct {
	chunks  []string
	current strings.Builder
	size    int
	overlap int
}

func (b *chunkBuilder) add(piece, sep string) {
	if b.current.Len() > 0 && utf8.RuneCountInString(b.current.String())+utf8.RuneCountInString(piece)+len(sep) > b.size {
		prev := b.current.String()
		b.chunks = append(b.chunks, prev)
		b.current.Reset()
		if tail := lastRunes(prev, b.overlap); tail != "" {
			b.current.WriteString(tail)
		}
	}

	if b.current.Len() > 0 {
		b.current.WriteString(sep)
	}
	b.current.WriteString(piece)
}

func (b *chunkBuilder) finish() []string {
	if b.current.Len() > 0 {
		b.chunks = append(b.chunks, b.current.String())
	}
	return b.chunks
}

// Chunk implements TextChunker. Paragraphs are kept whole where they fit;
// longer ones are split on sentence boundaries.
func (c *textChunker) Chunk(text string) []string {
	b := &chunkBuilder{size: c.size, overlap: c.overlap}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= c.size {
			b.add(para, "\n\n")
			continue
		}

		for _, sentence := range splitSentences(para) {
			b.add(sentence, " ")
		}
	}

	return b.finish()
}

func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	sentences := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func lastRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}
