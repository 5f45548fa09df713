package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"contractrag/internal/domain"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	controlRe    = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")
)

// WindowChunker splits cleaned document text into fixed-size
// overlapping character windows.
type WindowChunker struct {
	chunkSize    int
	chunkOverlap int
}

// New creates a chunker. The overlap must be smaller than the window
// size, otherwise the sliding step would not advance.
func New(chunkSize, chunkOverlap int) (*WindowChunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidConfig, chunkSize)
	}
	if chunkOverlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must not be negative, got %d", domain.ErrInvalidConfig, chunkOverlap)
	}
	if chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("%w: chunk overlap (%d) must be smaller than chunk size (%d)",
			domain.ErrInvalidConfig, chunkOverlap, chunkSize)
	}
	return &WindowChunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap}, nil
}

// Chunk splits all documents into chunks. Chunk ids form one dense
// 0-based sequence across the whole call, continuing over document
// boundaries. Deterministic for identical input.
func (c *WindowChunker) Chunk(documents []domain.Document) []domain.Chunk {
	var chunks []domain.Chunk
	step := c.chunkSize - c.chunkOverlap
	for _, doc := range documents {
		content := []rune(CleanText(doc.Content))
		for start := 0; start < len(content); start += step {
			end := start + c.chunkSize
			if end > len(content) {
				end = len(content)
			}
			text := strings.TrimSpace(string(content[start:end]))
			if text == "" {
				continue
			}
			chunks = append(chunks, domain.Chunk{
				Text:    text,
				Source:  doc.Filename,
				ChunkID: len(chunks),
			})
		}
	}
	return chunks
}

// CleanText collapses whitespace runs to single spaces and strips
// non-printable control characters, keeping punctuation.
func CleanText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = controlRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
