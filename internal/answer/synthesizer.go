package answer

import (
	"fmt"
	"strings"

	"contractrag/internal/domain"
)

// NoContextAnswer is returned when retrieval produced nothing relevant.
const NoContextAnswer = "No relevant information found in the contract documents."

// snippetLimit caps the context excerpts attached to an answer.
const snippetLimit = 200

// Synthesizer produces an AnswerResult from a question and the
// retrieved context chunks by delegating to a QA model.
type Synthesizer struct {
	qa domain.QAModel
}

// NewSynthesizer creates a synthesizer backed by the given QA model.
func NewSynthesizer(qa domain.QAModel) *Synthesizer {
	return &Synthesizer{qa: qa}
}

// Synthesize answers the question against the retrieved chunks. Empty
// context is a designed fallback, not an error: it yields the fixed
// no-information answer with confidence 0. A QA model failure is
// returned as a typed error so callers decide how to present it.
func (s *Synthesizer) Synthesize(question string, contextChunks []domain.SearchResult) (domain.AnswerResult, error) {
	if len(contextChunks) == 0 {
		return domain.AnswerResult{Answer: NoContextAnswer, Confidence: 0}, nil
	}

	texts := make([]string, len(contextChunks))
	for i, chunk := range contextChunks {
		texts[i] = chunk.Text
	}
	context := strings.Join(texts, " ")

	ans, confidence, err := s.qa.Answer(question, context)
	if err != nil {
		return domain.AnswerResult{}, fmt.Errorf("%w: question answering: %v", domain.ErrModel, err)
	}

	return domain.AnswerResult{
		Answer:     ans,
		Confidence: confidence,
		Sources:    sourceSet(contextChunks),
		Context:    snippets(contextChunks),
	}, nil
}

// sourceSet deduplicates chunk sources, keeping first-seen order.
func sourceSet(chunks []domain.SearchResult) []string {
	seen := make(map[string]struct{}, len(chunks))
	sources := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if _, ok := seen[chunk.Source]; ok {
			continue
		}
		seen[chunk.Source] = struct{}{}
		sources = append(sources, chunk.Source)
	}
	return sources
}

// snippets truncates each chunk text for display, preserving retrieval order.
func snippets(chunks []domain.SearchResult) []domain.Snippet {
	out := make([]domain.Snippet, len(chunks))
	for i, chunk := range chunks {
		text := chunk.Text
		if runes := []rune(text); len(runes) > snippetLimit {
			text = string(runes[:snippetLimit]) + "..."
		}
		out[i] = domain.Snippet{Text: text, Source: chunk.Source, Similarity: chunk.Similarity}
	}
	return out
}
