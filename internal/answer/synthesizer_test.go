package answer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractrag/internal/domain"
)

// stubQA records its input and returns canned output.
type stubQA struct {
	gotQuestion string
	gotContext  string
	answer      string
	confidence  float64
	err         error
}

func (s *stubQA) Name() string { return "stub" }
func (s *stubQA) Answer(question, context string) (string, float64, error) {
	s.gotQuestion = question
	s.gotContext = context
	return s.answer, s.confidence, s.err
}

func result(text, source string, similarity float64) domain.SearchResult {
	return domain.SearchResult{
		Chunk:      domain.Chunk{Text: text, Source: source},
		Similarity: similarity,
	}
}

func TestSynthesizeEmptyContextIsSoftFallback(t *testing.T) {
	s := NewSynthesizer(&stubQA{answer: "should not be called"})

	res, err := s.Synthesize("anything", nil)
	require.NoError(t, err)
	assert.Equal(t, NoContextAnswer, res.Answer)
	assert.Zero(t, res.Confidence)
	assert.Empty(t, res.Sources)
	assert.Empty(t, res.Context)
}

func TestSynthesizeJoinsContextInRetrievalOrder(t *testing.T) {
	qa := &stubQA{answer: "12 months", confidence: 0.8}
	s := NewSynthesizer(qa)

	chunks := []domain.SearchResult{
		result("first part", "a.txt", 0.9),
		result("second part", "b.txt", 0.7),
		result("third part", "a.txt", 0.5),
	}
	res, err := s.Synthesize("what is the term?", chunks)
	require.NoError(t, err)

	assert.Equal(t, "what is the term?", qa.gotQuestion)
	assert.Equal(t, "first part second part third part", qa.gotContext)
	assert.Equal(t, "12 months", res.Answer)
	assert.Equal(t, 0.8, res.Confidence)
}

func TestSynthesizeDeduplicatesSources(t *testing.T) {
	s := NewSynthesizer(&stubQA{answer: "x", confidence: 1})

	chunks := []domain.SearchResult{
		result("one", "a.txt", 0.9),
		result("two", "b.txt", 0.8),
		result("three", "a.txt", 0.7),
	}
	res, err := s.Synthesize("q", chunks)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, res.Sources)
}

func TestSynthesizeTruncatesSnippets(t *testing.T) {
	s := NewSynthesizer(&stubQA{answer: "x", confidence: 1})

	long := strings.Repeat("abcde", 50) // 250 chars
	chunks := []domain.SearchResult{
		result(long, "a.txt", 0.9),
		result("short", "b.txt", 0.6),
	}
	res, err := s.Synthesize("q", chunks)
	require.NoError(t, err)
	require.Len(t, res.Context, 2)

	assert.Equal(t, long[:200]+"...", res.Context[0].Text)
	assert.Equal(t, 0.9, res.Context[0].Similarity)
	assert.Equal(t, "short", res.Context[1].Text)
	assert.Equal(t, "b.txt", res.Context[1].Source)
}

func TestSynthesizeQAFailureIsTypedError(t *testing.T) {
	s := NewSynthesizer(&stubQA{err: errors.New("model exploded")})

	_, err := s.Synthesize("q", []domain.SearchResult{result("ctx", "a.txt", 0.9)})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModel)
	assert.Contains(t, err.Error(), "model exploded")
}
