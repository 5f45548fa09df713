package retriever

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractrag/internal/domain"
	"contractrag/internal/index"
)

type stubEmbedder struct {
	vectors map[string][]float32
}

func (s *stubEmbedder) Name() string   { return "stub" }
func (s *stubEmbedder) Dimension() int { return 2 }
func (s *stubEmbedder) Embed(text string) ([]float32, error) {
	vec, ok := s.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no stub vector for %q", text)
	}
	return vec, nil
}

func builtIndex(t *testing.T) *index.Index {
	t.Helper()
	emb := &stubEmbedder{vectors: map[string][]float32{
		"exact":  {0, 0},
		"close":  {1, 0},
		"remote": {3, 0},
		"query":  {0, 0},
	}}
	x := index.New(emb)
	require.NoError(t, x.Build([]domain.Chunk{
		{Text: "remote", Source: "c.txt", ChunkID: 0},
		{Text: "exact", Source: "a.txt", ChunkID: 1},
		{Text: "close", Source: "b.txt", ChunkID: 2},
	}))
	return x
}

func TestRetrieveOrderAndSimilarity(t *testing.T) {
	r := New(builtIndex(t))

	results, err := r.Retrieve("query", 3, 0)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Distances 0, 1, 9 map to similarities 1, 0.5, 0.1.
	assert.Equal(t, "exact", results[0].Text)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-9)
	assert.Equal(t, "close", results[1].Text)
	assert.InDelta(t, 0.5, results[1].Similarity, 1e-9)
	assert.Equal(t, "remote", results[2].Text)
	assert.InDelta(t, 0.1, results[2].Similarity, 1e-9)

	for i, res := range results {
		assert.Greater(t, res.Similarity, 0.0)
		assert.LessOrEqual(t, res.Similarity, 1.0)
		if i > 0 {
			assert.LessOrEqual(t, res.Similarity, results[i-1].Similarity,
				"similarity must not increase with rank")
		}
	}
}

func TestRetrieveThresholdFiltersButPreservesOrder(t *testing.T) {
	r := New(builtIndex(t))

	results, err := r.Retrieve("query", 3, 0.4)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "exact", results[0].Text)
	assert.Equal(t, "close", results[1].Text)
}

func TestRetrieveImpossibleThresholdReturnsEmpty(t *testing.T) {
	r := New(builtIndex(t))

	results, err := r.Retrieve("query", 3, 1.1)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrievePropagatesNotBuilt(t *testing.T) {
	r := New(index.New(&stubEmbedder{vectors: map[string][]float32{}}))
	_, err := r.Retrieve("query", 3, 0)
	assert.ErrorIs(t, err, domain.ErrNotBuilt)
}

func TestSimilarityBounds(t *testing.T) {
	assert.Equal(t, 1.0, Similarity(0))
	assert.InDelta(t, 0.5, Similarity(1), 1e-9)
	big := Similarity(1e12)
	assert.Greater(t, big, 0.0)
	assert.Less(t, big, 1e-6)
}
