package embedding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractrag/internal/domain"
)

func TestNewHashEmbedderRejectsBadDimension(t *testing.T) {
	_, err := NewHashEmbedder(0)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	_, err = NewHashEmbedder(-5)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestHashEmbedderDimensionIsFixed(t *testing.T) {
	e, err := NewHashEmbedder(384)
	require.NoError(t, err)
	assert.Equal(t, 384, e.Dimension())

	vec, err := e.Embed("payment due within days")
	require.NoError(t, err)
	assert.Len(t, vec, 384)
}

func TestHashEmbedderDeterministic(t *testing.T) {
	e, err := NewHashEmbedder(384)
	require.NoError(t, err)

	first, err := e.Embed("The contract term is 12 months.")
	require.NoError(t, err)
	second, err := e.Embed("The contract term is 12 months.")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestHashEmbedderUnitNorm(t *testing.T) {
	e, err := NewHashEmbedder(384)
	require.NoError(t, err)

	vec, err := e.Embed("governing law jurisdiction venue")
	require.NoError(t, err)
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
}

func TestHashEmbedderDistinguishesTexts(t *testing.T) {
	e, err := NewHashEmbedder(384)
	require.NoError(t, err)

	a, err := e.Embed("payment due within days")
	require.NoError(t, err)
	b, err := e.Embed("governing law jurisdiction venue")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashEmbedderEmptyTextIsZeroVector(t *testing.T) {
	e, err := NewHashEmbedder(64)
	require.NoError(t, err)

	tests := []string{"", "   ", "the and of", "12 34 !!"}
	for _, text := range tests {
		vec, err := e.Embed(text)
		require.NoError(t, err)
		require.Len(t, vec, 64)
		for _, v := range vec {
			assert.Zero(t, v)
		}
	}
}
