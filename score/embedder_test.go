package score

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEmbedder_Deterministic(t *testing.T) {
	e := NewHashEmbedder(64)
	ctx := context.Background()

	a, err := e.Embed(ctx, "the quick brown fox")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "the quick brown fox")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestHashEmbedder_Normalized(t *testing.T) {
	e := NewHashEmbedder(32)
	v, err := e.Embed(context.Background(), "some text to embed")
	require.NoError(t, err)

	var norm float64
	for _, x := range v {
		norm += x * x
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestHashEmbedder_DefaultDim(t *testing.T) {
	e := NewHashEmbedder(0)
	v, err := e.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, v, 64)
}

func TestCosine(t *testing.T) {
	assert.Equal(t, 1.0, cosine([]float64{1, 0}, []float64{1, 0}))
	assert.Equal(t, 0.0, cosine([]float64{1, 0}, []float64{0, 1}))
	assert.Equal(t, 0.0, cosine(nil, []float64{1}))
	assert.Equal(t, 0.0, cosine([]float64{1, 2}, []float64{1}))
	assert.Equal(t, -1.0, cosine([]float64{1, 0}, []float64{-1, 0}))
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-0.3))
	assert.Equal(t, 0.5, clamp01(0.5))
	assert.Equal(t, 1.0, clamp01(1.7))
}
