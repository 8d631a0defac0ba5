package tfidf

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func TestEmbed_BeforeFit(t *testing.T) {
	svc := NewEmbeddingService()

	_, err := svc.Embed(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrNotFitted)

	_, err = svc.EmbedBatch(context.Background(), []string{"anything"})
	assert.ErrorIs(t, err, ErrNotFitted)
	assert.Zero(t, svc.Dimensions())
}

func TestFit_Errors(t *testing.T) {
	svc := NewEmbeddingService()

	assert.Error(t, svc.Fit(context.Background(), nil))
	assert.ErrorContains(t, svc.Fit(context.Background(), []string{"the and of", "   "}), "no indexable terms")
}

func TestFit_Vocabulary(t *testing.T) {
	svc := NewEmbeddingService()
	require.NoError(t, svc.Fit(context.Background(), []string{
		"The shastras must be destroyed.",
		"Caste is a state of mind.",
	}))

	// caste, destroyed, mind, must, shastras, state
	assert.Equal(t, 6, svc.Dimensions())
	assert.Equal(t, ModelName, svc.ModelName())
	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
}

func TestEmbed_NormalisedAndRanked(t *testing.T) {
	ctx := context.Background()
	corpus := []string{
		"The real remedy is to destroy the belief in the sanctity of the shastras.",
		"Social reform is like gardening and needs patience.",
		"Caste is a notion, a state of the mind.",
	}
	svc := NewEmbeddingService()
	require.NoError(t, svc.Fit(ctx, corpus))

	vecs, err := svc.EmbedBatch(ctx, corpus)
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	for _, v := range vecs {
		assert.InDelta(t, 1.0, norm(v), 1e-5)
		assert.Len(t, v, svc.Dimensions())
	}

	q, err := svc.Embed(ctx, "What is the real remedy for the shastras?")
	require.NoError(t, err)

	assert.Greater(t, dot(q, vecs[0]), dot(q, vecs[1]))
	assert.Greater(t, dot(q, vecs[0]), dot(q, vecs[2]))
}

func TestEmbed_UnknownTermsGiveZeroVector(t *testing.T) {
	ctx := context.Background()
	svc := NewEmbeddingService()
	require.NoError(t, svc.Fit(ctx, []string{"caste system"}))

	v, err := svc.Embed(ctx, "quantum chromodynamics")
	require.NoError(t, err)
	assert.Zero(t, norm(v))
}

func TestEmbed_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewEmbeddingService()
	assert.ErrorIs(t, svc.Fit(ctx, []string{"x"}), context.Canceled)
	_, err := svc.Embed(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
