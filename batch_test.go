package carver

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarveBatch_KeepsOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	imgs := []*Image{
		randomImage(rng, 3, 8, 10),
		randomImage(rng, 3, 6, 6),
		randomImage(rng, 3, 12, 5),
		randomImage(rng, 3, 9, 9),
	}
	c := newTestCarver(t, Config{Workers: 2})
	target := TargetSize{Height: 7, Width: 7}

	out, err := c.CarveBatch(context.Background(), imgs, target)
	require.NoError(t, err)
	require.Len(t, out, len(imgs))

	for i, img := range imgs {
		want, err := c.Carve(context.Background(), img, target)
		require.NoError(t, err)
		assert.Equal(t, target, out[i].Size())
		assert.True(t, want.Equal(out[i]), "image %d", i)
	}
}

func TestCarveBatch_Empty(t *testing.T) {
	c := newTestCarver(t, Config{})
	out, err := c.CarveBatch(context.Background(), nil, TargetSize{Height: 2, Width: 2})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCarveBatch_ReportsFailingIndex(t *testing.T) {
	c := newTestCarver(t, Config{InChannels: 3})
	imgs := []*Image{
		NewImage(3, 4, 4),
		NewImage(3, 4, 4),
		NewImage(1, 4, 4),
		NewImage(3, 0, 4),
	}

	_, err := c.CarveBatch(context.Background(), imgs, TargetSize{Height: 3, Width: 3})
	require.Error(t, err)

	var batchErr *BatchError
	require.True(t, errors.As(err, &batchErr))
	assert.Equal(t, 2, batchErr.Index)
	assert.ErrorIs(t, err, ErrInvalidImage)
	assert.Contains(t, err.Error(), "batch image 2")
}

func TestCarveBatch_InvalidTarget(t *testing.T) {
	c := newTestCarver(t, Config{})
	_, err := c.CarveBatch(context.Background(), []*Image{NewImage(3, 4, 4)}, TargetSize{Height: 0, Width: 5})
	assert.ErrorIs(t, err, ErrInvalidTarget)

	var batchErr *BatchError
	assert.False(t, errors.As(err, &batchErr))
}

func TestCarveBatch_ContextCanceled(t *testing.T) {
	c := newTestCarver(t, Config{Workers: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.CarveBatch(ctx, []*Image{NewImage(3, 4, 4), NewImage(3, 4, 4)}, TargetSize{Height: 2, Width: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	var batchErr *BatchError
	assert.True(t, errors.As(err, &batchErr))
}
