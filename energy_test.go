package carver

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnergy_UniformImageHasNoEnergy(t *testing.T) {
	img := NewImage(3, 6, 7)
	for i := range img.Pix {
		img.Pix[i] = 0.7
	}

	e, err := BuildEnergy(img)
	require.NoError(t, err)
	for _, v := range e.Data {
		assert.Zero(t, v)
	}
}

func TestEnergy_CentralDifferences(t *testing.T) {
	img := imageFromRows([][]float64{{0, 1, 3}})

	e, err := BuildEnergy(img)
	require.NoError(t, err)
	// Border neighbors are replicated, so the borders use one sided differences.
	assert.Equal(t, []float64{1, 3, 2}, e.Data)

	img = imageFromRows([][]float64{{0}, {2}, {6}})
	e, err = BuildEnergy(img)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 6, 4}, e.Data)
}

func TestEnergy_SumsChannels(t *testing.T) {
	single := imageFromRows([][]float64{{0, 1, 3}, {2, 2, 2}})
	double := NewImage(2, single.Height, single.Width)
	copy(double.Pix, single.Pix)
	copy(double.Pix[len(single.Pix):], single.Pix)

	e1, err := BuildEnergy(single)
	require.NoError(t, err)
	e2, err := BuildEnergy(double)
	require.NoError(t, err)

	for i := range e1.Data {
		assert.InDelta(t, 2*e1.Data[i], e2.Data[i], 1e-12)
	}
}

func TestEnergy_ShapeAndSign(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	img := randomImage(rng, 3, 9, 13)

	e, err := BuildEnergy(img)
	require.NoError(t, err)
	assert.Equal(t, 13, e.Width)
	assert.Equal(t, 9, e.Height)
	assert.Len(t, e.Data, 9*13)
	for _, v := range e.Data {
		assert.GreaterOrEqual(t, v, 0.0)
	}

	again, err := BuildEnergy(img)
	require.NoError(t, err)
	assert.Equal(t, e, again)
}

func TestEnergy_InvalidImage(t *testing.T) {
	tests := []struct {
		name string
		img  *Image
	}{
		{"nil", nil},
		{"zero width", NewImage(3, 4, 0)},
		{"zero height", NewImage(3, 0, 4)},
		{"zero channels", NewImage(0, 4, 4)},
		{"short buffer", &Image{Channels: 1, Height: 2, Width: 2, Pix: []float64{1, 2, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildEnergy(tt.img)
			assert.ErrorIs(t, err, ErrInvalidImage)

			_, err = SobelEnergy(tt.img)
			assert.ErrorIs(t, err, ErrInvalidImage)
		})
	}
}

func TestEnergyMap_PathEnergy(t *testing.T) {
	e := energyFromRows([][]float64{
		{1, 2, 3},
		{4, 5, 6},
	})

	v, err := e.PathEnergy(Seam{Orientation: Vertical, Path: []int{0, 1}})
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	v, err = e.PathEnergy(Seam{Orientation: Horizontal, Path: []int{1, 0, 1}})
	require.NoError(t, err)
	assert.Equal(t, 4.0+2.0+6.0, v)

	_, err = e.PathEnergy(Seam{Orientation: Vertical, Path: []int{0}})
	assert.ErrorIs(t, err, ErrSeamOutOfBounds)

	_, err = e.PathEnergy(Seam{Orientation: Vertical, Path: []int{0, 3}})
	assert.ErrorIs(t, err, ErrSeamOutOfBounds)
}
