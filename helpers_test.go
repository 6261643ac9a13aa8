package carver

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// imageFromRows builds a single channel image from its rows.
func imageFromRows(rows [][]float64) *Image {
	img := NewImage(1, len(rows), len(rows[0]))
	for y, row := range rows {
		for x, v := range row {
			img.Set(0, y, x, v)
		}
	}
	return img
}

// energyFromRows builds an energy map from its rows.
func energyFromRows(rows [][]float64) *EnergyMap {
	e := NewEnergyMap(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, v := range row {
			e.Set(x, y, v)
		}
	}
	return e
}

// rampImage returns an image whose samples equal their column index.
func rampImage(height, width int) *Image {
	img := NewImage(1, height, width)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(0, y, x, float64(x))
		}
	}
	return img
}

func randomImage(rng *rand.Rand, channels, height, width int) *Image {
	img := NewImage(channels, height, width)
	for i := range img.Pix {
		img.Pix[i] = rng.Float64()
	}
	return img
}

func row(img *Image, c, y int) []float64 {
	return img.Pix[img.offset(c, y, 0):img.offset(c, y, img.Width)]
}

func newTestCarver(t testing.TB, cfg Config, opts ...Option) *Carver {
	t.Helper()
	c, err := New(cfg, opts...)
	require.NoError(t, err)
	return c
}
