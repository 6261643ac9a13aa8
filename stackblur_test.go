package carver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStackBlur_KeepsUniformImage(t *testing.T) {
	img := NewImage(2, 5, 5)
	for i := range img.Pix {
		img.Pix[i] = 0.25
	}

	blurred := StackBlur(img, 3)
	for _, v := range blurred.Pix {
		assert.InDelta(t, 0.25, v, 1e-12)
	}
}

func TestStackBlur_Impulse(t *testing.T) {
	img := NewImage(1, 1, 5)
	img.Set(0, 0, 2, 4)

	blurred := StackBlur(img, 1)
	// Tent weights 1, 2, 1 over 4 horizontally, the single row is replicated vertically.
	assert.InDeltaSlice(t, []float64{0, 1, 2, 1, 0}, blurred.Pix, 1e-12)

	var sum float64
	for _, v := range blurred.Pix {
		sum += v
	}
	assert.InDelta(t, 4.0, sum, 1e-12)
}

func TestStackBlur_ZeroRadiusCopies(t *testing.T) {
	img := rampImage(3, 4)
	blurred := StackBlur(img, 0)

	assert.True(t, img.Equal(blurred))
	blurred.Set(0, 0, 0, 42)
	assert.Equal(t, 0.0, img.At(0, 0, 0))
}
