package carver

import (
	"math"
)

type kernel [3][3]float64

var (
	kernelX = kernel{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}

	kernelY = kernel{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// SobelEnergy computes the energy map using the Sobel operator, summing the gradient
// magnitude of every channel. Border pixels use clamped neighbors.
// See https://en.wikipedia.org/wiki/Sobel_operator
func SobelEnergy(img *Image) (*EnergyMap, error) {
	return sobelEnergy(img, 0)
}

// sobelEnergy zeroes the per channel magnitudes which do not exceed the threshold.
func sobelEnergy(img *Image, threshold float64) (*EnergyMap, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	w, h := img.Width, img.Height
	e := NewEnergyMap(w, h)

	for c := 0; c < img.Channels; c++ {
		plane := img.Pix[c*w*h : (c+1)*w*h]
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				var sumX, sumY float64
				// Sum each pixel of the 3x3 window with the kernel value.
				for ky := 0; ky < 3; ky++ {
					py := clamp(y+ky-1, h)
					for kx := 0; kx < 3; kx++ {
						px := plane[py*w+clamp(x+kx-1, w)]
						sumX += px * kernelX[ky][kx]
						sumY += px * kernelY[ky][kx]
					}
				}
				magnitude := math.Sqrt(sumX*sumX + sumY*sumY)
				if magnitude > threshold {
					e.Data[y*w+x] += magnitude
				}
			}
		}
	}
	return e, nil
}
