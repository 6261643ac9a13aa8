// Go implementation of the StackBlur algorithm described here:
// http://incubator.quasimondo.com/processing/fast_blur_deluxe.php
//
// StackBlur weights the neighbors of a pixel with a tent shaped kernel
// (radius+1-|i| for an offset i), applied once horizontally and once vertically.
// This version works on real valued samples and replicates the border pixels.

package carver

import "github.com/esimov/carver/utils"

// StackBlur returns a blurred copy of the image. A radius below 1 returns a plain copy.
func StackBlur(img *Image, radius int) *Image {
	if radius < 1 {
		return img.Clone()
	}
	w, h := img.Width, img.Height
	weights := make([]float64, 2*radius+1)
	for i := range weights {
		weights[i] = float64(radius + 1 - utils.Abs(i-radius))
	}
	div := float64((radius + 1) * (radius + 1))

	tmp := NewImage(img.Channels, h, w)
	dst := NewImage(img.Channels, h, w)

	for c := 0; c < img.Channels; c++ {
		src := img.Pix[c*w*h : (c+1)*w*h]
		mid := tmp.Pix[c*w*h : (c+1)*w*h]
		out := dst.Pix[c*w*h : (c+1)*w*h]

		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				var sum float64
				for i, wt := range weights {
					sum += src[y*w+clamp(x+i-radius, w)] * wt
				}
				mid[y*w+x] = sum / div
			}
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				var sum float64
				for i, wt := range weights {
					sum += mid[clamp(y+i-radius, h)*w+x] * wt
				}
				out[y*w+x] = sum / div
			}
		}
	}
	return dst
}

