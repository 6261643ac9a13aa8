package carver

// luma returns the Rec. 601 luminance of an RGB triplet.
func luma(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}

// Grayscale converts the image to a single channel luma image.
// Images with less than three channels are returned as a copy of their first channel.
func Grayscale(src *Image) *Image {
	dst := NewImage(1, src.Height, src.Width)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			if src.Channels < 3 {
				dst.Set(0, y, x, src.At(0, y, x))
				continue
			}
			dst.Set(0, y, x, luma(src.At(0, y, x), src.At(1, y, x), src.At(2, y, x)))
		}
	}
	return dst
}

// grayscalePixels converts the image to grayscale mode and
// returns the pixel values as an one dimensional array.
func grayscalePixels(src *Image) []uint8 {
	gray := Grayscale(src)
	pixels := make([]uint8, len(gray.Pix))
	for i, v := range gray.Pix {
		pixels[i] = toUint8(v)
	}
	return pixels
}
