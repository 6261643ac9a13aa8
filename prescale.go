package carver

import (
	"image"
	"image/color"
	"math"

	"github.com/nfnt/resize"
	"go.uber.org/zap"

	"github.com/esimov/carver/utils"
)

// interpolations maps the Config.Interpolation names to the resampling filters.
var interpolations = map[string]resize.InterpolationFunction{
	"nearest":  resize.NearestNeighbor,
	"bilinear": resize.Bilinear,
	"bicubic":  resize.Bicubic,
	"mitchell": resize.MitchellNetravali,
	"lanczos2": resize.Lanczos2,
	"lanczos3": resize.Lanczos3,
}

// prescale scales the image down proportionally when it is reduced both horizontally and
// vertically, so the seam carver only has to remove the remaining pixels.
// Example: input 5000x2500, target 1920x1080, the image is first scaled to 2160x1080.
func (c *Carver) prescale(img *Image, masks Masks, target TargetSize) (*Image, Masks, error) {
	if img.Width <= target.Width || img.Height <= target.Height {
		return img, masks, nil
	}

	w, h := float64(img.Width), float64(img.Height)
	// Scale by the bigger of the two factors, otherwise one side would fall below the target.
	factor := math.Max(float64(target.Width)/w, float64(target.Height)/h)
	sw := utils.Clamp(int(math.Round(w*factor)), target.Width, img.Width)
	sh := utils.Clamp(int(math.Round(h*factor)), target.Height, img.Height)
	if sw == img.Width && sh == img.Height {
		return img, masks, nil
	}

	interp, ok := interpolations[c.cfg.Interpolation]
	if !ok {
		interp = resize.Lanczos3
	}
	c.logger.Debug("prescaling image",
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
		zap.Int("scaledWidth", sw),
		zap.Int("scaledHeight", sh),
		zap.String("interpolation", c.cfg.Interpolation),
	)

	scaled := scaleImage(img, sw, sh, interp)
	if masks.Protect != nil {
		masks.Protect = scaleImage(masks.Protect, sw, sh, resize.NearestNeighbor)
	}
	if masks.Remove != nil {
		masks.Remove = scaleImage(masks.Remove, sw, sh, resize.NearestNeighbor)
	}
	return scaled, masks, nil
}

// scaleImage resamples every channel independently. The samples of a channel are mapped
// to 16 bit gray levels between the channel minimum and maximum and mapped back afterwards.
func scaleImage(img *Image, width, height int, interp resize.InterpolationFunction) *Image {
	dst := NewImage(img.Channels, height, width)
	size := img.Width * img.Height

	for c := 0; c < img.Channels; c++ {
		plane := img.Pix[c*size : (c+1)*size]
		lo, hi := plane[0], plane[0]
		for _, v := range plane {
			lo = utils.Min(lo, v)
			hi = utils.Max(hi, v)
		}
		out := dst.Pix[c*width*height : (c+1)*width*height]
		if hi == lo {
			for i := range out {
				out[i] = lo
			}
			continue
		}

		gray := image.NewGray16(image.Rect(0, 0, img.Width, img.Height))
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				level := math.Round((plane[y*img.Width+x] - lo) / (hi - lo) * 0xffff)
				gray.SetGray16(x, y, color.Gray16{Y: uint16(level)})
			}
		}

		res := resize.Resize(uint(width), uint(height), gray, interp)
		b := res.Bounds()
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				level := color.Gray16Model.Convert(res.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16).Y
				out[y*width+x] = lo + float64(level)/0xffff*(hi-lo)
			}
		}
	}
	return dst
}
