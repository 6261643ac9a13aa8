package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/esimov/carver"
	"github.com/esimov/carver/utils"
)

// decodeExtensions are the image files picked up from a source directory.
var decodeExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tif", ".tiff", ".webp"}

// encodeExtensions are the supported destination image files.
var encodeExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tif", ".tiff"}

// resize decodes the source image, carves it to the target size and encodes the result.
func (op *Ops) resize(ctx context.Context, r io.Reader, w io.Writer, format imaging.Format) error {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("unable to decode the source image: %w", err)
	}
	src, err := carver.FromImage(img, op.carver.Config().InChannels)
	if err != nil {
		return err
	}
	masks, err := op.loadMasks(src)
	if err != nil {
		return err
	}

	res, err := op.carver.CarveMasked(ctx, src, masks, op.target(src))
	if err != nil {
		return err
	}
	out, err := res.ToNRGBA()
	if err != nil {
		return err
	}
	return imaging.Encode(w, out, format)
}

// target returns the output size of the image. A zero dimension keeps the source size.
func (op *Ops) target(img *carver.Image) carver.TargetSize {
	cfg := op.carver.Config()
	t := carver.TargetSize{Width: cfg.OutWidth, Height: cfg.OutHeight}
	if t.Width == 0 {
		t.Width = img.Width
	}
	if t.Height == 0 {
		t.Height = img.Height
	}
	if op.Square {
		side := utils.Min(t.Width, t.Height)
		t.Width, t.Height = side, side
	}
	return t
}

// loadMasks reads the protective and removal masks, scaled to the image size.
func (op *Ops) loadMasks(img *carver.Image) (carver.Masks, error) {
	var (
		masks carver.Masks
		err   error
	)
	if op.Mask != "" {
		if masks.Protect, err = loadMask(op.Mask, img.Width, img.Height); err != nil {
			return masks, err
		}
	}
	if op.RMask != "" {
		if masks.Remove, err = loadMask(op.RMask, img.Width, img.Height); err != nil {
			return masks, err
		}
	}
	return masks, nil
}

func loadMask(path string, width, height int) (*carver.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open the mask file: %w", err)
	}
	defer f.Close()

	mask, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("unable to decode the mask %s: %w", path, err)
	}
	if b := mask.Bounds(); b.Dx() != width || b.Dy() != height {
		mask = imaging.Resize(mask, width, height, imaging.NearestNeighbor)
	}
	return carver.FromImage(mask, 1)
}

// outputPath returns the destination of a file resized in directory mode.
// Formats which cannot be encoded are written as png.
func outputPath(dest, src string) string {
	name := filepath.Base(src)
	ext := filepath.Ext(name)
	if !isValidExtension(ext, encodeExtensions) {
		name = strings.TrimSuffix(name, ext) + ".png"
	}
	return filepath.Join(dest, name)
}

// isValidExtension checks for the supported extensions.
func isValidExtension(ext string, extensions []string) bool {
	ext = strings.ToLower(ext)
	for _, ex := range extensions {
		if ex == ext {
			return true
		}
	}
	return false
}
