package carver

import (
	"fmt"
	"image"

	pigo "github.com/esimov/pigo/core"

	"github.com/esimov/carver/utils"
)

// Detector finds the regions of an image which should not be carved.
type Detector interface {
	Detect(*Image) []image.Rectangle
}

// FaceDetector detects faces with the pigo cascade classifier.
// The detected faces are protected from seam removal on every carving iteration.
type FaceDetector struct {
	classifier *pigo.Pigo

	// Angle is the in-plane rotation of the faces, in turns (0.0 - 1.0).
	Angle float64
	// MinSize is the minimum face size in pixels.
	MinSize int
	// ShiftFactor and ScaleFactor control the sliding window of the classifier.
	ShiftFactor float64
	ScaleFactor float64
	// IoUThreshold is the intersection over union used to cluster the detections.
	IoUThreshold float64
	// MinQuality drops the detections with a lower score.
	MinQuality float32
}

var _ Detector = (*FaceDetector)(nil)

// minCascadeSize is the size of the cascade header: 8 reserved bytes, the tree depth and the tree count.
const minCascadeSize = 16

// NewFaceDetector unpacks the binary cascade file and returns a detector with the default parameters.
func NewFaceDetector(cascade []byte) (fd *FaceDetector, err error) {
	if len(cascade) < minCascadeSize {
		return nil, fmt.Errorf("error unpacking the cascade file: %d bytes is too short", len(cascade))
	}
	// The unpacker indexes the packet without bound checks.
	defer func() {
		if r := recover(); r != nil {
			fd, err = nil, fmt.Errorf("error unpacking the cascade file: truncated data: %v", r)
		}
	}()

	// Unpack the binary file. This will return the number of cascade trees,
	// the tree depth, the threshold and the prediction from tree's leaf nodes.
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("error unpacking the cascade file: %w", err)
	}
	return &FaceDetector{
		classifier:   classifier,
		MinSize:      20,
		ShiftFactor:  0.1,
		ScaleFactor:  1.1,
		IoUThreshold: 0.2,
		MinQuality:   5.0,
	}, nil
}

// Detect returns the bounding boxes of the faces found in the image.
func (fd *FaceDetector) Detect(img *Image) []image.Rectangle {
	dx, dy := img.Width, img.Height
	if utils.Max(dx, dy) < fd.MinSize {
		return nil
	}

	cParams := pigo.CascadeParams{
		MinSize:     fd.MinSize,
		MaxSize:     utils.Max(dx, dy),
		ShiftFactor: fd.ShiftFactor,
		ScaleFactor: fd.ScaleFactor,

		ImageParams: pigo.ImageParams{
			Pixels: grayscalePixels(img),
			Rows:   dy,
			Cols:   dx,
			Dim:    dx,
		},
	}

	// Run the classifier over the obtained leaf nodes and return the detection results.
	// The result contains quadruplets representing the row, column, scale and detection score.
	faces := fd.classifier.RunCascade(cParams, fd.Angle)

	// Calculate the intersection over union (IoU) of two clusters.
	faces = fd.classifier.ClusterDetections(faces, fd.IoUThreshold)

	bounds := image.Rect(0, 0, dx, dy)
	rects := make([]image.Rectangle, 0, len(faces))
	for _, face := range faces {
		if face.Q <= fd.MinQuality {
			continue
		}
		rect := image.Rect(
			face.Col-face.Scale/2,
			face.Row-face.Scale/2,
			face.Col+face.Scale/2,
			face.Row+face.Scale/2,
		).Intersect(bounds)
		if !rect.Empty() {
			rects = append(rects, rect)
		}
	}
	return rects
}
