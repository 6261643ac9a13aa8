package carver

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidImage is returned for images with a zero dimension or a malformed pixel buffer.
	ErrInvalidImage = errors.New("invalid image")

	// ErrDegenerateMap is returned when an energy map cannot be used for seam search.
	ErrDegenerateMap = errors.New("degenerate energy map")

	// ErrSeamOutOfBounds signals a seam which does not fit the image it is applied to.
	// It always indicates a caller bug, never a data condition.
	ErrSeamOutOfBounds = errors.New("seam out of bounds")

	// ErrInvalidTarget is returned when the requested size is non-positive.
	ErrInvalidTarget = errors.New("invalid target size")

	// ErrInvalidConfig is returned by New when the configuration does not validate.
	ErrInvalidConfig = errors.New("invalid carver config")
)

// BatchError reports the batch index of the image which failed.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch image %d: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
