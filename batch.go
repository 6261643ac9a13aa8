package carver

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CarveBatch carves every image to the target size. The images are independent and
// carved concurrently, at most Config.Workers at a time; the output keeps the input order.
//
// All the images are validated before carving starts, so an invalid input is reported
// for the lowest failing index. Once carving runs, the first failure cancels the images
// still in progress. Failures are returned as *BatchError.
func (c *Carver) CarveBatch(ctx context.Context, imgs []*Image, target TargetSize) ([]*Image, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	for i, img := range imgs {
		if err := c.checkImage(img); err != nil {
			return nil, &BatchError{Index: i, Err: err}
		}
	}

	out := make([]*Image, len(imgs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers())

	for i, img := range imgs {
		i, img := i, img
		g.Go(func() error {
			res, err := c.Carve(gctx, img, target)
			if err != nil {
				return &BatchError{Index: i, Err: err}
			}
			out[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.logger.Warn("batch carving failed", zap.Int("images", len(imgs)), zap.Error(err))
		return nil, err
	}
	return out, nil
}
