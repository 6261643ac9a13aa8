package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/esimov/carver"
	"github.com/esimov/carver/internal/config"
	"github.com/esimov/carver/utils"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = config.MaxWorkers

// Ops describes a resizing run over a single image or a directory of images.
type Ops struct {
	Src, Dst, PipeName string
	Workers            int
	Square             bool
	Mask, RMask        string

	carver  *carver.Carver
	logger  *zap.Logger
	spinner *utils.Spinner
}

// result holds the relevant information about the resizing process and the generated image.
type result struct {
	path string
	err  error
}

// Execute executes the image resizing process.
func (op *Ops) Execute(ctx context.Context) error {
	var (
		fs  os.FileInfo
		err error
	)
	src := op.Src

	// Check if source path is a local image or URL.
	if utils.IsValidUrl(src) {
		tmp, err := utils.DownloadImage(ctx, src)
		if err != nil {
			return fmt.Errorf("failed to load the source image: %w", err)
		}
		defer os.Remove(tmp.Name())
		tmp.Close()
		src = tmp.Name()
	}

	// Check if the source is a pipe name or a regular file.
	if src == op.PipeName {
		fs, err = os.Stdin.Stat()
	} else {
		fs, err = os.Stat(src)
	}
	if err != nil {
		return fmt.Errorf("failed to load the source image: %w", err)
	}

	now := time.Now()
	if op.spinner != nil {
		op.spinner.Start()
	}

	switch mode := fs.Mode(); {
	case mode.IsDir():
		err = op.processDir(ctx, src)
	case mode.IsRegular() || mode&os.ModeNamedPipe != 0: // check for regular files or pipe names
		if op.Dst != op.PipeName && !isValidExtension(filepath.Ext(op.Dst), encodeExtensions) {
			err = fmt.Errorf("%v file type not supported", filepath.Ext(op.Dst))
			break
		}
		err = op.process(ctx, src, op.Dst)
	default:
		err = errors.New("`-` should be used with a pipe for stdin")
	}

	op.stopSpinner(err)
	if err != nil {
		return err
	}

	if op.Dst != op.PipeName {
		fmt.Fprintf(os.Stderr, "\nThe image has been saved as: %s %s\n",
			utils.DecorateText(filepath.Base(op.Dst), utils.SuccessMessage),
			utils.DefaultColor,
		)
	}
	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
	return nil
}

// processDir resizes recursively the image files from the source directory concurrently.
func (op *Ops) processDir(ctx context.Context, src string) error {
	if op.Dst == op.PipeName {
		return errors.New("a directory cannot be written to stdout")
	}
	// Create the destination directory in case it does not exist.
	if err := os.MkdirAll(op.Dst, 0755); err != nil {
		return fmt.Errorf("unable to create the destination directory: %w", err)
	}

	// Limit the concurrently running workers to maxWorkers.
	workers := op.Workers
	if workers <= 0 || workers > maxWorkers {
		workers = utils.Min(runtime.NumCPU(), maxWorkers)
	}

	ch := make(chan result)
	done := make(chan struct{})
	defer close(done)

	paths, errc := walkDir(done, src, decodeExtensions)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			op.consumer(ctx, op.Dst, ch, done, paths)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	// Consume the channel values.
	var total, failed int
	for res := range ch {
		total++
		if res.err != nil {
			failed++
			op.logger.Error("resizing image failed", zap.String("path", res.path), zap.Error(res.err))
			continue
		}
		op.logger.Info("image resized", zap.String("path", res.path))
	}

	if err := <-errc; err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d images could not be resized", failed, total)
	}
	return nil
}

// consumer reads the path names from the paths channel and calls the resizing processor against the source image.
func (op *Ops) consumer(
	ctx context.Context,
	dest string,
	res chan<- result,
	done <-chan struct{},
	paths <-chan string,
) {
	for src := range paths {
		err := op.process(ctx, src, outputPath(dest, src))

		select {
		case <-done:
			return
		case res <- result{
			path: src,
			err:  err,
		}:
		}
	}
}

// process resizes the source image and writes the result to the destination.
// The destination file is removed in case of an error.
func (op *Ops) process(ctx context.Context, in, out string) (err error) {
	src, dst, err := op.pathToFile(in, out)
	if err != nil {
		return err
	}

	defer func() {
		if img, ok := src.(*os.File); ok && img != os.Stdin {
			if cerr := img.Close(); cerr != nil {
				op.logger.Warn("could not close the opened file", zap.Error(cerr))
			}
		}
	}()

	defer func() {
		if img, ok := dst.(*os.File); ok && img != os.Stdout {
			if cerr := img.Close(); cerr != nil && err == nil {
				err = cerr
			}
			if err != nil {
				os.Remove(img.Name())
			}
		}
	}()

	format := imaging.PNG
	if out != op.PipeName {
		if format, err = imaging.FormatFromFilename(out); err != nil {
			return err
		}
	}
	return op.resize(ctx, src, dst, format)
}

// pathToFile converts the source and destination paths to readable and writable files.
func (op *Ops) pathToFile(in, out string) (io.Reader, io.Writer, error) {
	var (
		src io.Reader
		dst io.Writer
		err error
	)
	// Check if the source is a pipe name or a regular file.
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		src, err = os.Open(in)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open the source file: %w", err)
		}
	}

	// Check if the destination is a pipe name or a regular file.
	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			if f, ok := src.(*os.File); ok && f != os.Stdin {
				f.Close()
			}
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		dst, err = os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			if f, ok := src.(*os.File); ok && f != os.Stdin {
				f.Close()
			}
			return nil, nil, fmt.Errorf("unable to create the destination file: %w", err)
		}
	}
	return src, dst, nil
}

func (op *Ops) stopSpinner(err error) {
	if op.spinner == nil {
		return
	}
	if err != nil {
		op.spinner.StopMsg = fmt.Sprintf("%s %s %s\n",
			utils.DecorateText("⚡ CARVER", utils.StatusMessage),
			utils.DecorateText("resizing image failed...", utils.DefaultMessage),
			utils.DecorateText("✘", utils.ErrorMessage),
		)
	} else {
		op.spinner.StopMsg = fmt.Sprintf("%s %s %s\n",
			utils.DecorateText("⚡ CARVER", utils.StatusMessage),
			utils.DecorateText("⇢", utils.DefaultMessage),
			utils.DecorateText("the image has been resized successfully ✔", utils.SuccessMessage),
		)
	}
	op.spinner.Stop()
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each regular file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan struct{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() || !isValidExtension(filepath.Ext(f.Name()), srcExts) {
				return nil
			}

			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}
