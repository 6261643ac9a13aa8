package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/esimov/carver"
	"github.com/esimov/carver/internal/config"
	"github.com/esimov/carver/internal/logging"
	"github.com/esimov/carver/utils"
)

// cliFlags holds the flags which are not part of the configuration file.
type cliFlags struct {
	source      string
	destination string
	configFile  string
	square      bool
	mask        string
	rmask       string
}

func newRootCommand() *cobra.Command {
	f := &cliFlags{}

	cmd := &cobra.Command{
		Use:   "carver",
		Short: "Content aware image resize tool",
		Long: fmt.Sprintf(HelpBanner, Version) + `
Resizes images to a new width and height by removing or inserting the seams
of lowest importance. The source can be an image file, a directory, an URL
or - for stdin.

Examples:
  carver --in input.jpg --out output.jpg --width 500
  carver --in images/ --out resized/ --width 320 --height 240 --conc 4
  cat input.png | carver --height 200 > output.png`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.Flags(), f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.source, "in", "i", pipeName, "Source image, directory or URL")
	fl.StringVarP(&f.destination, "out", "o", pipeName, "Destination image or directory")
	fl.StringVar(&f.configFile, "config", "", "YAML configuration file")
	fl.BoolVar(&f.square, "square", false, "Reduce image to square dimensions")
	fl.StringVar(&f.mask, "mask", "", "Mask image of the regions to protect")
	fl.StringVar(&f.rmask, "rmask", "", "Mask image of the regions to remove")

	// The flags below are bound to the configuration keys.
	fl.Int("width", 0, "New width, 0 keeps the source width")
	fl.Int("height", 0, "New height, 0 keeps the source height")
	fl.Int("channels", 0, "Channels used for carving: 1, 3 or 4 (0 uses 3)")
	fl.Bool("smooth", false, "Average the inserted seams with their neighbors")
	fl.String("energy", carver.EnergyGradient, "Energy function: gradient or sobel")
	fl.Float64("sobel", 0, "Sobel filter threshold")
	fl.Int("blur", 0, "Blur radius applied before computing the energy")
	fl.Bool("prescale", false, "Proportional scaling before carving")
	fl.String("interp", "lanczos3", "Prescale interpolation: nearest, bilinear, bicubic, mitchell, lanczos2, lanczos3")
	fl.Bool("face", false, "Use face detection")
	fl.String("cc", "", "Cascade classifier")
	fl.Float64("angle", 0.0, "Plane rotated faces angle")
	fl.Int("conc", 0, "Number of files to process concurrently (0 uses the number of CPUs)")
	fl.String("log-level", "info", "Log level")
	fl.String("log-dir", "", "Directory of the rotated log files")
	fl.String("log-format", "console", "Log format: console or json")

	return cmd
}

func run(ctx context.Context, flags *pflag.FlagSet, f *cliFlags) error {
	cfg, err := config.Load(f.configFile, flags)
	if err != nil {
		return err
	}
	if cfg.Carver.OutWidth == 0 && cfg.Carver.OutHeight == 0 && !f.square {
		return errors.New("please provide a width or height for image rescaling")
	}
	if cfg.Carver.InChannels == 0 {
		cfg.Carver.InChannels = 3
	}

	logger, closer, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("unable to create the logger: %w", err)
	}
	defer closer.Close()
	defer logger.Sync()

	opts := []carver.Option{carver.WithLogger(logger)}
	if cfg.Face.Enabled {
		cascade, err := os.ReadFile(cfg.Face.Cascade)
		if err != nil {
			return fmt.Errorf("error reading the cascade file: %w", err)
		}
		detector, err := carver.NewFaceDetector(cascade)
		if err != nil {
			return err
		}
		detector.Angle = cfg.Face.Angle
		opts = append(opts, carver.WithDetector(detector))
	}

	c, err := carver.New(cfg.Carver, opts...)
	if err != nil {
		return err
	}

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ CARVER", utils.StatusMessage),
		utils.DecorateText("is resizing the image...", utils.DefaultMessage))

	op := &Ops{
		Src:      f.source,
		Dst:      f.destination,
		PipeName: pipeName,
		Workers:  cfg.Workers,
		Square:   f.square,
		Mask:     f.mask,
		RMask:    f.rmask,
		carver:   c,
		logger:   logger,
		spinner:  utils.NewSpinner(spinnerText, time.Millisecond*200, true),
	}
	logger.Debug("starting",
		zap.String("source", f.source),
		zap.String("destination", f.destination),
		zap.Any("config", cfg.Carver),
	)
	return op.Execute(ctx)
}
