package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/esimov/carver/utils"
)

const HelpBanner = `
┌─┐┌─┐┬─┐┬  ┬┌─┐┬─┐
│  ├─┤├┬┘└┐┌┘├┤ ├┬┘
└─┘┴ ┴┴└─ └┘ └─┘┴└─

Content aware image resize tool.
    Version: %s
`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version = "dev"

func main() {
	log.SetFlags(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n\t%s\n",
			utils.DecorateText("Error resizing the image:", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("Reason: %v", err), utils.DefaultMessage),
		)
		os.Exit(1)
	}
}
