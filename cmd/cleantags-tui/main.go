package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/handiism/cleantags/internal/config"
	ioutils "github.com/handiism/cleantags/internal/io"
	"github.com/handiism/cleantags/internal/logging"
	"github.com/handiism/cleantags/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file")
	flag.Parse()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Logs would corrupt the screen; they only go to the configured file.
	logger := zap.NewNop()
	if settings.Logging.File != "" {
		if err := ioutils.EnsureDir(filepath.Dir(settings.Logging.File)); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating log directory: %v\n", err)
			os.Exit(1)
		}
		logger, err = logging.New(logging.Options{
			Level:            settings.Logging.Level,
			Format:           settings.Logging.Format,
			OutputPaths:      []string{settings.Logging.File},
			ErrorOutputPaths: []string{settings.Logging.File},
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync() //nolint:errcheck
	}

	if err := tui.Run(settings, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
