// Package main serves the web app in this directory for local testing.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/f4ah6o/feedcalc-serve/internal/banner"
	"github.com/f4ah6o/feedcalc-serve/internal/bundle"
	"github.com/f4ah6o/feedcalc-serve/internal/config"
	"github.com/f4ah6o/feedcalc-serve/internal/devserver"
)

func main() {
	ctx, stop := signalContext(context.Background())
	defer stop()

	if err := run(ctx, os.Stdout); err != nil {
		logrus.Fatalf("Server error: %v", err)
	}
}

// signalContext is cancelled by the first SIGINT or SIGTERM. Signal capture is released
// at that point, so a second Ctrl+C during shutdown kills the process.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	context.AfterFunc(ctx, stop)
	return ctx, stop
}

// run serves the bundle until ctx is done, then prints the farewell.
// Startup faults are returned without serving.
func run(ctx context.Context, stdout io.Writer) error {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	root, err := rootDir()
	if err != nil {
		return fmt.Errorf("resolve directory: %w", err)
	}
	if err := os.Chdir(root); err != nil {
		return fmt.Errorf("change directory: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	level, _ := logrus.ParseLevel(cfg.LogLevel) // validated by config.Load
	logger.SetLevel(level)

	report, err := bundle.Inspect(root)
	if err != nil {
		logger.WithError(err).Warn("Failed to inspect app bundle")
	}

	srv := devserver.New(cfg, devserver.WithLogger(logger))
	ln, err := srv.Listen()
	if err != nil {
		return err
	}

	banner.Render(stdout, banner.Info{
		AppName:  appName(cfg, report),
		Port:     cfg.Port,
		Features: banner.Checklist(report),
		LANAddrs: banner.LANAddrs(),
	})

	if err := srv.Serve(ctx, ln); err != nil {
		return err
	}
	banner.Farewell(stdout)
	return nil
}

// appName prefers the page title when the config leaves the name at its default.
func appName(cfg config.Config, r bundle.Report) string {
	if cfg.AppName == config.DefaultAppName && r.Title != "" {
		return r.Title
	}
	return cfg.AppName
}

// rootDir returns the directory holding the app bundle: the directory of the binary,
// or the working directory under `go run`, whose binary lives in a build cache.
func rootDir() (string, error) {
	dir, err := config.ExecutableDir()
	if err != nil {
		return "", err
	}
	if strings.Contains(dir, string(filepath.Separator)+"go-build") {
		return os.Getwd()
	}
	return dir, nil
}
