package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/klutter-gen/internal/log"
	"github.com/Alia5/klutter-gen/internal/project"
	"github.com/Alia5/klutter-gen/internal/watch"
)

// Watch regenerates the adapters whenever a Kotlin source or pubspec.yaml
// changes.
type Watch struct {
	Generate `embed:""`
	Delay    time.Duration `help:"Quiet period after the last change before regenerating" default:"200ms" env:"KLUTTER_GEN_WATCH_DELAY"`
}

// Run is called by Kong when the watch command is executed.
func (c *Watch) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.Watch(ctx, logger, rawLogger)
}

// Watch generates once, then regenerates on every burst of changes until ctx
// is done. Failed runs are reported and do not stop watching.
func (c *Watch) Watch(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	regenerate := func(changed []string) error {
		if len(changed) > 0 {
			logger.Info("Sources changed, regenerating", "files", len(changed))
		}
		if _, err := c.generate(logger, rawLogger); err != nil {
			logger.Debug("Generation failed, waiting for further changes", "error", err)
		}
		return nil
	}

	w, err := watch.New(logger, c.Delay, []string{"*.kt", project.PubspecFile}, regenerate)
	if err != nil {
		return err
	}
	if err := c.addDirs(logger, w); err != nil {
		_ = w.Close()
		return err
	}

	_ = regenerate(nil)
	logger.Info("Watching for changes", "root", c.Root)
	return w.Run(ctx)
}

func (c *Watch) addDirs(logger *slog.Logger, w *watch.Watcher) error {
	if err := w.Add(c.Root); err != nil {
		return err
	}
	proj := &project.Project{Root: c.Root}
	for _, dir := range proj.SourceDirs(c.Source) {
		err := w.AddRecursive(dir)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Source directory does not exist", "dir", dir)
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
