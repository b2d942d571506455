package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cptspacemanspiff/batblock/internal/battery"
	"github.com/cptspacemanspiff/batblock/internal/config"
	"github.com/cptspacemanspiff/batblock/internal/sysfs"
)

// exitCodeError asks main to exit with a specific status after output has
// been written.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

type options struct {
	configPath string
	device     string
	logLevel   string
}

// app carries the process-level collaborators so commands can be tested
// without a bus, a display or a real environment.
type app struct {
	opts   options
	logger *slog.Logger

	getenv      func(string) string
	notify      func(cfg *config.Config, s *battery.Snapshot) error
	spawnDialog func(a *app, cfg *config.Config) error
}

func newApp() *app {
	return &app{
		logger:      slog.New(slog.NewTextHandler(os.Stderr, nil)),
		getenv:      os.Getenv,
		notify:      sendTimeRemaining,
		spawnDialog: spawnDialogProcess,
	}
}

func (a *app) setupLogger(cmd *cobra.Command) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.opts.logLevel)); err != nil {
		return fmt.Errorf("parse log level %q: %w", a.opts.logLevel, err)
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// loadConfig resolves the configuration. Device precedence is --device,
// then $BLOCK_INSTANCE, then the config file.
func (a *app) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if a.opts.configPath != "" {
		cfg, err = config.Load(a.opts.configPath)
	} else {
		cfg, err = config.LoadOptional(config.DefaultPath())
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if instance := strings.TrimSpace(a.getenv("BLOCK_INSTANCE")); instance != "" {
		cfg.Battery.Device = instance
	}
	if a.opts.device != "" {
		cfg.Battery.Device = a.opts.device
	}
	return config.NormalizeAndValidate(cfg)
}

func (a *app) acquire(cfg *config.Config) (*battery.Snapshot, error) {
	snap, err := battery.Acquire(sysfs.NewReader(cfg.Battery.SysfsRoot), cfg.Battery.Device)
	if err != nil {
		a.logAcquireError(err)
		return nil, err
	}
	a.logger.Debug("battery acquired",
		"device", snap.Device(),
		"status", snap.Status(),
		"percent", snap.PercentRemaining())
	return snap, nil
}

func (a *app) logAcquireError(err error) {
	var acqErr *sysfs.AcquisitionError
	if errors.As(err, &acqErr) {
		a.logger.Error("battery unavailable",
			"device", acqErr.Device,
			"attribute", acqErr.Attribute,
			"path", acqErr.Path,
			"kind", acqErr.Kind.String(),
			"err", acqErr.Err)
		return
	}
	a.logger.Error("battery unavailable", "err", err)
}

func main() {
	cmd := newRootCommand(newApp())
	if err := cmd.Execute(); err != nil {
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
