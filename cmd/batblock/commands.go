package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cptspacemanspiff/batblock/internal/battery"
	"github.com/cptspacemanspiff/batblock/internal/block"
	"github.com/cptspacemanspiff/batblock/internal/config"
	dbussvc "github.com/cptspacemanspiff/batblock/internal/dbus"
	"github.com/cptspacemanspiff/batblock/internal/dialog"
	"github.com/cptspacemanspiff/batblock/internal/notify"
)

// i3blocks BLOCK_BUTTON values.
const (
	leftClick  = 1
	rightClick = 3
)

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batblock",
		Short: "Battery status block for i3blocks",
		Long: `Print the battery charge as an i3blocks block.

Left click ($BLOCK_BUTTON=1) shows the time remaining as a desktop
notification, right click ($BLOCK_BUTTON=3) opens a detail dialog.
The process exits with the configured critical exit code when the
charge is at or below the critical level.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupLogger(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBlock(cmd.OutOrStdout())
		},
	}

	cmd.PersistentFlags().StringVarP(&a.opts.configPath, "config", "c", "", "config file (default "+config.DefaultPath()+" if present)")
	cmd.PersistentFlags().StringVarP(&a.opts.device, "device", "d", "", "power-supply device name, overrides $BLOCK_INSTANCE and the config")
	cmd.PersistentFlags().StringVar(&a.opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newShowCommand(a),
		newNotifyCommand(a),
		newDialogCommand(a),
		newServeCommand(a),
		newConfigCommand(a),
	)
	return cmd
}

func (a *app) runBlock(out io.Writer) error {
	cfg, err := a.loadConfig()
	if err != nil {
		defaults := config.DefaultConfig()
		if werr := block.Write(out, block.NewRenderer(defaults.Block, defaults.Theme).Unavailable()); werr != nil {
			a.logger.Error("write block", "err", werr)
		}
		return err
	}
	renderer := block.NewRenderer(cfg.Block, cfg.Theme)

	snap, err := a.acquire(cfg)
	if err != nil {
		return block.Write(out, renderer.Unavailable())
	}

	a.handleButton(cfg, snap)

	if err := block.Write(out, renderer.Line(snap.Display())); err != nil {
		return err
	}
	if renderer.Critical(snap.PercentRemaining()) {
		return &exitCodeError{code: cfg.Block.CriticalExitCode}
	}
	return nil
}

// handleButton reacts to a click on the block. Failures are logged and never
// keep the block line from being printed.
func (a *app) handleButton(cfg *config.Config, snap *battery.Snapshot) {
	raw := strings.TrimSpace(a.getenv("BLOCK_BUTTON"))
	if raw == "" {
		return
	}
	button, err := strconv.Atoi(raw)
	if err != nil {
		a.logger.Warn("ignoring malformed BLOCK_BUTTON", "value", raw)
		return
	}

	switch button {
	case leftClick:
		if err := a.notify(cfg, snap); err != nil {
			a.logger.Error("send notification", "err", err)
		}
	case rightClick:
		if err := a.spawnDialog(a, cfg); err != nil {
			a.logger.Error("open dialog", "err", err)
		}
	}
}

func sendTimeRemaining(cfg *config.Config, snap *battery.Snapshot) error {
	n, err := notify.Dial(cfg.Notification.AppName, cfg.Notification.TimeoutMS)
	if err != nil {
		return err
	}
	defer n.Close()

	_, err = n.TimeRemaining(snap)
	return err
}

// spawnDialogProcess starts "batblock dialog" detached so the block can
// return to i3blocks while the window stays open.
func spawnDialogProcess(a *app, cfg *config.Config) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	args := []string{"dialog", "--device", cfg.Battery.Device, "--log-level", a.opts.logLevel}
	if a.opts.configPath != "" {
		args = append(args, "--config", a.opts.configPath)
	}

	child := exec.Command(exe, args...)
	child.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := child.Start(); err != nil {
		return fmt.Errorf("start dialog: %w", err)
	}
	a.logger.Debug("dialog started", "pid", child.Process.Pid)
	return child.Process.Release()
}

func newNotifyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "notify",
		Short: "Show the time remaining as a desktop notification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			snap, err := a.acquire(cfg)
			if err != nil {
				return err
			}
			return a.notify(cfg, snap)
		},
	}
}

func newDialogCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dialog",
		Short: "Open a window with every battery attribute",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			snap, err := a.acquire(cfg)
			if err != nil {
				return err
			}
			dialog.Show(snap)
			return nil
		},
	}
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print every battery attribute to the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			snap, err := a.acquire(cfg)
			if err != nil {
				return err
			}
			return printDetails(cmd.OutOrStdout(), snap)
		},
	}
}

func levelColor(l battery.Level) *color.Color {
	switch l {
	case battery.LevelCharged, battery.LevelFull:
		return color.New(color.FgGreen)
	case battery.LevelThreeQuarters:
		return color.New(color.FgCyan)
	case battery.LevelHalf:
		return color.New(color.FgYellow)
	case battery.LevelQuarter:
		return color.New(color.FgHiRed)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func printDetails(w io.Writer, snap *battery.Snapshot) error {
	label := color.New(color.Bold)
	value := levelColor(snap.Display().Level)
	for _, row := range dialog.Rows(snap) {
		if _, err := label.Fprintf(w, "%-18s", row.Label); err != nil {
			return err
		}
		if _, err := value.Fprintln(w, row.Value); err != nil {
			return err
		}
	}
	return nil
}

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve battery snapshots on the session D-Bus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			svc := dbussvc.NewService(func() (*battery.Snapshot, error) {
				return a.acquire(cfg)
			})
			conn, err := svc.Export()
			if err != nil {
				return fmt.Errorf("export dbus service: %w", err)
			}
			defer conn.Close()
			a.logger.Info("D-Bus service registered", "name", dbussvc.BusName(), "device", cfg.Battery.Device)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			a.logger.Info("shutting down")
			return nil
		},
	}
}

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Long: `Write the default configuration to --config, or to
` + config.DefaultPath() + ` when --config is not given.
An existing file is kept unless --force is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.opts.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if err := config.Save(path, config.DefaultConfig(), force); err != nil {
				if errors.Is(err, config.ErrExists) {
					return fmt.Errorf("%w (use --force to overwrite)", err)
				}
				return fmt.Errorf("write config: %w", err)
			}
			a.logger.Info("config written", "path", path)
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")

	cmd.AddCommand(initCmd)
	return cmd
}
