package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	minCriticalLevel       = 0
	maxCriticalLevel       = 100
	minCriticalExitCode    = 1
	maxCriticalExitCode    = 255
	minNotificationTimeout = -1
	maxNotificationTimeout = 600000
	defaultSysfsRoot       = "/sys"
	defaultDevice          = "BAT0"
	defaultPath            = "/etc/batblock/config.toml"
	userConfigRelativePath = "batblock/config.toml"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type Config struct {
	Battery      BatteryConfig      `toml:"battery"`
	Block        BlockConfig        `toml:"block"`
	Notification NotificationConfig `toml:"notification"`
	Theme        ThemeConfig        `toml:"theme"`
}

type BatteryConfig struct {
	Device    string `toml:"device"`
	SysfsRoot string `toml:"sysfs_root"`
}

type BlockConfig struct {
	CriticalLevel    int    `toml:"critical_level"`
	CriticalExitCode int    `toml:"critical_exit_code"`
	Font             string `toml:"font"`
}

type NotificationConfig struct {
	AppName   string `toml:"app_name"`
	TimeoutMS int    `toml:"timeout_ms"`
}

// ThemeConfig holds one #RRGGBB color per display level.
type ThemeConfig struct {
	Full          string `toml:"full"`
	ThreeQuarters string `toml:"three_quarters"`
	Half          string `toml:"half"`
	Quarter       string `toml:"quarter"`
	Empty         string `toml:"empty"`
	Critical      string `toml:"critical"`
}

func DefaultConfig() *Config {
	return &Config{
		Battery: BatteryConfig{
			Device:    defaultDevice,
			SysfsRoot: defaultSysfsRoot,
		},
		Block: BlockConfig{
			CriticalLevel:    5,
			CriticalExitCode: 33,
			Font:             "Font Awesome",
		},
		Notification: NotificationConfig{
			AppName:   "Battery",
			TimeoutMS: 5000,
		},
		Theme: ThemeConfig{
			Full:          "#859900",
			ThreeQuarters: "#2AA198",
			Half:          "#B58900",
			Quarter:       "#CB4B16",
			Empty:         "#DC322F",
			Critical:      "#073642",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/batblock/config.toml when the user
// config directory is known, and the system-wide path otherwise.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return defaultPath
	}
	return filepath.Join(dir, userConfigRelativePath)
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return NormalizeAndValidate(cfg)
}

// LoadOptional is Load, except that a missing file yields the defaults.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

func NormalizeAndValidate(cfg *Config) (*Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}

	sanitized := *cfg

	sanitized.Battery.Device = strings.TrimSpace(sanitized.Battery.Device)
	if sanitized.Battery.Device == "" {
		return nil, fmt.Errorf("battery.device must not be empty")
	}
	if strings.ContainsRune(sanitized.Battery.Device, filepath.Separator) {
		return nil, fmt.Errorf("battery.device must be a bare device name, got %q", sanitized.Battery.Device)
	}

	var err error
	sanitized.Battery.SysfsRoot, err = sanitizePath("battery.sysfs_root", sanitized.Battery.SysfsRoot)
	if err != nil {
		return nil, err
	}

	if err := validateRange("block.critical_level", sanitized.Block.CriticalLevel, minCriticalLevel, maxCriticalLevel); err != nil {
		return nil, err
	}
	if err := validateRange("block.critical_exit_code", sanitized.Block.CriticalExitCode, minCriticalExitCode, maxCriticalExitCode); err != nil {
		return nil, err
	}
	if err := validateRange("notification.timeout_ms", sanitized.Notification.TimeoutMS, minNotificationTimeout, maxNotificationTimeout); err != nil {
		return nil, err
	}
	sanitized.Notification.AppName = strings.TrimSpace(sanitized.Notification.AppName)
	if sanitized.Notification.AppName == "" {
		return nil, fmt.Errorf("notification.app_name must not be empty")
	}

	colors := []struct {
		name  string
		value string
	}{
		{"theme.full", sanitized.Theme.Full},
		{"theme.three_quarters", sanitized.Theme.ThreeQuarters},
		{"theme.half", sanitized.Theme.Half},
		{"theme.quarter", sanitized.Theme.Quarter},
		{"theme.empty", sanitized.Theme.Empty},
		{"theme.critical", sanitized.Theme.Critical},
	}
	for _, c := range colors {
		if !hexColor.MatchString(c.value) {
			return nil, fmt.Errorf("%s must be a #RRGGBB color, got %q", c.name, c.value)
		}
	}

	return &sanitized, nil
}

// ErrExists is returned by Save when replace is false and path exists.
var ErrExists = errors.New("config file already exists")

const fileHeader = "# batblock configuration. Unset keys take their default values.\n\n"

// Save validates cfg and writes it to path as TOML. The file appears
// atomically. Without replace an existing file is left untouched and
// ErrExists is returned.
func Save(path string, cfg *Config, replace bool) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("config path must not be empty")
	}

	sanitized, err := NormalizeAndValidate(cfg)
	if err != nil {
		return err
	}

	var data bytes.Buffer
	data.WriteString(fileHeader)
	if err := toml.NewEncoder(&data).Encode(sanitized); err != nil {
		return fmt.Errorf("encode config TOML: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmpPath, err := writeTemp(dir, data.Bytes())
	if err != nil {
		return err
	}
	defer os.Remove(tmpPath)

	if replace {
		if err := os.Rename(tmpPath, path); err != nil {
			return fmt.Errorf("replace config file: %w", err)
		}
		return nil
	}
	// Link fails if path exists, so a concurrent writer is never clobbered.
	if err := os.Link(tmpPath, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
		return fmt.Errorf("create config file: %w", err)
	}
	return nil
}

func writeTemp(dir string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return "", fmt.Errorf("create temp config file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write temp config file: %w", err)
	}
	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("chmod temp config file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close temp config file: %w", err)
	}
	return f.Name(), nil
}

func sanitizePath(name, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%s must not be empty", name)
	}
	cleaned := filepath.Clean(trimmed)
	if !filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("%s must be an absolute path, got %q", name, value)
	}
	return cleaned, nil
}

func validateRange(name string, value, min, max int) error {
	if value < min || value > max {
		return fmt.Errorf("%s must be between %d and %d, got %d", name, min, max, value)
	}

	return nil
}
