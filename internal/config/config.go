// Package config loads sigscope settings from ~/.sigscope/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the persistent application configuration.
type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Window  WindowConfig  `yaml:"window"`
	Log     LogConfig     `yaml:"log"`
	UI      UIConfig      `yaml:"ui"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// DeviceConfig selects the byte source.
type DeviceConfig struct {
	Port        string `yaml:"port"`          // serial device path
	BaudRate    int    `yaml:"baud_rate"`     // serial speed
	URL         string `yaml:"url,omitempty"` // ws://, wss:// or file:// (overrides port)
	AutoConnect bool   `yaml:"auto_connect"`
}

// WindowConfig sizes the rolling charts.
type WindowConfig struct {
	Points int     `yaml:"points"`
	YMin   float64 `yaml:"y_min"`
	YMax   float64 `yaml:"y_max"`
}

// LogConfig caps the on-screen event log.
type LogConfig struct {
	Capacity int `yaml:"capacity"`
}

// UIConfig holds display preferences.
type UIConfig struct {
	FPS   int    `yaml:"fps"`   // maximum chart redraws per second
	Theme string `yaml:"theme"` // "dark" (default) or "light"
}

// MetricsConfig exposes Prometheus metrics when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// DefaultConfig returns the settings the generator firmware expects.
func DefaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			BaudRate: 115200,
		},
		Window: WindowConfig{
			Points: 150,
			YMin:   -6,
			YMax:   6,
		},
		Log: LogConfig{
			Capacity: 500,
		},
		UI: UIConfig{
			FPS:   20,
			Theme: "dark",
		},
	}
}

// Dir returns ~/.sigscope.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".sigscope")
}

// ConfigPath returns the default config file path.
func ConfigPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads path (ConfigPath if empty) over the defaults. A missing file
// is not an error. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.AutoPopulateFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path (ConfigPath if empty).
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// AutoPopulateFromEnv applies SIGSCOPE_* overrides. Unparseable numbers are ignored.
func (c *Config) AutoPopulateFromEnv() {
	if v := os.Getenv("SIGSCOPE_PORT"); v != "" {
		c.Device.Port = v
	}
	if v := os.Getenv("SIGSCOPE_URL"); v != "" {
		c.Device.URL = v
	}
	if n, ok := envInt("SIGSCOPE_BAUD"); ok {
		c.Device.BaudRate = n
	}
	if n, ok := envInt("SIGSCOPE_POINTS"); ok {
		c.Window.Points = n
	}
	if v := os.Getenv("SIGSCOPE_METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Validate rejects settings the viewer cannot run with.
func (c *Config) Validate() error {
	if c.Device.BaudRate <= 0 {
		return fmt.Errorf("config: baud_rate must be positive, got %d", c.Device.BaudRate)
	}
	if c.Window.Points <= 0 {
		return fmt.Errorf("config: window.points must be positive, got %d", c.Window.Points)
	}
	if c.Window.YMin >= c.Window.YMax {
		return fmt.Errorf("config: window.y_min (%g) must be below y_max (%g)", c.Window.YMin, c.Window.YMax)
	}
	if c.Log.Capacity <= 0 {
		return fmt.Errorf("config: log.capacity must be positive, got %d", c.Log.Capacity)
	}
	if c.UI.FPS <= 0 {
		return fmt.Errorf("config: ui.fps must be positive, got %d", c.UI.FPS)
	}
	switch c.UI.Theme {
	case "", "dark", "light":
	default:
		return fmt.Errorf("config: ui.theme must be dark or light, got %q", c.UI.Theme)
	}
	return nil
}
