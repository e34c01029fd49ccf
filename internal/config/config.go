package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kakapo-ui/kakapo/internal/errors"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "kakapo.json"

	// YAMLConfigFileName is the name of the YAML configuration file. It
	// takes precedence over kakapo.json when both exist.
	YAMLConfigFileName = "kakapo.yaml"

	// DefaultTitle is the default window title.
	DefaultTitle = "kakapo"

	// DefaultEventQueue is the default capacity of a window's input queue.
	DefaultEventQueue = 64

	// DefaultInspectorAddr is the default inspector listen address.
	DefaultInspectorAddr = "localhost:7070"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "kakapo"

	// DefaultPressDelay is how long the demo's background work takes.
	DefaultPressDelay = "2s"
)

// Config represents the complete kakapo configuration.
type Config struct {
	// Window contains window configuration.
	Window WindowConfig `json:"window" yaml:"window"`

	// Inspector contains the HTTP inspector configuration.
	Inspector InspectorConfig `json:"inspector" yaml:"inspector"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Log contains logging configuration.
	Log LogConfig `json:"log" yaml:"log"`

	// Demo contains settings for the bundled demo application.
	Demo DemoConfig `json:"demo" yaml:"demo"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// WindowConfig contains window configuration.
type WindowConfig struct {
	// Title is the window title.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// EventQueue is the capacity of the press and dispatch queues.
	EventQueue int `json:"eventQueue,omitempty" yaml:"eventQueue,omitempty"`
}

// InspectorConfig contains the HTTP inspector configuration.
type InspectorConfig struct {
	// Enabled starts the inspector with the application.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Addr is the listen address.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// MetricsConfig contains Prometheus configuration.
type MetricsConfig struct {
	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// File is where logs are written. Empty means stderr.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// DemoConfig contains settings for the demo application.
type DemoConfig struct {
	// PressDelay is a duration string like "2s".
	PressDelay string `json:"pressDelay,omitempty" yaml:"pressDelay,omitempty"`
}

// New creates a configuration with default values.
func New() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      DefaultTitle,
			EventQueue: DefaultEventQueue,
		},
		Inspector: InspectorConfig{
			Addr: DefaultInspectorAddr,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Demo: DemoConfig{
			PressDelay: DefaultPressDelay,
		},
	}
}

// Default is an alias for New.
func Default() *Config {
	return New()
}

// Load loads the configuration from dir. kakapo.yaml is preferred over
// kakapo.json; if neither exists the defaults are returned.
func Load(dir string) (*Config, error) {
	for _, name := range []string{YAMLConfigFileName, ConfigFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return New(), nil
}

// LoadFile loads the configuration from a specific file. The format is
// chosen by extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("K030").
				WithDetail("No config file at " + path).
				WithSuggestion("Run 'kakapo config init' to create one")
		}
		return nil, errors.New("K030").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("K030").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid YAML")
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("K030").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid JSON")
		}
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save saves the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo saves the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	data, err := c.Marshal(isYAML(path))
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("K030").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Marshal encodes the configuration as YAML or indented JSON.
func (c *Config) Marshal(asYAML bool) ([]byte, error) {
	if asYAML {
		data, err := yaml.Marshal(c)
		if err != nil {
			return nil, errors.New("K030").Wrap(err)
		}
		return data, nil
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, errors.New("K030").Wrap(err)
	}
	// Add newline at end of file
	return append(data, '\n'), nil
}

// Path returns the path to the config file, or "" for defaults.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Window.Title == "" {
		c.Window.Title = DefaultTitle
	}
	if c.Window.EventQueue == 0 {
		c.Window.EventQueue = DefaultEventQueue
	}
	if c.Inspector.Addr == "" {
		c.Inspector.Addr = DefaultInspectorAddr
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Demo.PressDelay == "" {
		c.Demo.PressDelay = DefaultPressDelay
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Window.EventQueue < 1 {
		return invalid("window.eventQueue", "at least 1", fmt.Sprint(c.Window.EventQueue))
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format", "text or json", c.Log.Format)
	}
	if _, err := c.PressDelay(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses log.level.
func (c *Config) LogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, invalid("log.level", "debug, info, warn or error", c.Log.Level)
	}
}

// PressDelay parses demo.pressDelay.
func (c *Config) PressDelay() (time.Duration, error) {
	d, err := time.ParseDuration(c.Demo.PressDelay)
	if err != nil || d < 0 {
		return 0, invalid("demo.pressDelay", "a non-negative duration", c.Demo.PressDelay)
	}
	return d, nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range []string{YAMLConfigFileName, ConfigFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

func invalid(field, expected, actual string) *errors.Error {
	return errors.New("K031").
		WithDetail("Invalid value for " + field).
		WithTypes(expected, actual)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
