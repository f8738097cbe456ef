package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all MODELTRON configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Console behaviour
	Console ConsoleConfig `yaml:"console"`

	// Which debugger answers text and image requests
	Debugger DebuggerConfig `yaml:"debugger"`

	// Generative API providers
	Generative GenerativeConfig `yaml:"generative"`

	// File uploads
	Upload UploadConfig `yaml:"upload"`

	// Transcript store
	Store StoreConfig `yaml:"store"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ConsoleConfig configures the interactive console.
type ConsoleConfig struct {
	ModelName     string `yaml:"model_name"`
	ErrorDismiss  string `yaml:"error_dismiss"`  // inline error lifetime
	GlobeInterval string `yaml:"globe_interval"` // matrix rain repaint period
	BootSplash    bool   `yaml:"boot_splash"`
	Persona       string `yaml:"persona"` // assistant, retro
}

// Debugger backends.
const (
	BackendSimulated  = "simulated"
	BackendGenerative = "generative"
)

// ValidBackends lists the accepted debugger backends.
var ValidBackends = []string{BackendSimulated, BackendGenerative}

// DebuggerConfig selects the analysis backend.
type DebuggerConfig struct {
	Backend   string `yaml:"backend"`
	ChartKind string `yaml:"chart_kind"` // bar, line, pie, custom
}

// UploadConfig configures file uploads.
type UploadConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

// StoreConfig configures the SQLite transcript store.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DefaultDir is the per-workspace state directory.
const DefaultDir = ".modeltron"

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDir, "config.yaml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "MODELTRON-8000",
		Version: "1.0.0",

		Console: ConsoleConfig{
			ModelName:     "",
			ErrorDismiss:  "5s",
			GlobeInterval: "100ms",
			BootSplash:    true,
			Persona:       "retro",
		},

		Debugger: DebuggerConfig{
			Backend:   BackendSimulated,
			ChartKind: "bar",
		},

		Generative: DefaultGenerativeConfig(),

		Upload: UploadConfig{
			MaxBytes: 1 << 20,
		},

		Store: StoreConfig{
			Enabled: true,
			Path:    filepath.Join(DefaultDir, "modeltron.db"),
		},

		Logging: LoggingConfig{
			Level:     "info",
			Format:    "text",
			DebugMode: false,
			Dir:       filepath.Join(DefaultDir, "logs"),
		},
	}
}

// LoadEnvFiles loads KEY=VALUE pairs from .env style files into the process
// environment. Missing files are ignored; existing variables win, including
// ones set to the empty string, so VAR= in the shell blocks the file value.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", p, err)
		}
	}
	return nil
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults; environment overrides always apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("MODELTRON_BACKEND")); v != "" {
		c.Debugger.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv("MODELTRON_PROVIDER")); v != "" {
		c.Generative.Provider = v
	}
	if v := strings.TrimSpace(os.Getenv("MODELTRON_IMAGE_PROVIDER")); v != "" {
		c.Generative.ImageProvider = v
	}

	// Gemini key, GEMINI_API_KEY preferred over GOOGLE_API_KEY
	if key := firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY")); key != "" {
		c.Generative.APIKey = key
	}

	if url := os.Getenv("POLLINATIONS_TEXT_URL"); url != "" {
		c.Generative.TextBaseURL = url
	}
	if url := os.Getenv("POLLINATIONS_IMAGE_URL"); url != "" {
		c.Generative.ImageBaseURL = url
	}

	if path := os.Getenv("MODELTRON_DB"); path != "" {
		c.Store.Path = path
	}
	if os.Getenv("MODELTRON_DEBUG") == "1" {
		c.Logging.DebugMode = true
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !contains(ValidBackends, c.Debugger.Backend) {
		return fmt.Errorf("invalid debugger backend: %s (valid: %v)", c.Debugger.Backend, ValidBackends)
	}
	if err := c.Generative.Validate(); err != nil {
		return err
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload.max_bytes must be positive, got %d", c.Upload.MaxBytes)
	}
	if c.Store.Enabled && strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store.path required when the store is enabled")
	}
	return nil
}

// GetErrorDismiss returns how long inline errors stay visible.
func (c *Config) GetErrorDismiss() time.Duration {
	return parseDuration(c.Console.ErrorDismiss, 5*time.Second)
}

// GetGlobeInterval returns the globe animation repaint period.
func (c *Config) GetGlobeInterval() time.Duration {
	return parseDuration(c.Console.GlobeInterval, 100*time.Millisecond)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
