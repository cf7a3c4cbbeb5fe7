package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds client configuration. Values come from the YAML config
// file, overridden by environment variables (a .env file is honored).
type Config struct {
	// BaseURL is the deployment origin of the study platform backend.
	BaseURL string `yaml:"base_url"`

	// TimeoutSeconds bounds each backend request. Zero means no
	// timeout: a stalled request stays pending until interrupted.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// DataDir is where the client keeps its state database.
	DataDir string `yaml:"data_dir"`

	// LogFile, when set, mirrors log output to a rotated file.
	LogFile      string `yaml:"log_file"`
	LogMaxSizeMB int    `yaml:"log_max_size_mb"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:5000",
	}
}

// DefaultDataDir returns ~/.studyctl, falling back to the working
// directory when the home directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".studyctl"
	}
	return filepath.Join(home, ".studyctl")
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

// LoadConfig reads configuration from path (missing file is fine) and
// applies environment overrides.
func LoadConfig(path string) (Config, error) {
	// Load a .env file if one is present; real env vars win.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir()
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STUDYCTL_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("STUDYCTL_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("STUDYCTL_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("STUDYCTL_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

// Timeout converts TimeoutSeconds to a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StatePath returns the path of the state database inside DataDir.
func (c Config) StatePath() string {
	return filepath.Join(c.DataDir, "state.db")
}

// Save writes the config back to path as YAML.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
