// ABOUTME: Application configuration loaded from XDG paths, .env files and the environment
// ABOUTME: Resolves the database path, SQLite driver and log level
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppName names the XDG subdirectories used by the app.
const AppName = "careo"

// Config holds runtime settings.
type Config struct {
	DBPath   string `yaml:"db_path"`
	Driver   string `yaml:"driver"`
	LogLevel string `yaml:"log_level"`
}

// DataDir returns the XDG data directory for the app.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// ConfigPath returns the XDG path of the YAML config file.
func ConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		DBPath:   filepath.Join(DataDir(), "careo.db"),
		Driver:   "sqlite3",
		LogLevel: "info",
	}
}

// Load builds the configuration. Later sources win:
//   - defaults
//   - the YAML file at ConfigPath
//   - a .env file in the working directory
//   - CAREO_DB_PATH, CAREO_DRIVER and CAREO_LOG_LEVEL
func Load() (*Config, error) {
	return LoadFrom(ConfigPath(), ".env")
}

// LoadFrom is Load with explicit file locations. Missing files are skipped.
func LoadFrom(configPath, envPath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
		}
		cfg.merge(fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	if envPath != "" {
		// godotenv never overrides variables that are already set.
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
		}
	}

	applyEnvOverrides(cfg)
	cfg.DBPath = expandHome(cfg.DBPath)

	return cfg, nil
}

func (c *Config) merge(other Config) {
	if other.DBPath != "" {
		c.DBPath = other.DBPath
	}
	if other.Driver != "" {
		c.Driver = other.Driver
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
}

func applyEnvOverrides(cfg *Config) {
	if path := os.Getenv("CAREO_DB_PATH"); path != "" {
		cfg.DBPath = path
	}
	if driver := os.Getenv("CAREO_DRIVER"); driver != "" {
		cfg.Driver = driver
	}
	if level := os.Getenv("CAREO_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Save writes the configuration to ConfigPath.
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the configuration as YAML to path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
