package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given
const DefaultPath = "mashdb.yaml"

type Config struct {
	Database Database `yaml:"database"`
	Logger   Logger   `yaml:"logger"`
}

// Database is the configuration for the backing file
type Database struct {
	Path string `yaml:"path"`
}

// Logger is the configuration for the logger
type Logger struct {
	LogLevel    string `yaml:"log_level"`
	FileLogName string `yaml:"file_log_name"`
	MaxBackups  int    `yaml:"max_backups"`
	MaxAge      int    `yaml:"max_age"`  // Days
	MaxSize     int    `yaml:"max_size"` // Megabytes
	Compress    bool   `yaml:"compress"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	return &Config{
		Database: Database{
			Path: "mashdb.db",
		},
		Logger: Logger{
			LogLevel:   "warn",
			MaxBackups: 3,
			MaxAge:     28,
			MaxSize:    10,
		},
	}
}

// Load reads a YAML config file on top of the defaults
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}
	return cfg, nil
}

// LoadOptional is Load, except that a missing file yields the defaults
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}
