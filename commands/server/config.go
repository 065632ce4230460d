package server

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"github.com/tradeloom/loom/errors"
)

// envPrefix is prepended to the environment variable names, for example
// LOOMD_BIND or LOOMD_LOG_MAX_SIZE_MB.
const envPrefix = "loomd"

// Config holds the node settings.
type Config struct {
	// Bind is the address the ABCI server listens on.
	Bind string `toml:"bind" split_words:"true"`
	// Debug returns the full call stack on error.
	Debug bool `toml:"debug" split_words:"true"`
	// MetricsBind is the address metrics are exposed on. Empty disables
	// the metrics endpoint.
	MetricsBind string `toml:"metrics_bind" split_words:"true"`

	Log LogConfig `toml:"log"`
}

// LogConfig controls where the node writes its logs to.
type LogConfig struct {
	// Level is one of debug, info, error or none.
	Level string `toml:"level" split_words:"true"`
	// File is the path of the log file. Empty writes to stdout.
	File string `toml:"file" split_words:"true"`
	// MaxSizeMB is the size a log file may reach before it is rotated.
	MaxSizeMB int `toml:"max_size_mb" split_words:"true"`
	// MaxBackups is the number of rotated files to keep.
	MaxBackups int `toml:"max_backups" split_words:"true"`
	// MaxAgeDays is how long rotated files are kept.
	MaxAgeDays int `toml:"max_age_days" split_words:"true"`
}

// DefaultConfig returns the settings used when no configuration is
// provided.
func DefaultConfig() Config {
	return Config{
		Bind: "tcp://localhost:26658",
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 10,
			MaxAgeDays: 28,
		},
	}
}

// ConfigPath returns the location of the configuration file for the given
// home directory.
func ConfigPath(home string) string {
	return filepath.Join(home, "config", "loomd.toml")
}

// LoadConfig reads the configuration file from the home directory, if it
// exists, and applies the environment overrides on top of it.
func LoadConfig(home string) (Config, error) {
	conf := DefaultConfig()
	path := ConfigPath(home)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &conf); err != nil {
			return conf, errors.Wrapf(errors.ErrInput, "cannot decode %s: %s", path, err)
		}
	} else if !os.IsNotExist(err) {
		return conf, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if err := envconfig.Process(envPrefix, &conf); err != nil {
		return conf, errors.Wrap(errors.ErrInput, err.Error())
	}
	return conf, nil
}

// WriteConfig stores the configuration as a TOML file.
func WriteConfig(path string, conf Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(conf); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
