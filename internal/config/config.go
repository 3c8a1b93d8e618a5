// Package config loads runtime settings for the server and the CLI.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. VSOP_DATA_DIR.
const EnvPrefix = "VSOP"

// TruncateConfig holds the defaults for truncation runs.
type TruncateConfig struct {
	Threshold float64 `mapstructure:"threshold"`
	StartTT   float64 `mapstructure:"start_tt"`
	EndTT     float64 `mapstructure:"end_tt"`
}

// ExportConfig holds the defaults for NetCDF table exports.
type ExportConfig struct {
	StepDays float64 `mapstructure:"step_days"`
}

// Config holds all runtime configuration.
// Values are populated from .vsop.yaml, VSOP_* env vars, and CLI flags.
type Config struct {
	Port               string         `mapstructure:"port"`
	DataDir            string         `mapstructure:"data_dir"`
	Watch              bool           `mapstructure:"watch"`
	CORSAllowedOrigins string         `mapstructure:"cors_allowed_origins"`
	Truncate           TruncateConfig `mapstructure:"truncate"`
	Export             ExportConfig   `mapstructure:"export"`
}

// SetDefaults registers the built-in default of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("watch", true)
	v.SetDefault("cors_allowed_origins", "")
	v.SetDefault("truncate.threshold", 1e-7)
	v.SetDefault("truncate.start_tt", -36525.0)
	v.SetDefault("truncate.end_tt", 36525.0)
	v.SetDefault("export.step_days", 1.0)
}

// Load reads configuration from the global viper instance, applying built-in
// defaults for any values not set by config file, environment, or flags.
func Load() (Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom is Load for an explicit viper instance.
func LoadFrom(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Truncate.Threshold < 0 {
		return Config{}, fmt.Errorf("truncate.threshold must be >= 0, got %v", cfg.Truncate.Threshold)
	}
	if cfg.Export.StepDays <= 0 {
		return Config{}, fmt.Errorf("export.step_days must be positive, got %v", cfg.Export.StepDays)
	}
	return cfg, nil
}

// Init points v at a config file and the environment. An empty cfgFile
// searches for .vsop.yaml in the working directory. A missing file is not an
// error.
func Init(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".vsop")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}
