// Package config loads tool configuration: builtin defaults, an optional
// YAML file, and SVCHECK_* environment overrides, in that precedence order.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds everything a run needs beyond the target and credentials
type Config struct {
	Output  OutputConfig  `mapstructure:"output"`
	API     APIConfig     `mapstructure:"api"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// OutputConfig controls where reports land
type OutputConfig struct {
	Root string `mapstructure:"root" validate:"required"`
}

// APIConfig controls the management API connection
type APIConfig struct {
	Port        int           `mapstructure:"port" validate:"min=1,max=65535"`
	DialTimeout time.Duration `mapstructure:"dial_timeout" validate:"gt=0"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
	// The arrays ship self-signed certificates, so verification is off by
	// default. Not great from a security point of view.
	InsecureTLS bool `mapstructure:"insecure_tls"`
}

// LoggingConfig controls the per-run log file and console output
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"min=1"`
	MaxBackups int    `mapstructure:"max_backups" validate:"min=0"`
}

// Load reads configuration. path may be empty, in which case svcheck.yaml
// is searched for in the working directory and /etc/svcheck; a missing
// file is fine, defaults and environment still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("svcheck")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/svcheck")
	}

	v.SetEnvPrefix("SVCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output.root", "./output")
	v.SetDefault("api.port", 7443)
	v.SetDefault("api.dial_timeout", 2*time.Second)
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.insecure_tls", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)
}

// validate checks the assembled configuration
func validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			field := invalid[0]
			return fmt.Errorf("invalid config: %s fails %q", field.Namespace(), field.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
