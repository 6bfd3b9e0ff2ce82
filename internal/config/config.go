// Package config loads the session configuration from the environment and
// an optional config.yaml. The generation endpoint and credential are
// required; their absence is a startup-fatal configuration error, reported
// before any instruction is accepted.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingCredential and ErrMissingEndpoint are the startup-fatal
// configuration errors.
var (
	ErrMissingCredential = errors.New("generation service credential is not configured (set SHEETWRIGHT_API_KEY)")
	ErrMissingEndpoint   = errors.New("generation service endpoint is not configured (set SHEETWRIGHT_API_URL)")
)

// Config holds everything a session needs. It is built once at startup and
// passed around explicitly; nothing here mutates afterwards.
type Config struct {
	// Generation service.
	APIURL         string        `mapstructure:"api_url"`
	APIKey         string        `mapstructure:"api_key"`
	Model          string        `mapstructure:"model"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// Script execution.
	ExecTimeout time.Duration `mapstructure:"exec_timeout"`

	// Directory contract: read-only input, write-only output, one growing
	// log file per day. The throwaway script area is created per session
	// by the sandbox and is not configured here.
	InputDir  string `mapstructure:"input_dir"`
	OutputDir string `mapstructure:"output_dir"`
	LogDir    string `mapstructure:"log_dir"`

	// PolicyPath optionally overrides the built-in security policy.
	PolicyPath string `mapstructure:"policy_path"`
}

// Load reads configuration from SHEETWRIGHT_* environment variables and,
// when present, a config.yaml in the working directory.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SHEETWRIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("model", "deepseek-chat")
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("exec_timeout", 60*time.Second)
	v.SetDefault("input_dir", "input")
	v.SetDefault("output_dir", "output")
	v.SetDefault("log_dir", "logs")

	// Viper only reports env-backed keys after they are touched once.
	for _, key := range []string{"api_url", "api_key", "policy_path"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingCredential
	}
	if strings.TrimSpace(cfg.APIURL) == "" {
		return nil, ErrMissingEndpoint
	}
	return &cfg, nil
}
