// Package config provides Viper-based configuration loading for the route
// engine tools.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DataConfig says where the game databases live and which version to rule on.
type DataConfig struct {
	// Dir is the directory holding the YAML game databases.
	Dir string `mapstructure:"dir"`
	// Version is the game version to register and route against.
	Version string `mapstructure:"version"`
}

// RouteConfig holds route file settings.
type RouteConfig struct {
	// Path is the route file to load; empty starts from a blank route.
	Path string `mapstructure:"path"`
	// Species is the solo mon used when no route file is given.
	Species string `mapstructure:"species"`
}

// EngineConfig holds the kill-probability search knobs.
type EngineConfig struct {
	// AttackDepth is how many attacks deep the kill search explores.
	AttackDepth int `mapstructure:"attack_depth"`
	// PercentCutoff is the minimum kill percentage worth reporting.
	PercentCutoff float64 `mapstructure:"percent_cutoff"`
	// ForceFullSearch runs the exact search even on distributions the
	// engine would normally skip for being too slow to fold.
	ForceFullSearch bool `mapstructure:"force_full_search"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Data    DataConfig    `mapstructure:"data"`
	Route   RouteConfig   `mapstructure:"route"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateData(c.Data); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateEngine(c.Engine); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateData(d DataConfig) error {
	var errs []string
	if d.Dir == "" {
		errs = append(errs, "data.dir must not be empty")
	}
	if d.Version == "" {
		errs = append(errs, "data.version must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateEngine(e EngineConfig) error {
	var errs []string
	if e.AttackDepth < 1 || e.AttackDepth > 100 {
		errs = append(errs, fmt.Sprintf("engine.attack_depth must be 1-100, got %d", e.AttackDepth))
	}
	if e.PercentCutoff < 0 || e.PercentCutoff > 100 {
		errs = append(errs, fmt.Sprintf("engine.percent_cutoff must be 0-100, got %g", e.PercentCutoff))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with SOLOROUTE_ prefix
	v.SetEnvPrefix("SOLOROUTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.dir", "./data")
	v.SetDefault("data.version", "Red")

	v.SetDefault("route.path", "")
	v.SetDefault("route.species", "")

	v.SetDefault("engine.attack_depth", 20)
	v.SetDefault("engine.percent_cutoff", 0.1)
	v.SetDefault("engine.force_full_search", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
