// Package viper loads aisle configuration from YAML profile files.
package viper

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/RichardMcSorley/aisle"
	"github.com/RichardMcSorley/aisle/resty"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	OutputDir string             `mapstructure:"output_dir"`
	Profiles  map[string]Profile `mapstructure:"profiles"`
}

// Profile configures discovery against one retail source. Zero fields fall
// back to the engine defaults, except MaxRetries where an explicit 0 disables
// retries.
type Profile struct {
	SeedQuery   string        `mapstructure:"seed_query"`
	MaxProducts int           `mapstructure:"max_products"`
	MaxRounds   int           `mapstructure:"max_rounds"`
	PerPage     int           `mapstructure:"per_page"`
	PageCap     int           `mapstructure:"page_cap"`
	MaxRetries  *int          `mapstructure:"max_retries"`
	BaseBackoff time.Duration `mapstructure:"base_backoff"`
	MaxBackoff  time.Duration `mapstructure:"max_backoff"`
	DedupPolicy string        `mapstructure:"dedup_policy"`
	RPS         float64       `mapstructure:"rps"`
	Hydrate     bool          `mapstructure:"hydrate"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Source      resty.Config  `mapstructure:"source"`
}

// Options converts the profile into engine options.
func (p Profile) Options() aisle.Options {
	opts := aisle.DefaultOptions(p.SeedQuery)
	if p.MaxProducts > 0 {
		opts.MaxProducts = p.MaxProducts
	}
	if p.MaxRounds > 0 {
		opts.MaxRounds = p.MaxRounds
	}
	if p.PerPage > 0 {
		opts.PerPage = p.PerPage
	}
	if p.PageCap > 0 {
		opts.PageCap = p.PageCap
	}
	if p.MaxRetries != nil {
		opts.MaxRetries = *p.MaxRetries
	}
	if p.BaseBackoff > 0 {
		opts.BaseBackoff = p.BaseBackoff
	}
	if p.MaxBackoff > 0 {
		opts.MaxBackoff = p.MaxBackoff
	}
	if p.DedupPolicy != "" {
		opts.DedupPolicy = aisle.DedupPolicy(p.DedupPolicy)
	}
	return opts
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		OutputDir: "catalogs",
		Profiles:  map[string]Profile{},
	}
}

// Load reads configuration from the specified file path.
// It supports YAML files and performs environment variable substitution.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	substituteEnvVars(cfg)

	return cfg, nil
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces environment variable references in the fields
// that commonly carry secrets or machine-specific paths.
func substituteEnvVars(cfg *Config) {
	cfg.OutputDir = expandEnvVar(cfg.OutputDir)

	for name, profile := range cfg.Profiles {
		profile.Source.BaseURL = expandEnvVar(profile.Source.BaseURL)
		for k, v := range profile.Source.Headers {
			profile.Source.Headers[k] = expandEnvVar(v)
		}
		for k, v := range profile.Source.Params {
			profile.Source.Params[k] = expandEnvVar(v)
		}
		cfg.Profiles[name] = profile
	}
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}

// GetProfile retrieves a profile by name.
func (c *Config) GetProfile(name string) (Profile, error) {
	profile, exists := c.Profiles[name]
	if !exists {
		return Profile{}, aisle.Errorf(aisle.ENOTFOUND, "profile %q not found in configuration", name)
	}
	return profile, nil
}

// ListProfiles returns the names of all configured profiles in sorted order.
func (c *Config) ListProfiles() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
