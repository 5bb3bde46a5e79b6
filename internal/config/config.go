// Package config loads crossmix settings from .crossmix.yaml, CROSSMIX_*
// environment variables and defaults, in that order of precedence after
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bayneri/crossmix/internal/model"
	"github.com/bayneri/crossmix/internal/optimizer"
	"github.com/bayneri/crossmix/internal/planner"
)

type Config struct {
	Dataset    DatasetConfig          `mapstructure:"dataset"`
	Parameters optimizer.Parameters   `mapstructure:"parameters"`
	Optimal    OptimalConfig          `mapstructure:"optimal"`
	Comparison ComparisonConfig       `mapstructure:"comparison"`
	Saturation model.SaturationPolicy `mapstructure:"saturation"`
	Logging    LoggingConfig          `mapstructure:"logging"`
	Output     OutputConfig           `mapstructure:"output"`
	GCP        GCPConfig              `mapstructure:"gcp"`
	Server     ServerConfig           `mapstructure:"server"`
}

type DatasetConfig struct {
	// Path is a dataset YAML file; empty selects the embedded dataset.
	Path string `mapstructure:"path"`
	// Plans is an optional plans file merged over the dataset's plans.
	Plans string `mapstructure:"plans"`
}

type OptimalConfig struct {
	SyncBudget float64 `mapstructure:"sync_budget"`
}

type ComparisonConfig struct {
	Plan   string `mapstructure:"plan"`
	Jitter bool   `mapstructure:"jitter"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type OutputConfig struct {
	Colors bool   `mapstructure:"colors"`
	Format string `mapstructure:"format"`
}

type GCPConfig struct {
	Project         string `mapstructure:"project"`
	CredentialsFile string `mapstructure:"credentials_file"`
	MetricPrefix    string `mapstructure:"metric_prefix"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Load reads cfgFile, or searches for .crossmix.yaml when it is empty.
// A missing config file is not an error.
func Load(cfgFile string) (*Config, error) {
	return LoadWith(viper.New(), cfgFile)
}

// LoadWith is Load on a caller-provided viper instance, so flags bound to
// v take precedence over the file.
func LoadWith(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".crossmix")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/crossmix")
	}

	v.SetEnvPrefix("CROSSMIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("dataset.path", "")
	v.SetDefault("dataset.plans", "")

	params := optimizer.DefaultParameters()
	v.SetDefault("parameters.tv_digital_split", params.TVDigitalSplitPct)
	v.SetDefault("parameters.platform_a_split", params.PlatformASplitPct)
	v.SetDefault("parameters.intensity", params.IntensityPct)
	v.SetDefault("parameters.protection_threshold", params.ProtectionThresholdPct)
	v.SetDefault("parameters.sync_enabled", params.SyncEnabled)
	v.SetDefault("parameters.sync_budget", params.SyncBudget)
	v.SetDefault("parameters.renormalize", false)

	v.SetDefault("optimal.sync_budget", float64(planner.DefaultSyncBudget))

	v.SetDefault("comparison.plan", "client")
	v.SetDefault("comparison.jitter", true)

	policy := model.DefaultPolicy()
	v.SetDefault("saturation.platform_a", policy.PlatformA)
	v.SetDefault("saturation.platform_b", policy.PlatformB)
	v.SetDefault("saturation.region", policy.Region)
	v.SetDefault("saturation.channel", policy.Channel)
	v.SetDefault("saturation.optimal_platform_a", policy.OptimalPlatformA)
	v.SetDefault("saturation.optimal_platform_b", policy.OptimalPlatformB)
	v.SetDefault("saturation.optimal_channel", policy.OptimalChannel)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("output.colors", true)
	v.SetDefault("output.format", "table")

	v.SetDefault("gcp.project", "")
	v.SetDefault("gcp.credentials_file", "")
	v.SetDefault("gcp.metric_prefix", "custom.googleapis.com/crossmix")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
}

// validate covers settings that are wrong regardless of the command.
// Parameter ranges are checked by the commands that use them.
func validate(cfg *Config) error {
	var errs []string
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, fmt.Sprintf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level))
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, fmt.Sprintf("invalid logging format: %s (must be text or json)", cfg.Logging.Format))
	}
	validOutputs := map[string]bool{"table": true, "json": true, "markdown": true}
	if !validOutputs[cfg.Output.Format] {
		errs = append(errs, fmt.Sprintf("invalid output format: %s (must be table, json, or markdown)", cfg.Output.Format))
	}
	if err := cfg.Saturation.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if cfg.Optimal.SyncBudget <= 0 {
		errs = append(errs, "optimal.sync_budget must be positive")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) OptimizerOptions() optimizer.Options {
	opts := optimizer.DefaultOptions()
	opts.Policy = c.Saturation
	return opts
}

func (c *Config) PlannerOptions(syncEnabled bool) planner.Options {
	return planner.Options{
		SyncEnabled: syncEnabled,
		SyncBudget:  c.Optimal.SyncBudget,
		Policy:      c.Saturation,
	}
}
