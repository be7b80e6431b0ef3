package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	envPrefix  = "SCREENBLUR"
)

// ConfigDir returns the directory holding the config file and, by default,
// the settings database.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "screenblur"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "screenblur"), nil
}

// Load returns the effective configuration: defaults, overridden by the
// config file (if one exists), overridden by SCREENBLUR_* environment
// variables. A missing config file is not an error.
func Load() (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)

	configDir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	apply(v, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("sampler.interval", cfg.Sampler.Interval)
	v.SetDefault("watchdog.interval", cfg.Watchdog.Interval)
	v.SetDefault("watchdog.focus_debounce", cfg.Watchdog.FocusDebounce)
	v.SetDefault("animation.ease_fraction", cfg.Animation.EaseFraction)
	v.SetDefault("animation.power_save_tick", cfg.Animation.PowerSaveTick)
	v.SetDefault("animation.power_save_fx_tick", cfg.Animation.PowerSaveFxTick)
	v.SetDefault("animation.performance_tick", cfg.Animation.PerformanceTick)
	v.SetDefault("animation.min_recompute", cfg.Animation.MinRecompute)
	v.SetDefault("daemon.pid_file", cfg.Daemon.PIDFile)
	v.SetDefault("web.enabled", cfg.Web.Enabled)
	v.SetDefault("web.host", cfg.Web.Host)
	v.SetDefault("web.port", cfg.Web.Port)
}

func apply(v *viper.Viper, cfg *Config) {
	cfg.Database.Path = v.GetString("database.path")
	cfg.Sampler.Interval = v.GetDuration("sampler.interval")
	cfg.Watchdog.Interval = v.GetDuration("watchdog.interval")
	cfg.Watchdog.FocusDebounce = v.GetDuration("watchdog.focus_debounce")
	cfg.Animation.EaseFraction = v.GetFloat64("animation.ease_fraction")
	cfg.Animation.PowerSaveTick = v.GetDuration("animation.power_save_tick")
	cfg.Animation.PowerSaveFxTick = v.GetDuration("animation.power_save_fx_tick")
	cfg.Animation.PerformanceTick = v.GetDuration("animation.performance_tick")
	cfg.Animation.MinRecompute = v.GetDuration("animation.min_recompute")
	cfg.Daemon.PIDFile = v.GetString("daemon.pid_file")
	cfg.Web.Enabled = v.GetBool("web.enabled")
	cfg.Web.Host = v.GetString("web.host")
	cfg.Web.Port = v.GetInt("web.port")
}
