package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Sampler configuration
	Sampler SamplerConfig

	// Watchdog configuration
	Watchdog WatchdogConfig

	// Animation configuration
	Animation AnimationConfig

	// Daemon configuration
	Daemon DaemonConfig

	// Web server configuration
	Web WebConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string // Path to SQLite settings database file
}

// SamplerConfig holds pointer sampling behavior configuration
type SamplerConfig struct {
	Interval    time.Duration // How often to poll the pointer position
	MinInterval time.Duration // Minimum allowed poll interval
	MaxInterval time.Duration // Maximum allowed poll interval
}

// WatchdogConfig holds reconciliation cadence configuration.
// The defaults were inherited from the source application and are not
// load-bearing; anything in the allowed range works.
type WatchdogConfig struct {
	Interval      time.Duration // Periodic reconciliation cadence
	FocusDebounce time.Duration // Delay after a host focus-change signal
}

// AnimationConfig holds animation scheduling configuration
type AnimationConfig struct {
	EaseFraction    float64       // Fraction of remaining distance moved per tick
	PowerSaveTick   time.Duration // Baseline tick in power-save mode
	PowerSaveFxTick time.Duration // Power-save tick while gradient effects run
	PerformanceTick time.Duration // Fixed tick in performance mode
	MinRecompute    time.Duration // Floor between recomputations in power-save mode
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string // Path to PID file for single-instance management
}

// WebConfig holds the local status/control server configuration
type WebConfig struct {
	Enabled bool
	Host    string
	Port    int
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "", // Empty means use default ~/.config/screenblur/screenblur.db
		},
		Sampler: SamplerConfig{
			Interval:    50 * time.Millisecond,
			MinInterval: 10 * time.Millisecond,
			MaxInterval: time.Second,
		},
		Watchdog: WatchdogConfig{
			Interval:      200 * time.Millisecond,
			FocusDebounce: 100 * time.Millisecond,
		},
		Animation: AnimationConfig{
			EaseFraction:    0.1,
			PowerSaveTick:   67 * time.Millisecond, // ~15 FPS
			PowerSaveFxTick: 33 * time.Millisecond, // ~30 FPS
			PerformanceTick: 16 * time.Millisecond, // ~60 FPS
			MinRecompute:    50 * time.Millisecond,
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/screenblur-%d.pid", os.Getuid()),
		},
		Web: WebConfig{
			Enabled: false,
			Host:    "localhost",
			Port:    10800 + os.Getuid()%1000,
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Sampler.Interval < c.Sampler.MinInterval {
		return fmt.Errorf("sampler interval (%v) cannot be less than minimum (%v)",
			c.Sampler.Interval, c.Sampler.MinInterval)
	}

	if c.Sampler.Interval > c.Sampler.MaxInterval {
		return fmt.Errorf("sampler interval (%v) cannot be greater than maximum (%v)",
			c.Sampler.Interval, c.Sampler.MaxInterval)
	}

	if c.Watchdog.Interval <= 0 {
		return fmt.Errorf("watchdog interval must be positive, got %v", c.Watchdog.Interval)
	}

	if c.Watchdog.FocusDebounce < 0 {
		return fmt.Errorf("focus debounce cannot be negative")
	}

	if c.Animation.EaseFraction <= 0 || c.Animation.EaseFraction >= 1 {
		return fmt.Errorf("ease fraction must be in (0, 1), got %v", c.Animation.EaseFraction)
	}

	if c.Animation.PowerSaveTick <= 0 || c.Animation.PowerSaveFxTick <= 0 || c.Animation.PerformanceTick <= 0 {
		return fmt.Errorf("animation tick intervals must be positive")
	}

	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}

	if c.Web.Host == "" {
		return fmt.Errorf("web host cannot be empty")
	}

	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	return nil
}

// SetSamplerInterval sets the pointer poll interval with validation
func (c *Config) SetSamplerInterval(interval time.Duration) error {
	if interval < c.Sampler.MinInterval {
		return fmt.Errorf("sampler interval cannot be less than %v", c.Sampler.MinInterval)
	}
	if interval > c.Sampler.MaxInterval {
		return fmt.Errorf("sampler interval cannot be greater than %v", c.Sampler.MaxInterval)
	}
	c.Sampler.Interval = interval
	return nil
}

// SetWebPort sets the status server port with validation
func (c *Config) SetWebPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	c.Web.Port = port
	return nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Database:
    Path: %s
  Sampler:
    Interval: %v
  Watchdog:
    Interval: %v
    Focus Debounce: %v
  Animation:
    Ease Fraction: %v
    Power Save Tick: %v
    Performance Tick: %v
  Daemon:
    PID File: %s
  Web:
    Enabled: %v
    Host: %s
    Port: %d`,
		c.Database.Path,
		c.Sampler.Interval,
		c.Watchdog.Interval,
		c.Watchdog.FocusDebounce,
		c.Animation.EaseFraction,
		c.Animation.PowerSaveTick,
		c.Animation.PerformanceTick,
		c.Daemon.PIDFile,
		c.Web.Enabled,
		c.Web.Host,
		c.Web.Port,
	)
}
