package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() produced invalid config: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "default",
			mutate: func(c *Config) {},
		},
		{
			name:    "sampler interval below minimum",
			mutate:  func(c *Config) { c.Sampler.Interval = time.Millisecond },
			wantErr: "cannot be less than",
		},
		{
			name:    "sampler interval above maximum",
			mutate:  func(c *Config) { c.Sampler.Interval = 2 * time.Second },
			wantErr: "cannot be greater than",
		},
		{
			name:    "non-positive watchdog interval",
			mutate:  func(c *Config) { c.Watchdog.Interval = 0 },
			wantErr: "watchdog interval",
		},
		{
			name:    "negative focus debounce",
			mutate:  func(c *Config) { c.Watchdog.FocusDebounce = -time.Millisecond },
			wantErr: "focus debounce",
		},
		{
			name:    "ease fraction of zero",
			mutate:  func(c *Config) { c.Animation.EaseFraction = 0 },
			wantErr: "ease fraction",
		},
		{
			name:    "ease fraction of one",
			mutate:  func(c *Config) { c.Animation.EaseFraction = 1 },
			wantErr: "ease fraction",
		},
		{
			name:    "zero animation tick",
			mutate:  func(c *Config) { c.Animation.PerformanceTick = 0 },
			wantErr: "tick intervals",
		},
		{
			name:    "invalid web port",
			mutate:  func(c *Config) { c.Web.Port = 0 },
			wantErr: "web port",
		},
		{
			name:    "empty web host",
			mutate:  func(c *Config) { c.Web.Host = "" },
			wantErr: "host",
		},
		{
			name:    "empty pid file",
			mutate:  func(c *Config) { c.Daemon.PIDFile = "" },
			wantErr: "PID file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSetSamplerInterval(t *testing.T) {
	cfg := Default()

	if err := cfg.SetSamplerInterval(100 * time.Millisecond); err != nil {
		t.Errorf("SetSamplerInterval(100ms) error: %v", err)
	}
	if cfg.Sampler.Interval != 100*time.Millisecond {
		t.Errorf("Sampler.Interval = %v, want 100ms", cfg.Sampler.Interval)
	}

	if err := cfg.SetSamplerInterval(time.Millisecond); err == nil {
		t.Error("SetSamplerInterval(1ms) expected error, got nil")
	}
	if err := cfg.SetSamplerInterval(time.Minute); err == nil {
		t.Error("SetSamplerInterval(1m) expected error, got nil")
	}
	if cfg.Sampler.Interval != 100*time.Millisecond {
		t.Errorf("rejected intervals must not change config, got %v", cfg.Sampler.Interval)
	}
}

func TestSetWebPort(t *testing.T) {
	cfg := Default()

	if err := cfg.SetWebPort(9000); err != nil {
		t.Errorf("SetWebPort(9000) error: %v", err)
	}
	if cfg.Web.Port != 9000 {
		t.Errorf("Web.Port = %d, want 9000", cfg.Web.Port)
	}

	for _, port := range []int{0, -1, 70000} {
		if err := cfg.SetWebPort(port); err == nil {
			t.Errorf("SetWebPort(%d) expected error, got nil", port)
		}
	}
}

func TestString(t *testing.T) {
	cfg := Default()
	s := cfg.String()

	for _, want := range []string{"Sampler", "Watchdog", "Animation", "PID File"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q section", want)
		}
	}
}
