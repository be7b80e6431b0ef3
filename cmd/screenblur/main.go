package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Jamar-Mitchell/screen-blur-focus/internal/app"
	"github.com/Jamar-Mitchell/screen-blur-focus/internal/config"
	"github.com/Jamar-Mitchell/screen-blur-focus/internal/daemon"
	"github.com/Jamar-Mitchell/screen-blur-focus/internal/logging"
	"github.com/Jamar-Mitchell/screen-blur-focus/internal/settings"
	"github.com/Jamar-Mitchell/screen-blur-focus/pkg/desktop"
	"github.com/Jamar-Mitchell/screen-blur-focus/pkg/platform"
)

var (
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)

const (
	daemonChildEnv = "SCREENBLUR_DAEMON_CHILD"
	daemonLogFile  = "/tmp/screenblur.log"
)

func main() {
	root := &cobra.Command{
		Use:   "screenblur",
		Short: "Dim every display except the one under the pointer",
		Long: `screenblur keeps exactly one display undimmed at a time, following the
pointer between monitors and fading translucent overlays over the rest.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		startCmd(),
		serveCmd(),
		stopCmd(),
		statusCmd(),
		versionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the dimming daemon in the background",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			dm := daemon.New(cfg.Daemon.PIDFile)
			running, pid, err := dm.IsRunning()
			if err != nil {
				return fmt.Errorf("failed to check daemon status: %w", err)
			}
			if running {
				return fmt.Errorf("daemon is already running (PID: %d)", pid)
			}

			if os.Getenv(daemonChildEnv) != "1" {
				return daemonize(cfg)
			}

			return serve(cfg, dm, true)
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dimmer in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			dm := daemon.New(cfg.Daemon.PIDFile)
			running, pid, err := dm.IsRunning()
			if err != nil {
				return fmt.Errorf("failed to check daemon status: %w", err)
			}
			if running {
				return fmt.Errorf("daemon is already running (PID: %d)", pid)
			}

			return serve(cfg, dm, false)
		},
	}
}

func stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			dm := daemon.New(cfg.Daemon.PIDFile)
			running, pid, err := dm.IsRunning()
			if err != nil {
				return fmt.Errorf("failed to check daemon status: %w", err)
			}
			if !running {
				fmt.Println("Daemon is not running")
				return nil
			}

			fmt.Printf("Stopping daemon (PID: %d)...\n", pid)
			if err := dm.Stop(); err != nil {
				return err
			}
			fmt.Println("Daemon stopped successfully")
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status and session information",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			dm := daemon.New(cfg.Daemon.PIDFile)
			running, pid, err := dm.IsRunning()
			if err != nil {
				return fmt.Errorf("failed to check daemon status: %w", err)
			}

			if !running {
				fmt.Println("Status: Not running")
			} else {
				fmt.Printf("Status: Running (PID: %d)\n", pid)
				fmt.Printf("Sampler Interval: %v\n", cfg.Sampler.Interval)
				if cfg.Web.Enabled {
					fmt.Printf("Status API: http://%s:%d/api/status\n", cfg.Web.Host, cfg.Web.Port)
				}
			}

			fmt.Printf("Display Server: %s\n", desktop.DetectDisplayServer())
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("screenblur version %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	}
}

// daemonize re-executes this binary detached in a new session; the child
// recognizes itself through the environment marker.
func daemonize(cfg *config.Config) error {
	env := os.Environ()
	env = append(env, daemonChildEnv+"=1")

	procAttr := &os.ProcAttr{
		Env:   env,
		Files: []*os.File{nil, nil, nil},
		Sys: &syscall.SysProcAttr{
			Setsid: true,
		},
	}

	process, err := os.StartProcess(os.Args[0], os.Args, procAttr)
	if err != nil {
		return fmt.Errorf("failed to start daemon process: %w", err)
	}

	fmt.Printf("Daemon started successfully (PID: %d)\n", process.Pid)
	if cfg.Web.Enabled {
		fmt.Printf("Status API: http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	}
	fmt.Printf("Logs: %s\n", daemonLogFile)
	return nil
}

// serve builds the engine and runs it until SIGINT/SIGTERM.
func serve(cfg *config.Config, dm *daemon.Daemon, background bool) error {
	logger := logging.NewFromEnv()

	if background {
		if logFile, err := os.OpenFile(daemonLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			defer logFile.Close()
			logger = logging.NewWithOutput(logging.DefaultConfig(), logFile)
		}
	}

	provider, err := platform.New()
	if err != nil {
		return err
	}

	// A broken settings database degrades to in-memory defaults rather
	// than blocking startup.
	var store settings.Store
	if dbStore, err := settings.Open(cfg.Database.Path); err != nil {
		logger.Warn().Err(err).Msg("settings database unavailable, using in-memory defaults")
		store = settings.NewMemoryStore()
	} else {
		store = dbStore
	}
	defer store.Close()

	if err := dm.WritePID(); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	defer func() {
		if err := dm.RemovePID(); err != nil {
			logger.Warn().Err(err).Msg("failed to remove PID file")
		}
	}()

	engine, err := app.New(cfg, logger, provider, store)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("version", version).Msg("starting screenblur")
	logger.Debug().Msg(cfg.String())

	if err := engine.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	logger.Info().Msg("daemon stopped")
	return nil
}
