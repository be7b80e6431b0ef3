// Package app wires the engine together and owns its lifecycle: the run
// loop, the background sampler and watchdog, the optional status server, and
// the ordered shutdown sequence.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Jamar-Mitchell/screen-blur-focus/internal/animation"
	"github.com/Jamar-Mitchell/screen-blur-focus/internal/config"
	"github.com/Jamar-Mitchell/screen-blur-focus/internal/display"
	"github.com/Jamar-Mitchell/screen-blur-focus/internal/logging"
	"github.com/Jamar-Mitchell/screen-blur-focus/internal/models"
	"github.com/Jamar-Mitchell/screen-blur-focus/internal/overlay"
	"github.com/Jamar-Mitchell/screen-blur-focus/internal/pointer"
	"github.com/Jamar-Mitchell/screen-blur-focus/internal/settings"
	"github.com/Jamar-Mitchell/screen-blur-focus/internal/watchdog"
	"github.com/Jamar-Mitchell/screen-blur-focus/internal/web"
	"github.com/Jamar-Mitchell/screen-blur-focus/pkg/desktop"
	"github.com/Jamar-Mitchell/screen-blur-focus/pkg/utils"
)

// App is the assembled dimmer engine.
type App struct {
	cfg      *config.Config
	log      zerolog.Logger
	provider *desktop.Provider
	store    settings.Store

	loop       *Loop
	registry   *display.Registry
	controller *overlay.Controller
	engine     *animation.Engine
	sampler    *pointer.Sampler
	dog        *watchdog.Watchdog
	syncer     *settings.Synchronizer

	webControl *boundControl
	started    time.Time
}

// boundControl is the status server's slider presence in the synchronizer.
type boundControl struct {
	id    string
	value int
}

func (c *boundControl) ID() string     { return c.id }
func (c *boundControl) SetValue(v int) { c.value = v }

// faultSink narrows the store to what background components record.
type faultSink struct{ store settings.Store }

func (f faultSink) RecordFault(component, message string) {
	f.store.RecordFault(component, message)
}

// New builds the engine against the given platform provider. Zero displays
// is not an error; the engine idles until something is resolvable.
func New(cfg *config.Config, log zerolog.Logger, provider *desktop.Provider, store settings.Store) (*App, error) {
	registry := display.NewRegistry(provider.Screens)
	surfaces, err := registry.Refresh()
	if err != nil {
		return nil, err
	}
	if len(surfaces) == 0 {
		log.Warn().Msg("no displays enumerated; overlays inactive until refresh")
	}

	targets := make([]desktop.RenderTarget, len(surfaces))
	for i, s := range surfaces {
		target, err := provider.Targets.CreateTarget(desktop.Geometry{
			X: s.X, Y: s.Y, Width: s.Width, Height: s.Height,
		})
		if err != nil {
			return nil, err
		}
		targets[i] = target
	}

	loop := NewLoop()
	controller := overlay.NewController(surfaces, targets, logging.Component(log, "overlay"))
	engine := animation.NewEngine(cfg.Animation, controller, loop.Post, logging.Component(log, "animation"))

	faults := faultSink{store: store}
	sampler := pointer.NewSampler(cfg.Sampler.Interval, registry, provider.Pointer,
		logging.Component(log, "sampler"), faults)

	var focus <-chan struct{}
	if provider.Focus != nil {
		focus = provider.Focus.Notifications()
	}
	dog := watchdog.New(cfg.Watchdog.Interval, cfg.Watchdog.FocusDebounce,
		registry, provider.Pointer, controller, sampler, loop.Post, focus, faults,
		logging.Component(log, "watchdog"))

	syncer := settings.NewSynchronizer(store, controller, logging.Component(log, "settings"))
	webControl := &boundControl{id: "web", value: settings.DefaultOpacity}
	syncer.Bind(webControl)

	a := &App{
		cfg:        cfg,
		log:        log,
		provider:   provider,
		store:      store,
		loop:       loop,
		registry:   registry,
		controller: controller,
		engine:     engine,
		sampler:    sampler,
		dog:        dog,
		syncer:     syncer,
		webControl: webControl,
	}

	// Re-enabling forces a full re-evaluation: sampler forgets its last
	// emit and the current pointer position is re-resolved immediately.
	controller.OnEnable = func() {
		sampler.Reset()
		a.activateCurrent()
	}

	return a, nil
}

// Synchronizer exposes the settings synchronizer so additional controls
// (tray, popup) can be bound before Run.
func (a *App) Synchronizer() *settings.Synchronizer {
	return a.syncer
}

// Run starts everything and blocks until the context is cancelled, then
// tears down in order: sampler joined, watchdog joined, animation ticks
// stopped, settings flushed, display resources released.
func (a *App) Run(ctx context.Context) error {
	a.started = time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.loop.Run()

	// Persisted settings flow into the core and every bound control before
	// anything animates; this is not a user edit and persists nothing.
	a.loop.PostWait(func() {
		a.syncer.LoadInitial()
		a.activateCurrent()
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return ignoreCanceled(a.sampler.Start(gctx))
	})

	g.Go(func() error {
		return ignoreCanceled(a.dog.Run(gctx))
	})

	// Marshal sampler events onto the loop; the background task never
	// touches engine state directly.
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case index, ok := <-a.sampler.Events():
				if !ok {
					return nil
				}
				a.loop.Post(func() {
					a.controller.SetActiveDisplay(index)
				})
			}
		}
	})

	var webServer *web.Server
	if a.cfg.Web.Enabled {
		webServer = web.NewServer(a.cfg, a, logging.Component(a.log, "web"))
		g.Go(func() error {
			if err := webServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	if a.provider.Notifier != nil {
		if err := a.provider.Notifier.Notify("Screen Blur",
			"Dimming started. Inactive displays fade out as the pointer moves."); err != nil {
			a.log.Debug().Err(err).Msg("startup notification failed")
		}
	}

	<-gctx.Done()
	a.shutdown(webServer)

	err := g.Wait()
	a.loop.Close()
	return err
}

// shutdown runs the ordered teardown. No animation tick can fire against a
// half-torn-down overlay: ticks stop on the loop before targets close.
func (a *App) shutdown(webServer *web.Server) {
	a.log.Info().Msg("shutting down")

	a.sampler.Stop()
	a.dog.Stop()

	if webServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = webServer.Shutdown(shutdownCtx)
		cancel()
	}

	a.loop.PostWait(func() {
		a.engine.Stop()
	})

	if err := a.store.Flush(); err != nil {
		a.log.Warn().Err(err).Msg("settings flush failed")
	}

	a.loop.PostWait(func() {
		for _, o := range a.controller.Overlays() {
			if err := o.Target.Close(); err != nil {
				a.log.Warn().Err(err).Int("display", o.Surface.Index).Msg("target close failed")
			}
		}
	})

	if err := a.provider.Close(); err != nil {
		a.log.Warn().Err(err).Msg("platform close failed")
	}
}

// activateCurrent resolves the pointer once and activates its display. Used
// at startup and on re-enable.
func (a *App) activateCurrent() {
	x, y, err := a.provider.Pointer.CurrentPosition()
	if err != nil {
		a.log.Warn().Err(err).Msg("initial pointer query failed")
		return
	}
	if index, ok := a.registry.Locate(x, y); ok {
		a.controller.SetActiveDisplay(index)
	}
}

// Status implements web.Engine.
func (a *App) Status() web.Status {
	var st web.Status
	a.loop.PostWait(func() {
		active, known := a.controller.ActiveIndex()
		if !known {
			active = -1
		}
		st = web.Status{
			Enabled:       a.controller.Enabled(),
			ActiveDisplay: active,
			Displays:      len(a.controller.Overlays()),
			Opacity:       a.controller.OpacityPercent(),
			Color:         a.store.GetString(models.KeyColor, overlay.DefaultColorName),
			PowerSave:     a.controller.Effects().PowerSave,
			Uptime:        utils.FormatRoundedUnit(int64(time.Since(a.started).Seconds())),
			UptimeSeconds: time.Since(a.started).Seconds(),
		}
	})
	return st
}

// SetEnabled implements web.Engine.
func (a *App) SetEnabled(enabled bool) {
	a.loop.PostWait(func() {
		a.syncer.SetEnabled(enabled)
	})
}

// SetOpacity implements web.Engine; the edit goes through the synchronizer
// like any control's.
func (a *App) SetOpacity(source string, percent int) {
	a.loop.PostWait(func() {
		a.webControl.SetValue(percent)
		a.syncer.OnUserEdit(source, percent)
	})
}

// SetColorName implements web.Engine.
func (a *App) SetColorName(name string) error {
	var err error
	a.loop.PostWait(func() {
		err = a.syncer.SetColorName(name)
	})
	return err
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
