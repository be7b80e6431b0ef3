package settings

import (
	"github.com/rs/zerolog"

	"github.com/Jamar-Mitchell/screen-blur-focus/internal/models"
	"github.com/Jamar-Mitchell/screen-blur-focus/internal/overlay"
)

// Defaults applied when nothing is persisted yet. They mirror the source
// application's first-run state.
const (
	DefaultEnabled = true
	DefaultOpacity = 70
	DefaultSpeed   = 1.0
)

// Target is the slice of engine operations the synchronizer drives.
// Implemented by the overlay controller.
type Target interface {
	SetEnabled(enabled bool)
	SetOpacity(percent int)
	SetColorName(name string) error
	SetCoolEffects(enabled bool)
	SetPowerSave(enabled bool)
	SetBreathing(enabled bool)
	SetGlassmorphism(enabled bool)
	SetColorShift(enabled bool)
	SetAnimationSpeed(speed float64)
}

// Control is one bound UI control editing the opacity value. SetValue is a
// programmatic update and must not be reported back as a user edit; the
// synchronizer's guard makes a misbehaving control harmless anyway.
type Control interface {
	ID() string
	SetValue(percent int)
}

// Synchronizer binds N controls and the persisted store to one source of
// truth. All methods run on the run loop.
type Synchronizer struct {
	store    Store
	target   Target
	controls []Control
	applying bool
	log      zerolog.Logger
}

// NewSynchronizer creates an empty synchronizer; bind controls before
// LoadInitial so they receive the persisted value.
func NewSynchronizer(store Store, target Target, log zerolog.Logger) *Synchronizer {
	return &Synchronizer{
		store:  store,
		target: target,
		log:    log,
	}
}

// Bind registers a control.
func (s *Synchronizer) Bind(c Control) {
	s.controls = append(s.controls, c)
}

// LoadInitial reads persisted settings once and applies them to the engine
// and every bound control. The application is not a user edit: nothing is
// persisted back.
func (s *Synchronizer) LoadInitial() {
	s.applying = true
	defer func() { s.applying = false }()

	opacity := overlay.ClampPercent(s.store.GetInt(models.KeyOpacity, DefaultOpacity))
	s.target.SetOpacity(opacity)
	for _, c := range s.controls {
		c.SetValue(opacity)
	}

	colorName := s.store.GetString(models.KeyColor, overlay.DefaultColorName)
	if err := s.target.SetColorName(colorName); err != nil {
		s.log.Warn().Err(err).Str("color", colorName).Msg("persisted color invalid, using default")
		_ = s.target.SetColorName(overlay.DefaultColorName)
	}

	s.target.SetCoolEffects(s.store.GetBool(models.KeyCoolAnimations, true))
	s.target.SetPowerSave(s.store.GetBool(models.KeyPowerSaveMode, true))
	s.target.SetBreathing(s.store.GetBool(models.KeyBreathing, false))
	s.target.SetGlassmorphism(s.store.GetBool(models.KeyGlassmorphism, false))
	s.target.SetColorShift(s.store.GetBool(models.KeyColorShift, false))
	s.target.SetAnimationSpeed(s.store.GetFloat(models.KeyAnimationSpeed, DefaultSpeed))

	// Enabled last: disabling must win over everything applied above.
	s.target.SetEnabled(s.store.GetBool(models.KeyEnabled, DefaultEnabled))
}

// OnUserEdit handles an opacity edit from one control: it updates the
// engine, mirrors the value to every other control, and persists exactly
// once. Reentrant calls made while mirroring are structurally ignored.
func (s *Synchronizer) OnUserEdit(sourceID string, percent int) {
	if s.applying {
		return
	}
	s.applying = true
	defer func() { s.applying = false }()

	percent = overlay.ClampPercent(percent)
	s.target.SetOpacity(percent)

	for _, c := range s.controls {
		if c.ID() == sourceID {
			continue
		}
		c.SetValue(percent)
	}

	if err := s.store.SetInt(models.KeyOpacity, percent); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist opacity")
	}
}

// SetEnabled applies and persists the global flag.
func (s *Synchronizer) SetEnabled(enabled bool) {
	s.target.SetEnabled(enabled)
	if s.applying {
		return
	}
	if err := s.store.SetBool(models.KeyEnabled, enabled); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist enabled flag")
	}
}

// SetColorName applies and persists a palette color.
func (s *Synchronizer) SetColorName(name string) error {
	if err := s.target.SetColorName(name); err != nil {
		return err
	}
	if s.applying {
		return nil
	}
	if err := s.store.SetString(models.KeyColor, name); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist color")
	}
	return nil
}

// SetToggle applies and persists one of the boolean effect settings.
func (s *Synchronizer) SetToggle(key string, enabled bool) {
	switch key {
	case models.KeyCoolAnimations:
		s.target.SetCoolEffects(enabled)
	case models.KeyPowerSaveMode:
		s.target.SetPowerSave(enabled)
	case models.KeyBreathing:
		s.target.SetBreathing(enabled)
	case models.KeyGlassmorphism:
		s.target.SetGlassmorphism(enabled)
	case models.KeyColorShift:
		s.target.SetColorShift(enabled)
	default:
		s.log.Warn().Str("key", key).Msg("unknown toggle")
		return
	}

	if s.applying {
		return
	}
	if err := s.store.SetBool(key, enabled); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to persist toggle")
	}

	// Mutual exclusion is enforced by the engine; keep the store consistent
	// with what actually took effect.
	if enabled && key == models.KeyGlassmorphism {
		_ = s.store.SetBool(models.KeyColorShift, false)
	}
	if enabled && key == models.KeyColorShift {
		_ = s.store.SetBool(models.KeyGlassmorphism, false)
	}
}

// SetAnimationSpeed applies and persists the speed multiplier.
func (s *Synchronizer) SetAnimationSpeed(speed float64) {
	s.target.SetAnimationSpeed(speed)
	if s.applying {
		return
	}
	if err := s.store.SetFloat(models.KeyAnimationSpeed, speed); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist animation speed")
	}
}
