package models

import (
	"time"
)

// Setting is one persisted key/value pair. Values are stored as strings and
// coerced by the settings store according to Type.
type Setting struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	Type      string    `gorm:"not null" json:"type"` // "string", "bool", "int" or "float"
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Persisted setting keys.
const (
	KeyEnabled        = "enabled"
	KeyOpacity        = "opacity"
	KeyColor          = "color"
	KeyCoolAnimations = "cool_animations"
	KeyPowerSaveMode  = "power_save_mode"
	KeyBreathing      = "breathing_effect"
	KeyGlassmorphism  = "glassmorphism"
	KeyColorShift     = "color_shift"
	KeyAnimationSpeed = "animation_speed"
)
