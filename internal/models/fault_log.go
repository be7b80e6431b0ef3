package models

import (
	"time"

	"gorm.io/gorm"
)

// FaultLog records a non-fatal fault from a background component (sampler
// tick failure, watchdog correction, platform query error). Best-effort:
// writers ignore persistence failures.
type FaultLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	Component string         `gorm:"not null;index" json:"component"`
	Message   string         `gorm:"not null" json:"message"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
