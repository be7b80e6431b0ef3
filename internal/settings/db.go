package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Jamar-Mitchell/screen-blur-focus/internal/models"
)

const (
	defaultDBName = "screenblur.db"
	defaultDBDir  = ".config/screenblur"
)

// DBStore persists settings and fault records in SQLite.
type DBStore struct {
	db *gorm.DB
}

// DefaultDBPath returns (and creates the directory for) the default
// database location.
func DefaultDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	dbDir := filepath.Join(homeDir, defaultDBDir)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}

	return filepath.Join(dbDir, defaultDBName), nil
}

// Open connects to the settings database, creating the schema if needed.
func Open(dbPath string) (*DBStore, error) {
	if dbPath == "" {
		var err error
		dbPath, err = DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open settings database: %w", err)
	}

	if err := db.AutoMigrate(&models.Setting{}, &models.FaultLog{}); err != nil {
		return nil, fmt.Errorf("failed to initialize settings schema: %w", err)
	}

	return &DBStore{db: db}, nil
}

func (s *DBStore) get(key string) (string, bool) {
	var setting models.Setting
	result := s.db.First(&setting, "key = ?", key)
	if result.Error != nil {
		return "", false
	}
	return setting.Value, true
}

func (s *DBStore) set(key, value, typ string) error {
	setting := models.Setting{Key: key, Value: value, Type: typ}
	result := s.db.Save(&setting)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to persist setting")
	}
	return nil
}

func (s *DBStore) GetString(key, def string) string {
	if v, ok := s.get(key); ok {
		return v
	}
	return def
}

func (s *DBStore) GetBool(key string, def bool) bool {
	raw, ok := s.get(key)
	if !ok {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func (s *DBStore) GetInt(key string, def int) int {
	raw, ok := s.get(key)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func (s *DBStore) GetFloat(key string, def float64) float64 {
	raw, ok := s.get(key)
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

func (s *DBStore) SetString(key, value string) error {
	return s.set(key, value, "string")
}

func (s *DBStore) SetBool(key string, value bool) error {
	return s.set(key, strconv.FormatBool(value), "bool")
}

func (s *DBStore) SetInt(key string, value int) error {
	return s.set(key, strconv.Itoa(value), "int")
}

func (s *DBStore) SetFloat(key string, value float64) error {
	return s.set(key, strconv.FormatFloat(value, 'f', -1, 64), "float")
}

// RecordFault stores a background fault, best-effort.
func (s *DBStore) RecordFault(component, message string) {
	fault := models.FaultLog{
		Timestamp: time.Now(),
		Component: component,
		Message:   message,
	}
	_ = s.db.Create(&fault).Error
}

// FaultsSince returns recorded faults newer than the given time.
func (s *DBStore) FaultsSince(since time.Time) ([]*models.FaultLog, error) {
	var faults []*models.FaultLog
	result := s.db.Where("timestamp >= ?", since).Order("timestamp ASC").Find(&faults)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query fault log")
	}
	return faults, nil
}

// PruneFaults soft-deletes fault records older than the cutoff.
func (s *DBStore) PruneFaults(before time.Time) (int64, error) {
	result := s.db.Where("timestamp < ?", before).Delete(&models.FaultLog{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to prune fault log")
	}
	return result.RowsAffected, nil
}

// Flush is a no-op for SQLite; writes are synchronous.
func (s *DBStore) Flush() error { return nil }

// Close releases the underlying connection.
func (s *DBStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
