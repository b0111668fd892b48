// Package storage persists sighting history using GORM and SQLite.
package storage

import (
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
)

// SQLiteAdapter implements ports.SightingStore using GORM and SQLite.
type SQLiteAdapter struct {
	db *gorm.DB
}

// SightingModel is the GORM model for sighting rows.
type SightingModel struct {
	ID        uint   `gorm:"primaryKey"`
	EntryKey  string `gorm:"index"`
	Kind      string
	Title     string
	Level     int
	Connected bool
	SeenAt    time.Time `gorm:"index"`
}

// NewSQLiteAdapter initializes the database and migrates the schema.
func NewSQLiteAdapter(path string) (*SQLiteAdapter, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&SightingModel{}); err != nil {
		return nil, err
	}

	db.Exec("CREATE INDEX IF NOT EXISTS idx_sightings_key_seen ON sighting_models(entry_key, seen_at)")

	return &SQLiteAdapter{db: db}, nil
}

// SaveSightingsBatch writes sightings in one transaction.
func (a *SQLiteAdapter) SaveSightingsBatch(sightings []domain.Sighting) error {
	if len(sightings) == 0 {
		return nil
	}

	models := make([]SightingModel, len(sightings))
	for i, s := range sightings {
		models[i] = toModel(s)
	}

	return a.db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			DoNothing: true,
		}).CreateInBatches(models, 100).Error
	})
}

// RecentSightings returns the newest sightings, most recent first.
func (a *SQLiteAdapter) RecentSightings(limit int) ([]domain.Sighting, error) {
	if limit <= 0 {
		limit = 100
	}
	var models []SightingModel
	if err := a.db.Order("seen_at DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}

	sightings := make([]domain.Sighting, len(models))
	for i, m := range models {
		sightings[i] = toDomain(m)
	}
	return sightings, nil
}

// LastSeen reports the most recent sighting time for an entry key.
func (a *SQLiteAdapter) LastSeen(entryKey string) (time.Time, bool, error) {
	var model SightingModel
	err := a.db.Where("entry_key = ?", entryKey).Order("seen_at DESC").First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return model.SeenAt, true, nil
}

// Close closes the underlying database handle.
func (a *SQLiteAdapter) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toModel(s domain.Sighting) SightingModel {
	return SightingModel{
		EntryKey:  s.EntryKey,
		Kind:      s.Kind,
		Title:     s.Title,
		Level:     s.Level,
		Connected: s.Connected,
		SeenAt:    s.SeenAt,
	}
}

func toDomain(m SightingModel) domain.Sighting {
	return domain.Sighting{
		EntryKey:  m.EntryKey,
		Kind:      m.Kind,
		Title:     m.Title,
		Level:     m.Level,
		Connected: m.Connected,
		SeenAt:    m.SeenAt,
	}
}
