package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Juhasen/ToDo/internal/model"
)

// Setting is one durable key/value preference row.
type Setting struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

// SettingsRepository is the durable key/value backend consumed by the
// preference store. Values are opaque strings; typing lives in the
// service layer.
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the stored value for key and whether it was present.
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var setting Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	switch {
	case err == nil:
		return setting.Value, true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "", false, nil
	default:
		return "", false, fmt.Errorf("%w: get setting %q: %w", model.ErrStorage, key, err)
	}
}

// Set writes the value for key, inserting or overwriting.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&Setting{Key: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("%w: set setting %q: %w", model.ErrStorage, key, err)
	}
	return nil
}
