package repository

import (
	"errors"

	"github.com/talkboard/talkboard-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository handles per-user preference rows
type SettingsRepository interface {
	// GetOrCreate returns the user's settings, creating the defaults
	// row on first use. The unique constraint on user_id keeps the
	// operation idempotent under races.
	GetOrCreate(userID uint64) (*domain.UserSettings, bool, error)
	Save(settings *domain.UserSettings) error
	// ReplaceFrontpageFilters swaps the user's front-page category set
	// for the given category ids.
	ReplaceFrontpageFilters(settings *domain.UserSettings, categoryIDs []uint64) error
	// NotifyDisabledIDs filters the given users down to those who
	// opted out of email notification.
	NotifyDisabledIDs(userIDs []uint64) ([]uint64, error)
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// GetOrCreate fetches or lazily creates the settings row
func (r *settingsRepository) GetOrCreate(userID uint64) (*domain.UserSettings, bool, error) {
	var settings domain.UserSettings
	err := r.db.Preload("FrontpageFilters").Where("user_id = ?", userID).First(&settings).Error
	if err == nil {
		return &settings, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	created := domain.DefaultSettings(userID)
	if err := r.db.Create(created).Error; err != nil {
		if isDuplicate(err) {
			err = r.db.Preload("FrontpageFilters").Where("user_id = ?", userID).First(&settings).Error
			return &settings, false, err
		}
		return nil, false, err
	}
	return created, true, nil
}

// Save persists the scalar preference columns. The front-page filter
// set goes through ReplaceFrontpageFilters so a preloaded row never
// writes its associations back as a side effect.
func (r *settingsRepository) Save(settings *domain.UserSettings) error {
	return r.db.Omit(clause.Associations).Save(settings).Error
}

// ReplaceFrontpageFilters swaps the many2many category set
func (r *settingsRepository) ReplaceFrontpageFilters(settings *domain.UserSettings, categoryIDs []uint64) error {
	filters := make([]domain.Category, len(categoryIDs))
	for i, id := range categoryIDs {
		filters[i] = domain.Category{ID: id}
	}
	return r.db.Model(settings).Association("FrontpageFilters").Replace(filters)
}

// NotifyDisabledIDs returns the subset of users with notify_email off
func (r *settingsRepository) NotifyDisabledIDs(userIDs []uint64) ([]uint64, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var ids []uint64
	err := r.db.Model(&domain.UserSettings{}).
		Where("user_id IN ? AND notify_email = ?", userIDs, false).
		Pluck("user_id", &ids).Error
	return ids, err
}
