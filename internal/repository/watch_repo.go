package repository

import (
	"errors"

	"github.com/talkboard/talkboard-backend/internal/domain"
	"gorm.io/gorm"
)

// WatchRepository handles thread subscriptions
type WatchRepository interface {
	// GetOrCreate subscribes the user, reporting whether the row was
	// newly created. Safe under the (user, thread) unique constraint.
	GetOrCreate(userID, threadID uint64) (*domain.WatchList, bool, error)
	Exists(userID, threadID uint64) (bool, error)
	Delete(userID, threadID uint64) error
	// ListWatchers returns the members subscribed to a thread.
	ListWatchers(threadID uint64) ([]domain.Member, error)
}

type watchRepository struct {
	db *gorm.DB
}

// NewWatchRepository creates a new WatchRepository
func NewWatchRepository(db *gorm.DB) WatchRepository {
	return &watchRepository{db: db}
}

// GetOrCreate subscribes the user to the thread if not already
func (r *watchRepository) GetOrCreate(userID, threadID uint64) (*domain.WatchList, bool, error) {
	var watch domain.WatchList
	err := r.db.Where("user_id = ? AND thread_id = ?", userID, threadID).First(&watch).Error
	if err == nil {
		return &watch, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	watch = domain.WatchList{UserID: userID, ThreadID: threadID}
	if err := r.db.Create(&watch).Error; err != nil {
		// A concurrent first post can win the race; the constraint
		// makes that a lookup, not a failure.
		if isDuplicate(err) {
			err = r.db.Where("user_id = ? AND thread_id = ?", userID, threadID).First(&watch).Error
			return &watch, false, err
		}
		return nil, false, err
	}
	return &watch, true, nil
}

// Exists reports whether the subscription is present
func (r *watchRepository) Exists(userID, threadID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&domain.WatchList{}).
		Where("user_id = ? AND thread_id = ?", userID, threadID).
		Count(&count).Error
	return count > 0, err
}

// Delete removes the subscription
func (r *watchRepository) Delete(userID, threadID uint64) error {
	return r.db.Where("user_id = ? AND thread_id = ?", userID, threadID).
		Delete(&domain.WatchList{}).Error
}

// ListWatchers joins subscriptions to member rows for addressing
func (r *watchRepository) ListWatchers(threadID uint64) ([]domain.Member, error) {
	var members []domain.Member
	err := r.db.Model(&domain.Member{}).
		Joins("JOIN watch_lists ON watch_lists.user_id = members.id").
		Where("watch_lists.thread_id = ?", threadID).
		Find(&members).Error
	return members, err
}
