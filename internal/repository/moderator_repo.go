package repository

import (
	"github.com/talkboard/talkboard-backend/internal/common"
	"github.com/talkboard/talkboard-backend/internal/domain"
	"gorm.io/gorm"
)

// ModeratorRepository handles per-category moderator assignments
type ModeratorRepository interface {
	IsModerator(categoryID, userID uint64) (bool, error)
	ListByCategory(categoryID uint64) ([]domain.Moderator, error)
	Add(moderator *domain.Moderator) error
	Remove(categoryID, userID uint64) error
}

type moderatorRepository struct {
	db *gorm.DB
}

// NewModeratorRepository creates a new ModeratorRepository
func NewModeratorRepository(db *gorm.DB) ModeratorRepository {
	return &moderatorRepository{db: db}
}

// IsModerator reports whether the user moderates the category
func (r *moderatorRepository) IsModerator(categoryID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Moderator{}).
		Where("category_id = ? AND user_id = ?", categoryID, userID).
		Count(&count).Error
	return count > 0, err
}

// ListByCategory returns the category's moderators with their members
func (r *moderatorRepository) ListByCategory(categoryID uint64) ([]domain.Moderator, error) {
	var moderators []domain.Moderator
	err := r.db.Preload("User").
		Where("category_id = ?", categoryID).
		Find(&moderators).Error
	return moderators, err
}

// Add assigns a moderator; the unique pair surfaces as a conflict
func (r *moderatorRepository) Add(moderator *domain.Moderator) error {
	if err := r.db.Create(moderator).Error; err != nil {
		if isDuplicate(err) {
			return common.ErrDuplicateModerator
		}
		return err
	}
	return nil
}

// Remove drops an assignment. Removing an absent one is a no-op.
func (r *moderatorRepository) Remove(categoryID, userID uint64) error {
	return r.db.Where("category_id = ? AND user_id = ?", categoryID, userID).
		Delete(&domain.Moderator{}).Error
}
