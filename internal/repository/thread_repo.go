package repository

import (
	"errors"

	"github.com/talkboard/talkboard-backend/internal/domain"
	"gorm.io/gorm"
)

// ThreadRepository handles thread data operations
type ThreadRepository interface {
	FindByID(id uint64) (*domain.Thread, error)
	FindBySlug(categoryID uint64, slug string) (*domain.Thread, error)
	ListByCategory(categoryID uint64, includePrivate bool, page, limit int) ([]domain.Thread, int64, error)
	Create(thread *domain.Thread) error
	SaveFlags(thread *domain.Thread) error
	Delete(id uint64) error
	CountPublic(categoryID uint64) (int64, error)
	SaveAggregates(thread *domain.Thread) error
}

type threadRepository struct {
	db *gorm.DB
}

// NewThreadRepository creates a new ThreadRepository
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

// FindByID returns a thread, or nil when absent
func (r *threadRepository) FindByID(id uint64) (*domain.Thread, error) {
	var thread domain.Thread
	err := r.db.Where("id = ?", id).First(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &thread, nil
}

// FindBySlug returns a thread within a category, or nil when absent
func (r *threadRepository) FindBySlug(categoryID uint64, slug string) (*domain.Thread, error) {
	var thread domain.Thread
	err := r.db.Where("category_id = ? AND slug = ?", categoryID, slug).First(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &thread, nil
}

// ListByCategory returns paginated threads, stickies first, then most
// recently updated
func (r *threadRepository) ListByCategory(categoryID uint64, includePrivate bool, page, limit int) ([]domain.Thread, int64, error) {
	var threads []domain.Thread
	var total int64

	q := r.db.Model(&domain.Thread{}).Where("category_id = ?", categoryID)
	if !includePrivate {
		q = q.Where("private = ?", false)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("gsticky DESC, csticky DESC, last_update DESC").
		Offset(offset).
		Limit(limit).
		Find(&threads).Error

	return threads, total, err
}

// Create inserts a new thread
func (r *threadRepository) Create(thread *domain.Thread) error {
	return r.db.Create(thread).Error
}

// SaveFlags writes the moderation columns, leaving the denormalized
// block to the aggregate recalculator
func (r *threadRepository) SaveFlags(thread *domain.Thread) error {
	return r.db.Model(&domain.Thread{}).
		Where("id = ?", thread.ID).
		Select("subject", "private", "closed", "csticky", "gsticky").
		Updates(map[string]interface{}{
			"subject": thread.Subject,
			"private": thread.Private,
			"closed":  thread.Closed,
			"csticky": thread.CSticky,
			"gsticky": thread.GSticky,
		}).Error
}

// Delete removes a thread and its posts
func (r *threadRepository) Delete(id uint64) error {
	if err := r.db.Where("thread_id = ?", id).Delete(&domain.Post{}).Error; err != nil {
		return err
	}
	return r.db.Where("id = ?", id).Delete(&domain.Thread{}).Error
}

// CountPublic counts non-private threads in a category
func (r *threadRepository) CountPublic(categoryID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Thread{}).
		Where("category_id = ? AND private = ?", categoryID, false).
		Count(&count).Error
	return count, err
}

// SaveAggregates writes only the denormalized thread columns. Select is
// explicit so last_update can be cleared back to NULL.
func (r *threadRepository) SaveAggregates(thread *domain.Thread) error {
	return r.db.Model(&domain.Thread{}).
		Where("id = ?", thread.ID).
		Select("post_count", "starter", "starter_email", "last_poster", "last_poster_email", "last_update").
		Updates(map[string]interface{}{
			"post_count":        thread.PostCount,
			"starter":           thread.Starter,
			"starter_email":     thread.StarterEmail,
			"last_poster":       thread.LastPoster,
			"last_poster_email": thread.LastPosterEmail,
			"last_update":       thread.LastUpdate,
		}).Error
}
