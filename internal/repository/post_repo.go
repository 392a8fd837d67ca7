package repository

import (
	"errors"
	"time"

	"github.com/talkboard/talkboard-backend/internal/common"
	"github.com/talkboard/talkboard-backend/internal/domain"
	"gorm.io/gorm"
)

// PostRepository handles post rows including revision-chain bookkeeping
type PostRepository interface {
	FindByID(id uint64) (*domain.Post, error)
	// ListByThread returns every row of the thread ordered by date then
	// id, which is the canonical order aggregates derive from.
	ListByThread(threadID uint64) ([]domain.Post, error)
	ListPage(threadID uint64, includeCensored, reverse bool, page, limit int) ([]domain.Post, int64, error)
	CountVisible(threadID uint64, includeCensored bool, before *time.Time) (int64, error)
	Create(post *domain.Post) error
	// MarkSuperseded sets the superseded flag on a head row. Returns
	// common.ErrPostSuperseded when the row was already superseded.
	MarkSuperseded(id uint64) error
	SetCensored(id uint64, censored bool) error
	SetProtected(id uint64, protected bool) error
	Delete(id uint64) error
	// LatestInCategory finds the newest post belonging to any
	// non-private thread of the category, or nil when there is none.
	LatestInCategory(categoryID uint64) (*domain.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// FindByID returns a post row, or nil when absent
func (r *postRepository) FindByID(id uint64) (*domain.Post, error) {
	var post domain.Post
	err := r.db.Where("id = ?", id).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// ListByThread returns all rows of a thread in date order
func (r *postRepository) ListByThread(threadID uint64) ([]domain.Post, error) {
	var posts []domain.Post
	err := r.db.Where("thread_id = ?", threadID).
		Order("date, id").
		Find(&posts).Error
	return posts, err
}

// ListPage returns a page of rendered rows: chain heads only, censored
// ones included for staff
func (r *postRepository) ListPage(threadID uint64, includeCensored, reverse bool, page, limit int) ([]domain.Post, int64, error) {
	var posts []domain.Post
	var total int64

	q := r.db.Model(&domain.Post{}).
		Where("thread_id = ? AND superseded = ?", threadID, false)
	if !includeCensored {
		q = q.Where("censored = ?", false)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "date, id"
	if reverse {
		order = "date DESC, id DESC"
	}

	offset := (page - 1) * limit
	err := q.Order(order).Offset(offset).Limit(limit).Find(&posts).Error
	return posts, total, err
}

// CountVisible counts chain heads, optionally hiding censored rows and
// cutting at a date
func (r *postRepository) CountVisible(threadID uint64, includeCensored bool, before *time.Time) (int64, error) {
	var count int64
	q := r.db.Model(&domain.Post{}).
		Where("thread_id = ? AND superseded = ?", threadID, false)
	if !includeCensored {
		q = q.Where("censored = ?", false)
	}
	if before != nil {
		q = q.Where("date < ?", *before)
	}
	err := q.Count(&count).Error
	return count, err
}

// Create inserts a new post row
func (r *postRepository) Create(post *domain.Post) error {
	return r.db.Create(post).Error
}

// MarkSuperseded flips the one in-place chain flag a row ever receives.
// The flip is guarded: a row that is already superseded is left alone
// and the caller gets ErrPostSuperseded, so two concurrent edits of the
// same head cannot both attach a revision.
func (r *postRepository) MarkSuperseded(id uint64) error {
	res := r.db.Model(&domain.Post{}).
		Where("id = ? AND superseded = ?", id, false).
		UpdateColumn("superseded", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrPostSuperseded
	}
	return nil
}

// SetCensored applies the moderator censor flag in place
func (r *postRepository) SetCensored(id uint64, censored bool) error {
	return r.db.Model(&domain.Post{}).
		Where("id = ?", id).
		UpdateColumn("censored", censored).Error
}

// SetProtected applies the superuser protection flag in place
func (r *postRepository) SetProtected(id uint64, protected bool) error {
	return r.db.Model(&domain.Post{}).
		Where("id = ?", id).
		UpdateColumn("protected", protected).Error
}

// Delete removes a post row (administrative action)
func (r *postRepository) Delete(id uint64) error {
	return r.db.Where("id = ?", id).Delete(&domain.Post{}).Error
}

// LatestInCategory returns the newest post across the category's
// non-private threads, or nil when none exists
func (r *postRepository) LatestInCategory(categoryID uint64) (*domain.Post, error) {
	var post domain.Post
	err := r.db.
		Joins("JOIN threads ON threads.id = posts.thread_id").
		Where("threads.category_id = ? AND threads.private = ?", categoryID, false).
		Order("posts.date DESC, posts.id DESC").
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}
