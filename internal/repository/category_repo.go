package repository

import (
	"errors"

	"github.com/talkboard/talkboard-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// permGroupPreloads loads every permission group with its user set so
// the evaluator can run without further queries.
var permGroupPreloads = []string{
	"ViewGroup.Users", "ReadGroup.Users", "PostGroup.Users", "NewThreadGroup.Users",
}

// CategoryRepository handles category data operations
type CategoryRepository interface {
	List() ([]domain.Category, error)
	FindByID(id uint64) (*domain.Category, error)
	FindBySlug(slug string) (*domain.Category, error)
	Create(category *domain.Category) error
	Update(category *domain.Category) error
	SaveAggregates(id uint64, threadCount int64, lastPostID *uint64) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) withGroups() *gorm.DB {
	q := r.db
	for _, p := range permGroupPreloads {
		q = q.Preload(p)
	}
	return q
}

// List returns all categories with permission groups loaded
func (r *categoryRepository) List() ([]domain.Category, error) {
	var categories []domain.Category
	err := r.withGroups().Order("label").Find(&categories).Error
	return categories, err
}

// FindByID returns a category, or nil when absent
func (r *categoryRepository) FindByID(id uint64) (*domain.Category, error) {
	var category domain.Category
	err := r.withGroups().Where("id = ?", id).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// FindBySlug returns a category, or nil when absent
func (r *categoryRepository) FindBySlug(slug string) (*domain.Category, error) {
	var category domain.Category
	err := r.withGroups().Where("slug = ?", slug).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// Create inserts a new category
func (r *categoryRepository) Create(category *domain.Category) error {
	return r.db.Create(category).Error
}

// Update saves category configuration fields. Associations are omitted
// so a preloaded permission group is never written back.
func (r *categoryRepository) Update(category *domain.Category) error {
	return r.db.Omit(clause.Associations).Save(category).Error
}

// SaveAggregates writes only the denormalized columns. Select is
// explicit so last_post_id can be cleared back to NULL.
func (r *categoryRepository) SaveAggregates(id uint64, threadCount int64, lastPostID *uint64) error {
	return r.db.Model(&domain.Category{}).
		Where("id = ?", id).
		Select("thread_count", "last_post_id").
		Updates(map[string]interface{}{
			"thread_count": threadCount,
			"last_post_id": lastPostID,
		}).Error
}
