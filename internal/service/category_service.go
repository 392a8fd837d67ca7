package service

import (
	"context"
	"encoding/json"

	"github.com/talkboard/talkboard-backend/internal/common"
	"github.com/talkboard/talkboard-backend/internal/domain"
	"github.com/talkboard/talkboard-backend/internal/repository"
	"github.com/talkboard/talkboard-backend/pkg/cache"
	"github.com/talkboard/talkboard-backend/pkg/logger"
)

// CategoryService implements the category surface: listing filtered by
// view permission and the staff configuration operations.
type CategoryService interface {
	// ListCategories returns the categories the actor may see. The full
	// set is cached; the per-actor view filter runs on every call.
	ListCategories(actor *domain.Actor) ([]domain.Category, error)
	GetCategory(actor *domain.Actor, slug string) (*domain.Category, error)
	CreateCategory(actor *domain.Actor, req *domain.CreateCategoryRequest) (*domain.Category, error)
	UpdateCategory(actor *domain.Actor, slug string, req *domain.UpdateCategoryRequest) (*domain.Category, error)

	ListModerators(actor *domain.Actor, slug string) ([]domain.Moderator, error)
	AddModerator(actor *domain.Actor, slug string, userID uint64) (*domain.Moderator, error)
	RemoveModerator(actor *domain.Actor, slug string, userID uint64) error
}

type categoryService struct {
	categories repository.CategoryRepository
	moderators repository.ModeratorRepository
	members    repository.MemberRepository
	cache      cache.Service
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categories repository.CategoryRepository,
	moderators repository.ModeratorRepository,
	members repository.MemberRepository,
	cacheSvc cache.Service,
) CategoryService {
	return &categoryService{
		categories: categories,
		moderators: moderators,
		members:    members,
		cache:      cacheSvc,
	}
}

// cachedCategory pairs a category with its permission groups. The API
// representation hides the groups, so caching raw categories would hand
// the evaluator nil groups after a round-trip and lock custom-group
// members out. The cache stores the groups explicitly instead.
type cachedCategory struct {
	Category       domain.Category `json:"category"`
	ViewGroup      *domain.Group   `json:"view_group,omitempty"`
	ReadGroup      *domain.Group   `json:"read_group,omitempty"`
	PostGroup      *domain.Group   `json:"post_group,omitempty"`
	NewThreadGroup *domain.Group   `json:"new_thread_group,omitempty"`
}

func toCacheEntries(categories []domain.Category) []cachedCategory {
	entries := make([]cachedCategory, len(categories))
	for i := range categories {
		entries[i] = cachedCategory{
			Category:       categories[i],
			ViewGroup:      categories[i].ViewGroup,
			ReadGroup:      categories[i].ReadGroup,
			PostGroup:      categories[i].PostGroup,
			NewThreadGroup: categories[i].NewThreadGroup,
		}
	}
	return entries
}

func fromCacheEntries(entries []cachedCategory) []domain.Category {
	categories := make([]domain.Category, len(entries))
	for i := range entries {
		category := entries[i].Category
		category.ViewGroup = entries[i].ViewGroup
		category.ReadGroup = entries[i].ReadGroup
		category.PostGroup = entries[i].PostGroup
		category.NewThreadGroup = entries[i].NewThreadGroup
		categories[i] = category
	}
	return categories
}

func (s *categoryService) listAll() ([]domain.Category, error) {
	if s.cache != nil && s.cache.IsAvailable() {
		if data, err := s.cache.GetCategoryList(context.Background()); err == nil {
			var cached []cachedCategory
			if json.Unmarshal(data, &cached) == nil {
				return fromCacheEntries(cached), nil
			}
		}
	}

	categories, err := s.categories.List()
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.cache.IsAvailable() {
		if err := s.cache.SetCategoryList(context.Background(), toCacheEntries(categories)); err != nil {
			logger.GetLogger().Warn().Err(err).Msg("cache category list")
		}
	}
	return categories, nil
}

// ListCategories filters the full set down to what the actor may view
func (s *categoryService) ListCategories(actor *domain.Actor) ([]domain.Category, error) {
	categories, err := s.listAll()
	if err != nil {
		return nil, err
	}

	visible := make([]domain.Category, 0, len(categories))
	for i := range categories {
		if categories[i].CanView(actor) {
			visible = append(visible, categories[i])
		}
	}
	return visible, nil
}

// GetCategory returns one category the actor may view. A category the
// actor cannot view reads as absent, not forbidden, so its existence
// does not leak.
func (s *categoryService) GetCategory(actor *domain.Actor, slug string) (*domain.Category, error) {
	category, err := s.categories.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	if category == nil || !category.CanView(actor) {
		return nil, common.ErrCategoryNotFound
	}
	return category, nil
}

// CreateCategory adds a category (staff only)
func (s *categoryService) CreateCategory(actor *domain.Actor, req *domain.CreateCategoryRequest) (*domain.Category, error) {
	if !actor.IsStaff() {
		return nil, common.ErrPermissionDenied
	}

	category := &domain.Category{
		Label:          req.Label,
		Slug:           req.Slug,
		ViewPerms:      domain.PermAll,
		ReadPerms:      domain.PermAll,
		PostPerms:      domain.PermUsers,
		NewThreadPerms: domain.PermUsers,
	}
	if req.ViewPerms != nil {
		category.ViewPerms = *req.ViewPerms
	}
	if req.ReadPerms != nil {
		category.ReadPerms = *req.ReadPerms
	}
	if req.PostPerms != nil {
		category.PostPerms = *req.PostPerms
	}
	if req.NewThreadPerms != nil {
		category.NewThreadPerms = *req.NewThreadPerms
	}
	category.ViewGroupID = req.ViewGroupID
	category.ReadGroupID = req.ReadGroupID
	category.PostGroupID = req.PostGroupID
	category.NewThreadGroupID = req.NewThreadGroupID

	if err := s.categories.Create(category); err != nil {
		return nil, err
	}
	s.invalidate()
	return category, nil
}

// UpdateCategory reconfigures a category (staff only). Only the fields
// present in the request change.
func (s *categoryService) UpdateCategory(actor *domain.Actor, slug string, req *domain.UpdateCategoryRequest) (*domain.Category, error) {
	if !actor.IsStaff() {
		return nil, common.ErrPermissionDenied
	}

	category, err := s.categories.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, common.ErrCategoryNotFound
	}

	if req.Label != nil {
		category.Label = *req.Label
	}
	if req.ViewPerms != nil {
		category.ViewPerms = *req.ViewPerms
	}
	if req.ReadPerms != nil {
		category.ReadPerms = *req.ReadPerms
	}
	if req.PostPerms != nil {
		category.PostPerms = *req.PostPerms
	}
	if req.NewThreadPerms != nil {
		category.NewThreadPerms = *req.NewThreadPerms
	}
	if req.ViewGroupID != nil {
		category.ViewGroupID = req.ViewGroupID
	}
	if req.ReadGroupID != nil {
		category.ReadGroupID = req.ReadGroupID
	}
	if req.PostGroupID != nil {
		category.PostGroupID = req.PostGroupID
	}
	if req.NewThreadGroupID != nil {
		category.NewThreadGroupID = req.NewThreadGroupID
	}

	if err := s.categories.Update(category); err != nil {
		return nil, err
	}
	s.invalidate()
	return category, nil
}

// ListModerators returns the category's moderator assignments (staff
// only)
func (s *categoryService) ListModerators(actor *domain.Actor, slug string) ([]domain.Moderator, error) {
	if !actor.IsStaff() {
		return nil, common.ErrPermissionDenied
	}
	category, err := s.categories.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, common.ErrCategoryNotFound
	}
	return s.moderators.ListByCategory(category.ID)
}

// AddModerator assigns a user as category moderator (staff only). The
// user must already exist.
func (s *categoryService) AddModerator(actor *domain.Actor, slug string, userID uint64) (*domain.Moderator, error) {
	if !actor.IsStaff() {
		return nil, common.ErrPermissionDenied
	}
	category, err := s.categories.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, common.ErrCategoryNotFound
	}
	member, err := s.members.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, common.ErrNotFound
	}
	moderator := &domain.Moderator{CategoryID: category.ID, UserID: userID}
	if err := s.moderators.Add(moderator); err != nil {
		return nil, err
	}
	return moderator, nil
}

// RemoveModerator drops a moderator assignment (staff only)
func (s *categoryService) RemoveModerator(actor *domain.Actor, slug string, userID uint64) error {
	if !actor.IsStaff() {
		return common.ErrPermissionDenied
	}
	category, err := s.categories.FindBySlug(slug)
	if err != nil {
		return err
	}
	if category == nil {
		return common.ErrCategoryNotFound
	}
	return s.moderators.Remove(category.ID, userID)
}

func (s *categoryService) invalidate() {
	if s.cache == nil || !s.cache.IsAvailable() {
		return
	}
	if err := s.cache.InvalidateCategoryList(context.Background()); err != nil {
		logger.GetLogger().Warn().Err(err).Msg("invalidate category cache")
	}
}
