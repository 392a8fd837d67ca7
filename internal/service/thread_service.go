package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/talkboard/talkboard-backend/internal/common"
	"github.com/talkboard/talkboard-backend/internal/domain"
	"github.com/talkboard/talkboard-backend/internal/repository"
	"github.com/talkboard/talkboard-backend/pkg/cache"
	"github.com/talkboard/talkboard-backend/pkg/logger"
)

// ThreadPage is one listing page with its total for pagination
type ThreadPage struct {
	Threads []domain.Thread `json:"threads"`
	Total   int64           `json:"total"`
}

// ThreadService implements the thread lifecycle: listing, opening with
// a seed post, deletion and watch subscriptions.
type ThreadService interface {
	ListThreads(actor *domain.Actor, categorySlug string, page, limit int) (*ThreadPage, error)
	GetThread(actor *domain.Actor, threadID uint64) (*domain.Thread, error)
	CreateThread(actor *domain.Actor, categorySlug string, req *domain.CreateThreadRequest, ip string) (*domain.Thread, error)
	UpdateThread(actor *domain.Actor, threadID uint64, req *domain.UpdateThreadRequest) (*domain.Thread, error)
	DeleteThread(actor *domain.Actor, threadID uint64) error
	Watch(actor *domain.Actor, threadID uint64) error
	Unwatch(actor *domain.Actor, threadID uint64) error
}

type threadService struct {
	threads    repository.ThreadRepository
	posts      repository.PostRepository
	categories repository.CategoryRepository
	members    repository.MemberRepository
	watches    repository.WatchRepository
	aggregates *AggregateService
	notify     *NotifyService
	cache      cache.Service
}

// NewThreadService creates a new ThreadService
func NewThreadService(
	threads repository.ThreadRepository,
	posts repository.PostRepository,
	categories repository.CategoryRepository,
	members repository.MemberRepository,
	watches repository.WatchRepository,
	aggregates *AggregateService,
	notify *NotifyService,
	cacheSvc cache.Service,
) ThreadService {
	return &threadService{
		threads:    threads,
		posts:      posts,
		categories: categories,
		members:    members,
		watches:    watches,
		aggregates: aggregates,
		notify:     notify,
		cache:      cacheSvc,
	}
}

func (s *threadService) loadCategory(slug string) (*domain.Category, error) {
	category, err := s.categories.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, common.ErrCategoryNotFound
	}
	return category, nil
}

// ListThreads returns a listing page for a category. Requires both view
// and read permission. Staff additionally see private threads; only the
// public view is cached since it is identical for every passing actor.
func (s *threadService) ListThreads(actor *domain.Actor, categorySlug string, page, limit int) (*ThreadPage, error) {
	category, err := s.loadCategory(categorySlug)
	if err != nil {
		return nil, err
	}
	if !category.CanView(actor) || !category.CanRead(actor) {
		return nil, common.ErrPermissionDenied
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	includePrivate := actor.IsStaff()
	if !includePrivate && s.cache != nil && s.cache.IsAvailable() {
		if data, err := s.cache.GetThreadPage(context.Background(), category.ID, page, limit); err == nil {
			var cached ThreadPage
			if json.Unmarshal(data, &cached) == nil {
				return &cached, nil
			}
		}
	}

	threads, total, err := s.threads.ListByCategory(category.ID, includePrivate, page, limit)
	if err != nil {
		return nil, err
	}
	result := &ThreadPage{Threads: threads, Total: total}

	if !includePrivate && s.cache != nil && s.cache.IsAvailable() {
		if err := s.cache.SetThreadPage(context.Background(), category.ID, page, limit, result); err != nil {
			logger.GetLogger().Warn().Err(err).Uint64("category_id", category.ID).Msg("cache thread page")
		}
	}
	return result, nil
}

// GetThread returns a single thread the actor may read
func (s *threadService) GetThread(actor *domain.Actor, threadID uint64) (*domain.Thread, error) {
	thread, err := s.threads.FindByID(threadID)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, common.ErrThreadNotFound
	}
	category, err := s.categories.FindByID(thread.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, common.ErrCategoryNotFound
	}
	ok, err := threadReadable(s.watches, actor, thread, category)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrPermissionDenied
	}
	return thread, nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives a URL slug from a subject line
func slugify(subject string) string {
	slug := strings.ToLower(subject)
	slug = slugStrip.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 80 {
		slug = strings.Trim(slug[:80], "-")
	}
	if slug == "" {
		slug = "thread"
	}
	return slug
}

// uniqueSlug appends a short random suffix when the natural slug is
// already taken within the category.
func (s *threadService) uniqueSlug(categoryID uint64, subject string) (string, error) {
	slug := slugify(subject)
	existing, err := s.threads.FindBySlug(categoryID, slug)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return slug, nil
	}
	return fmt.Sprintf("%s-%s", slug, uuid.NewString()[:8]), nil
}

// CreateThread opens a thread with its seed post. Requires both the
// new-thread and post permissions; creating a thread always writes the
// first post in the same operation.
func (s *threadService) CreateThread(actor *domain.Actor, categorySlug string, req *domain.CreateThreadRequest, ip string) (*domain.Thread, error) {
	if !actor.IsAuthenticated() {
		return nil, common.ErrUnauthorized
	}

	category, err := s.loadCategory(categorySlug)
	if err != nil {
		return nil, err
	}
	if !category.CanCreateThread(actor) || !category.CanPost(actor) {
		return nil, common.ErrPermissionDenied
	}

	if err := s.members.Upsert(&domain.Member{ID: actor.ID, Name: actor.Name, Email: actor.Email}); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(category.ID, req.Subject)
	if err != nil {
		return nil, err
	}

	thread := &domain.Thread{
		Subject:    req.Subject,
		Slug:       slug,
		CategoryID: category.ID,
		Private:    req.Private,
	}
	if err := s.threads.Create(thread); err != nil {
		return nil, err
	}

	now := time.Now()
	authorID := actor.ID
	seed := &domain.Post{
		ThreadID:     thread.ID,
		AuthorID:     &authorID,
		AuthorName:   actor.Name,
		AuthorEmail:  actor.Email,
		Text:         req.Text,
		Date:         now,
		IP:           ip,
		OriginalDate: now,
	}
	if err := s.posts.Create(seed); err != nil {
		return nil, err
	}

	if err := s.aggregates.RecomputeThread(thread.ID); err != nil {
		return nil, err
	}

	s.notify.DispatchNewPost(seed, thread)
	return thread, nil
}

// UpdateThread changes the moderation flags (staff only). Toggling
// private moves the thread in or out of the category aggregates, so a
// category recompute follows the write.
func (s *threadService) UpdateThread(actor *domain.Actor, threadID uint64, req *domain.UpdateThreadRequest) (*domain.Thread, error) {
	if !actor.IsStaff() {
		return nil, common.ErrPermissionDenied
	}
	thread, err := s.threads.FindByID(threadID)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, common.ErrThreadNotFound
	}

	privacyChanged := false
	if req.Subject != nil {
		thread.Subject = *req.Subject
	}
	if req.Private != nil && *req.Private != thread.Private {
		thread.Private = *req.Private
		privacyChanged = true
	}
	if req.Closed != nil {
		thread.Closed = *req.Closed
	}
	if req.CSticky != nil {
		thread.CSticky = *req.CSticky
	}
	if req.GSticky != nil {
		thread.GSticky = *req.GSticky
	}

	if err := s.threads.SaveFlags(thread); err != nil {
		return nil, err
	}
	if privacyChanged {
		if err := s.aggregates.RecomputeCategory(thread.CategoryID); err != nil {
			return nil, err
		}
	}
	return thread, nil
}

// DeleteThread removes a thread with its posts, then recomputes the
// category. Deletion changes both the thread count and possibly the
// category's last post.
func (s *threadService) DeleteThread(actor *domain.Actor, threadID uint64) error {
	if !actor.IsStaff() {
		return common.ErrPermissionDenied
	}
	thread, err := s.threads.FindByID(threadID)
	if err != nil {
		return err
	}
	if thread == nil {
		return common.ErrThreadNotFound
	}
	categoryID := thread.CategoryID
	if err := s.threads.Delete(threadID); err != nil {
		return err
	}
	return s.aggregates.RecomputeCategory(categoryID)
}

// Watch subscribes the caller to a thread they can read
func (s *threadService) Watch(actor *domain.Actor, threadID uint64) error {
	if !actor.IsAuthenticated() {
		return common.ErrUnauthorized
	}
	if _, err := s.GetThread(actor, threadID); err != nil {
		return err
	}
	if err := s.members.Upsert(&domain.Member{ID: actor.ID, Name: actor.Name, Email: actor.Email}); err != nil {
		return err
	}
	_, _, err := s.watches.GetOrCreate(actor.ID, threadID)
	return err
}

// Unwatch removes the caller's subscription. Removing an absent
// subscription is a no-op.
func (s *threadService) Unwatch(actor *domain.Actor, threadID uint64) error {
	if !actor.IsAuthenticated() {
		return common.ErrUnauthorized
	}
	return s.watches.Delete(actor.ID, threadID)
}
