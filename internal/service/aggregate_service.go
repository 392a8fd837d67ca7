package service

import (
	"context"
	"sync"

	"github.com/talkboard/talkboard-backend/internal/common"
	"github.com/talkboard/talkboard-backend/internal/domain"
	"github.com/talkboard/talkboard-backend/internal/repository"
	"github.com/talkboard/talkboard-backend/pkg/cache"
	"github.com/talkboard/talkboard-backend/pkg/logger"
)

// AggregateService recomputes the denormalized thread and category
// statistics after every post or thread mutation.
//
// Recompute is a pure function of the current rows: it rescans the
// affected parent and rewrites the stored aggregates, so running it
// twice without an intervening mutation is a no-op. Full rescans are
// fine at board scale; an incremental scheme would have to preserve
// the same derivations exactly.
type AggregateService struct {
	posts      repository.PostRepository
	threads    repository.ThreadRepository
	categories repository.CategoryRepository
	cache      cache.Service

	// Recompute for a given thread (and its category) is serialized
	// with keyed mutexes so concurrent posts to one thread cannot
	// interleave their read-compute-write cycles and strand stale
	// counts.
	mu            sync.Mutex
	threadLocks   map[uint64]*sync.Mutex
	categoryLocks map[uint64]*sync.Mutex
}

// NewAggregateService creates a new AggregateService
func NewAggregateService(
	posts repository.PostRepository,
	threads repository.ThreadRepository,
	categories repository.CategoryRepository,
	cacheSvc cache.Service,
) *AggregateService {
	return &AggregateService{
		posts:         posts,
		threads:       threads,
		categories:    categories,
		cache:         cacheSvc,
		threadLocks:   make(map[uint64]*sync.Mutex),
		categoryLocks: make(map[uint64]*sync.Mutex),
	}
}

func (s *AggregateService) threadLock(id uint64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.threadLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.threadLocks[id] = l
	}
	return l
}

func (s *AggregateService) categoryLock(id uint64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.categoryLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.categoryLocks[id] = l
	}
	return l
}

// RecomputeThread rederives a thread's aggregates from its posts and
// then unconditionally recomputes the owning category. The thread
// write is applied before the category recompute reads thread state.
func (s *AggregateService) RecomputeThread(threadID uint64) error {
	lock := s.threadLock(threadID)
	lock.Lock()
	defer lock.Unlock()

	thread, err := s.threads.FindByID(threadID)
	if err != nil {
		return err
	}
	if thread == nil {
		return common.ErrThreadNotFound
	}

	posts, err := s.posts.ListByThread(threadID)
	if err != nil {
		return err
	}

	applyThreadAggregates(thread, posts)

	if err := s.threads.SaveAggregates(thread); err != nil {
		return err
	}

	return s.RecomputeCategory(thread.CategoryID)
}

// applyThreadAggregates derives the five denormalized fields from the
// thread's posts, already ordered by date. An empty thread resets all
// of them: a stale last_update with no posts is self-healing, not an
// error.
func applyThreadAggregates(thread *domain.Thread, posts []domain.Post) {
	var count int64
	for i := range posts {
		if posts[i].Counted() {
			count++
		}
	}
	thread.PostCount = count

	if len(posts) == 0 {
		thread.Starter = ""
		thread.StarterEmail = ""
		thread.LastPoster = ""
		thread.LastPosterEmail = ""
		thread.LastUpdate = nil
		return
	}

	// Ordering uses date, not original_date: edits append rows with
	// later dates, so the starter stays stable across edits.
	first := posts[0]
	last := posts[len(posts)-1]

	thread.Starter = first.AuthorName
	thread.StarterEmail = first.AuthorEmail
	thread.LastPoster = last.AuthorName
	thread.LastPosterEmail = last.AuthorEmail
	lastDate := last.Date
	thread.LastUpdate = &lastDate
}

// RecomputeCategory rederives a category's non-private thread count
// and last public post. Runs after thread deletion too, since removing
// a thread can change both.
func (s *AggregateService) RecomputeCategory(categoryID uint64) error {
	lock := s.categoryLock(categoryID)
	lock.Lock()
	defer lock.Unlock()

	threadCount, err := s.threads.CountPublic(categoryID)
	if err != nil {
		return err
	}

	latest, err := s.posts.LatestInCategory(categoryID)
	if err != nil {
		return err
	}

	var lastPostID *uint64
	if latest != nil {
		lastPostID = &latest.ID
	}

	if err := s.categories.SaveAggregates(categoryID, threadCount, lastPostID); err != nil {
		return err
	}

	s.invalidateListings(categoryID)
	return nil
}

// invalidateListings drops cached listing pages touched by the
// recompute. Cache misses are harmless, so failures only log.
func (s *AggregateService) invalidateListings(categoryID uint64) {
	if s.cache == nil || !s.cache.IsAvailable() {
		return
	}
	ctx := context.Background()
	if err := s.cache.InvalidateThreads(ctx, categoryID); err != nil {
		logger.GetLogger().Warn().Err(err).Uint64("category_id", categoryID).Msg("invalidate thread cache")
	}
	if err := s.cache.InvalidateCategoryList(ctx); err != nil {
		logger.GetLogger().Warn().Err(err).Msg("invalidate category cache")
	}
}
