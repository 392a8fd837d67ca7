package service

import (
	"errors"
	"time"

	"github.com/talkboard/talkboard-backend/internal/common"
	"github.com/talkboard/talkboard-backend/internal/domain"
	"github.com/talkboard/talkboard-backend/internal/repository"
	"github.com/talkboard/talkboard-backend/pkg/logger"
)

// PostService implements the post lifecycle: replying, the append-only
// edit chain, moderation flags and abuse reports.
type PostService interface {
	ListPosts(actor *domain.Actor, threadID uint64, page, limit int) ([]domain.Post, int64, error)
	CreatePost(actor *domain.Actor, threadID uint64, req *domain.CreatePostRequest, ip string) (*domain.Post, error)
	EditPost(actor *domain.Actor, postID uint64, req *domain.UpdatePostRequest, ip string) (*domain.Post, error)
	CensorPost(actor *domain.Actor, postID uint64, censored bool) error
	ProtectPost(actor *domain.Actor, postID uint64, protected bool) error
	DeletePost(actor *domain.Actor, postID uint64) error
	ReportPost(actor *domain.Actor, postID uint64, req *domain.ReportPostRequest) error
	VisiblePostCount(actor *domain.Actor, threadID uint64, before *time.Time) (int64, error)
}

type postService struct {
	posts      repository.PostRepository
	threads    repository.ThreadRepository
	categories repository.CategoryRepository
	members    repository.MemberRepository
	reports    repository.ReportRepository
	settings   repository.SettingsRepository
	watches    repository.WatchRepository
	moderators repository.ModeratorRepository
	aggregates *AggregateService
	notify     *NotifyService
}

// NewPostService creates a new PostService
func NewPostService(
	posts repository.PostRepository,
	threads repository.ThreadRepository,
	categories repository.CategoryRepository,
	members repository.MemberRepository,
	reports repository.ReportRepository,
	settings repository.SettingsRepository,
	watches repository.WatchRepository,
	moderators repository.ModeratorRepository,
	aggregates *AggregateService,
	notify *NotifyService,
) PostService {
	return &postService{
		posts:      posts,
		threads:    threads,
		categories: categories,
		members:    members,
		reports:    reports,
		settings:   settings,
		watches:    watches,
		moderators: moderators,
		aggregates: aggregates,
		notify:     notify,
	}
}

// loadThread resolves a thread together with its category or the
// matching not-found error.
func (s *postService) loadThread(threadID uint64) (*domain.Thread, *domain.Category, error) {
	thread, err := s.threads.FindByID(threadID)
	if err != nil {
		return nil, nil, err
	}
	if thread == nil {
		return nil, nil, common.ErrThreadNotFound
	}
	category, err := s.categories.FindByID(thread.CategoryID)
	if err != nil {
		return nil, nil, err
	}
	if category == nil {
		return nil, nil, common.ErrCategoryNotFound
	}
	return thread, category, nil
}

// ListPosts returns a page of a thread's rendered rows. Staff see
// censored heads; everyone else sees the censored-filtered view. Page
// size and ordering follow the caller's saved preferences.
func (s *postService) ListPosts(actor *domain.Actor, threadID uint64, page, limit int) ([]domain.Post, int64, error) {
	thread, category, err := s.loadThread(threadID)
	if err != nil {
		return nil, 0, err
	}

	ok, err := threadReadable(s.watches, actor, thread, category)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, common.ErrPermissionDenied
	}

	reverse := false
	if actor.IsAuthenticated() {
		prefs, _, err := s.settings.GetOrCreate(actor.ID)
		if err != nil {
			return nil, 0, err
		}
		reverse = prefs.ReversePosts
		if limit <= 0 {
			limit = prefs.PostsPerPage
		}
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	return s.posts.ListPage(threadID, actor.IsStaff(), reverse, page, limit)
}

// CreatePost appends a reply to a thread, recomputes the aggregates and
// dispatches watcher notifications. The notification outcome never
// affects the saved post.
func (s *postService) CreatePost(actor *domain.Actor, threadID uint64, req *domain.CreatePostRequest, ip string) (*domain.Post, error) {
	if !actor.IsAuthenticated() {
		return nil, common.ErrUnauthorized
	}

	thread, category, err := s.loadThread(threadID)
	if err != nil {
		return nil, err
	}
	if !category.CanPost(actor) {
		return nil, common.ErrPermissionDenied
	}
	if thread.Closed && !actor.IsStaff() {
		return nil, common.ErrThreadClosed
	}

	if err := s.members.Upsert(&domain.Member{ID: actor.ID, Name: actor.Name, Email: actor.Email}); err != nil {
		return nil, err
	}

	now := time.Now()
	authorID := actor.ID
	post := &domain.Post{
		ThreadID:     threadID,
		AuthorID:     &authorID,
		AuthorName:   actor.Name,
		AuthorEmail:  actor.Email,
		Text:         req.Text,
		Date:         now,
		IP:           ip,
		OriginalDate: now,
	}
	if err := s.posts.Create(post); err != nil {
		return nil, err
	}

	if err := s.aggregates.RecomputeThread(threadID); err != nil {
		return nil, err
	}

	s.notify.DispatchNewPost(post, thread)
	return post, nil
}

// EditPost appends a revision row. The old head keeps its content and
// is flagged superseded; the revision inherits the author identity and
// the chain's original date. Edits never notify watchers.
func (s *postService) EditPost(actor *domain.Actor, postID uint64, req *domain.UpdatePostRequest, ip string) (*domain.Post, error) {
	head, err := s.posts.FindByID(postID)
	if err != nil {
		return nil, err
	}
	if head == nil {
		return nil, common.ErrPostNotFound
	}
	if head.Superseded {
		return nil, common.ErrPostSuperseded
	}

	owner := actor.IsAuthenticated() && head.AuthorID != nil && *head.AuthorID == actor.ID
	if !owner && !actor.IsStaff() {
		return nil, common.ErrPermissionDenied
	}

	previousID := head.ID
	revision := &domain.Post{
		ThreadID:     head.ThreadID,
		AuthorID:     head.AuthorID,
		AuthorName:   head.AuthorName,
		AuthorEmail:  head.AuthorEmail,
		Text:         req.Text,
		Date:         time.Now(),
		IP:           ip,
		OriginalDate: head.OriginalDate,
		PreviousID:   &previousID,
	}
	if err := s.posts.Create(revision); err != nil {
		return nil, err
	}
	if err := s.posts.MarkSuperseded(head.ID); err != nil {
		// A concurrent edit already superseded this head. Its revision
		// won the chain; ours must not leave a second head behind.
		if errors.Is(err, common.ErrPostSuperseded) {
			if delErr := s.posts.Delete(revision.ID); delErr != nil {
				logger.GetLogger().Error().Err(delErr).
					Uint64("post_id", revision.ID).
					Msg("remove orphaned revision")
			}
		}
		return nil, err
	}

	if err := s.aggregates.RecomputeThread(head.ThreadID); err != nil {
		return nil, err
	}
	return revision, nil
}

// canModerate reports whether the actor may moderate the thread's
// category. Staff moderate everywhere; others need a moderator row for
// the category.
func (s *postService) canModerate(actor *domain.Actor, threadID uint64) (bool, error) {
	if actor.IsStaff() {
		return true, nil
	}
	if !actor.IsAuthenticated() {
		return false, nil
	}
	thread, _, err := s.loadThread(threadID)
	if err != nil {
		return false, err
	}
	return s.moderators.IsModerator(thread.CategoryID, actor.ID)
}

// CensorPost applies or lifts the censor flag. Staff and the category's
// moderators may censor.
func (s *postService) CensorPost(actor *domain.Actor, postID uint64, censored bool) error {
	post, err := s.posts.FindByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return common.ErrPostNotFound
	}
	ok, err := s.canModerate(actor, post.ThreadID)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrPermissionDenied
	}
	if err := s.posts.SetCensored(postID, censored); err != nil {
		return err
	}
	return s.aggregates.RecomputeThread(post.ThreadID)
}

// ProtectPost applies or lifts the superuser protection flag. Protected
// posts cannot be reported.
func (s *postService) ProtectPost(actor *domain.Actor, postID uint64, protected bool) error {
	if !actor.IsSuperuser() {
		return common.ErrPermissionDenied
	}
	post, err := s.posts.FindByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return common.ErrPostNotFound
	}
	return s.posts.SetProtected(postID, protected)
}

// DeletePost physically removes a row and recomputes the thread
func (s *postService) DeletePost(actor *domain.Actor, postID uint64) error {
	if !actor.IsStaff() {
		return common.ErrPermissionDenied
	}
	post, err := s.posts.FindByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return common.ErrPostNotFound
	}
	if err := s.posts.Delete(postID); err != nil {
		return err
	}
	return s.aggregates.RecomputeThread(post.ThreadID)
}

// ReportPost files an abuse report against a post. Protected posts
// reject reports; a duplicate pair surfaces as a conflict.
func (s *postService) ReportPost(actor *domain.Actor, postID uint64, req *domain.ReportPostRequest) error {
	if !actor.IsAuthenticated() {
		return common.ErrUnauthorized
	}
	post, err := s.posts.FindByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return common.ErrPostNotFound
	}
	if post.Protected {
		return common.ErrPostProtected
	}
	return s.reports.Create(&domain.AbuseReport{
		PostID:      postID,
		SubmitterID: actor.ID,
		Reason:      req.Reason,
	})
}

// VisiblePostCount counts the chain heads the actor would see,
// optionally only those dated before a cutoff.
func (s *postService) VisiblePostCount(actor *domain.Actor, threadID uint64, before *time.Time) (int64, error) {
	thread, category, err := s.loadThread(threadID)
	if err != nil {
		return 0, err
	}
	ok, err := threadReadable(s.watches, actor, thread, category)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, common.ErrPermissionDenied
	}
	return s.posts.CountVisible(threadID, actor.IsStaff(), before)
}
