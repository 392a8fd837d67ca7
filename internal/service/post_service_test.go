package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/talkboard/talkboard-backend/internal/common"
	"github.com/talkboard/talkboard-backend/internal/domain"
)

type postFixture struct {
	svc        PostService
	posts      *MockPostRepository
	threads    *MockThreadRepository
	categories *MockCategoryRepository
	members    *MockMemberRepository
	reports    *MockReportRepository
	settings   *MockSettingsRepository
	watches    *MockWatchRepository
	moderators *MockModeratorRepository
}

func newPostFixture() *postFixture {
	f := &postFixture{
		posts:      new(MockPostRepository),
		threads:    new(MockThreadRepository),
		categories: new(MockCategoryRepository),
		members:    new(MockMemberRepository),
		reports:    new(MockReportRepository),
		settings:   new(MockSettingsRepository),
		watches:    new(MockWatchRepository),
		moderators: new(MockModeratorRepository),
	}
	aggregates := NewAggregateService(f.posts, f.threads, f.categories, nil)
	// Notifications off: dispatch becomes a no-op and tests stay
	// synchronous.
	notify := NewNotifyService(f.settings, f.watches, f.members, new(MockMailer), mustRenderer(), false, true, nil)
	f.svc = NewPostService(f.posts, f.threads, f.categories, f.members, f.reports, f.settings, f.watches, f.moderators, aggregates, notify)
	return f
}

// expectRecompute wires the mock calls one RecomputeThread run makes
func (f *postFixture) expectRecompute(thread *domain.Thread, rows []domain.Post) {
	f.posts.On("ListByThread", thread.ID).Return(rows, nil)
	f.threads.On("SaveAggregates", mock.Anything).Return(nil)
	f.threads.On("CountPublic", thread.CategoryID).Return(int64(1), nil)
	f.posts.On("LatestInCategory", thread.CategoryID).Return(nil, nil)
	f.categories.On("SaveAggregates", thread.CategoryID, int64(1), (*uint64)(nil)).Return(nil)
}

func openCategory() *domain.Category {
	return &domain.Category{
		ID:             3,
		ViewPerms:      domain.PermAll,
		ReadPerms:      domain.PermAll,
		PostPerms:      domain.PermUsers,
		NewThreadPerms: domain.PermUsers,
	}
}

func TestCreatePost(t *testing.T) {
	f := newPostFixture()
	actor := &domain.Actor{ID: 10, Name: "alice", Email: "alice@example.com", Authenticated: true}
	thread := &domain.Thread{ID: 7, CategoryID: 3}

	f.threads.On("FindByID", uint64(7)).Return(thread, nil)
	f.categories.On("FindByID", uint64(3)).Return(openCategory(), nil)
	f.members.On("Upsert", mock.MatchedBy(func(m *domain.Member) bool {
		return m.ID == 10 && m.Name == "alice"
	})).Return(nil)
	f.posts.On("Create", mock.MatchedBy(func(p *domain.Post) bool {
		return p.ThreadID == 7 &&
			*p.AuthorID == 10 &&
			p.Text == "hello" &&
			p.PreviousID == nil &&
			p.Date.Equal(p.OriginalDate)
	})).Return(nil)
	f.expectRecompute(thread, nil)

	post, err := f.svc.CreatePost(actor, 7, &domain.CreatePostRequest{Text: "hello"}, "10.0.0.1")

	assert.NoError(t, err)
	assert.Equal(t, "10.0.0.1", post.IP)
	f.posts.AssertExpectations(t)
	f.members.AssertExpectations(t)
}

func TestCreatePostDenied(t *testing.T) {
	f := newPostFixture()
	thread := &domain.Thread{ID: 7, CategoryID: 3}
	locked := openCategory()
	locked.PostPerms = domain.PermNobody

	f.threads.On("FindByID", uint64(7)).Return(thread, nil)
	f.categories.On("FindByID", uint64(3)).Return(locked, nil)

	actor := &domain.Actor{ID: 10, Authenticated: true}
	_, err := f.svc.CreatePost(actor, 7, &domain.CreatePostRequest{Text: "hello"}, "")

	assert.ErrorIs(t, err, common.ErrPermissionDenied)
	f.posts.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreatePostAnonymous(t *testing.T) {
	f := newPostFixture()

	_, err := f.svc.CreatePost(domain.Anonymous(), 7, &domain.CreatePostRequest{Text: "hello"}, "")

	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestCreatePostClosedThread(t *testing.T) {
	f := newPostFixture()
	thread := &domain.Thread{ID: 7, CategoryID: 3, Closed: true}

	f.threads.On("FindByID", uint64(7)).Return(thread, nil)
	f.categories.On("FindByID", uint64(3)).Return(openCategory(), nil)

	t.Run("regular user rejected", func(t *testing.T) {
		actor := &domain.Actor{ID: 10, Authenticated: true}
		_, err := f.svc.CreatePost(actor, 7, &domain.CreatePostRequest{Text: "late"}, "")
		assert.ErrorIs(t, err, common.ErrThreadClosed)
	})

	t.Run("staff may still post", func(t *testing.T) {
		staff := &domain.Actor{ID: 11, Name: "mod", Authenticated: true, Staff: true}
		f.members.On("Upsert", mock.Anything).Return(nil)
		f.posts.On("Create", mock.Anything).Return(nil)
		f.expectRecompute(thread, nil)

		_, err := f.svc.CreatePost(staff, 7, &domain.CreatePostRequest{Text: "notice"}, "")
		assert.NoError(t, err)
	})
}

func TestEditPost(t *testing.T) {
	f := newPostFixture()
	authorID := uint64(10)
	odate := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	head := &domain.Post{
		ID:           40,
		ThreadID:     7,
		AuthorID:     &authorID,
		AuthorName:   "alice",
		AuthorEmail:  "alice@example.com",
		Text:         "original",
		Date:         odate,
		OriginalDate: odate,
	}
	thread := &domain.Thread{ID: 7, CategoryID: 3}

	f.posts.On("FindByID", uint64(40)).Return(head, nil)
	f.posts.On("Create", mock.MatchedBy(func(p *domain.Post) bool {
		return p.ThreadID == 7 &&
			*p.AuthorID == 10 &&
			p.Text == "edited" &&
			*p.PreviousID == 40 &&
			p.OriginalDate.Equal(odate) &&
			p.Date.After(odate) &&
			!p.Superseded
	})).Return(nil)
	f.posts.On("MarkSuperseded", uint64(40)).Return(nil)
	f.threads.On("FindByID", uint64(7)).Return(thread, nil)
	f.expectRecompute(thread, nil)

	actor := &domain.Actor{ID: 10, Authenticated: true}
	revision, err := f.svc.EditPost(actor, 40, &domain.UpdatePostRequest{Text: "edited"}, "10.0.0.2")

	assert.NoError(t, err)
	assert.Equal(t, "alice", revision.AuthorName)
	assert.True(t, revision.IsRevision())
	f.posts.AssertExpectations(t)
}

func TestEditPostLosesRace(t *testing.T) {
	f := newPostFixture()
	authorID := uint64(10)
	head := &domain.Post{ID: 40, ThreadID: 7, AuthorID: &authorID, Text: "v1"}

	// Another edit supersedes the head between our read and our flip:
	// the guarded update reports it and our revision must not survive as
	// a second chain head.
	f.posts.On("FindByID", uint64(40)).Return(head, nil)
	f.posts.On("Create", mock.MatchedBy(func(p *domain.Post) bool {
		p.ID = 41
		return p.PreviousID != nil && *p.PreviousID == 40
	})).Return(nil)
	f.posts.On("MarkSuperseded", uint64(40)).Return(common.ErrPostSuperseded)
	f.posts.On("Delete", uint64(41)).Return(nil)

	owner := &domain.Actor{ID: 10, Authenticated: true}
	_, err := f.svc.EditPost(owner, 40, &domain.UpdatePostRequest{Text: "v2"}, "")

	assert.ErrorIs(t, err, common.ErrPostSuperseded)
	f.posts.AssertCalled(t, "Delete", uint64(41))
	f.threads.AssertNotCalled(t, "SaveAggregates", mock.Anything)
}

func TestEditPostSupersededHead(t *testing.T) {
	f := newPostFixture()
	authorID := uint64(10)
	stale := &domain.Post{ID: 40, ThreadID: 7, AuthorID: &authorID, Superseded: true}

	f.posts.On("FindByID", uint64(40)).Return(stale, nil)

	actor := &domain.Actor{ID: 10, Authenticated: true}
	_, err := f.svc.EditPost(actor, 40, &domain.UpdatePostRequest{Text: "too late"}, "")

	assert.ErrorIs(t, err, common.ErrPostSuperseded)
	f.posts.AssertNotCalled(t, "Create", mock.Anything)
}

func TestEditPostOwnership(t *testing.T) {
	f := newPostFixture()
	authorID := uint64(10)
	head := &domain.Post{ID: 40, ThreadID: 7, AuthorID: &authorID}
	thread := &domain.Thread{ID: 7, CategoryID: 3}

	f.posts.On("FindByID", uint64(40)).Return(head, nil)

	t.Run("other user rejected", func(t *testing.T) {
		stranger := &domain.Actor{ID: 11, Authenticated: true}
		_, err := f.svc.EditPost(stranger, 40, &domain.UpdatePostRequest{Text: "x"}, "")
		assert.ErrorIs(t, err, common.ErrPermissionDenied)
	})

	t.Run("staff may edit any post", func(t *testing.T) {
		f.posts.On("Create", mock.Anything).Return(nil)
		f.posts.On("MarkSuperseded", uint64(40)).Return(nil)
		f.threads.On("FindByID", uint64(7)).Return(thread, nil)
		f.expectRecompute(thread, nil)

		staff := &domain.Actor{ID: 12, Authenticated: true, Staff: true}
		_, err := f.svc.EditPost(staff, 40, &domain.UpdatePostRequest{Text: "moderated"}, "")
		assert.NoError(t, err)
	})
}

func TestCensorPost(t *testing.T) {
	post := &domain.Post{ID: 40, ThreadID: 7}
	thread := &domain.Thread{ID: 7, CategoryID: 3}

	t.Run("plain user rejected", func(t *testing.T) {
		f := newPostFixture()
		f.posts.On("FindByID", uint64(40)).Return(post, nil)
		f.threads.On("FindByID", uint64(7)).Return(thread, nil)
		f.categories.On("FindByID", uint64(3)).Return(openCategory(), nil)
		f.moderators.On("IsModerator", uint64(3), uint64(10)).Return(false, nil)

		actor := &domain.Actor{ID: 10, Authenticated: true}
		err := f.svc.CensorPost(actor, 40, true)

		assert.ErrorIs(t, err, common.ErrPermissionDenied)
		f.posts.AssertNotCalled(t, "SetCensored", mock.Anything, mock.Anything)
	})

	t.Run("staff censors and aggregates recompute", func(t *testing.T) {
		f := newPostFixture()
		f.posts.On("FindByID", uint64(40)).Return(post, nil)
		f.posts.On("SetCensored", uint64(40), true).Return(nil)
		f.threads.On("FindByID", uint64(7)).Return(thread, nil)
		f.expectRecompute(thread, nil)

		staff := &domain.Actor{ID: 11, Authenticated: true, Staff: true}
		err := f.svc.CensorPost(staff, 40, true)

		assert.NoError(t, err)
		f.posts.AssertCalled(t, "SetCensored", uint64(40), true)
		f.moderators.AssertNotCalled(t, "IsModerator", mock.Anything, mock.Anything)
	})

	t.Run("category moderator censors", func(t *testing.T) {
		f := newPostFixture()
		f.posts.On("FindByID", uint64(40)).Return(post, nil)
		f.threads.On("FindByID", uint64(7)).Return(thread, nil)
		f.categories.On("FindByID", uint64(3)).Return(openCategory(), nil)
		f.moderators.On("IsModerator", uint64(3), uint64(13)).Return(true, nil)
		f.posts.On("SetCensored", uint64(40), true).Return(nil)
		f.expectRecompute(thread, nil)

		moderator := &domain.Actor{ID: 13, Authenticated: true}
		err := f.svc.CensorPost(moderator, 40, true)

		assert.NoError(t, err)
		f.posts.AssertCalled(t, "SetCensored", uint64(40), true)
	})
}

func TestProtectPostRequiresSuperuser(t *testing.T) {
	f := newPostFixture()
	post := &domain.Post{ID: 40, ThreadID: 7}

	staff := &domain.Actor{ID: 11, Authenticated: true, Staff: true}
	err := f.svc.ProtectPost(staff, 40, true)
	assert.ErrorIs(t, err, common.ErrPermissionDenied)

	f.posts.On("FindByID", uint64(40)).Return(post, nil)
	f.posts.On("SetProtected", uint64(40), true).Return(nil)

	super := &domain.Actor{ID: 12, Authenticated: true, Superuser: true}
	assert.NoError(t, f.svc.ProtectPost(super, 40, true))
}

func TestDeletePost(t *testing.T) {
	authorID := uint64(10)
	post := &domain.Post{ID: 40, ThreadID: 7, AuthorID: &authorID}
	thread := &domain.Thread{ID: 7, CategoryID: 3}

	t.Run("owner may not delete", func(t *testing.T) {
		f := newPostFixture()
		owner := &domain.Actor{ID: 10, Authenticated: true}

		err := f.svc.DeletePost(owner, 40)

		assert.ErrorIs(t, err, common.ErrPermissionDenied)
		f.posts.AssertNotCalled(t, "Delete", mock.Anything)
	})

	t.Run("staff deletion recomputes the thread", func(t *testing.T) {
		f := newPostFixture()
		f.posts.On("FindByID", uint64(40)).Return(post, nil)
		f.posts.On("Delete", uint64(40)).Return(nil)
		f.threads.On("FindByID", uint64(7)).Return(thread, nil)
		f.expectRecompute(thread, nil)

		staff := &domain.Actor{ID: 11, Authenticated: true, Staff: true}
		err := f.svc.DeletePost(staff, 40)

		assert.NoError(t, err)
		f.threads.AssertCalled(t, "SaveAggregates", mock.Anything)
		f.categories.AssertCalled(t, "SaveAggregates", uint64(3), int64(1), (*uint64)(nil))
	})
}

func TestReportPost(t *testing.T) {
	f := newPostFixture()
	actor := &domain.Actor{ID: 10, Authenticated: true}

	t.Run("protected post rejects reports", func(t *testing.T) {
		f.posts.On("FindByID", uint64(41)).Return(&domain.Post{ID: 41, Protected: true}, nil)

		err := f.svc.ReportPost(actor, 41, &domain.ReportPostRequest{Reason: "spam"})
		assert.ErrorIs(t, err, common.ErrPostProtected)
	})

	t.Run("report is recorded", func(t *testing.T) {
		f.posts.On("FindByID", uint64(42)).Return(&domain.Post{ID: 42}, nil)
		f.reports.On("Create", mock.MatchedBy(func(r *domain.AbuseReport) bool {
			return r.PostID == 42 && r.SubmitterID == 10 && r.Reason == "spam"
		})).Return(nil)

		err := f.svc.ReportPost(actor, 42, &domain.ReportPostRequest{Reason: "spam"})
		assert.NoError(t, err)
	})

	t.Run("duplicate surfaces as conflict", func(t *testing.T) {
		f.posts.On("FindByID", uint64(43)).Return(&domain.Post{ID: 43}, nil)
		f.reports.On("Create", mock.MatchedBy(func(r *domain.AbuseReport) bool {
			return r.PostID == 43
		})).Return(common.ErrDuplicateReport)

		err := f.svc.ReportPost(actor, 43, &domain.ReportPostRequest{})
		assert.ErrorIs(t, err, common.ErrDuplicateReport)
	})
}

func TestListPostsPrivateThread(t *testing.T) {
	f := newPostFixture()
	thread := &domain.Thread{ID: 7, CategoryID: 3, Private: true}

	f.threads.On("FindByID", uint64(7)).Return(thread, nil)
	f.categories.On("FindByID", uint64(3)).Return(openCategory(), nil)

	t.Run("non-watcher denied", func(t *testing.T) {
		actor := &domain.Actor{ID: 10, Authenticated: true}
		f.watches.On("Exists", uint64(10), uint64(7)).Return(false, nil)
		f.settings.On("GetOrCreate", uint64(10)).Return(domain.DefaultSettings(10), false, nil)

		_, _, err := f.svc.ListPosts(actor, 7, 1, 20)
		assert.ErrorIs(t, err, common.ErrPermissionDenied)
	})

	t.Run("watcher reads", func(t *testing.T) {
		actor := &domain.Actor{ID: 11, Authenticated: true}
		f.watches.On("Exists", uint64(11), uint64(7)).Return(true, nil)
		f.settings.On("GetOrCreate", uint64(11)).Return(domain.DefaultSettings(11), false, nil)
		f.posts.On("ListPage", uint64(7), false, false, 1, 20).Return([]domain.Post{}, int64(0), nil)

		_, _, err := f.svc.ListPosts(actor, 7, 1, 20)
		assert.NoError(t, err)
	})

	t.Run("staff reads and sees censored", func(t *testing.T) {
		staff := &domain.Actor{ID: 12, Authenticated: true, Staff: true}
		f.settings.On("GetOrCreate", uint64(12)).Return(domain.DefaultSettings(12), false, nil)
		f.posts.On("ListPage", uint64(7), true, false, 1, 20).Return([]domain.Post{}, int64(0), nil)

		_, _, err := f.svc.ListPosts(staff, 7, 1, 20)
		assert.NoError(t, err)
	})
}
