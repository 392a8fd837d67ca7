package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/talkboard/talkboard-backend/internal/common"
	"github.com/talkboard/talkboard-backend/internal/domain"
)

// memoryCache is an in-process stand-in for the redis cache, storing
// exactly what the service hands it so round-trip behavior is real.
type memoryCache struct {
	categories []byte
}

func (c *memoryCache) Get(_ context.Context, _ string, _ interface{}) error {
	return errors.New("miss")
}

func (c *memoryCache) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	return nil
}

func (c *memoryCache) Delete(_ context.Context, _ ...string) error { return nil }

func (c *memoryCache) GetCategoryList(_ context.Context) ([]byte, error) {
	if c.categories == nil {
		return nil, errors.New("miss")
	}
	return c.categories, nil
}

func (c *memoryCache) SetCategoryList(_ context.Context, data interface{}) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	c.categories = b
	return nil
}

func (c *memoryCache) InvalidateCategoryList(_ context.Context) error {
	c.categories = nil
	return nil
}

func (c *memoryCache) GetThreadPage(_ context.Context, _ uint64, _, _ int) ([]byte, error) {
	return nil, errors.New("miss")
}

func (c *memoryCache) SetThreadPage(_ context.Context, _ uint64, _, _ int, _ interface{}) error {
	return nil
}

func (c *memoryCache) InvalidateThreads(_ context.Context, _ uint64) error { return nil }

func (c *memoryCache) IsAvailable() bool { return true }

func (c *memoryCache) Ping(_ context.Context) error { return nil }

func TestListCategoriesFiltersByView(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, nil, nil, nil)

	repo.On("List").Return([]domain.Category{
		{ID: 1, Slug: "public", ViewPerms: domain.PermAll},
		{ID: 2, Slug: "members", ViewPerms: domain.PermUsers},
		{ID: 3, Slug: "hidden", ViewPerms: domain.PermNobody},
	}, nil)

	t.Run("anonymous", func(t *testing.T) {
		visible, err := svc.ListCategories(domain.Anonymous())
		assert.NoError(t, err)
		assert.Len(t, visible, 1)
		assert.Equal(t, "public", visible[0].Slug)
	})

	t.Run("authenticated", func(t *testing.T) {
		actor := &domain.Actor{ID: 10, Authenticated: true}
		visible, err := svc.ListCategories(actor)
		assert.NoError(t, err)
		assert.Len(t, visible, 2)
	})

	t.Run("nobody locks out staff too", func(t *testing.T) {
		staff := &domain.Actor{ID: 11, Authenticated: true, Staff: true}
		visible, err := svc.ListCategories(staff)
		assert.NoError(t, err)
		for _, c := range visible {
			assert.NotEqual(t, "hidden", c.Slug)
		}
	})
}

func TestListCategoriesCacheKeepsCustomGroups(t *testing.T) {
	repo := new(MockCategoryRepository)
	mem := &memoryCache{}
	svc := NewCategoryService(repo, nil, nil, mem)

	groupID := uint64(4)
	group := &domain.Group{ID: 4, Name: "insiders", Users: []domain.Member{{ID: 7}}}
	repo.On("List").Return([]domain.Category{{
		ID:          2,
		Slug:        "inner",
		ViewPerms:   domain.PermCustom,
		ViewGroupID: &groupID,
		ViewGroup:   group,
		ReadPerms:   domain.PermAll,
	}}, nil).Once()

	member := &domain.Actor{ID: 7, Authenticated: true}

	// First call misses the cache and fills it.
	visible, err := svc.ListCategories(member)
	assert.NoError(t, err)
	assert.Len(t, visible, 1)

	// Second call is served from the cache; the group membership must
	// survive the round-trip or the member would be locked out.
	visible, err = svc.ListCategories(member)
	assert.NoError(t, err)
	assert.Len(t, visible, 1)
	assert.True(t, visible[0].CanView(member))
	repo.AssertNumberOfCalls(t, "List", 1)

	// A non-member stays excluded either way.
	outsider := &domain.Actor{ID: 8, Authenticated: true}
	none, err := svc.ListCategories(outsider)
	assert.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetCategoryMasksUnviewable(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, nil, nil, nil)

	repo.On("FindBySlug", "members").Return(&domain.Category{ID: 2, Slug: "members", ViewPerms: domain.PermUsers}, nil)
	repo.On("FindBySlug", "gone").Return(nil, nil)

	t.Run("unviewable reads as absent", func(t *testing.T) {
		_, err := svc.GetCategory(domain.Anonymous(), "members")
		assert.ErrorIs(t, err, common.ErrCategoryNotFound)
	})

	t.Run("truly absent", func(t *testing.T) {
		actor := &domain.Actor{ID: 10, Authenticated: true}
		_, err := svc.GetCategory(actor, "gone")
		assert.ErrorIs(t, err, common.ErrCategoryNotFound)
	})

	t.Run("viewable resolves", func(t *testing.T) {
		actor := &domain.Actor{ID: 10, Authenticated: true}
		category, err := svc.GetCategory(actor, "members")
		assert.NoError(t, err)
		assert.Equal(t, uint64(2), category.ID)
	})
}

func TestCreateCategory(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, nil, nil, nil)

	t.Run("staff only", func(t *testing.T) {
		actor := &domain.Actor{ID: 10, Authenticated: true}
		_, err := svc.CreateCategory(actor, &domain.CreateCategoryRequest{Label: "News", Slug: "news"})
		assert.ErrorIs(t, err, common.ErrPermissionDenied)
		repo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("defaults applied when levels omitted", func(t *testing.T) {
		repo.On("Create", mock.MatchedBy(func(c *domain.Category) bool {
			return c.Slug == "news" &&
				c.ViewPerms == domain.PermAll &&
				c.ReadPerms == domain.PermAll &&
				c.PostPerms == domain.PermUsers &&
				c.NewThreadPerms == domain.PermUsers
		})).Return(nil).Once()

		staff := &domain.Actor{ID: 11, Authenticated: true, Staff: true}
		category, err := svc.CreateCategory(staff, &domain.CreateCategoryRequest{Label: "News", Slug: "news"})

		assert.NoError(t, err)
		assert.Equal(t, "News", category.Label)
	})

	t.Run("explicit levels and groups carried through", func(t *testing.T) {
		custom := domain.PermCustom
		groupID := uint64(4)
		repo.On("Create", mock.MatchedBy(func(c *domain.Category) bool {
			return c.Slug == "inner" &&
				c.PostPerms == domain.PermCustom &&
				c.PostGroupID != nil && *c.PostGroupID == 4
		})).Return(nil).Once()

		staff := &domain.Actor{ID: 11, Authenticated: true, Staff: true}
		_, err := svc.CreateCategory(staff, &domain.CreateCategoryRequest{
			Label:       "Inner",
			Slug:        "inner",
			PostPerms:   &custom,
			PostGroupID: &groupID,
		})

		assert.NoError(t, err)
	})
}

func TestUpdateCategoryPartial(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, nil, nil, nil)
	staff := &domain.Actor{ID: 11, Authenticated: true, Staff: true}

	existing := &domain.Category{
		ID:        2,
		Label:     "Members",
		Slug:      "members",
		ViewPerms: domain.PermUsers,
		ReadPerms: domain.PermUsers,
	}
	repo.On("FindBySlug", "members").Return(existing, nil)
	repo.On("Update", mock.MatchedBy(func(c *domain.Category) bool {
		return c.Label == "Members Lounge" && c.ViewPerms == domain.PermUsers
	})).Return(nil)

	label := "Members Lounge"
	category, err := svc.UpdateCategory(staff, "members", &domain.UpdateCategoryRequest{Label: &label})

	assert.NoError(t, err)
	assert.Equal(t, "Members Lounge", category.Label)
	// Untouched fields keep their values.
	assert.Equal(t, domain.PermUsers, category.ReadPerms)
}

func TestModeratorManagement(t *testing.T) {
	staff := &domain.Actor{ID: 11, Authenticated: true, Staff: true}

	t.Run("staff only", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		moderators := new(MockModeratorRepository)
		svc := NewCategoryService(repo, moderators, new(MockMemberRepository), nil)

		actor := &domain.Actor{ID: 10, Authenticated: true}
		_, err := svc.AddModerator(actor, "news", 7)
		assert.ErrorIs(t, err, common.ErrPermissionDenied)
		moderators.AssertNotCalled(t, "Add", mock.Anything)
	})

	t.Run("assigns an existing member", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		moderators := new(MockModeratorRepository)
		members := new(MockMemberRepository)
		svc := NewCategoryService(repo, moderators, members, nil)

		repo.On("FindBySlug", "news").Return(&domain.Category{ID: 3, Slug: "news"}, nil)
		members.On("FindByID", uint64(7)).Return(&domain.Member{ID: 7, Name: "kim"}, nil)
		moderators.On("Add", mock.MatchedBy(func(m *domain.Moderator) bool {
			return m.CategoryID == 3 && m.UserID == 7
		})).Return(nil)

		moderator, err := svc.AddModerator(staff, "news", 7)
		assert.NoError(t, err)
		assert.Equal(t, uint64(3), moderator.CategoryID)
	})

	t.Run("unknown member rejected", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		moderators := new(MockModeratorRepository)
		members := new(MockMemberRepository)
		svc := NewCategoryService(repo, moderators, members, nil)

		repo.On("FindBySlug", "news").Return(&domain.Category{ID: 3, Slug: "news"}, nil)
		members.On("FindByID", uint64(99)).Return(nil, nil)

		_, err := svc.AddModerator(staff, "news", 99)
		assert.ErrorIs(t, err, common.ErrNotFound)
		moderators.AssertNotCalled(t, "Add", mock.Anything)
	})

	t.Run("duplicate assignment surfaces as conflict", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		moderators := new(MockModeratorRepository)
		members := new(MockMemberRepository)
		svc := NewCategoryService(repo, moderators, members, nil)

		repo.On("FindBySlug", "news").Return(&domain.Category{ID: 3, Slug: "news"}, nil)
		members.On("FindByID", uint64(7)).Return(&domain.Member{ID: 7}, nil)
		moderators.On("Add", mock.Anything).Return(common.ErrDuplicateModerator)

		_, err := svc.AddModerator(staff, "news", 7)
		assert.ErrorIs(t, err, common.ErrDuplicateModerator)
	})

	t.Run("remove", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		moderators := new(MockModeratorRepository)
		svc := NewCategoryService(repo, moderators, new(MockMemberRepository), nil)

		repo.On("FindBySlug", "news").Return(&domain.Category{ID: 3, Slug: "news"}, nil)
		moderators.On("Remove", uint64(3), uint64(7)).Return(nil)

		assert.NoError(t, svc.RemoveModerator(staff, "news", 7))
		moderators.AssertCalled(t, "Remove", uint64(3), uint64(7))
	})

	t.Run("list for unknown category", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		moderators := new(MockModeratorRepository)
		svc := NewCategoryService(repo, moderators, new(MockMemberRepository), nil)

		repo.On("FindBySlug", "gone").Return(nil, nil)

		_, err := svc.ListModerators(staff, "gone")
		assert.ErrorIs(t, err, common.ErrCategoryNotFound)
	})
}
