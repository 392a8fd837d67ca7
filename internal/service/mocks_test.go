package service

import (
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/talkboard/talkboard-backend/internal/domain"
)

// MockPostRepository is a mock implementation of PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) FindByID(id uint64) (*domain.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *MockPostRepository) ListByThread(threadID uint64) ([]domain.Post, error) {
	args := m.Called(threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Post), args.Error(1)
}

func (m *MockPostRepository) ListPage(threadID uint64, includeCensored, reverse bool, page, limit int) ([]domain.Post, int64, error) {
	args := m.Called(threadID, includeCensored, reverse, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) CountVisible(threadID uint64, includeCensored bool, before *time.Time) (int64, error) {
	args := m.Called(threadID, includeCensored, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) Create(post *domain.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) MarkSuperseded(id uint64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockPostRepository) SetCensored(id uint64, censored bool) error {
	args := m.Called(id, censored)
	return args.Error(0)
}

func (m *MockPostRepository) SetProtected(id uint64, protected bool) error {
	args := m.Called(id, protected)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(id uint64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockPostRepository) LatestInCategory(categoryID uint64) (*domain.Post, error) {
	args := m.Called(categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

// MockThreadRepository is a mock implementation of ThreadRepository
type MockThreadRepository struct {
	mock.Mock
}

func (m *MockThreadRepository) FindByID(id uint64) (*domain.Thread, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Thread), args.Error(1)
}

func (m *MockThreadRepository) FindBySlug(categoryID uint64, slug string) (*domain.Thread, error) {
	args := m.Called(categoryID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Thread), args.Error(1)
}

func (m *MockThreadRepository) ListByCategory(categoryID uint64, includePrivate bool, page, limit int) ([]domain.Thread, int64, error) {
	args := m.Called(categoryID, includePrivate, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Thread), args.Get(1).(int64), args.Error(2)
}

func (m *MockThreadRepository) Create(thread *domain.Thread) error {
	args := m.Called(thread)
	return args.Error(0)
}

func (m *MockThreadRepository) SaveFlags(thread *domain.Thread) error {
	args := m.Called(thread)
	return args.Error(0)
}

func (m *MockThreadRepository) Delete(id uint64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockThreadRepository) CountPublic(categoryID uint64) (int64, error) {
	args := m.Called(categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockThreadRepository) SaveAggregates(thread *domain.Thread) error {
	args := m.Called(thread)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List() ([]domain.Category, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByID(id uint64) (*domain.Category, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(slug string) (*domain.Category, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(category *domain.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(category *domain.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockCategoryRepository) SaveAggregates(id uint64, threadCount int64, lastPostID *uint64) error {
	args := m.Called(id, threadCount, lastPostID)
	return args.Error(0)
}

// MockMemberRepository is a mock implementation of MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) FindByID(id uint64) (*domain.Member, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) FindByIDs(ids []uint64) ([]domain.Member, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockMemberRepository) Upsert(member *domain.Member) error {
	args := m.Called(member)
	return args.Error(0)
}

// MockModeratorRepository is a mock implementation of ModeratorRepository
type MockModeratorRepository struct {
	mock.Mock
}

func (m *MockModeratorRepository) IsModerator(categoryID, userID uint64) (bool, error) {
	args := m.Called(categoryID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockModeratorRepository) ListByCategory(categoryID uint64) ([]domain.Moderator, error) {
	args := m.Called(categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Moderator), args.Error(1)
}

func (m *MockModeratorRepository) Add(moderator *domain.Moderator) error {
	args := m.Called(moderator)
	return args.Error(0)
}

func (m *MockModeratorRepository) Remove(categoryID, userID uint64) error {
	args := m.Called(categoryID, userID)
	return args.Error(0)
}

// MockReportRepository is a mock implementation of ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(report *domain.AbuseReport) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockReportRepository) ListByPost(postID uint64) ([]domain.AbuseReport, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AbuseReport), args.Error(1)
}

func (m *MockReportRepository) CountByPost(postID uint64) (int64, error) {
	args := m.Called(postID)
	return args.Get(0).(int64), args.Error(1)
}

// MockSettingsRepository is a mock implementation of SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetOrCreate(userID uint64) (*domain.UserSettings, bool, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.UserSettings), args.Bool(1), args.Error(2)
}

func (m *MockSettingsRepository) Save(settings *domain.UserSettings) error {
	args := m.Called(settings)
	return args.Error(0)
}

func (m *MockSettingsRepository) ReplaceFrontpageFilters(settings *domain.UserSettings, categoryIDs []uint64) error {
	args := m.Called(settings, categoryIDs)
	return args.Error(0)
}

func (m *MockSettingsRepository) NotifyDisabledIDs(userIDs []uint64) ([]uint64, error) {
	args := m.Called(userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

// MockWatchRepository is a mock implementation of WatchRepository
type MockWatchRepository struct {
	mock.Mock
}

func (m *MockWatchRepository) GetOrCreate(userID, threadID uint64) (*domain.WatchList, bool, error) {
	args := m.Called(userID, threadID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.WatchList), args.Bool(1), args.Error(2)
}

func (m *MockWatchRepository) Exists(userID, threadID uint64) (bool, error) {
	args := m.Called(userID, threadID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWatchRepository) Delete(userID, threadID uint64) error {
	args := m.Called(userID, threadID)
	return args.Error(0)
}

func (m *MockWatchRepository) ListWatchers(threadID uint64) ([]domain.Member, error) {
	args := m.Called(threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

// MockGroupRepository is a mock implementation of GroupRepository
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) FindByID(id uint64) (*domain.Group, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) Create(group *domain.Group) error {
	args := m.Called(group)
	return args.Error(0)
}

func (m *MockGroupRepository) Delete(id uint64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockGroupRepository) AddUser(groupID, userID uint64) error {
	args := m.Called(groupID, userID)
	return args.Error(0)
}

func (m *MockGroupRepository) RemoveUser(groupID, userID uint64) error {
	args := m.Called(groupID, userID)
	return args.Error(0)
}

func (m *MockGroupRepository) AddAdmin(groupID, userID uint64) error {
	args := m.Called(groupID, userID)
	return args.Error(0)
}

func (m *MockGroupRepository) HasUser(groupID, userID uint64) (bool, error) {
	args := m.Called(groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGroupRepository) HasAdmin(groupID, userID uint64) (bool, error) {
	args := m.Called(groupID, userID)
	return args.Bool(0), args.Error(1)
}

// MockInvitationRepository is a mock implementation of InvitationRepository
type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) FindByID(id uint64) (*domain.Invitation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) ListForUser(userID uint64) ([]domain.Invitation, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) Create(invitation *domain.Invitation) error {
	args := m.Called(invitation)
	return args.Error(0)
}

func (m *MockInvitationRepository) Answer(id uint64, accepted bool, at time.Time) error {
	args := m.Called(id, accepted, at)
	return args.Error(0)
}

func (m *MockInvitationRepository) Delete(id uint64) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockBanRepository is a mock implementation of BanRepository
type MockBanRepository struct {
	mock.Mock
}

func (m *MockBanRepository) ListUserBans() ([]domain.UserBan, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserBan), args.Error(1)
}

func (m *MockBanRepository) ListIPBans() ([]domain.IPBan, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IPBan), args.Error(1)
}

func (m *MockBanRepository) BannedUserIDs() ([]uint64, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

func (m *MockBanRepository) BannedAddresses() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBanRepository) CreateUserBan(ban *domain.UserBan) error {
	args := m.Called(ban)
	return args.Error(0)
}

func (m *MockBanRepository) DeleteUserBan(userID uint64) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockBanRepository) CreateIPBan(ban *domain.IPBan) error {
	args := m.Called(ban)
	return args.Error(0)
}

func (m *MockBanRepository) DeleteIPBan(address string) error {
	args := m.Called(address)
	return args.Error(0)
}

// MockMailer is a mock implementation of mailer.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to []string, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

func (m *MockMailer) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}
