package service

import (
	"sync"

	"github.com/talkboard/talkboard-backend/internal/common"
	"github.com/talkboard/talkboard-backend/internal/domain"
	"github.com/talkboard/talkboard-backend/internal/repository"
	"github.com/talkboard/talkboard-backend/pkg/logger"
)

// BanRegistry holds the in-process denylist snapshot every request is
// checked against. Refresh rebuilds both sets from storage and swaps
// them in whole, so readers always see a complete snapshot and never a
// half-applied mutation. There is no TTL; mutations trigger the reload.
type BanRegistry struct {
	repo repository.BanRepository

	mu    sync.RWMutex
	users map[uint64]struct{}
	ips   map[string]struct{}
}

// NewBanRegistry creates an empty registry. Call Refresh before serving.
func NewBanRegistry(repo repository.BanRepository) *BanRegistry {
	return &BanRegistry{
		repo:  repo,
		users: make(map[uint64]struct{}),
		ips:   make(map[string]struct{}),
	}
}

// Refresh reloads both denylists and swaps them in atomically. On error
// the previous snapshot stays in place.
func (r *BanRegistry) Refresh() error {
	userIDs, err := r.repo.BannedUserIDs()
	if err != nil {
		return err
	}
	addrs, err := r.repo.BannedAddresses()
	if err != nil {
		return err
	}

	users := make(map[uint64]struct{}, len(userIDs))
	for _, id := range userIDs {
		users[id] = struct{}{}
	}
	ips := make(map[string]struct{}, len(addrs))
	for _, addr := range addrs {
		ips[addr] = struct{}{}
	}

	r.mu.Lock()
	r.users = users
	r.ips = ips
	r.mu.Unlock()
	return nil
}

// IsUserBanned checks the current snapshot
func (r *BanRegistry) IsUserBanned(userID uint64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, banned := r.users[userID]
	return banned
}

// IsIPBanned checks the current snapshot
func (r *BanRegistry) IsIPBanned(address string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, banned := r.ips[address]
	return banned
}

// BanService implements the staff denylist administration. Every
// mutation reloads the registry so enforcement reflects it immediately.
type BanService interface {
	ListUserBans(actor *domain.Actor) ([]domain.UserBan, error)
	ListIPBans(actor *domain.Actor) ([]domain.IPBan, error)
	BanUser(actor *domain.Actor, req *domain.CreateUserBanRequest) (*domain.UserBan, error)
	UnbanUser(actor *domain.Actor, userID uint64) error
	BanIP(actor *domain.Actor, req *domain.CreateIPBanRequest) (*domain.IPBan, error)
	UnbanIP(actor *domain.Actor, address string) error
}

type banService struct {
	repo     repository.BanRepository
	registry *BanRegistry
}

// NewBanService creates a new BanService
func NewBanService(repo repository.BanRepository, registry *BanRegistry) BanService {
	return &banService{repo: repo, registry: registry}
}

// ListUserBans returns the user denylist (staff only)
func (s *banService) ListUserBans(actor *domain.Actor) ([]domain.UserBan, error) {
	if !actor.IsStaff() {
		return nil, common.ErrPermissionDenied
	}
	return s.repo.ListUserBans()
}

// ListIPBans returns the address denylist (staff only)
func (s *banService) ListIPBans(actor *domain.Actor) ([]domain.IPBan, error) {
	if !actor.IsStaff() {
		return nil, common.ErrPermissionDenied
	}
	return s.repo.ListIPBans()
}

func (s *banService) refresh() {
	if err := s.registry.Refresh(); err != nil {
		logger.GetLogger().Error().Err(err).Msg("ban registry refresh failed")
	}
}

// BanUser adds a user to the denylist
func (s *banService) BanUser(actor *domain.Actor, req *domain.CreateUserBanRequest) (*domain.UserBan, error) {
	if !actor.IsStaff() {
		return nil, common.ErrPermissionDenied
	}
	ban := &domain.UserBan{UserID: req.UserID, Reason: req.Reason}
	if err := s.repo.CreateUserBan(ban); err != nil {
		return nil, err
	}
	s.refresh()
	return ban, nil
}

// UnbanUser removes a user from the denylist
func (s *banService) UnbanUser(actor *domain.Actor, userID uint64) error {
	if !actor.IsStaff() {
		return common.ErrPermissionDenied
	}
	if err := s.repo.DeleteUserBan(userID); err != nil {
		return err
	}
	s.refresh()
	return nil
}

// BanIP adds an address to the denylist
func (s *banService) BanIP(actor *domain.Actor, req *domain.CreateIPBanRequest) (*domain.IPBan, error) {
	if !actor.IsStaff() {
		return nil, common.ErrPermissionDenied
	}
	ban := &domain.IPBan{Address: req.Address, Reason: req.Reason}
	if err := s.repo.CreateIPBan(ban); err != nil {
		return nil, err
	}
	s.refresh()
	return ban, nil
}

// UnbanIP removes an address from the denylist
func (s *banService) UnbanIP(actor *domain.Actor, address string) error {
	if !actor.IsStaff() {
		return common.ErrPermissionDenied
	}
	if err := s.repo.DeleteIPBan(address); err != nil {
		return err
	}
	s.refresh()
	return nil
}
