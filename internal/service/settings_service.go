package service

import (
	"github.com/talkboard/talkboard-backend/internal/common"
	"github.com/talkboard/talkboard-backend/internal/domain"
	"github.com/talkboard/talkboard-backend/internal/repository"
)

// SettingsService implements per-user preference reads and writes
type SettingsService interface {
	GetSettings(actor *domain.Actor) (*domain.UserSettings, error)
	UpdateSettings(actor *domain.Actor, req *domain.UpdateSettingsRequest) (*domain.UserSettings, error)
}

type settingsService struct {
	settings repository.SettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settings repository.SettingsRepository) SettingsService {
	return &settingsService{settings: settings}
}

// GetSettings returns the caller's preferences, creating the defaults
// row on first access
func (s *settingsService) GetSettings(actor *domain.Actor) (*domain.UserSettings, error) {
	if !actor.IsAuthenticated() {
		return nil, common.ErrUnauthorized
	}
	prefs, _, err := s.settings.GetOrCreate(actor.ID)
	return prefs, err
}

// UpdateSettings applies the fields present in the request
func (s *settingsService) UpdateSettings(actor *domain.Actor, req *domain.UpdateSettingsRequest) (*domain.UserSettings, error) {
	if !actor.IsAuthenticated() {
		return nil, common.ErrUnauthorized
	}
	prefs, _, err := s.settings.GetOrCreate(actor.ID)
	if err != nil {
		return nil, err
	}

	if req.PostsPerPage != nil {
		prefs.PostsPerPage = *req.PostsPerPage
	}
	if req.ThreadsPerPage != nil {
		prefs.ThreadsPerPage = *req.ThreadsPerPage
	}
	if req.NotifyEmail != nil {
		prefs.NotifyEmail = *req.NotifyEmail
	}
	if req.ReversePosts != nil {
		prefs.ReversePosts = *req.ReversePosts
	}

	if err := s.settings.Save(prefs); err != nil {
		return nil, err
	}

	if req.FrontpageFilterIDs != nil {
		if err := s.settings.ReplaceFrontpageFilters(prefs, *req.FrontpageFilterIDs); err != nil {
			return nil, err
		}
		// Reload so the response carries the resolved categories, not
		// just their ids.
		prefs, _, err = s.settings.GetOrCreate(actor.ID)
		if err != nil {
			return nil, err
		}
	}
	return prefs, nil
}
