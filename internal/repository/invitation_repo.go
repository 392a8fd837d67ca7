package repository

import (
	"errors"
	"time"

	"github.com/talkboard/talkboard-backend/internal/common"
	"github.com/talkboard/talkboard-backend/internal/domain"
	"gorm.io/gorm"
)

// InvitationRepository handles group invitations
type InvitationRepository interface {
	FindByID(id uint64) (*domain.Invitation, error)
	ListForUser(userID uint64) ([]domain.Invitation, error)
	Create(invitation *domain.Invitation) error
	// Answer applies the single permitted terminal transition: outcome
	// and response timestamp in one guarded UPDATE.
	Answer(id uint64, accepted bool, at time.Time) error
	Delete(id uint64) error
}

type invitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

// FindByID returns an invitation with its group loaded, or nil
func (r *invitationRepository) FindByID(id uint64) (*domain.Invitation, error) {
	var invitation domain.Invitation
	err := r.db.Preload("Group").Preload("SentBy").Preload("SentTo").
		Where("id = ?", id).First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invitation, nil
}

// ListForUser returns the invitations addressed to a user, newest first
func (r *invitationRepository) ListForUser(userID uint64) ([]domain.Invitation, error) {
	var invitations []domain.Invitation
	err := r.db.Preload("Group").Preload("SentBy").
		Where("sent_to_id = ?", userID).
		Order("sent_date DESC").
		Find(&invitations).Error
	return invitations, err
}

// Create inserts a new invitation
func (r *invitationRepository) Create(invitation *domain.Invitation) error {
	return r.db.Create(invitation).Error
}

// Answer sets outcome and response timestamp in one statement, guarded
// by `accepted IS NULL` so a resolved invitation can never be answered
// again. Zero affected rows means it was already resolved.
func (r *invitationRepository) Answer(id uint64, accepted bool, at time.Time) error {
	res := r.db.Model(&domain.Invitation{}).
		Where("id = ? AND accepted IS NULL", id).
		Updates(map[string]interface{}{
			"accepted":      accepted,
			"response_date": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrInvitationAnswered
	}
	return nil
}

// Delete removes an invitation row
func (r *invitationRepository) Delete(id uint64) error {
	return r.db.Where("id = ?", id).Delete(&domain.Invitation{}).Error
}
