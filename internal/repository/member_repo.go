package repository

import (
	"errors"

	"github.com/talkboard/talkboard-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MemberRepository handles member identity rows
type MemberRepository interface {
	FindByID(id uint64) (*domain.Member, error)
	FindByIDs(ids []uint64) ([]domain.Member, error)
	Upsert(member *domain.Member) error
}

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// FindByID returns a member, or nil when absent
func (r *memberRepository) FindByID(id uint64) (*domain.Member, error) {
	var member domain.Member
	err := r.db.Where("id = ?", id).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// FindByIDs returns the members matching the given ids
func (r *memberRepository) FindByIDs(ids []uint64) ([]domain.Member, error) {
	if len(ids) == 0 {
		return []domain.Member{}, nil
	}
	var members []domain.Member
	err := r.db.Where("id IN ?", ids).Find(&members).Error
	return members, err
}

// Upsert creates or refreshes the identity row for an authenticated
// actor. Name and email mirror the token claims on every write.
func (r *memberRepository) Upsert(member *domain.Member) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email"}),
	}).Create(member).Error
}
