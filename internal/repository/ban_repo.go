package repository

import (
	"github.com/talkboard/talkboard-backend/internal/common"
	"github.com/talkboard/talkboard-backend/internal/domain"
	"gorm.io/gorm"
)

// BanRepository handles the user and IP denylists. The registry
// rebuilds its in-process sets from the two ID listings.
type BanRepository interface {
	ListUserBans() ([]domain.UserBan, error)
	ListIPBans() ([]domain.IPBan, error)
	BannedUserIDs() ([]uint64, error)
	BannedAddresses() ([]string, error)
	CreateUserBan(ban *domain.UserBan) error
	DeleteUserBan(userID uint64) error
	CreateIPBan(ban *domain.IPBan) error
	DeleteIPBan(address string) error
}

type banRepository struct {
	db *gorm.DB
}

// NewBanRepository creates a new BanRepository
func NewBanRepository(db *gorm.DB) BanRepository {
	return &banRepository{db: db}
}

// ListUserBans returns all user ban records
func (r *banRepository) ListUserBans() ([]domain.UserBan, error) {
	var bans []domain.UserBan
	err := r.db.Order("created_at DESC").Find(&bans).Error
	return bans, err
}

// ListIPBans returns all IP ban records
func (r *banRepository) ListIPBans() ([]domain.IPBan, error) {
	var bans []domain.IPBan
	err := r.db.Order("created_at DESC").Find(&bans).Error
	return bans, err
}

// BannedUserIDs returns every banned user id
func (r *banRepository) BannedUserIDs() ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&domain.UserBan{}).Pluck("user_id", &ids).Error
	return ids, err
}

// BannedAddresses returns every banned address
func (r *banRepository) BannedAddresses() ([]string, error) {
	var addrs []string
	err := r.db.Model(&domain.IPBan{}).Pluck("address", &addrs).Error
	return addrs, err
}

// CreateUserBan inserts a user ban; the unique constraint rejects
// duplicates
func (r *banRepository) CreateUserBan(ban *domain.UserBan) error {
	if err := r.db.Create(ban).Error; err != nil {
		if isDuplicate(err) {
			return common.ErrDuplicateBan
		}
		return err
	}
	return nil
}

// DeleteUserBan removes a user ban by user id
func (r *banRepository) DeleteUserBan(userID uint64) error {
	res := r.db.Where("user_id = ?", userID).Delete(&domain.UserBan{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// CreateIPBan inserts an IP ban; the unique constraint rejects
// duplicates
func (r *banRepository) CreateIPBan(ban *domain.IPBan) error {
	if err := r.db.Create(ban).Error; err != nil {
		if isDuplicate(err) {
			return common.ErrDuplicateBan
		}
		return err
	}
	return nil
}

// DeleteIPBan removes an IP ban by address
func (r *banRepository) DeleteIPBan(address string) error {
	res := r.db.Where("address = ?", address).Delete(&domain.IPBan{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}
