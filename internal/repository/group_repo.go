package repository

import (
	"errors"

	"github.com/talkboard/talkboard-backend/internal/common"
	"github.com/talkboard/talkboard-backend/internal/domain"
	"gorm.io/gorm"
)

// GroupRepository handles permission groups and their member sets
type GroupRepository interface {
	FindByID(id uint64) (*domain.Group, error)
	Create(group *domain.Group) error
	Delete(id uint64) error
	AddUser(groupID, userID uint64) error
	RemoveUser(groupID, userID uint64) error
	AddAdmin(groupID, userID uint64) error
	HasUser(groupID, userID uint64) (bool, error)
	HasAdmin(groupID, userID uint64) (bool, error)
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// FindByID returns a group with users and admins loaded, or nil
func (r *groupRepository) FindByID(id uint64) (*domain.Group, error) {
	var group domain.Group
	err := r.db.Preload("Users").Preload("Admins").
		Where("id = ?", id).First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

// Create inserts a new group
func (r *groupRepository) Create(group *domain.Group) error {
	return r.db.Create(group).Error
}

// Delete removes a group, its member links and its invitations
func (r *groupRepository) Delete(id uint64) error {
	if err := r.db.Where("group_id = ?", id).Delete(&domain.Invitation{}).Error; err != nil {
		return err
	}
	return r.db.Select("Users", "Admins").Delete(&domain.Group{ID: id}).Error
}

// AddUser adds a member to the group's user set
func (r *groupRepository) AddUser(groupID, userID uint64) error {
	err := r.db.Model(&domain.Group{ID: groupID}).
		Association("Users").
		Append(&domain.Member{ID: userID})
	if err != nil && isDuplicate(err) {
		return common.ErrDuplicateMember
	}
	return err
}

// RemoveUser removes a member from the group's user set
func (r *groupRepository) RemoveUser(groupID, userID uint64) error {
	return r.db.Model(&domain.Group{ID: groupID}).
		Association("Users").
		Delete(&domain.Member{ID: userID})
}

// AddAdmin adds a member to the group's admin set. Admins are not
// implicitly members.
func (r *groupRepository) AddAdmin(groupID, userID uint64) error {
	err := r.db.Model(&domain.Group{ID: groupID}).
		Association("Admins").
		Append(&domain.Member{ID: userID})
	if err != nil && isDuplicate(err) {
		return common.ErrDuplicateMember
	}
	return err
}

// HasUser checks membership without loading the whole set
func (r *groupRepository) HasUser(groupID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Table("group_users").
		Where("group_id = ? AND member_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

// HasAdmin checks adminship without loading the whole set
func (r *groupRepository) HasAdmin(groupID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Table("group_admins").
		Where("group_id = ? AND member_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}
