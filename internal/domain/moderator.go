package domain

import "time"

// Moderator grants a user moderation rights over one category. Staff
// moderate everywhere; a moderator row scopes the same powers to its
// category.
type Moderator struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CategoryID uint64    `gorm:"column:category_id;uniqueIndex:idx_category_user" json:"category_id"`
	UserID     uint64    `gorm:"column:user_id;uniqueIndex:idx_category_user" json:"user_id"`
	User       *Member   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Moderator) TableName() string { return "moderators" }
