package domain

import "time"

// Member is the minimal persisted identity the board joins against:
// group membership, watch lists and notification addresses all point
// here. Account management itself lives outside the core.
type Member struct {
	ID        uint64    `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;size:150" json:"name"`
	Email     string    `gorm:"column:email;size:255" json:"email"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Member) TableName() string { return "members" }
