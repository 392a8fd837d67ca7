package domain

import "time"

// UserBan bars a user from using the board. Row existence is the whole
// signal; there is no expiry.
type UserBan struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"column:user_id;uniqueIndex" json:"user_id"`
	Reason    string    `gorm:"column:reason;size:255" json:"reason"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (UserBan) TableName() string { return "user_bans" }

// IPBan bars an address from using the board. One address per record.
type IPBan struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Address   string    `gorm:"column:address;size:45;uniqueIndex" json:"address"`
	Reason    string    `gorm:"column:reason;size:255" json:"reason"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (IPBan) TableName() string { return "ip_bans" }

// CreateUserBanRequest is the admin payload for banning a user
type CreateUserBanRequest struct {
	UserID uint64 `json:"user_id" binding:"required"`
	Reason string `json:"reason" binding:"required,max=255"`
}

// CreateIPBanRequest is the admin payload for banning an address
type CreateIPBanRequest struct {
	Address string `json:"address" binding:"required,ip"`
	Reason  string `json:"reason" binding:"required,max=255"`
}
