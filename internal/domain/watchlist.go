package domain

import "time"

// WatchList subscribes a user to a thread. Created automatically the
// first time a user posts in a thread (when notifications are enabled)
// and never auto-removed.
type WatchList struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"column:user_id;uniqueIndex:idx_watch_user_thread" json:"user_id"`
	User      *Member   `gorm:"foreignKey:UserID" json:"-"`
	ThreadID  uint64    `gorm:"column:thread_id;uniqueIndex:idx_watch_user_thread;index" json:"thread_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (WatchList) TableName() string { return "watch_lists" }
