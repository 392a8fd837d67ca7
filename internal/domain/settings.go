package domain

import "time"

// UserSettings holds per-user board preferences. Created lazily with
// defaults the first time the user posts.
type UserSettings struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID         uint64    `gorm:"column:user_id;uniqueIndex" json:"user_id"`
	PostsPerPage   int       `gorm:"column:posts_per_page;default:20" json:"posts_per_page"`
	ThreadsPerPage int       `gorm:"column:threads_per_page;default:20" json:"threads_per_page"`
	NotifyEmail    bool      `gorm:"column:notify_email;default:true" json:"notify_email"`
	ReversePosts   bool      `gorm:"column:reverse_posts;default:false" json:"reverse_posts"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Categories whose threads the user wants on their front page. An
	// empty set means no filtering.
	FrontpageFilters []Category `gorm:"many2many:user_settings_frontpage_filters" json:"frontpage_filters,omitempty"`
}

func (UserSettings) TableName() string { return "user_settings" }

// DefaultSettings returns the settings row created on first post
func DefaultSettings(userID uint64) *UserSettings {
	return &UserSettings{
		UserID:         userID,
		PostsPerPage:   20,
		ThreadsPerPage: 20,
		NotifyEmail:    true,
	}
}

// UpdateSettingsRequest is the payload for preference changes
type UpdateSettingsRequest struct {
	PostsPerPage   *int  `json:"posts_per_page" binding:"omitempty,oneof=5 10 20 50"`
	ThreadsPerPage *int  `json:"threads_per_page" binding:"omitempty,oneof=5 10 20 50"`
	NotifyEmail    *bool `json:"notify_email"`
	ReversePosts   *bool `json:"reverse_posts"`

	// Replaces the front-page category set when present; an empty list
	// clears it.
	FrontpageFilterIDs *[]uint64 `json:"frontpage_filter_ids"`
}
