package domain

import "time"

// Thread is a topic within a category. The denormalized block
// (PostCount through LastUpdate) is always derivable by scanning the
// thread's posts ordered by date; only the aggregate recalculator
// writes it.
type Thread struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Subject    string    `gorm:"column:subject;size:255" json:"subject"`
	Slug       string    `gorm:"column:slug;size:255;index:idx_category_slug,unique,composite:category_id" json:"slug"`
	CategoryID uint64    `gorm:"column:category_id;index:idx_category_slug,unique" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"-"`

	Private bool `gorm:"column:private;default:false" json:"private"`
	Closed  bool `gorm:"column:closed;default:false" json:"closed"`
	CSticky bool `gorm:"column:csticky;default:false" json:"csticky"`
	GSticky bool `gorm:"column:gsticky;default:false" json:"gsticky"`

	// Denormalized, derived from posts ordered by date.
	PostCount       int64      `gorm:"column:post_count;default:0" json:"post_count"`
	Starter         string     `gorm:"column:starter;size:255" json:"starter"`
	StarterEmail    string     `gorm:"column:starter_email;size:255" json:"starter_email"`
	LastPoster      string     `gorm:"column:last_poster;size:255" json:"last_poster"`
	LastPosterEmail string     `gorm:"column:last_poster_email;size:255" json:"last_poster_email"`
	LastUpdate      *time.Time `gorm:"column:last_update" json:"last_update,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Thread) TableName() string { return "threads" }

// CreateThreadRequest is the payload for opening a thread
type CreateThreadRequest struct {
	Subject string `json:"subject" binding:"required,min=1,max=255"`
	Text    string `json:"text" binding:"required"`
	Private bool   `json:"private"`
}

// UpdateThreadRequest is the moderation payload for thread flags. Only
// the fields present change.
type UpdateThreadRequest struct {
	Subject *string `json:"subject" binding:"omitempty,min=1,max=255"`
	Private *bool   `json:"private"`
	Closed  *bool   `json:"closed"`
	CSticky *bool   `json:"csticky"`
	GSticky *bool   `json:"gsticky"`
}
