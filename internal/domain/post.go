package domain

import "time"

// Post is one physical row of a logical post's revision chain.
//
// An edit never rewrites a stored row's content: it appends a new row
// whose PreviousID points at the row it supersedes and flips the old
// row's Superseded flag. That flag flip and the moderation flags
// (Censored, Protected) are the only in-place mutations a row ever
// sees; PreviousID and OriginalDate are immutable once written. The
// rendered head of a chain is its single row with Superseded false.
type Post struct {
	ID       uint64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ThreadID uint64  `gorm:"column:thread_id;index" json:"thread_id"`
	Thread   *Thread `gorm:"foreignKey:ThreadID" json:"-"`

	// Author may be nil for system-generated rows; name/email are
	// denormalized so aggregate recompute needs no member join.
	AuthorID    *uint64 `gorm:"column:author_id;index" json:"author_id,omitempty"`
	AuthorName  string  `gorm:"column:author_name;size:150" json:"author_name"`
	AuthorEmail string  `gorm:"column:author_email;size:255" json:"author_email"`

	Text string    `gorm:"column:text;type:mediumtext" json:"text"`
	Date time.Time `gorm:"column:date;index" json:"date"`
	IP   string    `gorm:"column:ip;size:45" json:"ip,omitempty"`

	// OriginalDate is the creation date of the chain's first row,
	// carried forward on every edit.
	OriginalDate time.Time `gorm:"column:original_date" json:"original_date"`
	PreviousID   *uint64   `gorm:"column:previous_id" json:"previous_id,omitempty"`
	Superseded   bool      `gorm:"column:superseded;default:false" json:"superseded"`

	Censored  bool `gorm:"column:censored;default:false" json:"censored"`  // moderator level
	Protected bool `gorm:"column:protected;default:false" json:"protected"` // superuser level
}

func (Post) TableName() string { return "posts" }

// IsRevision reports whether this row was produced by an edit
func (p *Post) IsRevision() bool {
	return p.PreviousID != nil
}

// Counted reports whether the row counts toward thread post_count.
// Only rows that are both censored and superseded are excluded: a
// censored original that was never edited still counts.
func (p *Post) Counted() bool {
	return !(p.Censored && p.Superseded)
}

// VisibleTo reports whether the row should be rendered for the actor.
// Superseded rows are never rendered; censored heads are shown to
// staff only.
func (p *Post) VisibleTo(actor *Actor) bool {
	if p.Superseded {
		return false
	}
	if p.Censored {
		return actor.IsStaff()
	}
	return true
}

// CreatePostRequest is the payload for replying in a thread
type CreatePostRequest struct {
	Text string `json:"text" binding:"required"`
}

// UpdatePostRequest is the payload for editing a post
type UpdatePostRequest struct {
	Text string `json:"text" binding:"required"`
}
