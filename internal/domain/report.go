package domain

import "time"

// AbuseReport flags a post for moderator review. A user may report a
// given post at most once; the pair is unique at the storage level.
type AbuseReport struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PostID      uint64    `gorm:"column:post_id;uniqueIndex:idx_report_post_submitter" json:"post_id"`
	Post        *Post     `gorm:"foreignKey:PostID" json:"post,omitempty"`
	SubmitterID uint64    `gorm:"column:submitter_id;uniqueIndex:idx_report_post_submitter" json:"submitter_id"`
	Reason      string    `gorm:"column:reason;size:255" json:"reason,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AbuseReport) TableName() string { return "abuse_reports" }

// ReportPostRequest is the payload for filing an abuse report
type ReportPostRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}
