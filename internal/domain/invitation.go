package domain

import "time"

// Invitation asks a user to join a group. Outcome is tri-state:
// Accepted nil = pending, true/false = resolved. A resolved invitation
// is immutable; deleting a pending one is a cancellation.
type Invitation struct {
	ID           uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	GroupID      uint64     `gorm:"column:group_id;index" json:"group_id"`
	Group        *Group     `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	SentByID     uint64     `gorm:"column:sent_by_id" json:"sent_by_id"`
	SentBy       *Member    `gorm:"foreignKey:SentByID" json:"sent_by,omitempty"`
	SentToID     uint64     `gorm:"column:sent_to_id;index" json:"sent_to_id"`
	SentTo       *Member    `gorm:"foreignKey:SentToID" json:"sent_to,omitempty"`
	SentDate     time.Time  `gorm:"column:sent_date;autoCreateTime" json:"sent_date"`
	ResponseDate *time.Time `gorm:"column:response_date" json:"response_date,omitempty"`
	Accepted     *bool      `gorm:"column:accepted" json:"accepted,omitempty"`
}

func (Invitation) TableName() string { return "invitations" }

// Pending reports whether the invitation is still unanswered
func (i *Invitation) Pending() bool {
	return i.Accepted == nil
}

// InviteRequest is the payload for inviting a user to a group
type InviteRequest struct {
	UserID uint64 `json:"user_id" binding:"required"`
}

// AnswerInvitationRequest is the payload for resolving an invitation
type AnswerInvitationRequest struct {
	Accept bool `json:"accept"`
}
