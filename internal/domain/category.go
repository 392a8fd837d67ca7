package domain

import "time"

// PermLevel is the closed set of permission levels a category action
// can be configured with.
type PermLevel uint8

const (
	PermNobody PermLevel = iota
	PermAll
	PermUsers
	PermCustom
)

// String returns the admin-facing label
func (p PermLevel) String() string {
	switch p {
	case PermNobody:
		return "nobody"
	case PermAll:
		return "all"
	case PermUsers:
		return "users"
	case PermCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Category is a top-level content partition carrying its own permission
// configuration and denormalized stats. ThreadCount and LastPostID are
// owned by the aggregate recalculator; nothing else writes them.
type Category struct {
	ID    uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Label string `gorm:"column:label;size:32" json:"label"`
	Slug  string `gorm:"column:slug;size:64;uniqueIndex" json:"slug"`

	// Non-private thread count.
	ThreadCount int64 `gorm:"column:thread_count;default:0" json:"thread_count"`
	// Last post in any non-private thread. A cross-reference, not an
	// ownership link: deleting the post must not be blocked by it.
	LastPostID *uint64 `gorm:"column:last_post_id;constraint:OnDelete:SET NULL" json:"last_post_id,omitempty"`
	LastPost   *Post   `gorm:"foreignKey:LastPostID" json:"last_post,omitempty"`

	ViewPerms      PermLevel `gorm:"column:view_perms;default:1" json:"view_perms"`
	ReadPerms      PermLevel `gorm:"column:read_perms;default:1" json:"read_perms"`
	PostPerms      PermLevel `gorm:"column:post_perms;default:2" json:"post_perms"`
	NewThreadPerms PermLevel `gorm:"column:new_thread_perms;default:2" json:"new_thread_perms"`

	ViewGroupID      *uint64 `gorm:"column:view_group_id" json:"view_group_id,omitempty"`
	ReadGroupID      *uint64 `gorm:"column:read_group_id" json:"read_group_id,omitempty"`
	PostGroupID      *uint64 `gorm:"column:post_group_id" json:"post_group_id,omitempty"`
	NewThreadGroupID *uint64 `gorm:"column:new_thread_group_id" json:"new_thread_group_id,omitempty"`

	ViewGroup      *Group `gorm:"foreignKey:ViewGroupID" json:"-"`
	ReadGroup      *Group `gorm:"foreignKey:ReadGroupID" json:"-"`
	PostGroup      *Group `gorm:"foreignKey:PostGroupID" json:"-"`
	NewThreadGroup *Group `gorm:"foreignKey:NewThreadGroupID" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

// evaluate applies one permission level against an actor. Custom grants
// superusers unconditionally, otherwise requires authenticated group
// membership (membership, not adminship).
func evaluate(level PermLevel, group *Group, actor *Actor) bool {
	switch level {
	case PermAll:
		return true
	case PermUsers:
		return actor.IsAuthenticated()
	case PermCustom:
		if actor.IsSuperuser() {
			return true
		}
		return actor.IsAuthenticated() && group != nil && group.HasUser(actor.ID)
	default: // PermNobody
		return false
	}
}

// CanView reports whether the actor may see the category at all
func (c *Category) CanView(actor *Actor) bool {
	return evaluate(c.ViewPerms, c.ViewGroup, actor)
}

// CanRead reports whether the actor may read the category's contents
func (c *Category) CanRead(actor *Actor) bool {
	return evaluate(c.ReadPerms, c.ReadGroup, actor)
}

// CanPost reports whether the actor may post in existing threads
func (c *Category) CanPost(actor *Actor) bool {
	return evaluate(c.PostPerms, c.PostGroup, actor)
}

// CanCreateThread reports whether the actor may open new threads
func (c *Category) CanCreateThread(actor *Actor) bool {
	return evaluate(c.NewThreadPerms, c.NewThreadGroup, actor)
}

// CreateCategoryRequest is the admin payload for creating a category
type CreateCategoryRequest struct {
	Label string `json:"label" binding:"required,min=1,max=32"`
	Slug  string `json:"slug" binding:"required,min=1,max=64"`

	ViewPerms      *PermLevel `json:"view_perms" binding:"omitempty,max=3"`
	ReadPerms      *PermLevel `json:"read_perms" binding:"omitempty,max=3"`
	PostPerms      *PermLevel `json:"post_perms" binding:"omitempty,max=3"`
	NewThreadPerms *PermLevel `json:"new_thread_perms" binding:"omitempty,max=3"`

	ViewGroupID      *uint64 `json:"view_group_id"`
	ReadGroupID      *uint64 `json:"read_group_id"`
	PostGroupID      *uint64 `json:"post_group_id"`
	NewThreadGroupID *uint64 `json:"new_thread_group_id"`
}

// UpdateCategoryRequest is the admin payload for reconfiguring a
// category. Absent fields stay unchanged.
type UpdateCategoryRequest struct {
	Label *string `json:"label" binding:"omitempty,min=1,max=32"`

	ViewPerms      *PermLevel `json:"view_perms" binding:"omitempty,max=3"`
	ReadPerms      *PermLevel `json:"read_perms" binding:"omitempty,max=3"`
	PostPerms      *PermLevel `json:"post_perms" binding:"omitempty,max=3"`
	NewThreadPerms *PermLevel `json:"new_thread_perms" binding:"omitempty,max=3"`

	ViewGroupID      *uint64 `json:"view_group_id"`
	ReadGroupID      *uint64 `json:"read_group_id"`
	PostGroupID      *uint64 `json:"post_group_id"`
	NewThreadGroupID *uint64 `json:"new_thread_group_id"`
}
