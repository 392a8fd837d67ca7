package domain

import "time"

// Group is a user-administerable permission group. Admins are not
// implicitly members: an admin must be explicitly added to Users to
// pass membership checks.
type Group struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;size:36" json:"name"`
	Users     []Member  `gorm:"many2many:group_users" json:"users,omitempty"`
	Admins    []Member  `gorm:"many2many:group_admins" json:"admins,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Group) TableName() string { return "groups" }

// HasUser reports exact-match membership over the loaded user set
func (g *Group) HasUser(userID uint64) bool {
	for i := range g.Users {
		if g.Users[i].ID == userID {
			return true
		}
	}
	return false
}

// CreateGroupRequest is the payload for creating a group
type CreateGroupRequest struct {
	Name string `json:"name" binding:"required,min=1,max=36"`
}

// HasAdmin reports exact-match adminship over the loaded admin set
func (g *Group) HasAdmin(userID uint64) bool {
	for i := range g.Admins {
		if g.Admins[i].ID == userID {
			return true
		}
	}
	return false
}
