package models

import "time"

type WorkspaceRole string

const (
	RoleOwner  WorkspaceRole = "owner"
	RoleAdmin  WorkspaceRole = "admin"
	RoleMember WorkspaceRole = "member"
)

// WorkspaceMember binds a user to a workspace with a role. The composite
// primary key is the uniqueness constraint the invite flow relies on: a
// concurrent duplicate invite fails at the store even if the application-level
// existence check raced.
type WorkspaceMember struct {
	WorkspaceID uint64        `gorm:"primarykey" json:"workspace_id"`
	UserID      uint64        `gorm:"primarykey" json:"user_id"`
	Role        WorkspaceRole `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt    time.Time     `json:"joined_at"`

	// Relations
	Workspace Workspace `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
