package dto

import "tasknexus/internal/models"

// WorkspaceWithRoleDTO is a workspace annotated with the caller's role.
type WorkspaceWithRoleDTO struct {
	models.Workspace
	Role models.WorkspaceRole `json:"role"`
}

// MemberDTO is one row of a workspace's member list.
type MemberDTO struct {
	ID       uint64               `json:"id"`
	Username string               `json:"username"`
	Email    string               `json:"email"`
	Role     models.WorkspaceRole `json:"role"`
}

// ToWorkspaceWithRoleDTO converts a membership to a workspace-with-role row
func ToWorkspaceWithRoleDTO(member models.WorkspaceMember) WorkspaceWithRoleDTO {
	return WorkspaceWithRoleDTO{
		Workspace: member.Workspace,
		Role:      member.Role,
	}
}

// ToWorkspaceWithRoleDTOs converts a slice of memberships
func ToWorkspaceWithRoleDTOs(members []models.WorkspaceMember) []WorkspaceWithRoleDTO {
	dtos := make([]WorkspaceWithRoleDTO, len(members))
	for i, m := range members {
		dtos[i] = ToWorkspaceWithRoleDTO(m)
	}
	return dtos
}

// ToMemberDTO converts a membership with its preloaded user to a member row
func ToMemberDTO(member models.WorkspaceMember) MemberDTO {
	return MemberDTO{
		ID:       member.User.ID,
		Username: member.User.Username,
		Email:    member.User.Email,
		Role:     member.Role,
	}
}

// ToMemberDTOs converts a slice of memberships
func ToMemberDTOs(members []models.WorkspaceMember) []MemberDTO {
	dtos := make([]MemberDTO, len(members))
	for i, m := range members {
		dtos[i] = ToMemberDTO(m)
	}
	return dtos
}
