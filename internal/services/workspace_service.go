package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"tasknexus/internal/models"
	"tasknexus/internal/repository"
)

var (
	ErrWorkspaceNotFound    = errors.New("workspace not found")
	ErrInvalidWorkspaceName = errors.New("workspace name cannot be empty")
	ErrNotWorkspaceMember   = errors.New("you are not a member of this workspace")
	ErrInviteNotAllowed     = errors.New("only owners and admins can invite")
	ErrInviteeNotFound      = errors.New("no user with that email")
	ErrAlreadyMember        = errors.New("user is already a member of this workspace")
)

// WorkspaceService provides membership and workspace business logic.
type WorkspaceService struct {
	workspaceRepo repository.WorkspaceRepository
	userRepo      repository.UserRepository
}

// NewWorkspaceService creates a new WorkspaceService.
func NewWorkspaceService(workspaceRepo repository.WorkspaceRepository, userRepo repository.UserRepository) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
	}
}

// CreateWorkspaceInput represents parameters to create a new workspace.
type CreateWorkspaceInput struct {
	Name        string
	Description string
	OwnerID     uint64
}

// Create creates a workspace with its owner membership, atomically from the
// caller's perspective.
func (s *WorkspaceService) Create(input CreateWorkspaceInput) (*models.Workspace, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidWorkspaceName
	}

	workspace := &models.Workspace{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
	}

	member := &models.WorkspaceMember{
		UserID:   input.OwnerID,
		Role:     models.RoleOwner,
		JoinedAt: time.Now(),
	}

	if err := s.workspaceRepo.CreateWithOwner(workspace, member); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	return workspace, nil
}

// ListForUser returns the user's memberships with workspaces, most recently
// joined first.
func (s *WorkspaceService) ListForUser(userID uint64) ([]models.WorkspaceMember, error) {
	memberships, err := s.workspaceRepo.ListMembershipsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return memberships, nil
}

// Get returns a workspace by ID.
func (s *WorkspaceService) Get(workspaceID uint64) (*models.Workspace, error) {
	workspace, err := s.workspaceRepo.FindByID(workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}
	return workspace, nil
}

// Delete removes a workspace, cascading to memberships, projects and tasks.
func (s *WorkspaceService) Delete(workspaceID uint64) error {
	if _, err := s.workspaceRepo.FindByID(workspaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkspaceNotFound
		}
		return fmt.Errorf("failed to find workspace: %w", err)
	}

	if err := s.workspaceRepo.Delete(workspaceID); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	return nil
}

// Invite adds the user with the given email to the workspace as a member.
// The inviter must hold an owner or admin membership. The existence check and
// the insert are not one atomic unit; the composite primary key on
// (workspace_id, user_id) is what actually prevents duplicates under
// concurrent invites.
func (s *WorkspaceService) Invite(inviterID, workspaceID uint64, email string) error {
	membership, err := s.workspaceRepo.FindMember(workspaceID, inviterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotWorkspaceMember
		}
		return fmt.Errorf("failed to verify membership: %w", err)
	}

	if membership.Role != models.RoleOwner && membership.Role != models.RoleAdmin {
		return ErrInviteNotAllowed
	}

	invitee, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInviteeNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.workspaceRepo.FindMember(workspaceID, invitee.ID); err == nil {
		return ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to verify invitee membership: %w", err)
	}

	member := &models.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      invitee.ID,
		Role:        models.RoleMember,
		JoinedAt:    time.Now(),
	}

	if err := s.workspaceRepo.AddMember(member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyMember
		}
		return fmt.Errorf("failed to add member: %w", err)
	}

	return nil
}

// ListMembers returns all members of a workspace with their users.
func (s *WorkspaceService) ListMembers(workspaceID uint64) ([]models.WorkspaceMember, error) {
	members, err := s.workspaceRepo.ListMembers(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspace members: %w", err)
	}
	return members, nil
}
