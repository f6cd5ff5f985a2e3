package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tasknexus/internal/constants"
	"tasknexus/internal/dto"
	apierrors "tasknexus/internal/errors"
	"tasknexus/internal/middleware"
	"tasknexus/internal/models"
	"tasknexus/internal/services"
)

// WorkspaceHandler coordinates workspace and membership HTTP handlers.
type WorkspaceHandler struct {
	workspaceService *services.WorkspaceService
}

// NewWorkspaceHandler creates a new WorkspaceHandler.
func NewWorkspaceHandler(workspaceService *services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
	}
}

// ListWorkspaces returns the caller's workspaces with roles, most recently
// joined first.
func (h *WorkspaceHandler) ListWorkspaces(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	memberships, err := h.workspaceService.ListForUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch workspaces")
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceWithRoleDTOs(memberships))
}

// CreateWorkspace creates a workspace owned by the caller.
func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateWorkspaceRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	workspace, err := h.workspaceService.Create(services.CreateWorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userID,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidWorkspaceName) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to create workspace")
		return
	}

	c.JSON(http.StatusCreated, dto.WorkspaceWithRoleDTO{
		Workspace: *workspace,
		Role:      models.RoleOwner,
	})
}

// GetWorkspace returns the workspace loaded by RequireWorkspaceAccess.
func (h *WorkspaceHandler) GetWorkspace(c *gin.Context) {
	workspaceInterface, exists := c.Get(constants.ContextKeyWorkspace)
	if !exists {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	workspace, ok := workspaceInterface.(models.Workspace)
	if !ok {
		apierrors.InternalError(c, "Invalid workspace data")
		return
	}

	c.JSON(http.StatusOK, workspace)
}

// DeleteWorkspace removes the workspace, cascading to memberships, projects
// and tasks. Owner role is enforced by middleware.
func (h *WorkspaceHandler) DeleteWorkspace(c *gin.Context) {
	workspaceInterface, exists := c.Get(constants.ContextKeyWorkspace)
	if !exists {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	workspace, ok := workspaceInterface.(models.Workspace)
	if !ok {
		apierrors.InternalError(c, "Invalid workspace data")
		return
	}

	if err := h.workspaceService.Delete(workspace.ID); err != nil {
		if errors.Is(err, services.ErrWorkspaceNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to delete workspace")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Workspace deleted successfully",
	})
}

// InviteMember adds the user with the given email to the workspace.
func (h *WorkspaceHandler) InviteMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	workspaceID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid workspace ID")
		return
	}

	type InviteRequest struct {
		Email string `json:"email" binding:"required"`
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Email is required")
		return
	}

	if err := h.workspaceService.Invite(userID, workspaceID, req.Email); err != nil {
		switch {
		case errors.Is(err, services.ErrNotWorkspaceMember),
			errors.Is(err, services.ErrInviteNotAllowed):
			apierrors.Forbidden(c, err.Error())
		case errors.Is(err, services.ErrInviteeNotFound):
			apierrors.NotFound(c, "User not found")
		case errors.Is(err, services.ErrAlreadyMember):
			apierrors.Conflict(c, err.Error())
		default:
			apierrors.InternalError(c, "Invite failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User invited successfully",
	})
}

// ListMembers returns the workspace's members with roles.
func (h *WorkspaceHandler) ListMembers(c *gin.Context) {
	workspaceInterface, exists := c.Get(constants.ContextKeyWorkspace)
	if !exists {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	workspace, ok := workspaceInterface.(models.Workspace)
	if !ok {
		apierrors.InternalError(c, "Invalid workspace data")
		return
	}

	members, err := h.workspaceService.ListMembers(workspace.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch members")
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberDTOs(members))
}
