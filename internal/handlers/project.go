package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tasknexus/internal/constants"
	"tasknexus/internal/database"
	apierrors "tasknexus/internal/errors"
	"tasknexus/internal/middleware"
	"tasknexus/internal/models"
	"tasknexus/internal/services"
)

// ProjectHandler coordinates project HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListByWorkspace returns a workspace's projects with task counts, newest
// first.
func (h *ProjectHandler) ListByWorkspace(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	workspaceID, err := strconv.ParseUint(c.Param("workspaceId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid workspace ID")
		return
	}

	var member models.WorkspaceMember
	if err := database.GetDB().
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error; err != nil {
		apierrors.Forbidden(c, "You are not a member of this workspace")
		return
	}

	projects, err := h.projectService.ListWithCounts(workspaceID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch projects")
		return
	}

	c.JSON(http.StatusOK, projects)
}

// CreateProject creates a project inside a workspace the caller belongs to.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Color       string `json:"color"`
		WorkspaceID uint64 `json:"workspaceId" binding:"required"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var member models.WorkspaceMember
	if err := database.GetDB().
		Where("workspace_id = ? AND user_id = ?", req.WorkspaceID, userID).
		First(&member).Error; err != nil {
		apierrors.Forbidden(c, "You are not a member of this workspace")
		return
	}

	project, err := h.projectService.Create(services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		WorkspaceID: req.WorkspaceID,
	})
	if err != nil {
		if errors.Is(err, services.ErrProjectNameRequired) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to create project")
		return
	}

	c.JSON(http.StatusCreated, project)
}

// GetProject returns the project loaded by RequireProjectAccess.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectInterface, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	project, ok := projectInterface.(models.Project)
	if !ok {
		apierrors.InternalError(c, "Invalid project data")
		return
	}

	c.JSON(http.StatusOK, project)
}

// DeleteProject removes a project and its tasks.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectInterface, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	project, ok := projectInterface.(models.Project)
	if !ok {
		apierrors.InternalError(c, "Invalid project data")
		return
	}

	if err := h.projectService.Delete(project.ID); err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to delete project")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}
