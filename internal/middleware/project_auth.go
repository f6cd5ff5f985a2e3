package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"tasknexus/internal/constants"
	"tasknexus/internal/database"
	apierrors "tasknexus/internal/errors"
	"tasknexus/internal/models"
)

// RequireProjectAccess checks that the caller is a member of the workspace
// owning the project named in the URL, and stores the project in the context.
func RequireProjectAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectIDStr := c.Param("id")
		projectID, err := strconv.ParseUint(projectIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().First(&project, projectID).Error; err != nil {
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		var member models.WorkspaceMember
		if err := database.GetDB().
			Where("workspace_id = ? AND user_id = ?", project.WorkspaceID, userID).
			First(&member).Error; err != nil {
			apierrors.Forbidden(c, "You are not a member of this workspace")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}
}
