package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"tasknexus/internal/constants"
	"tasknexus/internal/database"
	apierrors "tasknexus/internal/errors"
	"tasknexus/internal/models"
)

// RequireTaskAccess checks that the caller is a member of the workspace the
// task's project belongs to, and stores the task in the context.
func RequireTaskAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskIDStr := c.Param("id")
		taskID, err := strconv.ParseUint(taskIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var task models.Task
		if err := database.GetDB().Preload("Assignee").First(&task, taskID).Error; err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().First(&project, task.ProjectID).Error; err != nil {
			apierrors.NotFound(c, "Task not found")
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

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}
