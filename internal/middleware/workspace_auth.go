package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"tasknexus/internal/constants"
	"tasknexus/internal/database"
	apierrors "tasknexus/internal/errors"
	"tasknexus/internal/models"
)

// RequireWorkspaceAccess checks that the caller is a member of the workspace
// named in the URL, and stores the workspace and membership in the context.
func RequireWorkspaceAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		workspaceIDStr := c.Param("id")
		workspaceID, err := strconv.ParseUint(workspaceIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid workspace ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var workspace models.Workspace
		if err := database.GetDB().First(&workspace, workspaceID).Error; err != nil {
			apierrors.NotFound(c, "Workspace not found")
			c.Abort()
			return
		}

		var member models.WorkspaceMember
		if err := database.GetDB().
			Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
			First(&member).Error; err != nil {
			apierrors.Forbidden(c, "You are not a member of this workspace")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyWorkspace, workspace)
		c.Set(constants.ContextKeyMembership, member)
		c.Next()
	}
}

// RequireWorkspaceOwner checks that the caller's membership, loaded by
// RequireWorkspaceAccess, carries the owner role.
func RequireWorkspaceOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		memberInterface, exists := c.Get(constants.ContextKeyMembership)
		if !exists {
			apierrors.Forbidden(c, "Workspace access required")
			c.Abort()
			return
		}

		member, ok := memberInterface.(models.WorkspaceMember)
		if !ok {
			apierrors.InternalError(c, "Invalid workspace member data")
			c.Abort()
			return
		}

		if member.Role != models.RoleOwner {
			apierrors.Forbidden(c, "Only workspace owners can perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}
