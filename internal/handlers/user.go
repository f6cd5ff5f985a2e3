package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tasknexus/internal/dto"
	"tasknexus/internal/services"
)

// UserHandler serves the user directory.
type UserHandler struct {
	directoryService *services.DirectoryService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(directoryService *services.DirectoryService) *UserHandler {
	return &UserHandler{
		directoryService: directoryService,
	}
}

// SearchUsers matches users by partial email for the invite flow. Short
// queries and lookup failures both answer with an empty list.
func (h *UserHandler) SearchUsers(c *gin.Context) {
	users := h.directoryService.SearchUsers(c.Query("email"))
	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}
