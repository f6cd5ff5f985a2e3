package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tasknexus/internal/constants"
	"tasknexus/internal/dto"
	apierrors "tasknexus/internal/errors"
	"tasknexus/internal/middleware"
	"tasknexus/internal/models"
	"tasknexus/internal/services"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the caller's tasks, optionally filtered to one project
// via ?projectId=.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var projectID *uint64
	if raw := c.Query("projectId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			return
		}
		projectID = &id
	}

	tasks, err := h.taskService.List(userID, projectID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			apierrors.NotFound(c, err.Error())
		case errors.Is(err, services.ErrNotWorkspaceMember):
			apierrors.Forbidden(c, "You are not a member of this workspace")
		default:
			apierrors.InternalError(c, "Failed to fetch tasks")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// CreateTask creates a task in a project of a workspace the caller belongs to.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		Status      string     `json:"status"`
		Priority    string     `json:"priority"`
		DueDate     *time.Time `json:"due_date"`
		ProjectID   uint64     `json:"project_id" binding:"required"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		Priority:    models.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
		ProjectID:   req.ProjectID,
		CreatorID:   userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a sparse patch to the task loaded by RequireTaskAccess.
// The body is read as a raw document so that an absent field, an explicit
// null and a set value are three different things.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskInterface, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	task, ok := taskInterface.(models.Task)
	if !ok {
		apierrors.InternalError(c, "Invalid task data")
		return
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, err := buildUpdateInput(raw)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	updated, err := h.taskService.Update(task.ID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask removes the task loaded by RequireTaskAccess.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskInterface, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	task, ok := taskInterface.(models.Task)
	if !ok {
		apierrors.InternalError(c, "Invalid task data")
		return
	}

	if err := h.taskService.Delete(task.ID); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to delete task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

func buildUpdateInput(raw map[string]json.RawMessage) (services.UpdateTaskInput, error) {
	var input services.UpdateTaskInput

	if v, ok := raw["title"]; ok {
		var title string
		if err := json.Unmarshal(v, &title); err != nil {
			return input, errors.New("title must be a string")
		}
		input.Title = &title
	}
	if v, ok := raw["description"]; ok {
		var description string
		if err := json.Unmarshal(v, &description); err != nil {
			return input, errors.New("description must be a string")
		}
		input.Description = &description
	}
	if v, ok := raw["status"]; ok {
		var status models.TaskStatus
		if err := json.Unmarshal(v, &status); err != nil {
			return input, errors.New("status must be a string")
		}
		input.Status = &status
	}
	if v, ok := raw["priority"]; ok {
		var priority models.TaskPriority
		if err := json.Unmarshal(v, &priority); err != nil {
			return input, errors.New("priority must be a string")
		}
		input.Priority = &priority
	}
	if v, ok := raw["due_date"]; ok {
		var dueDate *time.Time
		if err := json.Unmarshal(v, &dueDate); err != nil {
			return input, errors.New("due_date must be a timestamp or null")
		}
		if dueDate == nil {
			input.ClearDueDate = true
		} else {
			input.DueDate = dueDate
		}
	}
	if v, ok := raw["assignee_id"]; ok {
		var assigneeID *uint64
		if err := json.Unmarshal(v, &assigneeID); err != nil {
			return input, errors.New("assignee_id must be a number or null")
		}
		if assigneeID == nil {
			input.ClearAssignee = true
		} else {
			input.AssigneeID = assigneeID
		}
	}
	if v, ok := raw["completed"]; ok {
		var completed bool
		if err := json.Unmarshal(v, &completed); err != nil {
			return input, errors.New("completed must be a boolean")
		}
		input.Completed = &completed
	}

	return input, nil
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotWorkspaceMember):
		apierrors.Forbidden(c, "You are not a member of this workspace")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
