package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tasknexus/internal/models"
	"tasknexus/internal/repository"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleEmpty      = errors.New("title cannot be empty")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
)

// TaskService handles task business logic.
type TaskService struct {
	taskRepo      repository.TaskRepository
	projectRepo   repository.ProjectRepository
	workspaceRepo repository.WorkspaceRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, workspaceRepo repository.WorkspaceRepository) *TaskService {
	return &TaskService{
		taskRepo:      taskRepo,
		projectRepo:   projectRepo,
		workspaceRepo: workspaceRepo,
	}
}

// List returns tasks newest first with assignees. With a project filter the
// caller must belong to the project's workspace; without one the result is
// scoped to all of the caller's workspaces.
func (s *TaskService) List(userID uint64, projectID *uint64) ([]models.Task, error) {
	filter := repository.TaskFilter{}

	if projectID != nil {
		project, err := s.projectRepo.FindByID(*projectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProjectNotFound
			}
			return nil, fmt.Errorf("failed to find project: %w", err)
		}
		if err := s.ensureWorkspaceMember(project.WorkspaceID, userID); err != nil {
			return nil, err
		}
		filter.ProjectID = projectID
	} else {
		memberships, err := s.workspaceRepo.ListMembershipsByUserID(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch memberships: %w", err)
		}
		if len(memberships) == 0 {
			return []models.Task{}, nil
		}
		workspaceIDs := make([]uint64, len(memberships))
		for i, m := range memberships {
			workspaceIDs[i] = m.WorkspaceID
		}
		filter.WorkspaceIDs = workspaceIDs
	}

	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
	ProjectID   uint64
	CreatorID   uint64
}

// Create creates a task with defaults: status todo, priority medium, empty
// description. The creator must belong to the project's workspace.
func (s *TaskService) Create(input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	project, err := s.projectRepo.FindByID(input.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.ensureWorkspaceMember(project.WorkspaceID, input.CreatorID); err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !validStatus(input.Status) {
		return nil, ErrInvalidStatus
	}
	if !validPriority(input.Priority) {
		return nil, ErrInvalidPriority
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		ProjectID:   input.ProjectID,
		CreatorID:   input.CreatorID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTaskInput represents a sparse patch: nil fields are left untouched,
// and the Clear flags express an explicit null.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	DueDate       *time.Time
	ClearDueDate  bool
	AssigneeID    *uint64
	ClearAssignee bool
	Completed     *bool
}

// Update applies a sparse patch. A truthy completed flag forces the status to
// done, winning over any status carried in the same patch; setting the status
// to done directly does not flip the completed flag.
func (s *TaskService) Update(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !validStatus(*input.Status) {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !validPriority(*input.Priority) {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ClearAssignee {
		task.AssigneeID = nil
	} else if input.AssigneeID != nil {
		task.AssigneeID = input.AssigneeID
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
		if *input.Completed {
			task.Status = models.TaskStatusDone
		}
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Assignee")
}

// Delete removes a task.
func (s *TaskService) Delete(taskID uint64) error {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// ensureWorkspaceMember verifies that a user belongs to a workspace.
func (s *TaskService) ensureWorkspaceMember(workspaceID, userID uint64) error {
	_, err := s.workspaceRepo.FindMember(workspaceID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotWorkspaceMember
		}
		return fmt.Errorf("failed to verify workspace membership: %w", err)
	}
	return nil
}

func validStatus(status models.TaskStatus) bool {
	switch status {
	case models.TaskStatusTodo, models.TaskStatusInProgress, models.TaskStatusReview, models.TaskStatusDone:
		return true
	}
	return false
}

func validPriority(priority models.TaskPriority) bool {
	switch priority {
	case models.TaskPriorityLow, models.TaskPriorityMedium, models.TaskPriorityHigh:
		return true
	}
	return false
}
