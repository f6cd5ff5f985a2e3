package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"tasknexus/internal/constants"
	"tasknexus/internal/models"
	"tasknexus/internal/repository"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectNameRequired = errors.New("project name is required")
)

// ProjectService provides project business logic.
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

// ProjectWithCounts is a project annotated with its task totals.
type ProjectWithCounts struct {
	models.Project
	TaskCount      int64 `json:"task_count"`
	CompletedCount int64 `json:"completed_count"`
}

// ListWithCounts returns a workspace's projects, newest first, each with its
// total and completed task counts from one grouped query.
func (s *ProjectService) ListWithCounts(workspaceID uint64) ([]ProjectWithCounts, error) {
	projects, err := s.projectRepo.ListByWorkspace(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projectIDs := make([]uint64, len(projects))
	for i, p := range projects {
		projectIDs[i] = p.ID
	}

	counts, err := s.projectRepo.CountTasksByStatus(projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	totals := make(map[uint64]int64, len(projects))
	completed := make(map[uint64]int64, len(projects))
	for _, c := range counts {
		totals[c.ProjectID] += c.Count
		if c.Status == models.TaskStatusDone {
			completed[c.ProjectID] += c.Count
		}
	}

	result := make([]ProjectWithCounts, len(projects))
	for i, p := range projects {
		result[i] = ProjectWithCounts{
			Project:        p,
			TaskCount:      totals[p.ID],
			CompletedCount: completed[p.ID],
		}
	}

	return result, nil
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	Color       string
	WorkspaceID uint64
}

// Create creates a project; counts start at zero.
func (s *ProjectService) Create(input CreateProjectInput) (*ProjectWithCounts, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrProjectNameRequired
	}

	color := input.Color
	if color == "" {
		color = constants.DefaultProjectColor
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		Color:       color,
		WorkspaceID: input.WorkspaceID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return &ProjectWithCounts{Project: *project}, nil
}

// Get returns a project by ID.
func (s *ProjectService) Get(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// Delete removes a project, cascading to its tasks.
func (s *ProjectService) Delete(projectID uint64) error {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}
