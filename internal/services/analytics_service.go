package services

import (
	"fmt"
	"time"

	"tasknexus/internal/models"
	"tasknexus/internal/repository"
)

// DashboardSummary is the read-time aggregate scoped to a user's workspaces.
type DashboardSummary struct {
	TotalTasks      int64                      `json:"totalTasks"`
	CompletedTasks  int64                      `json:"completedTasks"`
	InProgressTasks int64                      `json:"inProgressTasks"`
	OverdueTasks    int64                      `json:"overdueTasks"`
	TotalProjects   int64                      `json:"totalProjects"`
	TotalWorkspaces int                        `json:"totalWorkspaces"`
	TasksByStatus   []repository.StatusCount   `json:"tasksByStatus"`
	TasksByPriority []repository.PriorityCount `json:"tasksByPriority"`
}

// AnalyticsService computes dashboard summaries on demand.
type AnalyticsService struct {
	workspaceRepo repository.WorkspaceRepository
	analyticsRepo repository.AnalyticsRepository
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(workspaceRepo repository.WorkspaceRepository, analyticsRepo repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{
		workspaceRepo: workspaceRepo,
		analyticsRepo: analyticsRepo,
	}
}

// Dashboard aggregates task and project counts across the user's workspaces.
// Each count is its own query with no caching; writes landing between the
// sub-queries can make the summary a non-snapshot read, which is acceptable
// for a dashboard.
func (s *AnalyticsService) Dashboard(userID uint64) (*DashboardSummary, error) {
	memberships, err := s.workspaceRepo.ListMembershipsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch memberships: %w", err)
	}

	summary := &DashboardSummary{
		TasksByStatus:   []repository.StatusCount{},
		TasksByPriority: []repository.PriorityCount{},
	}

	if len(memberships) == 0 {
		return summary, nil
	}

	workspaceIDs := make([]uint64, len(memberships))
	for i, m := range memberships {
		workspaceIDs[i] = m.WorkspaceID
	}
	summary.TotalWorkspaces = len(workspaceIDs)

	if summary.TotalTasks, err = s.analyticsRepo.CountTasks(workspaceIDs); err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	if summary.CompletedTasks, err = s.analyticsRepo.CountTasksWithStatus(workspaceIDs, models.TaskStatusDone); err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	if summary.InProgressTasks, err = s.analyticsRepo.CountTasksWithStatus(workspaceIDs, models.TaskStatusInProgress); err != nil {
		return nil, fmt.Errorf("failed to count in-progress tasks: %w", err)
	}
	if summary.OverdueTasks, err = s.analyticsRepo.CountOverdueTasks(workspaceIDs, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to count overdue tasks: %w", err)
	}
	if summary.TotalProjects, err = s.analyticsRepo.CountProjects(workspaceIDs); err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	byStatus, err := s.analyticsRepo.GroupTasksByStatus(workspaceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to group tasks by status: %w", err)
	}
	if byStatus != nil {
		summary.TasksByStatus = byStatus
	}

	byPriority, err := s.analyticsRepo.GroupTasksByPriority(workspaceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to group tasks by priority: %w", err)
	}
	if byPriority != nil {
		summary.TasksByPriority = byPriority
	}

	return summary, nil
}
