package repository

import (
	"time"

	"tasknexus/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateWithDefaults creates a user together with their default workspace,
	// owner membership, and starter project within a single transaction.
	CreateWithDefaults(user *models.User, workspace *models.Workspace, member *models.WorkspaceMember, project *models.Project) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by exact email
	FindByEmail(email string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// SearchByEmail finds users whose email contains the fragment,
	// case-insensitively, up to limit rows.
	SearchByEmail(fragment string, limit int) ([]models.User, error)
}

// WorkspaceRepository defines the interface for workspace and membership data access
type WorkspaceRepository interface {
	// CreateWithOwner creates a workspace and its owner membership in a single transaction
	CreateWithOwner(workspace *models.Workspace, member *models.WorkspaceMember) error

	// FindByID finds a workspace by ID
	FindByID(id uint64) (*models.Workspace, error)

	// Delete deletes a workspace and cascades to memberships, projects and tasks
	Delete(id uint64) error

	// AddMember adds a member to a workspace
	AddMember(member *models.WorkspaceMember) error

	// FindMember finds a specific workspace membership
	FindMember(workspaceID, userID uint64) (*models.WorkspaceMember, error)

	// ListMembershipsByUserID lists a user's memberships, most recently joined first
	ListMembershipsByUserID(userID uint64) ([]models.WorkspaceMember, error)

	// ListMembers lists all members of a workspace
	ListMembers(workspaceID uint64) ([]models.WorkspaceMember, error)
}

// ProjectStatusCount is one row of the grouped per-project task counts
type ProjectStatusCount struct {
	ProjectID uint64
	Status    models.TaskStatus
	Count     int64
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// ListByWorkspace lists a workspace's projects, newest first
	ListByWorkspace(workspaceID uint64) ([]models.Project, error)

	// CountTasksByStatus returns task counts grouped by (project, status)
	CountTasksByStatus(projectIDs []uint64) ([]ProjectStatusCount, error)

	// Delete deletes a project and cascades to its tasks
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID    *uint64
	WorkspaceIDs []uint64
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks matching the filter, newest first, with assignees
	List(filter TaskFilter) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error
}

// StatusCount is one entry of the dashboard's per-status breakdown
type StatusCount struct {
	Status models.TaskStatus `json:"status"`
	Count  int64             `json:"count"`
}

// PriorityCount is one entry of the dashboard's per-priority breakdown
type PriorityCount struct {
	Priority models.TaskPriority `json:"priority"`
	Count    int64               `json:"count"`
}

// AnalyticsRepository defines the read-time aggregation queries behind the
// dashboard. Each method is an independent query; there is no snapshot
// guarantee across them.
type AnalyticsRepository interface {
	CountTasks(workspaceIDs []uint64) (int64, error)
	CountTasksWithStatus(workspaceIDs []uint64, status models.TaskStatus) (int64, error)
	CountOverdueTasks(workspaceIDs []uint64, now time.Time) (int64, error)
	CountProjects(workspaceIDs []uint64) (int64, error)
	GroupTasksByStatus(workspaceIDs []uint64) ([]StatusCount, error)
	GroupTasksByPriority(workspaceIDs []uint64) ([]PriorityCount, error)
}
