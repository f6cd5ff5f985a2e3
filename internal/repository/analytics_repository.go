package repository

import (
	"time"

	"gorm.io/gorm"

	"tasknexus/internal/models"
)

// GormAnalyticsRepository is a GORM implementation of AnalyticsRepository
type GormAnalyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new AnalyticsRepository
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

// scopedTasks restricts tasks to those whose project belongs to one of the
// given workspaces.
func (r *GormAnalyticsRepository) scopedTasks(workspaceIDs []uint64) *gorm.DB {
	return r.db.Model(&models.Task{}).
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("projects.workspace_id IN ?", workspaceIDs).
		Where("projects.deleted_at IS NULL")
}

// CountTasks counts all tasks in the given workspaces
func (r *GormAnalyticsRepository) CountTasks(workspaceIDs []uint64) (int64, error) {
	var count int64
	err := r.scopedTasks(workspaceIDs).Count(&count).Error
	return count, err
}

// CountTasksWithStatus counts tasks with the given status
func (r *GormAnalyticsRepository) CountTasksWithStatus(workspaceIDs []uint64, status models.TaskStatus) (int64, error) {
	var count int64
	err := r.scopedTasks(workspaceIDs).Where("tasks.status = ?", status).Count(&count).Error
	return count, err
}

// CountOverdueTasks counts tasks due before now that are not done
func (r *GormAnalyticsRepository) CountOverdueTasks(workspaceIDs []uint64, now time.Time) (int64, error) {
	var count int64
	err := r.scopedTasks(workspaceIDs).
		Where("tasks.due_date < ?", now).
		Where("tasks.status <> ?", models.TaskStatusDone).
		Count(&count).Error
	return count, err
}

// CountProjects counts projects in the given workspaces
func (r *GormAnalyticsRepository) CountProjects(workspaceIDs []uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).
		Where("workspace_id IN ?", workspaceIDs).
		Count(&count).Error
	return count, err
}

// GroupTasksByStatus returns task counts grouped by status, one entry per
// observed value
func (r *GormAnalyticsRepository) GroupTasksByStatus(workspaceIDs []uint64) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.scopedTasks(workspaceIDs).
		Select("tasks.status AS status, COUNT(*) AS count").
		Group("tasks.status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// GroupTasksByPriority returns task counts grouped by priority, one entry per
// observed value
func (r *GormAnalyticsRepository) GroupTasksByPriority(workspaceIDs []uint64) ([]PriorityCount, error) {
	var counts []PriorityCount
	err := r.scopedTasks(workspaceIDs).
		Select("tasks.priority AS priority, COUNT(*) AS count").
		Group("tasks.priority").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
