package repository

import (
	"gorm.io/gorm"

	"tasknexus/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByWorkspace lists a workspace's projects, newest first
func (r *GormProjectRepository) ListByWorkspace(workspaceID uint64) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Where("workspace_id = ?", workspaceID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// CountTasksByStatus returns task counts grouped by (project, status)
func (r *GormProjectRepository) CountTasksByStatus(projectIDs []uint64) ([]ProjectStatusCount, error) {
	if len(projectIDs) == 0 {
		return []ProjectStatusCount{}, nil
	}

	var counts []ProjectStatusCount
	if err := r.db.Model(&models.Task{}).
		Select("project_id, status, COUNT(*) AS count").
		Where("project_id IN ?", projectIDs).
		Group("project_id, status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// Delete deletes a project and its tasks in a transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}
