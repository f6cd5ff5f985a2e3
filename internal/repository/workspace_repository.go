package repository

import (
	"gorm.io/gorm"

	"tasknexus/internal/models"
)

// GormWorkspaceRepository is a GORM implementation of WorkspaceRepository
type GormWorkspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &GormWorkspaceRepository{db: db}
}

// CreateWithOwner creates a workspace and its owner membership in a single transaction
func (r *GormWorkspaceRepository) CreateWithOwner(workspace *models.Workspace, member *models.WorkspaceMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(workspace).Error; err != nil {
			return err
		}

		member.WorkspaceID = workspace.ID
		return tx.Create(member).Error
	})
}

// FindByID finds a workspace by ID
func (r *GormWorkspaceRepository) FindByID(id uint64) (*models.Workspace, error) {
	var workspace models.Workspace
	if err := r.db.First(&workspace, id).Error; err != nil {
		return nil, err
	}
	return &workspace, nil
}

// Delete deletes a workspace and all related data in a transaction.
// Tasks go first while their projects are still visible to the subquery.
func (r *GormWorkspaceRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		projectIDs := tx.Model(&models.Project{}).Select("id").Where("workspace_id = ?", id)
		if err := tx.Where("project_id IN (?)", projectIDs).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("workspace_id = ?", id).Delete(&models.Project{}).Error; err != nil {
			return err
		}

		if err := tx.Where("workspace_id = ?", id).Delete(&models.WorkspaceMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Workspace{}, id).Error
	})
}

// AddMember adds a member to a workspace. The composite primary key on
// (workspace_id, user_id) makes concurrent duplicate inserts fail here.
func (r *GormWorkspaceRepository) AddMember(member *models.WorkspaceMember) error {
	return r.db.Create(member).Error
}

// FindMember finds a specific workspace membership
func (r *GormWorkspaceRepository) FindMember(workspaceID, userID uint64) (*models.WorkspaceMember, error) {
	var member models.WorkspaceMember
	if err := r.db.Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembershipsByUserID lists a user's memberships, most recently joined first
func (r *GormWorkspaceRepository) ListMembershipsByUserID(userID uint64) ([]models.WorkspaceMember, error) {
	var memberships []models.WorkspaceMember
	if err := r.db.Preload("Workspace").
		Where("user_id = ?", userID).
		Order("joined_at DESC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListMembers lists all members of a workspace
func (r *GormWorkspaceRepository) ListMembers(workspaceID uint64) ([]models.WorkspaceMember, error) {
	var members []models.WorkspaceMember
	if err := r.db.Preload("User").
		Where("workspace_id = ?", workspaceID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
