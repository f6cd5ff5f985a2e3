package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"tasknexus/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating the user fails inside the registration transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateWorkspace is returned when creating the default workspace fails inside the registration transaction.
	ErrCreateWorkspace = errors.New("user repository: create workspace failed")
	// ErrCreateMembership is returned when creating the owner membership fails inside the registration transaction.
	ErrCreateMembership = errors.New("user repository: create membership failed")
	// ErrCreateProject is returned when creating the starter project fails inside the registration transaction.
	ErrCreateProject = errors.New("user repository: create project failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// CreateWithDefaults creates the user, default workspace, owner membership and
// starter project atomically, so a failure partway cannot leave an orphaned
// user without a workspace.
func (r *GormUserRepository) CreateWithDefaults(user *models.User, workspace *models.Workspace, member *models.WorkspaceMember, project *models.Project) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateUser, err)
		}

		workspace.OwnerID = user.ID
		if err := tx.Create(workspace).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateWorkspace, err)
		}

		member.WorkspaceID = workspace.ID
		member.UserID = user.ID
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateMembership, err)
		}

		project.WorkspaceID = workspace.ID
		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateProject, err)
		}

		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by exact email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchByEmail finds users by case-insensitive email substring
func (r *GormUserRepository) SearchByEmail(fragment string, limit int) ([]models.User, error) {
	var users []models.User
	pattern := "%" + strings.ToLower(fragment) + "%"
	if err := r.db.Where("LOWER(email) LIKE ?", pattern).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
