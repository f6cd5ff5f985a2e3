package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tasknexus/internal/constants"
	"tasknexus/internal/models"
	"tasknexus/internal/repository"
	"tasknexus/internal/token"
)

var (
	ErrUsernameRequired     = errors.New("username is required")
	ErrEmailRequired        = errors.New("email is required")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrEmailTaken           = errors.New("email already exists")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrNoAccount            = errors.New("no account found with this email")
	ErrWrongPassword        = errors.New("wrong password")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration, login and identity resolution.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *token.Manager
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *token.Manager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// RegisterInput represents the required information to create a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a new user together with their default workspace, owner
// membership and starter project in one transaction, then issues a token.
func (s *AuthService) Register(input RegisterInput) (*models.User, string, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" {
		return nil, "", ErrUsernameRequired
	}
	if email == "" {
		return nil, "", ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, "", ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	workspace := &models.Workspace{
		Name:        fmt.Sprintf("%s Workspace", username),
		Description: constants.DefaultWorkspaceDescription,
	}

	member := &models.WorkspaceMember{
		Role:     models.RoleOwner,
		JoinedAt: time.Now(),
	}

	project := &models.Project{
		Name:        constants.StarterProjectName,
		Description: constants.StarterProjectDescription,
		Color:       constants.DefaultProjectColor,
	}

	if err := s.userRepo.CreateWithDefaults(user, workspace, member, project); err != nil {
		// The uniqueness checks above can race with a concurrent registration;
		// the store's unique indexes are the authority.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to complete registration: %w", err)
	}

	signed, err := s.tokens.Generate(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, signed, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user and a token.
// The two failure modes stay distinguishable to the caller on purpose.
func (s *AuthService) Login(input LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.FindByEmail(strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNoAccount
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", ErrWrongPassword
	}

	signed, err := s.tokens.Generate(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, signed, nil
}

// GetUser re-resolves an identity against the users table, so deleted or
// renamed accounts are reflected rather than trusted from the token.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
