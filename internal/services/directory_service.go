package services

import (
	"log"
	"strings"

	"tasknexus/internal/constants"
	"tasknexus/internal/models"
	"tasknexus/internal/repository"
)

// DirectoryService looks up users by partial email for the invite flow.
type DirectoryService struct {
	userRepo repository.UserRepository
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(userRepo repository.UserRepository) *DirectoryService {
	return &DirectoryService{userRepo: userRepo}
}

// SearchUsers matches users by case-insensitive email substring, capped at
// MaxSearchResults. Queries shorter than MinSearchQueryLength return an empty
// list without touching the store, and storage failures degrade to an empty
// list as well: search is advisory, invite-by-typed-email stays available.
// Excluding users who already belong to a target workspace is the caller's
// presentation-layer filter; the server does not do it.
func (s *DirectoryService) SearchUsers(query string) []models.User {
	query = strings.TrimSpace(query)
	if len(query) < constants.MinSearchQueryLength {
		return []models.User{}
	}

	users, err := s.userRepo.SearchByEmail(query, constants.MaxSearchResults)
	if err != nil {
		log.Printf("user search failed: %v", err)
		return []models.User{}
	}

	return users
}
