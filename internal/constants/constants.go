package constants

const (
	// ContextKeyUserID is the Gin context key holding the authenticated user ID.
	ContextKeyUserID = "user_id"
	// ContextKeyWorkspace holds the workspace loaded by the access middleware.
	ContextKeyWorkspace = "workspace"
	// ContextKeyMembership holds the caller's membership in that workspace.
	ContextKeyMembership = "workspace_member"
	// ContextKeyProject holds the project loaded by the access middleware.
	ContextKeyProject = "project"
	// ContextKeyTask holds the task loaded by the access middleware.
	ContextKeyTask = "task"

	MinPasswordLength = 8

	// Directory search: queries shorter than this return an empty list,
	// and result sets are capped.
	MinSearchQueryLength = 3
	MaxSearchResults     = 10

	DefaultProjectColor = "#3B82F6"

	DefaultWorkspaceDescription = "Default workspace"
	StarterProjectName          = "My First Project"
	StarterProjectDescription   = "Default project"
)
