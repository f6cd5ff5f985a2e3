package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tasknexus/internal/constants"
	"tasknexus/internal/database"
	"tasknexus/internal/dto"
	"tasknexus/internal/models"
	"tasknexus/internal/repository"
	"tasknexus/internal/services"
)

type workspaceTestEnv struct {
	db      *gorm.DB
	handler *WorkspaceHandler
}

func setupWorkspaceTestEnv(t *testing.T) workspaceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.WorkspaceMember{},
		&models.Project{},
		&models.Task{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	workspaceService := services.NewWorkspaceService(workspaceRepo, userRepo)
	handler := NewWorkspaceHandler(workspaceService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return workspaceTestEnv{
		db:      db,
		handler: handler,
	}
}

func (env workspaceTestEnv) createUser(t *testing.T, username, email string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env workspaceTestEnv) createWorkspace(t *testing.T, name string, ownerID uint64) *models.Workspace {
	t.Helper()
	workspace := &models.Workspace{
		Name:    name,
		OwnerID: ownerID,
	}
	require.NoError(t, env.db.Create(workspace).Error)
	require.NoError(t, env.db.Create(&models.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      ownerID,
		Role:        models.RoleOwner,
		JoinedAt:    time.Now(),
	}).Error)
	return workspace
}

func (env workspaceTestEnv) addMember(t *testing.T, workspaceID, userID uint64, role models.WorkspaceRole) {
	t.Helper()
	require.NoError(t, env.db.Create(&models.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
		JoinedAt:    time.Now(),
	}).Error)
}

func inviteContext(t *testing.T, workspaceID uint64, userID uint64, email string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	body, err := json.Marshal(map[string]string{"email": email})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/workspaces/1/invite", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(workspaceID, 10)}}
	c.Set(constants.ContextKeyUserID, userID)
	return c, w
}

func TestWorkspaceHandler_CreateWorkspace(t *testing.T) {
	env := setupWorkspaceTestEnv(t)
	user := env.createUser(t, "founder", "founder@example.com")

	body, err := json.Marshal(map[string]string{
		"name":        "Engineering",
		"description": "Build things",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/workspaces", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(constants.ContextKeyUserID, user.ID)

	env.handler.CreateWorkspace(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.WorkspaceWithRoleDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Engineering", response.Name)
	require.Equal(t, models.RoleOwner, response.Role)

	var member models.WorkspaceMember
	require.NoError(t, env.db.Where("workspace_id = ? AND user_id = ?", response.ID, user.ID).First(&member).Error)
	require.Equal(t, models.RoleOwner, member.Role)
}

func TestWorkspaceHandler_ListWorkspaces(t *testing.T) {
	env := setupWorkspaceTestEnv(t)
	user := env.createUser(t, "member", "member@example.com")
	env.createWorkspace(t, "First", user.ID)
	env.createWorkspace(t, "Second", user.ID)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/workspaces", nil)
	c.Set(constants.ContextKeyUserID, user.ID)

	env.handler.ListWorkspaces(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response []dto.WorkspaceWithRoleDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response, 2)
	for _, ws := range response {
		require.Equal(t, models.RoleOwner, ws.Role)
	}
}

func TestWorkspaceHandler_DeleteWorkspace_Cascades(t *testing.T) {
	env := setupWorkspaceTestEnv(t)
	user := env.createUser(t, "owner", "owner@example.com")
	workspace := env.createWorkspace(t, "Doomed", user.ID)

	project := &models.Project{Name: "P", WorkspaceID: workspace.ID}
	require.NoError(t, env.db.Create(project).Error)
	task := &models.Task{Title: "T", ProjectID: project.ID, CreatorID: user.ID}
	require.NoError(t, env.db.Create(task).Error)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/workspaces/1", nil)
	c.Set(constants.ContextKeyUserID, user.ID)
	c.Set(constants.ContextKeyWorkspace, *workspace)

	env.handler.DeleteWorkspace(c)

	require.Equal(t, http.StatusOK, w.Code)

	require.Error(t, env.db.First(&models.Workspace{}, workspace.ID).Error)
	require.Error(t, env.db.First(&models.Project{}, project.ID).Error)
	require.Error(t, env.db.First(&models.Task{}, task.ID).Error)

	var memberCount int64
	require.NoError(t, env.db.Model(&models.WorkspaceMember{}).Where("workspace_id = ?", workspace.ID).Count(&memberCount).Error)
	require.EqualValues(t, 0, memberCount)
}

func TestWorkspaceHandler_InviteMember_Success(t *testing.T) {
	env := setupWorkspaceTestEnv(t)
	owner := env.createUser(t, "owner", "owner@example.com")
	invitee := env.createUser(t, "invitee", "invitee@example.com")
	workspace := env.createWorkspace(t, "Team", owner.ID)

	c, w := inviteContext(t, workspace.ID, owner.ID, invitee.Email)
	env.handler.InviteMember(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, true, response["success"])
	require.Equal(t, "User invited successfully", response["message"])

	var member models.WorkspaceMember
	require.NoError(t, env.db.Where("workspace_id = ? AND user_id = ?", workspace.ID, invitee.ID).First(&member).Error)
	require.Equal(t, models.RoleMember, member.Role)
}

func TestWorkspaceHandler_InviteMember_UnknownEmail(t *testing.T) {
	env := setupWorkspaceTestEnv(t)
	owner := env.createUser(t, "owner", "owner@example.com")
	workspace := env.createWorkspace(t, "Team", owner.ID)

	c, w := inviteContext(t, workspace.ID, owner.ID, "ghost@example.com")
	env.handler.InviteMember(c)

	require.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "User not found", response["message"])
}

func TestWorkspaceHandler_InviteMember_AlreadyMember(t *testing.T) {
	env := setupWorkspaceTestEnv(t)
	owner := env.createUser(t, "owner", "owner@example.com")
	invitee := env.createUser(t, "invitee", "invitee@example.com")
	workspace := env.createWorkspace(t, "Team", owner.ID)
	env.addMember(t, workspace.ID, invitee.ID, models.RoleMember)

	c, w := inviteContext(t, workspace.ID, owner.ID, invitee.Email)
	env.handler.InviteMember(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestWorkspaceHandler_InviteMember_MemberRoleForbidden(t *testing.T) {
	env := setupWorkspaceTestEnv(t)
	owner := env.createUser(t, "owner", "owner@example.com")
	member := env.createUser(t, "plain", "plain@example.com")
	outsider := env.createUser(t, "outsider", "outsider@example.com")
	workspace := env.createWorkspace(t, "Team", owner.ID)
	env.addMember(t, workspace.ID, member.ID, models.RoleMember)

	c, w := inviteContext(t, workspace.ID, member.ID, outsider.Email)
	env.handler.InviteMember(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestWorkspaceHandler_InviteMember_NonMemberForbidden(t *testing.T) {
	env := setupWorkspaceTestEnv(t)
	owner := env.createUser(t, "owner", "owner@example.com")
	stranger := env.createUser(t, "stranger", "stranger@example.com")
	target := env.createUser(t, "target", "target@example.com")
	workspace := env.createWorkspace(t, "Team", owner.ID)

	c, w := inviteContext(t, workspace.ID, stranger.ID, target.Email)
	env.handler.InviteMember(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestWorkspaceHandler_ListMembers(t *testing.T) {
	env := setupWorkspaceTestEnv(t)
	owner := env.createUser(t, "owner", "owner@example.com")
	other := env.createUser(t, "other", "other@example.com")
	workspace := env.createWorkspace(t, "Team", owner.ID)
	env.addMember(t, workspace.ID, other.ID, models.RoleMember)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/workspaces/1/members", nil)
	c.Set(constants.ContextKeyUserID, owner.ID)
	c.Set(constants.ContextKeyWorkspace, *workspace)

	env.handler.ListMembers(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response []dto.MemberDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response, 2)

	roles := map[string]models.WorkspaceRole{}
	for _, m := range response {
		roles[m.Username] = m.Role
	}
	require.Equal(t, models.RoleOwner, roles["owner"])
	require.Equal(t, models.RoleMember, roles["other"])
}
