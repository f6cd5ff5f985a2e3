package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tasknexus/internal/constants"
	"tasknexus/internal/database"
	"tasknexus/internal/dto"
	"tasknexus/internal/models"
	"tasknexus/internal/repository"
	"tasknexus/internal/services"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.WorkspaceMember{},
		&models.Project{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	// Set the test DB as the default database
	database.SetDB(suite.db)

	taskRepo := repository.NewTaskRepository(suite.db)
	projectRepo := repository.NewProjectRepository(suite.db)
	workspaceRepo := repository.NewWorkspaceRepository(suite.db)
	taskService := services.NewTaskService(taskRepo, projectRepo, workspaceRepo)
	suite.handler = NewTaskHandler(taskService)

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data
func (suite *TaskHandlerTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestWorkspace(name string, ownerID uint64) *models.Workspace {
	workspace := &models.Workspace{
		Name:    name,
		OwnerID: ownerID,
	}
	suite.db.Create(workspace)
	suite.db.Create(&models.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      ownerID,
		Role:        models.RoleOwner,
		JoinedAt:    time.Now(),
	})
	return workspace
}

func (suite *TaskHandlerTestSuite) createTestProject(name string, workspaceID uint64) *models.Project {
	project := &models.Project{
		Name:        name,
		WorkspaceID: workspaceID,
	}
	suite.db.Create(project)
	return project
}

func (suite *TaskHandlerTestSuite) createTestTask(title string, creatorID, projectID uint64) *models.Task {
	task := &models.Task{
		Title:     title,
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityMedium,
		CreatorID: creatorID,
		ProjectID: projectID,
	}
	suite.db.Create(task)
	return task
}

// Helper function to create authenticated context
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

// Helper function to set task context (simulates RequireTaskAccess middleware)
func (suite *TaskHandlerTestSuite) setTaskContext(c *gin.Context, task models.Task) {
	c.Set(constants.ContextKeyTask, task)
}

// TestCreateTask_Defaults tests that a bare task gets todo and medium
func (suite *TaskHandlerTestSuite) TestCreateTask_Defaults() {
	user := suite.createTestUser("creator")
	workspace := suite.createTestWorkspace("WS", user.ID)
	project := suite.createTestProject("P", workspace.ID)

	requestBody := map[string]interface{}{
		"title":      "New Task",
		"project_id": project.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.TaskDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "New Task", response.Title)
	assert.Equal(suite.T(), models.TaskStatusTodo, response.Status)
	assert.Equal(suite.T(), models.TaskPriorityMedium, response.Priority)
	assert.Equal(suite.T(), user.ID, response.CreatorID)
	assert.False(suite.T(), response.Completed)
	assert.Nil(suite.T(), response.AssigneeName)
}

// TestCreateTask_InvalidStatus tests rejection of an unknown status
func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidStatus() {
	user := suite.createTestUser("creator")
	workspace := suite.createTestWorkspace("WS", user.ID)
	project := suite.createTestProject("P", workspace.ID)

	requestBody := map[string]interface{}{
		"title":      "New Task",
		"status":     "archived",
		"project_id": project.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateTask_NotWorkspaceMember tests creation into a foreign workspace
func (suite *TaskHandlerTestSuite) TestCreateTask_NotWorkspaceMember() {
	owner := suite.createTestUser("owner")
	outsider := suite.createTestUser("outsider")
	workspace := suite.createTestWorkspace("WS", owner.ID)
	project := suite.createTestProject("P", workspace.ID)

	requestBody := map[string]interface{}{
		"title":      "Sneaky Task",
		"project_id": project.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, outsider.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestListTasks_AllWorkspaces tests the unfiltered listing
func (suite *TaskHandlerTestSuite) TestListTasks_AllWorkspaces() {
	user := suite.createTestUser("lister")
	workspace := suite.createTestWorkspace("WS", user.ID)
	project := suite.createTestProject("P", workspace.ID)
	suite.createTestTask("First", user.ID, project.ID)
	suite.createTestTask("Second", user.ID, project.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, user.ID)

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response []dto.TaskDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response, 2)
}

// TestListTasks_ProjectFilter tests the projectId query filter
func (suite *TaskHandlerTestSuite) TestListTasks_ProjectFilter() {
	user := suite.createTestUser("lister")
	workspace := suite.createTestWorkspace("WS", user.ID)
	projectA := suite.createTestProject("A", workspace.ID)
	projectB := suite.createTestProject("B", workspace.ID)
	suite.createTestTask("In A", user.ID, projectA.ID)
	suite.createTestTask("In B", user.ID, projectB.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, user.ID)
	c.Request.URL.RawQuery = "projectId=1"

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response []dto.TaskDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response, 1)
	assert.Equal(suite.T(), "In A", response[0].Title)
}

// TestListTasks_NoMemberships tests that a user without workspaces sees nothing
func (suite *TaskHandlerTestSuite) TestListTasks_NoMemberships() {
	user := suite.createTestUser("loner")

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, user.ID)

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response []dto.TaskDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), response)
}

// TestUpdateTask_SparsePatch tests that absent fields stay untouched
func (suite *TaskHandlerTestSuite) TestUpdateTask_SparsePatch() {
	user := suite.createTestUser("patcher")
	workspace := suite.createTestWorkspace("WS", user.ID)
	project := suite.createTestProject("P", workspace.ID)
	task := suite.createTestTask("Old Title", user.ID, project.ID)
	task.Description = "Keep me"
	task.Priority = models.TaskPriorityHigh
	suite.db.Save(task)

	requestBody := map[string]interface{}{
		"title": "New Title",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "New Title", response.Title)
	assert.Equal(suite.T(), "Keep me", response.Description)
	assert.Equal(suite.T(), models.TaskPriorityHigh, response.Priority)
}

// TestUpdateTask_CompletedForcesDone tests that completed wins over status
func (suite *TaskHandlerTestSuite) TestUpdateTask_CompletedForcesDone() {
	user := suite.createTestUser("finisher")
	workspace := suite.createTestWorkspace("WS", user.ID)
	project := suite.createTestProject("P", workspace.ID)
	task := suite.createTestTask("Almost done", user.ID, project.ID)

	requestBody := map[string]interface{}{
		"status":    "in_progress",
		"completed": true,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), response.Completed)
	assert.Equal(suite.T(), models.TaskStatusDone, response.Status)

	// Applying the same patch again lands in the same terminal state.
	body, _ = json.Marshal(map[string]interface{}{"completed": true})
	c, w = suite.createAuthContext("PUT", "/api/tasks/1", body, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), response.Completed)
	assert.Equal(suite.T(), models.TaskStatusDone, response.Status)
}

// TestUpdateTask_DoneStatusKeepsCompleted tests the one-way coupling
func (suite *TaskHandlerTestSuite) TestUpdateTask_DoneStatusKeepsCompleted() {
	user := suite.createTestUser("mover")
	workspace := suite.createTestWorkspace("WS", user.ID)
	project := suite.createTestProject("P", workspace.ID)
	task := suite.createTestTask("Column move", user.ID, project.ID)

	requestBody := map[string]interface{}{
		"status": "done",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TaskStatusDone, response.Status)
	assert.False(suite.T(), response.Completed)
}

// TestUpdateTask_NullDueDate tests clearing a due date with an explicit null
func (suite *TaskHandlerTestSuite) TestUpdateTask_NullDueDate() {
	user := suite.createTestUser("scheduler")
	workspace := suite.createTestWorkspace("WS", user.ID)
	project := suite.createTestProject("P", workspace.ID)
	task := suite.createTestTask("Dated", user.ID, project.ID)
	dueDate := time.Now().Add(24 * time.Hour)
	task.DueDate = &dueDate
	suite.db.Save(task)

	requestBody := map[string]interface{}{
		"due_date": nil,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), response.DueDate)
}

// TestUpdateTask_AssigneeName tests that assignment reflects the username
func (suite *TaskHandlerTestSuite) TestUpdateTask_AssigneeName() {
	user := suite.createTestUser("assigner")
	helper := suite.createTestUser("helper")
	workspace := suite.createTestWorkspace("WS", user.ID)
	project := suite.createTestProject("P", workspace.ID)
	task := suite.createTestTask("Shared", user.ID, project.ID)

	requestBody := map[string]interface{}{
		"assignee_id": helper.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), response.AssigneeName)
	assert.Equal(suite.T(), "helper", *response.AssigneeName)

	// Null unassigns and drops the name.
	body, _ = json.Marshal(map[string]interface{}{"assignee_id": nil})
	c, w = suite.createAuthContext("PUT", "/api/tasks/1", body, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), response.AssigneeName)
}

// TestUpdateTask_EmptyTitle tests rejection of a blank title
func (suite *TaskHandlerTestSuite) TestUpdateTask_EmptyTitle() {
	user := suite.createTestUser("patcher")
	workspace := suite.createTestWorkspace("WS", user.ID)
	project := suite.createTestProject("P", workspace.ID)
	task := suite.createTestTask("Keep", user.ID, project.ID)

	requestBody := map[string]interface{}{
		"title": "",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestUpdateTask_InvalidRequest tests task update with invalid request
func (suite *TaskHandlerTestSuite) TestUpdateTask_InvalidRequest() {
	user := suite.createTestUser("patcher")
	workspace := suite.createTestWorkspace("WS", user.ID)
	project := suite.createTestProject("P", workspace.ID)
	task := suite.createTestTask("Keep", user.ID, project.ID)

	c, w := suite.createAuthContext("PUT", "/api/tasks/1", []byte("invalid json"), user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestDeleteTask_Success tests successful task deletion
func (suite *TaskHandlerTestSuite) TestDeleteTask_Success() {
	user := suite.createTestUser("deleter")
	workspace := suite.createTestWorkspace("WS", user.ID)
	project := suite.createTestProject("P", workspace.ID)
	task := suite.createTestTask("Task to Delete", user.ID, project.ID)

	c, w := suite.createAuthContext("DELETE", "/api/tasks/1", nil, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.DeleteTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Task deleted successfully", response["message"])

	// Verify task is deleted
	var deletedTask models.Task
	err = suite.db.First(&deletedTask, task.ID).Error
	assert.Error(suite.T(), err) // Should return error because of soft delete
}

// TestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
