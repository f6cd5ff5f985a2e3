package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"tasknexus/internal/config"
	"tasknexus/internal/database"
	"tasknexus/internal/handlers"
	"tasknexus/internal/middleware"
	"tasknexus/internal/repository"
	"tasknexus/internal/services"
	"tasknexus/internal/token"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	tokens := token.NewManager(cfg.JWTSecret)

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, tokens)
	directoryService := services.NewDirectoryService(userRepo)
	workspaceService := services.NewWorkspaceService(workspaceRepo, userRepo)
	projectService := services.NewProjectService(projectRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, workspaceRepo)
	analyticsService := services.NewAnalyticsService(workspaceRepo, analyticsRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(directoryService)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Nexus API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public except /me)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.RequireAuth(tokens), authHandler.GetCurrentUser)
		}

		// User directory (protected)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth(tokens))
		{
			users.GET("/search", userHandler.SearchUsers)
		}

		// Workspace routes (protected)
		workspaces := api.Group("/workspaces")
		workspaces.Use(middleware.RequireAuth(tokens))
		{
			workspaces.GET("", workspaceHandler.ListWorkspaces)
			workspaces.POST("", workspaceHandler.CreateWorkspace)
			workspaces.GET("/:id", middleware.RequireWorkspaceAccess(), workspaceHandler.GetWorkspace)
			workspaces.DELETE("/:id", middleware.RequireWorkspaceAccess(), middleware.RequireWorkspaceOwner(), workspaceHandler.DeleteWorkspace)
			workspaces.POST("/:id/invite", workspaceHandler.InviteMember)
			workspaces.GET("/:id/members", middleware.RequireWorkspaceAccess(), workspaceHandler.ListMembers)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth(tokens))
		{
			projects.GET("/workspace/:workspaceId", projectHandler.ListByWorkspace)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", middleware.RequireProjectAccess(), projectHandler.GetProject)
			projects.DELETE("/:id", middleware.RequireProjectAccess(), projectHandler.DeleteProject)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(tokens))
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.PUT("/:id", middleware.RequireTaskAccess(), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskAccess(), taskHandler.DeleteTask)
		}

		// Analytics routes (protected)
		analytics := api.Group("/analytics")
		analytics.Use(middleware.RequireAuth(tokens))
		{
			analytics.GET("/dashboard", analyticsHandler.Dashboard)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
