// Package router wires services, handlers and middleware into the gin engine.
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Thanhfdq/task-app/internal/config"
	"github.com/Thanhfdq/task-app/internal/constants"
	"github.com/Thanhfdq/task-app/internal/handlers"
	"github.com/Thanhfdq/task-app/internal/middleware"
	"github.com/Thanhfdq/task-app/internal/repository"
	"github.com/Thanhfdq/task-app/internal/services"
	"github.com/Thanhfdq/task-app/internal/storage"
)

// Services holds every service the HTTP layer calls.
type Services struct {
	Auth    *services.AuthService
	User    *services.UserService
	Project *services.ProjectService
	Group   *services.GroupService
	Task    *services.TaskService
	Comment *services.CommentService
	File    *services.FileService
	Report  *services.ReportService
}

// NewServices builds the repositories and services over db. generator may
// be nil, in which case task generation answers 503.
func NewServices(db *gorm.DB, files *storage.FileStore, generator services.TaskGenerator) *Services {
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	fileRepo := repository.NewFileRepository(db)
	reportRepo := repository.NewReportRepository(db)

	return &Services{
		Auth:    services.NewAuthService(userRepo),
		User:    services.NewUserService(userRepo),
		Project: services.NewProjectService(projectRepo, taskRepo, userRepo, files),
		Group:   services.NewGroupService(groupRepo, projectRepo, taskRepo),
		Task:    services.NewTaskService(taskRepo, projectRepo, groupRepo, files, generator),
		Comment: services.NewCommentService(commentRepo, projectRepo, taskRepo),
		File:    services.NewFileService(fileRepo, projectRepo, taskRepo, files),
		Report:  services.NewReportService(reportRepo),
	}
}

// NewSessionStore creates the session store selected by cfg.SessionStore.
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		s, err := redisStore.NewStore(
			10,    // Redis pool size
			"tcp", // network type
			redisAddr,
			"", // username (empty for default user)
			"", // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
		store = s
	case config.SessionStoreCookie:
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	default:
		return nil, fmt.Errorf("unsupported session store %q", cfg.SessionStore)
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// New builds the engine with every API route under /api.
func New(cfg *config.Config, svc *Services, store sessions.Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.MaxMultipartMemory = cfg.MaxUploadBytes()

	authHandler := handlers.NewAuthHandler(svc.Auth)
	userHandler := handlers.NewUserHandler(svc.User)
	projectHandler := handlers.NewProjectHandler(svc.Project)
	groupHandler := handlers.NewGroupHandler(svc.Group)
	taskHandler := handlers.NewTaskHandler(svc.Task)
	commentHandler := handlers.NewCommentHandler(svc.Comment)
	fileHandler := handlers.NewFileHandler(svc.File)
	reportHandler := handlers.NewReportHandler(svc.Report)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task API is running",
		})
	})

	projectID := middleware.RequireIDParams("id")
	taskID := middleware.RequireIDParams("id")

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("/search-users", userHandler.SearchUsers)
			users.PUT("/me", userHandler.UpdateProfile)
			users.PUT("/me/password", userHandler.ChangePassword)
		}

		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/recent", projectHandler.RecentProjects)
			projects.GET("/:id", projectID, projectHandler.GetProject)
			projects.PUT("/:id", projectID, projectHandler.UpdateProject)
			projects.DELETE("/:id", projectID, projectHandler.DeleteProject)
			projects.PATCH("/:id/archive", projectID, projectHandler.ArchiveProject)
			projects.PATCH("/:id/restore", projectID, projectHandler.RestoreProject)

			projects.GET("/:id/members", projectID, projectHandler.ListMembers)
			projects.POST("/:id/members", projectID, projectHandler.AddMember)
			projects.GET("/:id/members-with-task-count", projectID, projectHandler.ListMembersWithTaskCount)
			projects.DELETE("/:id/members/:memberId", middleware.RequireIDParams("id", "memberId"), projectHandler.RemoveMember)
			projects.POST("/:id/leave", projectID, projectHandler.LeaveProject)

			projects.GET("/:id/groups", projectID, groupHandler.ListGroups)
			projects.POST("/:id/groups", projectID, groupHandler.CreateGroup)
			projects.PATCH("/:id/groups/:groupId", middleware.RequireIDParams("id", "groupId"), groupHandler.RenameGroup)
			projects.DELETE("/:id/groups/:groupId", middleware.RequireIDParams("id", "groupId"), groupHandler.DeleteGroup)

			projects.GET("/:id/tasks", projectID, taskHandler.ListProjectTasks)
			projects.GET("/:id/tasks/archived", projectID, taskHandler.ListArchivedProjectTasks)
		}

		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/generate", taskHandler.GenerateTasks)
			tasks.GET("/:id", taskID, taskHandler.GetTask)
			tasks.PUT("/:id", taskID, taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskID, taskHandler.DeleteTask)
			tasks.PATCH("/:id/toggle-state", taskID, taskHandler.ToggleState)
			tasks.PATCH("/:id/archive", taskID, taskHandler.ArchiveTask)
			tasks.PATCH("/:id/restore", taskID, taskHandler.RestoreTask)
			tasks.PATCH("/:id/move", taskID, taskHandler.MoveTask)

			tasks.GET("/:id/comments", taskID, commentHandler.ListComments)
			tasks.POST("/:id/comments", taskID, commentHandler.AddComment)

			tasks.GET("/:id/files", taskID, fileHandler.ListFiles)
			tasks.POST("/upload-files/:id", taskID, fileHandler.UploadFiles)
			tasks.GET("/files/:fileId/download", middleware.RequireIDParams("fileId"), fileHandler.DownloadFile)
			tasks.DELETE("/files/:taskId/:fileName", middleware.RequireIDParams("taskId"), fileHandler.DeleteFile)
		}

		reports := api.Group("/reports")
		reports.Use(middleware.RequireAuth())
		{
			reports.GET("/overview", reportHandler.Overview)
			reports.GET("/tasks-by-project", reportHandler.TasksByProject)
			reports.GET("/completion-trend", reportHandler.CompletionTrend)
		}
	}

	return r
}
