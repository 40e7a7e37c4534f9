package repository

import (
	"context"
	"time"

	"github.com/Thanhfdq/task-app/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// Search finds users whose username contains keyword, case-insensitively
	Search(ctx context.Context, keyword string, limit int) ([]models.User, error)

	// UpdateProfile writes the given profile columns
	UpdateProfile(ctx context.Context, id uint64, fields map[string]interface{}) error

	// UpdatePasswordHash replaces the stored credential hash
	UpdatePasswordHash(ctx context.Context, id uint64, hash string) error
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	Archived *bool
	Limit    int
	// RecentFirst orders by start date, newest first
	RecentFirst bool
}

// MemberTaskCount is a project member with the number of non-archived
// tasks they perform in that project.
type MemberTaskCount struct {
	UserID    uint64    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	JoinedAt  time.Time `json:"joined_at"`
	TaskCount int64     `json:"task_count"`
}

// ProjectRepository defines the interface for project, membership and group data access
type ProjectRepository interface {
	// CreateWithDefaults creates a project, the manager's membership and a
	// default group within a single transaction.
	CreateWithDefaults(ctx context.Context, project *models.Project, member *models.ProjectMember, group *models.TaskGroup) error

	// FindByID finds a project by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Project, error)

	// ListVisible lists projects the user manages or belongs to
	ListVisible(ctx context.Context, userID uint64, filter ProjectFilter) ([]models.Project, error)

	// Update writes the given project columns
	Update(ctx context.Context, id uint64, fields map[string]interface{}) error

	// Delete removes a project and everything it owns, returning the IDs of
	// the deleted tasks.
	Delete(ctx context.Context, id uint64) ([]uint64, error)

	// IsMember reports whether the user has a membership row in the project
	IsMember(ctx context.Context, projectID, userID uint64) (bool, error)

	// AddMember adds a member to a project
	AddMember(ctx context.Context, member *models.ProjectMember) error

	// RemoveMember removes a member from a project
	RemoveMember(ctx context.Context, projectID, userID uint64) error

	// ListMembersWithTaskCount lists members with their active task counts
	ListMembersWithTaskCount(ctx context.Context, projectID uint64) ([]MemberTaskCount, error)

	// CountActiveTasksForMember counts non-archived tasks the user performs in the project
	CountActiveTasksForMember(ctx context.Context, projectID, userID uint64) (int64, error)
}

// GroupRepository defines the interface for task group data access
type GroupRepository interface {
	Create(ctx context.Context, group *models.TaskGroup) error
	FindByID(ctx context.Context, id uint64) (*models.TaskGroup, error)
	ListByProject(ctx context.Context, projectID uint64) ([]models.TaskGroup, error)
	Rename(ctx context.Context, id uint64, name string) error

	// CountActiveTasks counts non-archived tasks in the group
	CountActiveTasks(ctx context.Context, id uint64) (int64, error)

	// Delete detaches archived tasks from the group and removes it
	Delete(ctx context.Context, id uint64) error
}

// TaskFilter holds filtering options for searching tasks. VisibleTo is
// required: only tasks in projects the user can view, and personal tasks
// the user performs, are returned.
type TaskFilter struct {
	VisibleTo   uint64
	ProjectID   *uint64
	GroupID     *uint64
	PerformerID *uint64
	Completed   *bool
	Archived    bool
	Keyword     string
	Label       string
	DueFrom     *time.Time
	DueTo       *time.Time
	Page        int
	PageSize    int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// Search retrieves tasks with filtering and pagination
	Search(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// ListByProject lists a project's tasks, either active or archived
	ListByProject(ctx context.Context, projectID uint64, archived bool) ([]models.Task, error)

	// Update writes the given task columns
	Update(ctx context.Context, id uint64, fields map[string]interface{}) error

	// SetState writes the completion flag and timestamp in one statement
	SetState(ctx context.Context, id uint64, completed bool, completeDate *time.Time) error

	// SetArchived writes the archive flag
	SetArchived(ctx context.Context, id uint64, archived bool) error

	// SetGroup moves the task to another group
	SetGroup(ctx context.Context, id, groupID uint64) error

	// Delete removes a task with its comments and file records
	Delete(ctx context.Context, id uint64) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error

	// ListByTask returns comments oldest first
	ListByTask(ctx context.Context, taskID uint64) ([]models.Comment, error)
}

// FileRepository defines the interface for attachment metadata access
type FileRepository interface {
	Create(ctx context.Context, file *models.TaskFile) error
	FindByID(ctx context.Context, id uint64) (*models.TaskFile, error)
	FindByTaskAndStoredName(ctx context.Context, taskID uint64, storedName string) (*models.TaskFile, error)
	ListByTask(ctx context.Context, taskID uint64) ([]models.TaskFile, error)
	Delete(ctx context.Context, id uint64) error
}

// ProjectStats summarizes the projects a user manages
type ProjectStats struct {
	TotalProjects    int64 `json:"total_projects"`
	ActiveProjects   int64 `json:"active_projects"`
	ArchivedProjects int64 `json:"archived_projects"`
}

// TaskStats summarizes the tasks a user performs
type TaskStats struct {
	TotalTasks     int64 `json:"total_tasks"`
	OpenTasks      int64 `json:"open_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
}

// ProjectTaskCount is the number of tasks in one managed project
type ProjectTaskCount struct {
	ProjectID   uint64 `json:"project_id"`
	ProjectName string `json:"project_name"`
	TaskCount   int64  `json:"task_count"`
}

// ReportRepository defines the read-only aggregate queries behind the dashboard
type ReportRepository interface {
	ProjectStats(ctx context.Context, userID uint64) (ProjectStats, error)
	TaskStats(ctx context.Context, userID uint64) (TaskStats, error)
	TasksByProject(ctx context.Context, userID uint64) ([]ProjectTaskCount, error)

	// CompletionTimes returns the completion timestamps of the user's tasks, ascending
	CompletionTimes(ctx context.Context, userID uint64) ([]time.Time, error)
}
