package constants

// Session and context keys
const (
	SessionCookieName = "task_session"
	ContextKeyUserID  = "user_id"
	ContextKeyProject = "project"
	ContextKeyTask    = "task"
)

// Authentication
const (
	MinPasswordLength = 6
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Projects and tasks
const (
	DefaultGroupName      = "To do"
	RecentProjectsLimit   = 5
	UserSearchLimit       = 10
	NearDueDays           = 7
	MaxProgress           = 100
	MaxAIGeneratedTasks   = 20
	DateLayout            = "2006-01-02"
	DefaultMaxUploadBytes = 10 << 20
)
