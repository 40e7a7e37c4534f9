package dto

import (
	"time"

	"github.com/Thanhfdq/task-app/internal/duedate"
	"github.com/Thanhfdq/task-app/internal/models"
	"github.com/Thanhfdq/task-app/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID           uint64             `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Label        string             `json:"label"`
	Labels       []string           `json:"labels"`
	StartDate    *string            `json:"start_date"`
	EndDate      *string            `json:"end_date"`
	CompleteDate *time.Time         `json:"complete_date"`
	Progress     int                `json:"progress"`
	TaskState    bool               `json:"task_state"`
	IsArchive    bool               `json:"is_archive"`
	ProjectID    *uint64            `json:"project_id"`
	GroupID      *uint64            `json:"group_id"`
	PerformerID  uint64             `json:"performer_id"`
	ParentTaskID *uint64            `json:"parent_task_id"`
	DueStatus    duedate.Status     `json:"due_status"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	Project      *ProjectSummaryDTO `json:"project,omitempty"`
	Group        *GroupDTO          `json:"group,omitempty"`
	Performer    *UserDTO           `json:"performer,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// CreateTaskRequest represents the request body for creating a task
type CreateTaskRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Label        string  `json:"label"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
	Progress     int     `json:"progress"`
	ProjectID    *uint64 `json:"project_id"`
	GroupID      *uint64 `json:"group_id"`
	PerformerID  *uint64 `json:"performer_id"`
	ParentTaskID *uint64 `json:"parent_task_id"`
}

// UpdateTaskRequest lists every field a task update may carry. Completion,
// archive and group have their own endpoints.
type UpdateTaskRequest struct {
	Name         Optional[string] `json:"name"`
	Description  Optional[string] `json:"description"`
	Label        Optional[string] `json:"label"`
	StartDate    Optional[string] `json:"start_date"`
	EndDate      Optional[string] `json:"end_date"`
	Progress     Optional[int]    `json:"progress"`
	PerformerID  Optional[uint64] `json:"performer_id"`
	ParentTaskID Optional[uint64] `json:"parent_task_id"`
}

// MoveTaskRequest represents the request body for moving a task
type MoveTaskRequest struct {
	GroupID uint64 `json:"group_id" binding:"required"`
}

// GenerateTasksRequest represents the request body for AI task generation
type GenerateTasksRequest struct {
	Text      string  `json:"text" binding:"required"`
	ProjectID *uint64 `json:"project_id"`
}

// GeneratedTaskDTO is an unsaved task suggestion
type GeneratedTaskDTO struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	EndDate     *string `json:"end_date"`
}

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID        uint64    `json:"id"`
	TaskID    uint64    `json:"task_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	User      UserDTO   `json:"user"`
}

// CommentRequest represents the request body for adding a comment
type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// FileDTO represents an attachment in API responses
type FileDTO struct {
	ID           uint64    `json:"id"`
	TaskID       uint64    `json:"task_id"`
	OriginalName string    `json:"original_name"`
	StoredName   string    `json:"stored_name"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mime_type"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// ToTaskDTO converts a Task model to TaskDTO, classifying its due date against today
func ToTaskDTO(task models.Task, today time.Time) TaskDTO {
	dto := TaskDTO{
		ID:           task.ID,
		Name:         task.Name,
		Description:  task.Description,
		Label:        task.Label,
		Labels:       task.Labels(),
		StartDate:    utils.FormatDate(task.StartDate),
		EndDate:      utils.FormatDate(task.EndDate),
		CompleteDate: task.CompleteDate,
		Progress:     task.Progress,
		TaskState:    task.TaskState,
		IsArchive:    task.IsArchive,
		ProjectID:    task.ProjectID,
		GroupID:      task.GroupID,
		PerformerID:  task.PerformerID,
		ParentTaskID: task.ParentTaskID,
		DueStatus:    duedate.Classify(task.TaskState, task.EndDate, today),
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}

	// Include relations if preloaded
	if task.Project != nil {
		dto.Project = &ProjectSummaryDTO{
			ID:        task.Project.ID,
			Name:      task.Project.Name,
			ManagerID: task.Project.ManagerID,
		}
	}
	if task.Group != nil {
		group := ToGroupDTO(*task.Group)
		dto.Group = &group
	}
	if task.Performer.ID != 0 {
		performer := ToUserDTO(task.Performer)
		dto.Performer = &performer
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task, today time.Time) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskDTO(t, today)
	}
	return out
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, today time.Time, params utils.PaginationParams, total int64) TaskListResponse {
	return TaskListResponse{
		Tasks:      ToTaskDTOs(tasks, today),
		Pagination: utils.NewPaginationResponse(params, total),
	}
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		User:      ToUserDTO(comment.User),
	}
}

// ToCommentDTOs converts a slice of comments
func ToCommentDTOs(comments []models.Comment) []CommentDTO {
	out := make([]CommentDTO, len(comments))
	for i, c := range comments {
		out[i] = ToCommentDTO(c)
	}
	return out
}

// ToFileDTO converts a TaskFile model to FileDTO
func ToFileDTO(file models.TaskFile) FileDTO {
	return FileDTO{
		ID:           file.ID,
		TaskID:       file.TaskID,
		OriginalName: file.OriginalName,
		StoredName:   file.StoredName,
		Size:         file.Size,
		MimeType:     file.MimeType,
		UploadedAt:   file.UploadedAt,
	}
}

// ToFileDTOs converts a slice of attachments
func ToFileDTOs(files []models.TaskFile) []FileDTO {
	out := make([]FileDTO, len(files))
	for i, f := range files {
		out[i] = ToFileDTO(f)
	}
	return out
}
