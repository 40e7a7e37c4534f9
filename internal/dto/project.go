package dto

import (
	"time"

	"github.com/Thanhfdq/task-app/internal/models"
	"github.com/Thanhfdq/task-app/internal/repository"
	"github.com/Thanhfdq/task-app/internal/utils"
)

// ProjectDTO represents a project in API responses. Dates are YYYY-MM-DD.
type ProjectDTO struct {
	ID           uint64      `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Label        string      `json:"label"`
	ManagerID    uint64      `json:"manager_id"`
	ProjectState bool        `json:"project_state"`
	IsArchive    bool        `json:"is_archive"`
	StartDate    *string     `json:"start_date"`
	EndDate      *string     `json:"end_date"`
	CompleteDate *string     `json:"complete_date"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Manager      *UserDTO    `json:"manager,omitempty"`
	Members      []MemberDTO `json:"members,omitempty"`
	Groups       []GroupDTO  `json:"groups,omitempty"`
}

// ProjectSummaryDTO is the project reference embedded in task responses
type ProjectSummaryDTO struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	ManagerID uint64 `json:"manager_id"`
}

// MemberDTO represents a project member
type MemberDTO struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	JoinedAt  time.Time `json:"joined_at"`
	TaskCount *int64    `json:"task_count,omitempty"`
}

// GroupDTO represents a task group
type GroupDTO struct {
	ID        uint64 `json:"id"`
	ProjectID uint64 `json:"project_id"`
	Name      string `json:"name"`
}

// CreateProjectRequest represents the request body for creating a project
type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Label       string  `json:"label"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

// UpdateProjectRequest lists every field a project update may carry
type UpdateProjectRequest struct {
	Name         Optional[string] `json:"name"`
	Description  Optional[string] `json:"description"`
	Label        Optional[string] `json:"label"`
	ProjectState Optional[bool]   `json:"project_state"`
	StartDate    Optional[string] `json:"start_date"`
	EndDate      Optional[string] `json:"end_date"`
	CompleteDate Optional[string] `json:"complete_date"`
}

// AddMemberRequest represents the request body for adding a member
type AddMemberRequest struct {
	UserID uint64 `json:"user_id" binding:"required"`
}

// GroupRequest represents the request body for creating or renaming a group
type GroupRequest struct {
	Name string `json:"name" binding:"required"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:           project.ID,
		Name:         project.Name,
		Description:  project.Description,
		Label:        project.Label,
		ManagerID:    project.ManagerID,
		ProjectState: project.ProjectState,
		IsArchive:    project.IsArchive,
		StartDate:    utils.FormatDate(project.StartDate),
		EndDate:      utils.FormatDate(project.EndDate),
		CompleteDate: utils.FormatDate(project.CompleteDate),
		CreatedAt:    project.CreatedAt,
		UpdatedAt:    project.UpdatedAt,
	}

	if project.Manager.ID != 0 {
		manager := ToUserDTO(project.Manager)
		dto.Manager = &manager
	}

	if len(project.Members) > 0 {
		dto.Members = make([]MemberDTO, len(project.Members))
		for i, m := range project.Members {
			dto.Members[i] = MemberDTO{
				ID:       m.UserID,
				Username: m.User.Username,
				FullName: m.User.FullName,
				JoinedAt: m.JoinedAt,
			}
		}
	}

	if len(project.Groups) > 0 {
		dto.Groups = ToGroupDTOs(project.Groups)
	}

	return dto
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	out := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		out[i] = ToProjectDTO(p)
	}
	return out
}

// ToMemberDTOs converts member rows, keeping the task counts when withCount is set
func ToMemberDTOs(rows []repository.MemberTaskCount, withCount bool) []MemberDTO {
	out := make([]MemberDTO, len(rows))
	for i, r := range rows {
		out[i] = MemberDTO{
			ID:       r.UserID,
			Username: r.Username,
			FullName: r.FullName,
			JoinedAt: r.JoinedAt,
		}
		if withCount {
			count := r.TaskCount
			out[i].TaskCount = &count
		}
	}
	return out
}

// ToGroupDTO converts a TaskGroup model to GroupDTO
func ToGroupDTO(group models.TaskGroup) GroupDTO {
	return GroupDTO{ID: group.ID, ProjectID: group.ProjectID, Name: group.Name}
}

// ToGroupDTOs converts a slice of groups
func ToGroupDTOs(groups []models.TaskGroup) []GroupDTO {
	out := make([]GroupDTO, len(groups))
	for i, g := range groups {
		out[i] = ToGroupDTO(g)
	}
	return out
}
