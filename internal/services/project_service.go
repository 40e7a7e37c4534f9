package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Thanhfdq/task-app/internal/constants"
	"github.com/Thanhfdq/task-app/internal/models"
	"github.com/Thanhfdq/task-app/internal/policy"
	"github.com/Thanhfdq/task-app/internal/repository"
	"github.com/Thanhfdq/task-app/internal/storage"
)

// ProjectService handles projects and their membership.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	files       *storage.FileStore
	access      access
	now         func() time.Time
}

// NewProjectService creates a new ProjectService. files may be nil, in
// which case attachment directories are left on disk when a project is deleted.
func NewProjectService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, userRepo repository.UserRepository, files *storage.FileStore) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		files:       files,
		access:      access{projects: projectRepo, tasks: taskRepo},
		now:         time.Now,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description string
	Label       string
	StartDate   *time.Time
	EndDate     *time.Time
}

// CreateProject creates a project managed by the actor, together with the
// actor's membership and a default group.
func (s *ProjectService) CreateProject(ctx context.Context, actorID uint64, input CreateProjectInput) (*models.Project, error) {
	if actorID == 0 {
		return nil, ErrNotAuthenticated
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationError("name is required")
	}
	if err := checkDateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
		Label:       strings.TrimSpace(input.Label),
		ManagerID:   actorID,
		StartDate:   normalizeDate(input.StartDate),
		EndDate:     normalizeDate(input.EndDate),
	}
	member := &models.ProjectMember{JoinedAt: s.now()}
	group := &models.TaskGroup{Name: constants.DefaultGroupName}

	if err := s.projectRepo.CreateWithDefaults(ctx, project, member, group); err != nil {
		switch {
		case errors.Is(err, repository.ErrCreateProject):
			return nil, storageError("failed to create project", err)
		case errors.Is(err, repository.ErrCreateProjectMember):
			return nil, storageError("failed to add manager to project", err)
		case errors.Is(err, repository.ErrCreateDefaultGroup):
			return nil, storageError("failed to create default group", err)
		default:
			return nil, storageError("failed to complete project creation", err)
		}
	}

	return s.GetProject(ctx, actorID, project.ID)
}

// ListProjects lists projects visible to the actor. archived filters by the
// archive flag when non-nil.
func (s *ProjectService) ListProjects(ctx context.Context, actorID uint64, archived *bool) ([]models.Project, error) {
	if actorID == 0 {
		return nil, ErrNotAuthenticated
	}
	projects, err := s.projectRepo.ListVisible(ctx, actorID, repository.ProjectFilter{Archived: archived})
	if err != nil {
		return nil, storageError("failed to list projects", err)
	}
	return projects, nil
}

// RecentProjects lists the actor's active projects with the latest start dates.
func (s *ProjectService) RecentProjects(ctx context.Context, actorID uint64) ([]models.Project, error) {
	if actorID == 0 {
		return nil, ErrNotAuthenticated
	}
	active := false
	projects, err := s.projectRepo.ListVisible(ctx, actorID, repository.ProjectFilter{
		Archived:    &active,
		Limit:       constants.RecentProjectsLimit,
		RecentFirst: true,
	})
	if err != nil {
		return nil, storageError("failed to list recent projects", err)
	}
	return projects, nil
}

// GetProject returns a project with its manager, members and groups
func (s *ProjectService) GetProject(ctx context.Context, actorID, projectID uint64) (*models.Project, error) {
	return s.access.viewProject(ctx, actorID, projectID, "Manager", "Members", "Members.User", "Groups")
}

// UpdateProjectInput represents input for updating a project. Nil fields
// are left untouched; the Clear flags null the matching date.
type UpdateProjectInput struct {
	Name              *string
	Description       *string
	Label             *string
	ProjectState      *bool
	StartDate         *time.Time
	ClearStartDate    bool
	EndDate           *time.Time
	ClearEndDate      bool
	CompleteDate      *time.Time
	ClearCompleteDate bool
}

// UpdateProject applies a partial update. Closing a project stamps its
// completion date unless one is given; reopening clears it.
func (s *ProjectService) UpdateProject(ctx context.Context, actorID, projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.access.manageProject(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, validationError("name cannot be empty")
		}
		fields["name"] = name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Label != nil {
		fields["label"] = strings.TrimSpace(*input.Label)
	}

	start := applyDate(project.StartDate, input.StartDate, input.ClearStartDate, fields, "start_date")
	end := applyDate(project.EndDate, input.EndDate, input.ClearEndDate, fields, "end_date")
	if err := checkDateRange(start, end); err != nil {
		return nil, err
	}
	applyDate(project.CompleteDate, input.CompleteDate, input.ClearCompleteDate, fields, "complete_date")

	if input.ProjectState != nil {
		fields["project_state"] = *input.ProjectState
		if *input.ProjectState && !project.ProjectState && input.CompleteDate == nil {
			today := dateOf(s.now())
			fields["complete_date"] = &today
		}
		if !*input.ProjectState && input.CompleteDate == nil {
			fields["complete_date"] = nil
		}
	}

	if len(fields) > 0 {
		if err := s.projectRepo.Update(ctx, projectID, fields); err != nil {
			return nil, storageError("failed to update project", err)
		}
	}

	return s.GetProject(ctx, actorID, projectID)
}

// ArchiveProject sets the archive flag
func (s *ProjectService) ArchiveProject(ctx context.Context, actorID, projectID uint64) (*models.Project, error) {
	return s.setArchived(ctx, actorID, projectID, true)
}

// RestoreProject clears the archive flag
func (s *ProjectService) RestoreProject(ctx context.Context, actorID, projectID uint64) (*models.Project, error) {
	return s.setArchived(ctx, actorID, projectID, false)
}

func (s *ProjectService) setArchived(ctx context.Context, actorID, projectID uint64, archived bool) (*models.Project, error) {
	if _, err := s.access.manageProject(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	if err := s.projectRepo.Update(ctx, projectID, map[string]interface{}{"is_archive": archived}); err != nil {
		return nil, storageError("failed to update project", err)
	}
	return s.GetProject(ctx, actorID, projectID)
}

// DeleteProject removes the project and everything it owns. Attachment
// directories are removed after the rows are gone.
func (s *ProjectService) DeleteProject(ctx context.Context, actorID, projectID uint64) error {
	if _, err := s.access.manageProject(ctx, actorID, projectID); err != nil {
		return err
	}

	taskIDs, err := s.projectRepo.Delete(ctx, projectID)
	if err != nil {
		return storageError("failed to delete project", err)
	}

	if s.files != nil {
		for _, taskID := range taskIDs {
			if err := s.files.RemoveTaskDir(taskID); err != nil {
				log.Printf("Failed to remove attachments of task %d: %v", taskID, err)
			}
		}
	}
	return nil
}

// ListMembers lists the members of a project with their non-archived task counts.
func (s *ProjectService) ListMembers(ctx context.Context, actorID, projectID uint64) ([]repository.MemberTaskCount, error) {
	if _, err := s.access.viewProject(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	members, err := s.projectRepo.ListMembersWithTaskCount(ctx, projectID)
	if err != nil {
		return nil, storageError("failed to list members", err)
	}
	return members, nil
}

// AddMember adds an existing user to the project
func (s *ProjectService) AddMember(ctx context.Context, actorID, projectID, userID uint64) (*models.User, error) {
	project, err := s.access.manageProject(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, ErrUserNotFound, "failed to find user")
	}

	if user.ID == project.ManagerID {
		return nil, ErrAlreadyMember
	}
	isMember, err := s.projectRepo.IsMember(ctx, projectID, userID)
	if err != nil {
		return nil, storageError("failed to check membership", err)
	}
	if isMember {
		return nil, ErrAlreadyMember
	}

	member := &models.ProjectMember{ProjectID: projectID, UserID: userID, JoinedAt: s.now()}
	if err := s.projectRepo.AddMember(ctx, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMember
		}
		return nil, storageError("failed to add member", err)
	}
	return user, nil
}

// RemoveMember removes another member from the project
func (s *ProjectService) RemoveMember(ctx context.Context, actorID, projectID, memberID uint64) error {
	project, err := s.access.manageProject(ctx, actorID, projectID)
	if err != nil {
		return err
	}
	return s.removeMember(ctx, project, memberID)
}

// LeaveProject removes the actor's own membership
func (s *ProjectService) LeaveProject(ctx context.Context, actorID, projectID uint64) error {
	project, err := s.access.viewProject(ctx, actorID, projectID)
	if err != nil {
		return err
	}
	return s.removeMember(ctx, project, actorID)
}

func (s *ProjectService) removeMember(ctx context.Context, project *models.Project, memberID uint64) error {
	if memberID != project.ManagerID {
		isMember, err := s.projectRepo.IsMember(ctx, project.ID, memberID)
		if err != nil {
			return storageError("failed to check membership", err)
		}
		if !isMember {
			return ErrNotMember
		}
	}

	activeTasks, err := s.projectRepo.CountActiveTasksForMember(ctx, project.ID, memberID)
	if err != nil {
		return storageError("failed to count member tasks", err)
	}

	switch policy.CanRemoveMember(*project, memberID, activeTasks) {
	case policy.RemovalTargetIsManager:
		return ErrMemberIsManager
	case policy.RemovalTargetHasTasks:
		return ErrMemberHasTasks
	}

	if err := s.projectRepo.RemoveMember(ctx, project.ID, memberID); err != nil {
		return storageError("failed to remove member", err)
	}
	return nil
}
