package services

import (
	"context"
	"strings"

	"github.com/Thanhfdq/task-app/internal/models"
	"github.com/Thanhfdq/task-app/internal/policy"
	"github.com/Thanhfdq/task-app/internal/repository"
)

// GroupService handles the task groups of a project.
type GroupService struct {
	groupRepo repository.GroupRepository
	access    access
}

// NewGroupService creates a new GroupService
func NewGroupService(groupRepo repository.GroupRepository, projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
		access:    access{projects: projectRepo, tasks: taskRepo},
	}
}

// ListGroups lists a project's groups in creation order
func (s *GroupService) ListGroups(ctx context.Context, actorID, projectID uint64) ([]models.TaskGroup, error) {
	if _, err := s.access.viewProject(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	groups, err := s.groupRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, storageError("failed to list groups", err)
	}
	return groups, nil
}

// CreateGroup adds a group to the project
func (s *GroupService) CreateGroup(ctx context.Context, actorID, projectID uint64, name string) (*models.TaskGroup, error) {
	if _, err := s.access.manageProject(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("name is required")
	}

	group := &models.TaskGroup{ProjectID: projectID, Name: name}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, storageError("failed to create group", err)
	}
	return group, nil
}

// RenameGroup changes a group's name
func (s *GroupService) RenameGroup(ctx context.Context, actorID, projectID, groupID uint64, name string) (*models.TaskGroup, error) {
	if _, err := s.access.manageProject(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	group, err := s.findInProject(ctx, projectID, groupID)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("name is required")
	}

	if err := s.groupRepo.Rename(ctx, groupID, name); err != nil {
		return nil, storageError("failed to rename group", err)
	}
	group.Name = name
	return group, nil
}

// DeleteGroup removes a group that holds no active tasks. Archived tasks
// left in the group lose their group reference.
func (s *GroupService) DeleteGroup(ctx context.Context, actorID, projectID, groupID uint64) error {
	if _, err := s.access.manageProject(ctx, actorID, projectID); err != nil {
		return err
	}
	if _, err := s.findInProject(ctx, projectID, groupID); err != nil {
		return err
	}

	activeTasks, err := s.groupRepo.CountActiveTasks(ctx, groupID)
	if err != nil {
		return storageError("failed to count group tasks", err)
	}
	if !policy.CanDeleteGroup(activeTasks) {
		return ErrGroupHasTasks
	}

	if err := s.groupRepo.Delete(ctx, groupID); err != nil {
		return storageError("failed to delete group", err)
	}
	return nil
}

func (s *GroupService) findInProject(ctx context.Context, projectID, groupID uint64) (*models.TaskGroup, error) {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return nil, lookupError(err, ErrGroupNotFound, "failed to find group")
	}
	if group.ProjectID != projectID {
		return nil, ErrGroupNotFound
	}
	return group, nil
}
