package services

import (
	"context"

	"github.com/Thanhfdq/task-app/internal/models"
	"github.com/Thanhfdq/task-app/internal/policy"
	"github.com/Thanhfdq/task-app/internal/repository"
)

// access loads the facts the policy predicates need. Every call hits the
// store; nothing is cached between requests.
type access struct {
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
}

// viewProject returns the project when the actor can see it. Projects the
// actor cannot see are reported as missing.
func (a access) viewProject(ctx context.Context, actorID, projectID uint64, preload ...string) (*models.Project, error) {
	if actorID == 0 {
		return nil, ErrNotAuthenticated
	}

	project, err := a.projects.FindByID(ctx, projectID, preload...)
	if err != nil {
		return nil, lookupError(err, ErrProjectNotFound, "failed to find project")
	}

	isMember := false
	if project.ManagerID != actorID {
		isMember, err = a.projects.IsMember(ctx, projectID, actorID)
		if err != nil {
			return nil, storageError("failed to check membership", err)
		}
	}

	if !policy.CanViewProject(actorID, *project, isMember) {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

// manageProject returns the project when the actor is its manager.
func (a access) manageProject(ctx context.Context, actorID, projectID uint64, preload ...string) (*models.Project, error) {
	project, err := a.viewProject(ctx, actorID, projectID, preload...)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageProject(actorID, *project) {
		return nil, ErrNotProjectManager
	}
	return project, nil
}

// viewTask loads a task with its project and membership facts, failing
// with ErrTaskNotFound when the actor cannot see it.
func (a access) viewTask(ctx context.Context, actorID, taskID uint64, preload ...string) (policy.TaskAccess, error) {
	if actorID == 0 {
		return policy.TaskAccess{}, ErrNotAuthenticated
	}

	task, err := a.tasks.FindByID(ctx, taskID, preload...)
	if err != nil {
		return policy.TaskAccess{}, lookupError(err, ErrTaskNotFound, "failed to find task")
	}

	acc := policy.TaskAccess{Task: *task}
	if !task.IsPersonal() {
		project, err := a.projects.FindByID(ctx, *task.ProjectID)
		if err != nil {
			return policy.TaskAccess{}, lookupError(err, ErrTaskNotFound, "failed to find project")
		}
		acc.Project = project
		if project.ManagerID != actorID {
			acc.IsMember, err = a.projects.IsMember(ctx, project.ID, actorID)
			if err != nil {
				return policy.TaskAccess{}, storageError("failed to check membership", err)
			}
		}
	}

	if !policy.CanViewTask(actorID, acc) {
		return policy.TaskAccess{}, ErrTaskNotFound
	}
	return acc, nil
}

// modifyTask is viewTask plus the modify predicate.
func (a access) modifyTask(ctx context.Context, actorID, taskID uint64, preload ...string) (policy.TaskAccess, error) {
	acc, err := a.viewTask(ctx, actorID, taskID, preload...)
	if err != nil {
		return acc, err
	}
	if !policy.CanModifyTask(actorID, acc) {
		return acc, ErrTaskPermission
	}
	return acc, nil
}
