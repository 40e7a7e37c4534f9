// Package policy holds the authorization predicates for projects, groups,
// tasks and comments. The predicates are pure; callers load the facts they
// need (membership, task counts) and evaluate them on every request.
package policy

import "github.com/Thanhfdq/task-app/internal/models"

// CanViewProject reports whether the actor is the project's manager or a member.
func CanViewProject(actorID uint64, project models.Project, isMember bool) bool {
	return actorID != 0 && (project.ManagerID == actorID || isMember)
}

// CanManageProject reports whether the actor may change the project, its
// membership or its groups.
func CanManageProject(actorID uint64, project models.Project) bool {
	return actorID != 0 && project.ManagerID == actorID
}

// MemberRemoval is the outcome of a removal check.
type MemberRemoval int

const (
	RemovalAllowed MemberRemoval = iota
	RemovalTargetIsManager
	RemovalTargetHasTasks
)

// CanRemoveMember decides whether target can leave or be removed from the
// project. activeTasks is the number of non-archived tasks the target
// performs in that project.
func CanRemoveMember(project models.Project, targetID uint64, activeTasks int64) MemberRemoval {
	if targetID == project.ManagerID {
		return RemovalTargetIsManager
	}
	if activeTasks > 0 {
		return RemovalTargetHasTasks
	}
	return RemovalAllowed
}

// CanDeleteGroup reports whether a group holding activeTasks non-archived
// tasks may be deleted.
func CanDeleteGroup(activeTasks int64) bool {
	return activeTasks == 0
}

// TaskAccess carries the facts needed to authorize an action on a task.
// Project is nil for personal tasks.
type TaskAccess struct {
	Task     models.Task
	Project  *models.Project
	IsMember bool
}

// CanViewTask allows project managers and members on project tasks, and
// only the performer on personal tasks.
func CanViewTask(actorID uint64, a TaskAccess) bool {
	if actorID == 0 {
		return false
	}
	if a.Project == nil {
		return a.Task.PerformerID == actorID
	}
	return CanViewProject(actorID, *a.Project, a.IsMember)
}

// CanModifyTask applies to updates and state transitions.
func CanModifyTask(actorID uint64, a TaskAccess) bool {
	return CanViewTask(actorID, a)
}

// CanDeleteTask restricts deletion of project tasks to the manager and the performer.
func CanDeleteTask(actorID uint64, a TaskAccess) bool {
	if !CanViewTask(actorID, a) {
		return false
	}
	if a.Project == nil {
		return true
	}
	return a.Project.ManagerID == actorID || a.Task.PerformerID == actorID
}

// CanViewComments limits the discussion to the performer and the project manager.
func CanViewComments(actorID uint64, a TaskAccess) bool {
	if !CanViewTask(actorID, a) {
		return false
	}
	if a.Task.PerformerID == actorID {
		return true
	}
	return a.Project != nil && a.Project.ManagerID == actorID
}
