package services

import (
	"context"
	"errors"
	"fmt"
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

// maxParentDepth bounds the ancestor walk of the cycle check.
const maxParentDepth = 100

var (
	ErrParentTaskNotFound = newError(ErrNotFound, "parent task not found")
	ErrParentTaskProject  = newError(ErrValidation, "parent task must belong to the same project")
	ErrParentTaskCycle    = newError(ErrValidation, "a task cannot be its own ancestor")
	ErrInvalidPerformer   = newError(ErrValidation, "performer must be a member of the project")
	ErrPersonalTaskGroup  = newError(ErrValidation, "personal tasks cannot belong to a group")
	ErrInvalidTaskState   = newError(ErrValidation, "state must be open or completed")
)

// taskPreloads are the relations returned with every task.
var taskPreloads = []string{"Project", "Group", "Performer"}

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	groupRepo   repository.GroupRepository
	files       *storage.FileStore
	generator   TaskGenerator
	access      access
	now         func() time.Time
}

// NewTaskService creates a new TaskService. files and generator may be nil.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, groupRepo repository.GroupRepository, files *storage.FileStore, generator TaskGenerator) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		groupRepo:   groupRepo,
		files:       files,
		generator:   generator,
		access:      access{projects: projectRepo, tasks: taskRepo},
		now:         time.Now,
	}
}

// SearchTasksInput represents filters for searching tasks
type SearchTasksInput struct {
	ActorID      uint64
	ProjectID    *uint64
	GroupID      *uint64
	PerformerID  *uint64
	AssignedToMe bool
	State        string
	Archived     bool
	Keyword      string
	Label        string
	DueFrom      *time.Time
	DueTo        *time.Time
	Page         int
	PageSize     int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name         string
	Description  string
	Label        string
	StartDate    *time.Time
	EndDate      *time.Time
	Progress     int
	ProjectID    *uint64
	GroupID      *uint64
	PerformerID  *uint64
	ParentTaskID *uint64
}

// UpdateTaskInput represents input for updating a task. Nil fields are
// left untouched; the Clear flags null the matching column.
type UpdateTaskInput struct {
	Name            *string
	Description     *string
	Label           *string
	StartDate       *time.Time
	ClearStartDate  bool
	EndDate         *time.Time
	ClearEndDate    bool
	Progress        *int
	PerformerID     *uint64
	ParentTaskID    *uint64
	ClearParentTask bool
}

// SearchTasks returns the tasks visible to the actor that match the filters
func (s *TaskService) SearchTasks(ctx context.Context, input SearchTasksInput) ([]models.Task, int64, error) {
	if input.ActorID == 0 {
		return nil, 0, ErrNotAuthenticated
	}
	if input.ProjectID != nil {
		if _, err := s.access.viewProject(ctx, input.ActorID, *input.ProjectID); err != nil {
			return nil, 0, err
		}
	}

	filter := repository.TaskFilter{
		VisibleTo:   input.ActorID,
		ProjectID:   input.ProjectID,
		GroupID:     input.GroupID,
		PerformerID: input.PerformerID,
		Archived:    input.Archived,
		Keyword:     input.Keyword,
		Label:       input.Label,
		DueFrom:     normalizeDate(input.DueFrom),
		DueTo:       normalizeDate(input.DueTo),
		Page:        input.Page,
		PageSize:    input.PageSize,
	}
	if input.AssignedToMe {
		filter.PerformerID = &input.ActorID
	}

	switch strings.ToLower(strings.TrimSpace(input.State)) {
	case "":
	case "open":
		open := false
		filter.Completed = &open
	case "completed", "done":
		completed := true
		filter.Completed = &completed
	default:
		return nil, 0, ErrInvalidTaskState
	}

	tasks, total, err := s.taskRepo.Search(ctx, filter)
	if err != nil {
		return nil, 0, storageError("failed to search tasks", err)
	}
	return tasks, total, nil
}

// ListProjectTasks returns a project's active tasks for the board
func (s *TaskService) ListProjectTasks(ctx context.Context, actorID, projectID uint64) ([]models.Task, error) {
	return s.listProjectTasks(ctx, actorID, projectID, false)
}

// ListArchivedProjectTasks returns a project's archived tasks
func (s *TaskService) ListArchivedProjectTasks(ctx context.Context, actorID, projectID uint64) ([]models.Task, error) {
	return s.listProjectTasks(ctx, actorID, projectID, true)
}

func (s *TaskService) listProjectTasks(ctx context.Context, actorID, projectID uint64, archived bool) ([]models.Task, error) {
	if _, err := s.access.viewProject(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.ListByProject(ctx, projectID, archived)
	if err != nil {
		return nil, storageError("failed to list tasks", err)
	}
	return tasks, nil
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(ctx context.Context, actorID, taskID uint64) (*models.Task, error) {
	acc, err := s.access.viewTask(ctx, actorID, taskID, taskPreloads...)
	if err != nil {
		return nil, err
	}
	return &acc.Task, nil
}

// CreateTask creates a personal task, or a project task when ProjectID is set
func (s *TaskService) CreateTask(ctx context.Context, actorID uint64, input CreateTaskInput) (*models.Task, error) {
	if actorID == 0 {
		return nil, ErrNotAuthenticated
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationError("name is required")
	}
	if err := checkProgress(input.Progress); err != nil {
		return nil, err
	}
	start, end := normalizeDate(input.StartDate), normalizeDate(input.EndDate)
	if err := checkDateRange(start, end); err != nil {
		return nil, err
	}

	task := &models.Task{
		Name:        name,
		Description: input.Description,
		Label:       normalizeLabels(input.Label),
		StartDate:   start,
		EndDate:     end,
		Progress:    input.Progress,
		PerformerID: actorID,
	}

	if input.ProjectID == nil {
		if input.GroupID != nil {
			return nil, ErrPersonalTaskGroup
		}
	} else {
		project, err := s.access.viewProject(ctx, actorID, *input.ProjectID)
		if err != nil {
			return nil, err
		}
		task.ProjectID = &project.ID

		groupID, err := s.resolveGroup(ctx, project.ID, input.GroupID)
		if err != nil {
			return nil, err
		}
		task.GroupID = groupID

		if input.PerformerID != nil {
			if err := s.ensurePerformer(ctx, project, *input.PerformerID); err != nil {
				return nil, err
			}
			task.PerformerID = *input.PerformerID
		}
	}

	if input.ParentTaskID != nil {
		if err := s.checkParent(ctx, actorID, 0, task.ProjectID, *input.ParentTaskID); err != nil {
			return nil, err
		}
		task.ParentTaskID = input.ParentTaskID
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, storageError("failed to create task", err)
	}

	return s.reload(ctx, task.ID)
}

// UpdateTask applies a partial update. Completion, archive and group are
// changed only through their dedicated transitions.
func (s *TaskService) UpdateTask(ctx context.Context, actorID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	acc, err := s.access.modifyTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}
	task := acc.Task

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
		fields["label"] = normalizeLabels(*input.Label)
	}
	if input.Progress != nil {
		if err := checkProgress(*input.Progress); err != nil {
			return nil, err
		}
		fields["progress"] = *input.Progress
	}

	start := applyDate(task.StartDate, input.StartDate, input.ClearStartDate, fields, "start_date")
	end := applyDate(task.EndDate, input.EndDate, input.ClearEndDate, fields, "end_date")
	if err := checkDateRange(start, end); err != nil {
		return nil, err
	}

	if input.PerformerID != nil && *input.PerformerID != task.PerformerID {
		if acc.Project == nil {
			return nil, validationError("personal tasks are always performed by their owner")
		}
		if err := s.ensurePerformer(ctx, acc.Project, *input.PerformerID); err != nil {
			return nil, err
		}
		fields["performer_id"] = *input.PerformerID
	}

	switch {
	case input.ClearParentTask:
		fields["parent_task_id"] = nil
	case input.ParentTaskID != nil:
		if err := s.checkParent(ctx, actorID, task.ID, task.ProjectID, *input.ParentTaskID); err != nil {
			return nil, err
		}
		fields["parent_task_id"] = *input.ParentTaskID
	}

	if len(fields) > 0 {
		if err := s.taskRepo.Update(ctx, taskID, fields); err != nil {
			return nil, storageError("failed to update task", err)
		}
	}

	return s.reload(ctx, taskID)
}

// ToggleState flips the completion flag. The completion timestamp is set
// to now when the task becomes completed and cleared otherwise, in the
// same statement.
func (s *TaskService) ToggleState(ctx context.Context, actorID, taskID uint64) (*models.Task, error) {
	acc, err := s.access.modifyTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	completed := !acc.Task.TaskState
	var completeDate *time.Time
	if completed {
		now := s.now()
		completeDate = &now
	}

	if err := s.taskRepo.SetState(ctx, taskID, completed, completeDate); err != nil {
		return nil, storageError("failed to toggle task state", err)
	}
	return s.reload(ctx, taskID)
}

// ArchiveTask hides the task from active views
func (s *TaskService) ArchiveTask(ctx context.Context, actorID, taskID uint64) (*models.Task, error) {
	return s.setArchived(ctx, actorID, taskID, true)
}

// RestoreTask returns an archived task to active views
func (s *TaskService) RestoreTask(ctx context.Context, actorID, taskID uint64) (*models.Task, error) {
	return s.setArchived(ctx, actorID, taskID, false)
}

func (s *TaskService) setArchived(ctx context.Context, actorID, taskID uint64, archived bool) (*models.Task, error) {
	if _, err := s.access.modifyTask(ctx, actorID, taskID); err != nil {
		return nil, err
	}
	if err := s.taskRepo.SetArchived(ctx, taskID, archived); err != nil {
		return nil, storageError("failed to update task", err)
	}
	return s.reload(ctx, taskID)
}

// MoveTask moves a project task to another group of the same project.
// Moving to the current group writes nothing.
func (s *TaskService) MoveTask(ctx context.Context, actorID, taskID, groupID uint64) (*models.Task, error) {
	acc, err := s.access.modifyTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}
	if acc.Task.IsPersonal() {
		return nil, ErrPersonalTaskMove
	}

	if acc.Task.GroupID != nil && *acc.Task.GroupID == groupID {
		return s.reload(ctx, taskID)
	}

	if _, err := s.resolveGroup(ctx, acc.Project.ID, &groupID); err != nil {
		return nil, err
	}
	if err := s.taskRepo.SetGroup(ctx, taskID, groupID); err != nil {
		return nil, storageError("failed to move task", err)
	}
	return s.reload(ctx, taskID)
}

// DeleteTask removes a task with its comments and attachments
func (s *TaskService) DeleteTask(ctx context.Context, actorID, taskID uint64) error {
	acc, err := s.access.viewTask(ctx, actorID, taskID)
	if err != nil {
		return err
	}
	if !policy.CanDeleteTask(actorID, acc) {
		return ErrTaskPermission
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return storageError("failed to delete task", err)
	}

	if s.files != nil {
		if err := s.files.RemoveTaskDir(taskID); err != nil {
			log.Printf("Failed to remove attachments of task %d: %v", taskID, err)
		}
	}
	return nil
}

// GenerateTasksInput represents input for AI task generation
type GenerateTasksInput struct {
	Text      string
	ProjectID *uint64
	ActorID   uint64
}

// GenerateTasks uses AI to suggest tasks from text. Suggestions are not saved.
func (s *TaskService) GenerateTasks(ctx context.Context, input GenerateTasksInput) ([]GeneratedTask, error) {
	if input.ActorID == 0 {
		return nil, ErrNotAuthenticated
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, validationError("text is required")
	}
	if input.ProjectID != nil {
		if _, err := s.access.viewProject(ctx, input.ActorID, *input.ProjectID); err != nil {
			return nil, err
		}
	}
	if s.generator == nil {
		return nil, ErrAIServiceNotEnabled
	}

	aiTasks, err := s.generator.GenerateTasksFromText(ctx, input.Text)
	if err != nil {
		return nil, storageError("failed to generate tasks", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		return nil, validationError(fmt.Sprintf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks))
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	today := dateOf(s.now())
	for _, aiTask := range aiTasks {
		aiTask.Name = strings.TrimSpace(aiTask.Name)
		if aiTask.Name == "" {
			continue
		}

		if aiTask.EndDate != nil && dateOf(*aiTask.EndDate).Before(today) {
			aiTask.EndDate = nil
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

func (s *TaskService) reload(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, taskPreloads...)
	if err != nil {
		return nil, lookupError(err, ErrTaskNotFound, "failed to find task")
	}
	return task, nil
}

// resolveGroup checks that groupID belongs to projectID. When groupID is
// nil the project's first group is used, if it has one.
func (s *TaskService) resolveGroup(ctx context.Context, projectID uint64, groupID *uint64) (*uint64, error) {
	if groupID == nil {
		groups, err := s.groupRepo.ListByProject(ctx, projectID)
		if err != nil {
			return nil, storageError("failed to list groups", err)
		}
		if len(groups) == 0 {
			return nil, nil
		}
		return &groups[0].ID, nil
	}

	group, err := s.groupRepo.FindByID(ctx, *groupID)
	if err != nil {
		return nil, lookupError(err, ErrGroupNotFound, "failed to find group")
	}
	if group.ProjectID != projectID {
		return nil, ErrGroupNotFound
	}
	return &group.ID, nil
}

// ensurePerformer requires the performer to be the manager or a member
func (s *TaskService) ensurePerformer(ctx context.Context, project *models.Project, performerID uint64) error {
	if performerID == project.ManagerID {
		return nil
	}
	isMember, err := s.projectRepo.IsMember(ctx, project.ID, performerID)
	if err != nil {
		return storageError("failed to check membership", err)
	}
	if !isMember {
		return ErrInvalidPerformer
	}
	return nil
}

// checkParent validates parentID as the parent of taskID (0 for a new
// task): visible to the actor, in the same project, and not a descendant.
func (s *TaskService) checkParent(ctx context.Context, actorID, taskID uint64, projectID *uint64, parentID uint64) error {
	if parentID == taskID {
		return ErrParentTaskCycle
	}

	acc, err := s.access.viewTask(ctx, actorID, parentID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return ErrParentTaskNotFound
		}
		return err
	}
	if !sameProject(acc.Task.ProjectID, projectID) {
		return ErrParentTaskProject
	}
	if taskID == 0 {
		return nil
	}

	next := acc.Task.ParentTaskID
	for depth := 0; next != nil && depth < maxParentDepth; depth++ {
		if *next == taskID {
			return ErrParentTaskCycle
		}
		ancestor, err := s.taskRepo.FindByID(ctx, *next)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return storageError("failed to find parent task", err)
		}
		next = ancestor.ParentTaskID
	}
	return nil
}

func sameProject(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func checkProgress(progress int) error {
	if progress < 0 || progress > constants.MaxProgress {
		return ErrProgressRange
	}
	return nil
}

// normalizeLabels trims each comma-separated tag and drops empty ones.
func normalizeLabels(raw string) string {
	return strings.Join(models.Task{Label: raw}.Labels(), ",")
}
