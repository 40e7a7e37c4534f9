package handlers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Thanhfdq/task-app/internal/dto"
	apierrors "github.com/Thanhfdq/task-app/internal/errors"
	"github.com/Thanhfdq/task-app/internal/models"
	"github.com/Thanhfdq/task-app/internal/services"
	"github.com/Thanhfdq/task-app/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
	now         func() time.Time
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		now:         time.Now,
	}
}

// ListTasks returns the tasks visible to the current user.
// Supports project_id, group_id, performer_id, assigned_to_me, state,
// archived, keyword, label, due_from, due_to, page and limit.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.SearchTasksInput{
		ActorID:  userID,
		State:    c.Query("state"),
		Keyword:  c.Query("keyword"),
		Label:    c.Query("label"),
		Page:     params.Page,
		PageSize: params.Limit,
	}

	var err error
	if input.ProjectID, err = queryID(c, "project_id"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if input.GroupID, err = queryID(c, "group_id"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if input.PerformerID, err = queryID(c, "performer_id"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if input.AssignedToMe, err = queryBool(c, "assigned_to_me"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if input.Archived, err = queryBool(c, "archived"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if input.DueFrom, err = queryDate(c, "due_from"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if input.DueTo, err = queryDate(c, "due_to"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	tasks, total, err := h.taskService.SearchTasks(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, "search tasks", err)
		return
	}
	respondOK(c, "Tasks retrieved", dto.ToTaskListResponse(tasks, h.now(), params, total))
}

// ListProjectTasks returns the active tasks of a project for its board.
func (h *TaskHandler) ListProjectTasks(c *gin.Context) {
	h.listProjectTasks(c, false)
}

// ListArchivedProjectTasks returns the archived tasks of a project.
func (h *TaskHandler) ListArchivedProjectTasks(c *gin.Context) {
	h.listProjectTasks(c, true)
}

func (h *TaskHandler) listProjectTasks(c *gin.Context, archived bool) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	list := h.taskService.ListProjectTasks
	if archived {
		list = h.taskService.ListArchivedProjectTasks
	}
	tasks, err := list(c.Request.Context(), userID, projectID)
	if err != nil {
		respondServiceError(c, "list project tasks", err)
		return
	}
	respondOK(c, "Tasks retrieved", dto.ToTaskDTOs(tasks, h.now()))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), userID, taskID)
	if err != nil {
		respondServiceError(c, "get task", err)
		return
	}
	respondOK(c, "Task retrieved", dto.ToTaskDTO(*task, h.now()))
}

// CreateTask creates a new task. Without project_id the task is personal.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	startDate, _, err := dto.ParseDatePtr("start_date", req.StartDate)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	endDate, _, err := dto.ParseDatePtr("end_date", req.EndDate)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), userID, services.CreateTaskInput{
		Name:         req.Name,
		Description:  req.Description,
		Label:        req.Label,
		StartDate:    startDate,
		EndDate:      endDate,
		Progress:     req.Progress,
		ProjectID:    req.ProjectID,
		GroupID:      req.GroupID,
		PerformerID:  req.PerformerID,
		ParentTaskID: req.ParentTaskID,
	})
	if err != nil {
		respondServiceError(c, "create task", err)
		return
	}
	respondCreated(c, "Task created", dto.ToTaskDTO(*task, h.now()))
}

// UpdateTask applies the fields present in the body. Unknown fields,
// including task_state, is_archive and group_id, are rejected.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if !bindStrictJSON(c, &req) {
		return
	}
	input, err := updateTaskInput(req)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), userID, taskID, input)
	if err != nil {
		respondServiceError(c, "update task", err)
		return
	}
	respondOK(c, "Task updated", dto.ToTaskDTO(*task, h.now()))
}

func updateTaskInput(req dto.UpdateTaskRequest) (services.UpdateTaskInput, error) {
	var input services.UpdateTaskInput
	var err error

	if input.Name, err = requiredField("name", req.Name); err != nil {
		return input, err
	}
	if input.Progress, err = requiredField("progress", req.Progress); err != nil {
		return input, err
	}
	if input.PerformerID, err = requiredField("performer_id", req.PerformerID); err != nil {
		return input, err
	}
	input.Description = stringField(req.Description)
	input.Label = stringField(req.Label)

	if input.StartDate, input.ClearStartDate, err = dto.ParseOptionalDate("start_date", req.StartDate); err != nil {
		return input, err
	}
	if input.EndDate, input.ClearEndDate, err = dto.ParseOptionalDate("end_date", req.EndDate); err != nil {
		return input, err
	}

	input.ParentTaskID = req.ParentTaskID.Ptr()
	input.ClearParentTask = req.ParentTaskID.Set && req.ParentTaskID.Null
	return input, nil
}

// DeleteTask removes a task with its comments and attachments.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), userID, taskID); err != nil {
		respondServiceError(c, "delete task", err)
		return
	}
	respondOK(c, "Task deleted", nil)
}

// ToggleState flips the completion flag.
func (h *TaskHandler) ToggleState(c *gin.Context) {
	h.transition(c, "toggle task state", "Task state toggled", h.taskService.ToggleState)
}

func (h *TaskHandler) ArchiveTask(c *gin.Context) {
	h.transition(c, "archive task", "Task archived", h.taskService.ArchiveTask)
}

func (h *TaskHandler) RestoreTask(c *gin.Context) {
	h.transition(c, "restore task", "Task restored", h.taskService.RestoreTask)
}

func (h *TaskHandler) transition(c *gin.Context, op, message string, apply func(ctx context.Context, actorID, taskID uint64) (*models.Task, error)) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := apply(c.Request.Context(), userID, taskID)
	if err != nil {
		respondServiceError(c, op, err)
		return
	}
	respondOK(c, message, dto.ToTaskDTO(*task, h.now()))
}

// MoveTask moves a project task to another group of the same project.
func (h *TaskHandler) MoveTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.MoveTaskRequest
	if !bindStrictJSON(c, &req) {
		return
	}

	task, err := h.taskService.MoveTask(c.Request.Context(), userID, taskID, req.GroupID)
	if err != nil {
		respondServiceError(c, "move task", err)
		return
	}
	respondOK(c, "Task moved", dto.ToTaskDTO(*task, h.now()))
}

// GenerateTasks suggests tasks for the given text. Nothing is saved.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.GenerateTasksRequest
	if !bindJSON(c, &req) {
		return
	}

	generated, err := h.taskService.GenerateTasks(c.Request.Context(), services.GenerateTasksInput{
		Text:      req.Text,
		ProjectID: req.ProjectID,
		ActorID:   userID,
	})
	if err != nil {
		respondServiceError(c, "generate tasks", err)
		return
	}

	out := make([]dto.GeneratedTaskDTO, len(generated))
	for i, g := range generated {
		out[i] = dto.GeneratedTaskDTO{
			Name:        g.Name,
			Description: g.Description,
			EndDate:     utils.FormatDate(g.EndDate),
		}
	}
	respondOK(c, "Tasks generated", out)
}

func queryID(c *gin.Context, name string) (*uint64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &id, nil
}

func queryBool(c *gin.Context, name string) (bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}

func queryDate(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	d, _, err := dto.ParseDatePtr(name, &raw)
	return d, err
}
