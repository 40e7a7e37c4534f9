package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Thanhfdq/task-app/internal/dto"
	apierrors "github.com/Thanhfdq/task-app/internal/errors"
	"github.com/Thanhfdq/task-app/internal/services"
)

// ProjectHandler serves projects and their memberships.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// ListProjects returns the projects visible to the current user.
// The optional archived query parameter filters by archive flag.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var archived *bool
	if raw := c.Query("archived"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid archived")
			return
		}
		archived = &v
	}

	projects, err := h.projectService.ListProjects(c.Request.Context(), userID, archived)
	if err != nil {
		respondServiceError(c, "list projects", err)
		return
	}
	respondOK(c, "Projects retrieved", dto.ToProjectDTOs(projects))
}

// RecentProjects returns the latest active projects by start date.
func (h *ProjectHandler) RecentProjects(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	projects, err := h.projectService.RecentProjects(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, "recent projects", err)
		return
	}
	respondOK(c, "Recent projects retrieved", dto.ToProjectDTOs(projects))
}

// CreateProject creates a project managed by the current user.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
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

	project, err := h.projectService.CreateProject(c.Request.Context(), userID, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Label:       req.Label,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		respondServiceError(c, "create project", err)
		return
	}
	respondCreated(c, "Project created", dto.ToProjectDTO(*project))
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), userID, projectID)
	if err != nil {
		respondServiceError(c, "get project", err)
		return
	}
	respondOK(c, "Project retrieved", dto.ToProjectDTO(*project))
}

// UpdateProject applies the fields present in the body. Dates set to null
// or "" are cleared.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !bindStrictJSON(c, &req) {
		return
	}
	input, err := updateProjectInput(req)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), userID, projectID, input)
	if err != nil {
		respondServiceError(c, "update project", err)
		return
	}
	respondOK(c, "Project updated", dto.ToProjectDTO(*project))
}

func updateProjectInput(req dto.UpdateProjectRequest) (services.UpdateProjectInput, error) {
	var input services.UpdateProjectInput
	var err error

	if input.Name, err = requiredField("name", req.Name); err != nil {
		return input, err
	}
	if input.ProjectState, err = requiredField("project_state", req.ProjectState); err != nil {
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
	if input.CompleteDate, input.ClearCompleteDate, err = dto.ParseOptionalDate("complete_date", req.CompleteDate); err != nil {
		return input, err
	}
	return input, nil
}

func (h *ProjectHandler) ArchiveProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.ArchiveProject(c.Request.Context(), userID, projectID)
	if err != nil {
		respondServiceError(c, "archive project", err)
		return
	}
	respondOK(c, "Project archived", dto.ToProjectDTO(*project))
}

func (h *ProjectHandler) RestoreProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.RestoreProject(c.Request.Context(), userID, projectID)
	if err != nil {
		respondServiceError(c, "restore project", err)
		return
	}
	respondOK(c, "Project restored", dto.ToProjectDTO(*project))
}

// DeleteProject removes a project with its groups, tasks and attachments.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), userID, projectID); err != nil {
		respondServiceError(c, "delete project", err)
		return
	}
	respondOK(c, "Project deleted", nil)
}

// ListMembers returns the project's members without task counts.
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	h.listMembers(c, false)
}

// ListMembersWithTaskCount returns the members along with the number of
// active tasks each performs in the project.
func (h *ProjectHandler) ListMembersWithTaskCount(c *gin.Context) {
	h.listMembers(c, true)
}

func (h *ProjectHandler) listMembers(c *gin.Context, withCount bool) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	members, err := h.projectService.ListMembers(c.Request.Context(), userID, projectID)
	if err != nil {
		respondServiceError(c, "list members", err)
		return
	}
	respondOK(c, "Members retrieved", dto.ToMemberDTOs(members, withCount))
}

func (h *ProjectHandler) AddMember(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.projectService.AddMember(c.Request.Context(), userID, projectID, req.UserID)
	if err != nil {
		respondServiceError(c, "add member", err)
		return
	}
	respondCreated(c, "Member added", dto.ToUserDTO(*user))
}

func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "memberId")
	if !ok {
		return
	}

	if err := h.projectService.RemoveMember(c.Request.Context(), userID, projectID, memberID); err != nil {
		respondServiceError(c, "remove member", err)
		return
	}
	respondOK(c, "Member removed", nil)
}

// LeaveProject removes the current user from the project.
func (h *ProjectHandler) LeaveProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.LeaveProject(c.Request.Context(), userID, projectID); err != nil {
		respondServiceError(c, "leave project", err)
		return
	}
	respondOK(c, "Left project", nil)
}
