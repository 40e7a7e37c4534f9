package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Thanhfdq/task-app/internal/dto"
	"github.com/Thanhfdq/task-app/internal/services"
)

// GroupHandler serves the task groups (board columns) of a project.
type GroupHandler struct {
	groupService *services.GroupService
}

func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

func (h *GroupHandler) ListGroups(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	groups, err := h.groupService.ListGroups(c.Request.Context(), userID, projectID)
	if err != nil {
		respondServiceError(c, "list groups", err)
		return
	}
	respondOK(c, "Groups retrieved", dto.ToGroupDTOs(groups))
}

func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.GroupRequest
	if !bindJSON(c, &req) {
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), userID, projectID, req.Name)
	if err != nil {
		respondServiceError(c, "create group", err)
		return
	}
	respondCreated(c, "Group created", dto.ToGroupDTO(*group))
}

func (h *GroupHandler) RenameGroup(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}

	var req dto.GroupRequest
	if !bindStrictJSON(c, &req) {
		return
	}

	group, err := h.groupService.RenameGroup(c.Request.Context(), userID, projectID, groupID, req.Name)
	if err != nil {
		respondServiceError(c, "rename group", err)
		return
	}
	respondOK(c, "Group renamed", dto.ToGroupDTO(*group))
}

// DeleteGroup removes a group that has no active tasks.
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}

	if err := h.groupService.DeleteGroup(c.Request.Context(), userID, projectID, groupID); err != nil {
		respondServiceError(c, "delete group", err)
		return
	}
	respondOK(c, "Group deleted", nil)
}
