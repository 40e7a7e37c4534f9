package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Thanhfdq/task-app/internal/dto"
	"github.com/Thanhfdq/task-app/internal/services"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// ListComments returns a task's comments, oldest first.
func (h *CommentHandler) ListComments(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	comments, err := h.commentService.ListComments(c.Request.Context(), userID, taskID)
	if err != nil {
		respondServiceError(c, "list comments", err)
		return
	}
	respondOK(c, "Comments retrieved", dto.ToCommentDTOs(comments))
}

func (h *CommentHandler) AddComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.CommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.commentService.AddComment(c.Request.Context(), userID, taskID, req.Content)
	if err != nil {
		respondServiceError(c, "add comment", err)
		return
	}
	respondCreated(c, "Comment added", dto.ToCommentDTO(*comment))
}
