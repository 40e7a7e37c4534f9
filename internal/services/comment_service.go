package services

import (
	"context"
	"strings"
	"time"

	"github.com/Thanhfdq/task-app/internal/models"
	"github.com/Thanhfdq/task-app/internal/policy"
	"github.com/Thanhfdq/task-app/internal/repository"
)

// CommentService handles the discussion on a task.
type CommentService struct {
	commentRepo repository.CommentRepository
	access      access
	now         func() time.Time
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		access:      access{projects: projectRepo, tasks: taskRepo},
		now:         time.Now,
	}
}

func (s *CommentService) authorize(ctx context.Context, actorID, taskID uint64) error {
	acc, err := s.access.viewTask(ctx, actorID, taskID)
	if err != nil {
		return err
	}
	if !policy.CanViewComments(actorID, acc) {
		return ErrCommentsForbidden
	}
	return nil
}

// ListComments returns a task's comments oldest first
func (s *CommentService) ListComments(ctx context.Context, actorID, taskID uint64) ([]models.Comment, error) {
	if err := s.authorize(ctx, actorID, taskID); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, storageError("failed to list comments", err)
	}
	return comments, nil
}

// AddComment appends a comment by the actor
func (s *CommentService) AddComment(ctx context.Context, actorID, taskID uint64, content string) (*models.Comment, error) {
	if err := s.authorize(ctx, actorID, taskID); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validationError("content is required")
	}

	comment := &models.Comment{
		TaskID:    taskID,
		UserID:    actorID,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, storageError("failed to add comment", err)
	}

	comments, err := s.commentRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, storageError("failed to load comment", err)
	}
	for i := range comments {
		if comments[i].ID == comment.ID {
			return &comments[i], nil
		}
	}
	return comment, nil
}
