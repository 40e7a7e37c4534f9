package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Thanhfdq/task-app/internal/models"
)

var (
	// ErrCreateProject is returned when creating the project row fails inside the create transaction.
	ErrCreateProject = errors.New("project repository: create project failed")
	// ErrCreateProjectMember is returned when adding the manager as a member fails inside the create transaction.
	ErrCreateProjectMember = errors.New("project repository: create project member failed")
	// ErrCreateDefaultGroup is returned when creating the default group fails inside the create transaction.
	ErrCreateDefaultGroup = errors.New("project repository: create default group failed")
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithDefaults creates the project, its manager membership and its default group atomically.
func (r *GormProjectRepository) CreateWithDefaults(ctx context.Context, project *models.Project, member *models.ProjectMember, group *models.TaskGroup) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateProject, err)
		}

		member.ProjectID = project.ID
		member.UserID = project.ManagerID
		if err := tx.Omit(clause.Associations).Create(member).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateProjectMember, err)
		}

		group.ProjectID = project.ID
		if err := tx.Create(group).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateDefaultGroup, err)
		}

		return nil
	})
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListVisible lists projects the user manages or belongs to
func (r *GormProjectRepository) ListVisible(ctx context.Context, userID uint64, filter ProjectFilter) ([]models.Project, error) {
	var projects []models.Project

	memberSubQuery := r.db.Model(&models.ProjectMember{}).
		Select("project_id").
		Where("user_id = ?", userID)

	query := r.db.WithContext(ctx).
		Preload("Manager").
		Where("(projects.manager_id = ? OR projects.id IN (?))", userID, memberSubQuery)

	if filter.Archived != nil {
		query = query.Where("projects.is_archive = ?", *filter.Archived)
	}
	if filter.RecentFirst {
		query = query.Order("CASE WHEN projects.start_date IS NULL THEN 1 ELSE 0 END, projects.start_date DESC, projects.id DESC")
	} else {
		query = query.Order("projects.id ASC")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update writes the given project columns
func (r *GormProjectRepository) Update(ctx context.Context, id uint64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Updates(fields).Error
}

// Delete removes a project and all related data in a transaction
func (r *GormProjectRepository) Delete(ctx context.Context, id uint64) ([]uint64, error) {
	var taskIDs []uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).Where("project_id = ?", id).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskFile{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			// Subtasks outside the project keep existing without a parent.
			if err := tx.Model(&models.Task{}).
				Where("parent_task_id IN ?", taskIDs).
				Update("parent_task_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.TaskGroup{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return taskIDs, nil
}

// IsMember reports whether the user has a membership row in the project
func (r *GormProjectRepository) IsMember(ctx context.Context, projectID, userID uint64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddMember adds a member to a project
func (r *GormProjectRepository) AddMember(ctx context.Context, member *models.ProjectMember) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(member).Error
}

// RemoveMember removes a member from a project
func (r *GormProjectRepository) RemoveMember(ctx context.Context, projectID, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{}).Error
}

// ListMembersWithTaskCount lists members with their active task counts
func (r *GormProjectRepository) ListMembersWithTaskCount(ctx context.Context, projectID uint64) ([]MemberTaskCount, error) {
	var rows []MemberTaskCount
	err := r.db.WithContext(ctx).
		Table("project_members").
		Select("users.id AS user_id, users.username, users.full_name, project_members.joined_at, COUNT(tasks.id) AS task_count").
		Joins("JOIN users ON users.id = project_members.user_id").
		Joins("LEFT JOIN tasks ON tasks.project_id = project_members.project_id AND tasks.performer_id = project_members.user_id AND tasks.is_archive = ?", false).
		Where("project_members.project_id = ?", projectID).
		Group("users.id, users.username, users.full_name, project_members.joined_at").
		Order("users.username ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountActiveTasksForMember counts non-archived tasks the user performs in the project
func (r *GormProjectRepository) CountActiveTasksForMember(ctx context.Context, projectID, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("project_id = ? AND performer_id = ? AND is_archive = ?", projectID, userID, false).
		Count(&count).Error
	return count, err
}
