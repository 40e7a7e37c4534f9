package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Thanhfdq/task-app/internal/database"
	"github.com/Thanhfdq/task-app/internal/models"
	"github.com/Thanhfdq/task-app/internal/utils"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// visibleTo restricts tasks to personal tasks the user performs and tasks in
// projects the user manages or belongs to.
func (r *GormTaskRepository) visibleTo(userID uint64) func(db *gorm.DB) *gorm.DB {
	managed := r.db.Model(&models.Project{}).Select("id").Where("manager_id = ?", userID)
	member := r.db.Model(&models.ProjectMember{}).Select("project_id").Where("user_id = ?", userID)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"((tasks.project_id IS NULL AND tasks.performer_id = ?) OR tasks.project_id IN (?) OR tasks.project_id IN (?))",
			userID, managed, member,
		)
	}
}

// Search retrieves tasks with filtering and pagination
func (r *GormTaskRepository) Search(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.WithContext(ctx).Model(&models.Task{}).Scopes(r.visibleTo(filter.VisibleTo))

	if filter.Archived {
		query = query.Scopes(database.ArchivedTasks)
	} else {
		query = query.Scopes(database.ActiveTasks)
	}
	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.GroupID != nil {
		query = query.Where("tasks.group_id = ?", *filter.GroupID)
	}
	if filter.PerformerID != nil {
		query = query.Where("tasks.performer_id = ?", *filter.PerformerID)
	}
	if filter.Completed != nil {
		query = query.Where("tasks.task_state = ?", *filter.Completed)
	}
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		pattern := "%" + escapeLike(strings.ToLower(kw)) + "%"
		query = query.Where("(LOWER(tasks.name) LIKE ? ESCAPE '!' OR LOWER(tasks.description) LIKE ? ESCAPE '!')", pattern, pattern)
	}
	if label := strings.TrimSpace(filter.Label); label != "" {
		query = query.Where("LOWER(tasks.label) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(label))+"%")
	}
	if filter.DueFrom != nil {
		query = query.Where("tasks.end_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("tasks.end_date <= ?", *filter.DueTo)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Session(&gorm.Session{}).
		Order("CASE WHEN tasks.end_date IS NULL THEN 1 ELSE 0 END, tasks.end_date ASC, tasks.id ASC")

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.NewPaginationParams(filter.Page, filter.PageSize)))
	}

	if err := listQuery.Preload("Project").Preload("Group").Preload("Performer").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ListByProject lists a project's tasks, either active or archived
func (r *GormTaskRepository) ListByProject(ctx context.Context, projectID uint64, archived bool) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Where("tasks.project_id = ? AND tasks.is_archive = ?", projectID, archived).
		Order("CASE WHEN tasks.end_date IS NULL THEN 1 ELSE 0 END, tasks.end_date ASC, tasks.id ASC").
		Preload("Group").
		Preload("Performer").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update writes the given task columns
func (r *GormTaskRepository) Update(ctx context.Context, id uint64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(fields).Error
}

// SetState writes the completion flag and timestamp in one statement
func (r *GormTaskRepository) SetState(ctx context.Context, id uint64, completed bool, completeDate *time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(map[string]interface{}{
		"task_state":    completed,
		"complete_date": completeDate,
	}).Error
}

// SetArchived writes the archive flag
func (r *GormTaskRepository) SetArchived(ctx context.Context, id uint64, archived bool) error {
	return r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Update("is_archive", archived).Error
}

// SetGroup moves the task to another group
func (r *GormTaskRepository) SetGroup(ctx context.Context, id, groupID uint64) error {
	return r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Update("group_id", groupID).Error
}

// Delete removes a task with its comments and file records
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskFile{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Task{}).
			Where("parent_task_id = ?", id).
			Update("parent_task_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}
