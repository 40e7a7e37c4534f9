package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Thanhfdq/task-app/internal/models"
)

// GormGroupRepository is a GORM implementation of GroupRepository
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &GormGroupRepository{db: db}
}

func (r *GormGroupRepository) Create(ctx context.Context, group *models.TaskGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *GormGroupRepository) FindByID(ctx context.Context, id uint64) (*models.TaskGroup, error) {
	var group models.TaskGroup
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GormGroupRepository) ListByProject(ctx context.Context, projectID uint64) ([]models.TaskGroup, error) {
	var groups []models.TaskGroup
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *GormGroupRepository) Rename(ctx context.Context, id uint64, name string) error {
	return r.db.WithContext(ctx).Model(&models.TaskGroup{}).Where("id = ?", id).Update("name", name).Error
}

// CountActiveTasks counts non-archived tasks in the group
func (r *GormGroupRepository) CountActiveTasks(ctx context.Context, id uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("group_id = ? AND is_archive = ?", id, false).
		Count(&count).Error
	return count, err
}

// Delete detaches archived tasks from the group and removes it
func (r *GormGroupRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("group_id = ?", id).
			Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.TaskGroup{}, id).Error
	})
}
