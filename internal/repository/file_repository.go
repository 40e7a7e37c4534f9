package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Thanhfdq/task-app/internal/models"
)

// GormFileRepository is a GORM implementation of FileRepository
type GormFileRepository struct {
	db *gorm.DB
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(db *gorm.DB) FileRepository {
	return &GormFileRepository{db: db}
}

func (r *GormFileRepository) Create(ctx context.Context, file *models.TaskFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *GormFileRepository) FindByID(ctx context.Context, id uint64) (*models.TaskFile, error) {
	var file models.TaskFile
	if err := r.db.WithContext(ctx).First(&file, id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *GormFileRepository) FindByTaskAndStoredName(ctx context.Context, taskID uint64, storedName string) (*models.TaskFile, error) {
	var file models.TaskFile
	if err := r.db.WithContext(ctx).
		Where("task_id = ? AND stored_name = ?", taskID, storedName).
		First(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *GormFileRepository) ListByTask(ctx context.Context, taskID uint64) ([]models.TaskFile, error) {
	var files []models.TaskFile
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("uploaded_at ASC, id ASC").
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *GormFileRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.TaskFile{}, id).Error
}
