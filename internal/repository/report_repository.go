package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Thanhfdq/task-app/internal/models"
)

// GormReportRepository is a GORM implementation of ReportRepository
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &GormReportRepository{db: db}
}

// ProjectStats counts the projects the user manages, split by archive flag
func (r *GormReportRepository) ProjectStats(ctx context.Context, userID uint64) (ProjectStats, error) {
	var stats ProjectStats
	err := r.db.WithContext(ctx).Model(&models.Project{}).
		Select(
			"COUNT(*) AS total_projects, "+
				"COALESCE(SUM(CASE WHEN is_archive = ? THEN 1 ELSE 0 END), 0) AS active_projects, "+
				"COALESCE(SUM(CASE WHEN is_archive = ? THEN 1 ELSE 0 END), 0) AS archived_projects",
			false, true,
		).
		Where("manager_id = ?", userID).
		Scan(&stats).Error
	return stats, err
}

// TaskStats counts the tasks the user performs, archived included, split by state
func (r *GormReportRepository) TaskStats(ctx context.Context, userID uint64) (TaskStats, error) {
	var stats TaskStats
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Select(
			"COUNT(*) AS total_tasks, "+
				"COALESCE(SUM(CASE WHEN task_state = ? THEN 1 ELSE 0 END), 0) AS open_tasks, "+
				"COALESCE(SUM(CASE WHEN task_state = ? THEN 1 ELSE 0 END), 0) AS completed_tasks",
			false, true,
		).
		Where("performer_id = ?", userID).
		Scan(&stats).Error
	return stats, err
}

// TasksByProject counts the tasks, archived included, in each project the user manages
func (r *GormReportRepository) TasksByProject(ctx context.Context, userID uint64) ([]ProjectTaskCount, error) {
	var rows []ProjectTaskCount
	err := r.db.WithContext(ctx).
		Table("projects AS p").
		Select("p.id AS project_id, p.name AS project_name, COUNT(t.id) AS task_count").
		Joins("LEFT JOIN tasks AS t ON t.project_id = p.id").
		Where("p.manager_id = ?", userID).
		Group("p.id, p.name").
		Order("p.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CompletionTimes returns the completion timestamps of the user's tasks, ascending
func (r *GormReportRepository) CompletionTimes(ctx context.Context, userID uint64) ([]time.Time, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("performer_id = ? AND complete_date IS NOT NULL", userID).
		Order("complete_date ASC").
		Pluck("complete_date", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}
