package database

import (
	"gorm.io/gorm"

	"github.com/Thanhfdq/task-app/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// ActiveTasks excludes archived tasks.
func ActiveTasks(db *gorm.DB) *gorm.DB {
	return db.Where("tasks.is_archive = ?", false)
}

// ArchivedTasks keeps only archived tasks.
func ArchivedTasks(db *gorm.DB) *gorm.DB {
	return db.Where("tasks.is_archive = ?", true)
}
