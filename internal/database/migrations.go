package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

type compositeIndex struct {
	table   string
	name    string
	columns string
}

// The board, member task count and report queries filter on these pairs.
var compositeIndexes = []compositeIndex{
	{"tasks", "idx_tasks_project_archive", "project_id, is_archive"},
	{"tasks", "idx_tasks_group_archive", "group_id, is_archive"},
	{"tasks", "idx_tasks_performer_state", "performer_id, task_state"},
	{"project_members", "idx_project_members_user_id", "user_id"},
	{"comments", "idx_comments_task_created", "task_id, created_at"},
	{"task_files", "idx_task_files_task_stored", "task_id, stored_name"},
}

// AddIndexes creates the composite indexes that AutoMigrate cannot express
// through struct tags, skipping those that already exist.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, idx := range compositeIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
