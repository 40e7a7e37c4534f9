package models

import (
	"strings"
	"time"
)

type Task struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Description  string     `gorm:"type:text" json:"description"`
	Label        string     `gorm:"type:varchar(255)" json:"label"`
	StartDate    *time.Time `gorm:"type:date" json:"start_date"`
	EndDate      *time.Time `gorm:"type:date;index" json:"end_date"`
	CompleteDate *time.Time `json:"complete_date"`
	Progress     int        `gorm:"not null" json:"progress"`
	TaskState    bool       `gorm:"not null;index" json:"task_state"`
	IsArchive    bool       `gorm:"not null;index" json:"is_archive"`
	ProjectID    *uint64    `gorm:"index" json:"project_id"`
	GroupID      *uint64    `gorm:"index" json:"group_id"`
	PerformerID  uint64     `gorm:"not null;index" json:"performer_id"`
	ParentTaskID *uint64    `gorm:"index" json:"parent_task_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	Project   *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Group     *TaskGroup `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Performer User       `gorm:"foreignKey:PerformerID" json:"performer,omitempty"`
}

// Labels splits the comma-joined label column into trimmed tags.
func (t Task) Labels() []string {
	if strings.TrimSpace(t.Label) == "" {
		return []string{}
	}
	parts := strings.Split(t.Label, ",")
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			labels = append(labels, p)
		}
	}
	return labels
}

// IsPersonal reports whether the task belongs to no project.
func (t Task) IsPersonal() bool {
	return t.ProjectID == nil
}
