package models

import "time"

type Project struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Description  string     `gorm:"type:text" json:"description"`
	Label        string     `gorm:"type:varchar(255)" json:"label"`
	ManagerID    uint64     `gorm:"not null;index" json:"manager_id"`
	ProjectState bool       `gorm:"not null" json:"project_state"`
	IsArchive    bool       `gorm:"not null;index" json:"is_archive"`
	StartDate    *time.Time `gorm:"type:date" json:"start_date"`
	EndDate      *time.Time `gorm:"type:date" json:"end_date"`
	CompleteDate *time.Time `gorm:"type:date" json:"complete_date"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	Manager User            `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Groups  []TaskGroup     `gorm:"foreignKey:ProjectID" json:"groups,omitempty"`
}
