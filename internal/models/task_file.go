package models

import "time"

type TaskFile struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	TaskID       uint64    `gorm:"not null;index" json:"task_id"`
	OriginalName string    `gorm:"type:varchar(255);not null" json:"original_name"`
	StoredName   string    `gorm:"type:varchar(255);not null;index" json:"stored_name"`
	StoragePath  string    `gorm:"type:varchar(1024);not null" json:"-"`
	Size         int64     `gorm:"not null" json:"size"`
	MimeType     string    `gorm:"type:varchar(255)" json:"mime_type"`
	UploadedAt   time.Time `json:"uploaded_at"`
}
