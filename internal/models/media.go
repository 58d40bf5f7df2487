// internal/models/media.go
package models

import (
	"github.com/google/uuid"
)

// Media is a stored object attached to a named collection of another model.
type Media struct {
	BaseModel
	ModelType  string    `json:"model_type" gorm:"size:100;not null;index:idx_media_owner"`
	ModelID    uuid.UUID `json:"model_id" gorm:"type:uuid;not null;index:idx_media_owner"`
	Collection string    `json:"collection" gorm:"size:100;not null;index:idx_media_owner"`
	Disk       Disk      `json:"disk" gorm:"type:varchar(20);not null"`
	Key        string    `json:"key" gorm:"size:512;not null"`
	FileName   string    `json:"file_name" gorm:"size:255"`
	MimeType   string    `json:"mime_type" gorm:"size:100"`
	Size       int64     `json:"size"`
}
