// internal/models/user.go
package models

// User mirrors the identity provider's account so items have a stable owner id.
type User struct {
	BaseModel
	Name  string `json:"name" gorm:"size:255;not null"`
	Email string `json:"email" gorm:"uniqueIndex;size:255;not null"`
}
