// internal/database/users.go
package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/javajoker/inventory-admin/internal/models"
)

// EnsureUser returns the user with email, creating it when missing. The name
// defaults to the email.
func EnsureUser(db *gorm.DB, email, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("email is required")
	}
	if name == "" {
		name = email
	}

	var user models.User
	if err := db.Where(models.User{Email: email}).Attrs(models.User{Name: name}).FirstOrCreate(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to ensure user %s: %w", email, err)
	}
	return &user, nil
}
