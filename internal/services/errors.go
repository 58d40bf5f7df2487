// internal/services/errors.go
package services

import (
	"errors"
	"strings"

	"github.com/javajoker/inventory-admin/internal/utils"
)

var (
	// ErrNotFound means the requested record does not exist or was soft-deleted.
	ErrNotFound = errors.New("record not found")
	// ErrForbidden means the record exists but belongs to another user.
	ErrForbidden = errors.New("record belongs to another user")
)

// ValidationErrors carries field-level problems with the caller's input.
type ValidationErrors []utils.ValidationError

func (v ValidationErrors) Error() string {
	messages := make([]string, 0, len(v))
	for _, e := range v {
		messages = append(messages, e.Message)
	}
	return "validation failed: " + strings.Join(messages, "; ")
}
