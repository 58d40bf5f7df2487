// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySomethingWentWrong = "error.something_went_wrong"
	KeyRateLimited        = "error.rate_limited"
	KeyInvalidID          = "error.invalid_id"

	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"
	KeyAccessDenied     = "auth.access_denied"

	// Items
	KeyItemCreated      = "item.created"
	KeyItemUpdated      = "item.updated"
	KeyItemDeleted      = "item.deleted"
	KeyItemMarkedSold   = "item.marked_sold"
	KeyItemMarkedUnsold = "item.marked_unsold"
	KeyItemNotFound     = "item.not_found"

	// Product types
	KeyProductTypeCreated  = "product_type.created"
	KeyProductTypeUpdated  = "product_type.updated"
	KeyProductTypeDeleted  = "product_type.deleted"
	KeyProductTypeNotFound = "product_type.not_found"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// File Upload
	KeyFileUploadFailed = "file.upload_failed"
	KeyFileInvalidType  = "file.invalid_type"
	KeyFileTooLarge     = "file.too_large"
	KeyFileDimensions   = "file.dimensions"
)
