// internal/handlers/common.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/inventory-admin/internal/i18n"
	"github.com/javajoker/inventory-admin/internal/services"
	"github.com/javajoker/inventory-admin/internal/utils"
)

// currentUserID reads the authenticated owner id. It answers 401 itself when absent.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAuthInvalidToken))
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses the :id route parameter. It answers 400 itself when malformed.
func pathID(c *gin.Context, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyInvalidID, entity), nil)
		return uuid.Nil, false
	}
	return id, true
}

// bindValid binds the request into req and runs struct validation.
func bindValid(c *gin.Context, req interface{}, bind func(interface{}) error) bool {
	if err := bind(req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return false
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

// respondError maps service errors onto responses. Unknown errors are logged
// and answered with the generic message.
func respondError(c *gin.Context, err error, notFoundKey string) {
	var validationErrs services.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		utils.ValidationErrorResponse(c, validationErrs)
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, "")
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, notFoundKey)
	default:
		userID, _ := c.Get("user_id")
		logrus.WithError(err).WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"user_id": userID,
		}).Error("Request failed")
		utils.InternalErrorResponse(c)
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"languages": i18n.GetSupportedLanguages(),
	})
}
