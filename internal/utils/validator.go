// internal/utils/validator.go
package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// indexedFieldLabels gives list fields a human label, so "serialInputs.2.value"
// is reported as "Serial number #3".
var indexedFieldLabels = map[string]string{
	"serialInputs": "Serial number",
}

// fieldLabels names whole fields in messages.
var fieldLabels = map[string]string{
	"serialInputs":    "Serial numbers",
	"product_type_id": "Product type",
	"serial_number":   "Serial number",
}

var indexedFieldPattern = regexp.MustCompile(`^(\w+)\.(\d+)\.value$`)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	validate.RegisterValidation("notblank", validateNotBlank)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func NewValidationError(field, tag, message string) ValidationError {
	return ValidationError{Field: field, Tag: tag, Message: message}
}

// IndexedFieldLabel is the 1-based human label of the index-th entry of a list field.
func IndexedFieldLabel(field string, index int) string {
	label, ok := indexedFieldLabels[field]
	if !ok {
		label = field
	}
	return fmt.Sprintf("%s #%d", label, index+1)
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			field, label := fieldKeyAndLabel(e)
			validationErrors = append(validationErrors, ValidationError{
				Field:   field,
				Tag:     e.Tag(),
				Message: getValidationMessage(e, label),
			})
		}
	}

	return validationErrors
}

// fieldKeyAndLabel turns "Request.serialInputs[2].value" into the key
// "serialInputs.2.value"; indexed list entries are re-keyed onto their list.
func fieldKeyAndLabel(e validator.FieldError) (string, string) {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	key := strings.NewReplacer("[", ".", "]", "").Replace(ns)

	if m := indexedFieldPattern.FindStringSubmatch(key); m != nil {
		if _, ok := indexedFieldLabels[m[1]]; ok {
			index, _ := strconv.Atoi(m[2])
			return m[1], IndexedFieldLabel(m[1], index)
		}
	}

	if label, ok := fieldLabels[key]; ok {
		return key, label
	}
	return key, humanize(e.Field())
}

func humanize(field string) string {
	field = strings.ReplaceAll(field, "_", " ")
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}

func getValidationMessage(e validator.FieldError, label string) string {
	isList := e.Kind() == reflect.Slice

	switch e.Tag() {
	case "required", "notblank":
		return label + " is required"
	case "min":
		if isList {
			return label + " must have at least " + e.Param() + " entries"
		}
		return label + " must be at least " + e.Param() + " characters"
	case "max":
		if isList {
			return label + " may not have more than " + e.Param() + " entries"
		}
		return label + " may not be greater than " + e.Param() + " characters"
	default:
		return label + " is invalid"
	}
}
