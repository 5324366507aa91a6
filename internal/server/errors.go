package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/smallbiznis/mystore/internal/catalog/domain"
	draftdomain "github.com/smallbiznis/mystore/internal/draft/domain"
	"github.com/smallbiznis/mystore/internal/media"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

// fieldValidationErrors lists path keyed failures in path order.
func fieldValidationErrors(fields catalogdomain.FieldErrors) []ValidationError {
	out := make([]ValidationError, 0, len(fields))
	for _, path := range fields.Paths() {
		out = append(out, ValidationError{
			Field:   path,
			Code:    "invalid_" + path[strings.LastIndexByte(path, '.')+1:],
			Message: fields[path],
		})
	}
	return out
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var fieldErr *catalogdomain.ValidationError
	if errors.As(err, &fieldErr) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: catalogdomain.UserMessage(err),
			Errors:  fieldValidationErrors(fieldErr.Fields),
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	var apiErr *catalogdomain.APIError
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, catalogdomain.ErrDuplicateSKU):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: catalogdomain.UserMessage(err),
		}
	case errors.Is(err, draftdomain.ErrSubmitInFlight),
		errors.Is(err, draftdomain.ErrImageReplaced):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictMessage(err),
		}
	case errors.Is(err, draftdomain.ErrSessionClosed):
		return http.StatusGone, errorPayload{
			Type:    "gone",
			Message: "draft is closed",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, media.ErrUpload):
		return http.StatusBadGateway, errorPayload{
			Type:    "upload_failed",
			Message: "Image upload failed",
		}
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, errorPayload{
			Type:    "upstream_error",
			Message: catalogdomain.UserMessage(err),
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func conflictMessage(err error) string {
	if errors.Is(err, draftdomain.ErrImageReplaced) {
		return "image was replaced before the upload finished"
	}
	return "a submission is in progress"
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isCatalogValidationError(err),
		isDraftValidationError(err),
		isMediaValidationError(err):
		return true
	default:
		return false
	}
}

func isCatalogValidationError(err error) bool {
	switch {
	case errors.Is(err, catalogdomain.ErrInvalidID),
		errors.Is(err, catalogdomain.ErrInvalidCategory),
		errors.Is(err, catalogdomain.ErrSizeRequired),
		errors.Is(err, catalogdomain.ErrSizeUnavailable):
		return true
	default:
		return false
	}
}

func isDraftValidationError(err error) bool {
	switch {
	case errors.Is(err, draftdomain.ErrInvalidLocalID),
		errors.Is(err, draftdomain.ErrInvalidField),
		errors.Is(err, draftdomain.ErrInvalidSlot),
		errors.Is(err, draftdomain.ErrInvalidOutcome):
		return true
	default:
		return false
	}
}

func isMediaValidationError(err error) bool {
	return errors.Is(err, media.ErrNotImage) || errors.Is(err, media.ErrEmptyAsset)
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, catalogdomain.ErrNotFound),
		errors.Is(err, draftdomain.ErrSessionNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	for _, sentinel := range []error{
		ErrInvalidRequest,
		catalogdomain.ErrInvalidID,
		catalogdomain.ErrInvalidCategory,
		catalogdomain.ErrSizeRequired,
		catalogdomain.ErrSizeUnavailable,
		draftdomain.ErrInvalidLocalID,
		draftdomain.ErrInvalidField,
		draftdomain.ErrInvalidSlot,
		draftdomain.ErrInvalidOutcome,
		media.ErrNotImage,
		media.ErrEmptyAsset,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

func validationErrorField(code string) string {
	switch code {
	case "invalid_request":
		return "request"
	case "invalid_local_id":
		return "localId"
	case "size_required", "size_unavailable":
		return "size"
	case "not_an_image", "empty_asset":
		return "file"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "size_required":
		return "Please select a size"
	case "size_unavailable":
		return "This size is out of stock"
	case "not_an_image":
		return "Only image files can be uploaded"
	case "empty_asset":
		return "A file is required"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog reports the error type and code the request log
// records for a failed request.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	if status >= http.StatusInternalServerError && payload.Type == "internal_error" {
		return payload.Type, err.Error()
	}
	return payload.Type, code
}
