package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepforge/cbt-backend/internal/apperr"
)

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// Authentication
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrLoginSuperseded    ErrCode = "LOGIN_SUPERSEDED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrAccountInactive    ErrCode = "ACCOUNT_INACTIVE"

	// Authorization
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"
	ErrNotSessionOwner ErrCode = "NOT_SESSION_OWNER"
	ErrCreatorOrAdmin  ErrCode = "CONTENT_CREATOR_OR_ADMIN_ONLY"

	// Validation
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// Resources
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// Session state
	ErrSessionEnded ErrCode = "SESSION_ENDED"

	// Rate limiting
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// Server
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrLoginSuperseded:
		return "Your account was signed in on another device."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."
	case ErrAccountInactive:
		return "This account has been deactivated."
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."
	case ErrNotSessionOwner:
		return "You do not own this session."
	case ErrCreatorOrAdmin:
		return "This resource is restricted to content creators and administrators."
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "The request conflicts with the current state of the resource."
	case ErrSessionEnded:
		return "This session has already ended."
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}

// Error maps a service error onto the envelope. Unclassified errors become
// 500s with no detail leaked.
func Error(c *gin.Context, err error) {
	var e *apperr.Error
	errors.As(err, &e)

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		if e != nil && e.Fields != nil {
			FailWithFields(c, http.StatusBadRequest, ErrValidation, e.Fields)
			return
		}
		failWithMessage(c, http.StatusBadRequest, ErrValidation, e)
	case apperr.KindNotFound:
		Fail(c, http.StatusNotFound, ErrNotFound)
	case apperr.KindAuthorization:
		Fail(c, http.StatusForbidden, ErrForbidden)
	case apperr.KindConflict:
		failWithMessage(c, http.StatusConflict, ErrConflict, e)
	default:
		Fail(c, http.StatusInternalServerError, ErrInternal)
	}
}

// failWithMessage keeps the code's canonical message unless the service
// supplied a more specific one.
func failWithMessage(c *gin.Context, statusCode int, code ErrCode, e *apperr.Error) {
	msg := GetMessage(code)
	if e != nil && e.Msg != "" {
		msg = e.Msg
	}
	c.JSON(statusCode, Response{
		Data:     nil,
		Error:    &ErrorBody{Code: code, Message: msg},
		Metadata: buildMetadata(c),
	})
}
