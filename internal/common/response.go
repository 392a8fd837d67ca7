package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse standard API response structure
type APIResponse struct {
	Data  interface{} `json:"data"`
	Meta  *Meta       `json:"meta,omitempty"`
	Error *ErrorInfo  `json:"error,omitempty"`
}

// Meta pagination and additional metadata
type Meta struct {
	Page  int   `json:"page,omitempty"`
	Limit int   `json:"limit,omitempty"`
	Total int64 `json:"total,omitempty"`
}

// ErrorInfo error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SuccessResponse returns a successful JSON response
func SuccessResponse(c *gin.Context, data interface{}, meta *Meta) {
	c.JSON(http.StatusOK, APIResponse{
		Data: data,
		Meta: meta,
	})
}

// CreatedResponse returns a 201 JSON response
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Data: data})
}

// ErrorResponse returns an error JSON response
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error": &ErrorInfo{
			Code:    getErrorCode(status),
			Message: message,
		},
	})
}

// FailFromError maps a business error to the matching HTTP response
func FailFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, ErrBanned):
		ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrUnauthorized):
		ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrCategoryNotFound),
		errors.Is(err, ErrThreadNotFound),
		errors.Is(err, ErrPostNotFound),
		errors.Is(err, ErrGroupNotFound),
		errors.Is(err, ErrInvitationNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateReport),
		errors.Is(err, ErrDuplicateBan),
		errors.Is(err, ErrDuplicateMember),
		errors.Is(err, ErrDuplicateModerator),
		errors.Is(err, ErrInvitationAnswered),
		errors.Is(err, ErrPostSuperseded):
		ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrThreadClosed), errors.Is(err, ErrPostProtected), errors.Is(err, ErrInvalidInput):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	default:
		ErrorResponse(c, http.StatusInternalServerError, "internal error")
	}
}

// getErrorCode generates error code from HTTP status
func getErrorCode(status int) string {
	switch status {
	case 400:
		return "BAD_REQUEST"
	case 401:
		return "UNAUTHORIZED"
	case 403:
		return "FORBIDDEN"
	case 404:
		return "NOT_FOUND"
	case 409:
		return "CONFLICT"
	case 500:
		return "INTERNAL_SERVER_ERROR"
	default:
		return "ERROR"
	}
}
