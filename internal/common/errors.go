package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound         = errors.New("resource not found")
	ErrPermissionDenied = errors.New("permission denied")

	// Category / thread errors
	ErrCategoryNotFound = errors.New("category not found")
	ErrThreadNotFound   = errors.New("thread not found")
	ErrThreadClosed     = errors.New("thread is closed")

	// Post / revision errors
	ErrPostNotFound   = errors.New("post not found")
	ErrPostSuperseded = errors.New("post already superseded by a newer revision")
	ErrPostProtected  = errors.New("post is protected")

	// Group / invitation errors
	ErrGroupNotFound      = errors.New("group not found")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationAnswered = errors.New("invitation already answered")

	// Constraint violations
	ErrDuplicateReport    = errors.New("post already reported by this user")
	ErrDuplicateBan       = errors.New("ban record already exists")
	ErrDuplicateMember    = errors.New("user already in group")
	ErrDuplicateModerator = errors.New("user already moderates this category")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrBanned       = errors.New("actor is banned")
	ErrInvalidInput = errors.New("invalid input")
)
