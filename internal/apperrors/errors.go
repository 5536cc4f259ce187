package apperrors

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrEmptyReason       = errors.New("reason must not be empty")
	ErrInvalidTransition = errors.New("transition not allowed from current status")
	ErrAlreadyCancelled  = errors.New("event is already cancelled")
	ErrCapacityTooLow    = errors.New("capacity below confirmed attendee count")
	ErrCapacityFull      = errors.New("event is at capacity")
	ErrLocked            = errors.New("event is locked by another operation")
	ErrUnauthorized      = errors.New("user is not authorized")
	ErrForbidden         = errors.New("operation is forbidden for user")
	ErrValidation        = errors.New("invalid request payload")
	ErrAlreadyExists     = errors.New("record already exists")
	ErrUnavailable       = errors.New("required backing service unavailable")
)
