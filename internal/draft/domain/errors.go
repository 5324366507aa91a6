package domain

import "errors"

var (
	ErrInvalidLocalID  = errors.New("invalid_local_id")
	ErrInvalidField    = errors.New("invalid_field")
	ErrInvalidSlot     = errors.New("invalid_slot")
	ErrInvalidOutcome  = errors.New("invalid_outcome")
	ErrSubmitInFlight  = errors.New("submit_in_flight")
	ErrSessionClosed   = errors.New("session_closed")
	ErrSessionNotFound = errors.New("session_not_found")
	ErrImageReplaced   = errors.New("image_replaced")
)
