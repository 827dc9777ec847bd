package models

import "errors"

// Custom errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key violation")
	ErrInvalidID    = errors.New("invalid ID format")
)

// ValidationError is a record-level validation failure with a stable code
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewValidationError creates a validation error
func NewValidationError(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Errors
var (
	ErrCompetitionNotFound = NewValidationError("competition_not_found", "competition not found")
	ErrInvalidWeight       = NewValidationError("invalid_weight", "weight must be \"<lb> lb <oz> oz\" or a whole number of ounces")
	ErrDuplicatePeg        = NewValidationError("duplicate_peg", "peg already has a weigh-in for this competition")
	ErrWeighInsNotOpen     = NewValidationError("weigh_ins_not_open", "weigh-ins open when the competition starts")
)
