package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicatePhone     = errors.New("phone number already registered")
	ErrClientNotFound     = errors.New("client not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrAgeRestricted      = errors.New("client is too young to use the bank")
	ErrSessionExpired     = errors.New("session expired")
)

// ValidationError describes malformed user input. It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
