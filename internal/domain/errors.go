package domain

import (
	"errors"
	"fmt"
)

var (
	ErrLinkNotFound            = errors.New("link not found")
	ErrLinkDisabled            = errors.New("link is disabled")
	ErrLinkExpired             = errors.New("link has expired")
	ErrLinkNotStarted          = errors.New("link is not active yet")
	ErrSlugTaken               = errors.New("slug is already taken")
	ErrSlugGenerationExhausted = errors.New("could not generate a unique slug, please try again")
	ErrDuplicateURL            = errors.New("a link to this URL already exists")
	ErrTooManyItems            = errors.New("too many items in one request")
	ErrNoItems                 = errors.New("no items provided")
	ErrPasswordRequired        = errors.New("password required")
	ErrInvalidPassword         = errors.New("invalid password")
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
