package service

import (
	"errors"
	"fmt"
)

var (
	ErrThreadNotFound  = errors.New("thread not found")
	ErrSummaryNotFound = errors.New("summary not found")
	ErrJobNotFound     = errors.New("job not found")
	ErrValidation      = errors.New("validation failed")
)

// ValidationError describes a rejected request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// IsNotFound reports whether err is one of the not-found errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrThreadNotFound) || errors.Is(err, ErrSummaryNotFound) || errors.Is(err, ErrJobNotFound)
}
