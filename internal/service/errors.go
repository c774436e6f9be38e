package service

import (
	"errors"
	"fmt"

	"go-bookstore-backoffice/internal/repository"
	"go-bookstore-backoffice/pkg/validator"
)

// ErrValidation matches every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError rejects a request before any store or pipeline work happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: field '%s' failed on '%s'", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// validate runs struct tags and reports the first failure.
func validate(v any) error {
	errs := validator.ValidateStruct(v)
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Field: errs[0].FailedField, Reason: errs[0].Tag}
}

// storeErr turns a rejected query field into a ValidationError and leaves other errors alone.
func storeErr(err error) error {
	var qe *repository.QueryError
	if errors.As(err, &qe) {
		return &ValidationError{Field: qe.Field, Reason: qe.Reason}
	}
	return err
}
