package contracts

import "fmt"

type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s", e.Field)
}

func fieldError(field string) error {
	return &ValidationError{Field: field}
}
