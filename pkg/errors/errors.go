package errors

import "fmt"

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation is returned when validation fails
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrRemote wraps a failed call to the Shopify Admin API (transport, HTTP status or GraphQL errors).
type ErrRemote struct {
	Operation string
	Err       error
}

func (e *ErrRemote) Error() string {
	return fmt.Sprintf("shopify %s: %v", e.Operation, e.Err)
}

func (e *ErrRemote) Unwrap() error {
	return e.Err
}
