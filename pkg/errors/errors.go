package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrConfiguration is returned when credentials are missing or rejected.
// It is fatal to a whole batch.
type ErrConfiguration struct {
	Message string
	Err     error
}

func (e *ErrConfiguration) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "configuration error"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ErrConfiguration) Unwrap() error { return e.Err }

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

// ErrDuplicate is returned when the product already exists in the store
type ErrDuplicate struct {
	SKU   string
	Title string
	Hint  string
}

func (e *ErrDuplicate) Error() string {
	if e.SKU != "" {
		return fmt.Sprintf("product already exists in Shopify (sku %q)", e.SKU)
	}
	return fmt.Sprintf("product already exists in Shopify (title %q)", e.Title)
}

// ErrRemoteRejected is returned when Shopify answers a create call with a non-2xx status.
// Detail holds the response "errors" field as received.
type ErrRemoteRejected struct {
	Status int
	Detail json.RawMessage
}

func (e *ErrRemoteRejected) Error() string {
	if len(e.Detail) > 0 {
		return fmt.Sprintf("shopify rejected the product (status %d): %s", e.Status, string(e.Detail))
	}
	return fmt.Sprintf("shopify rejected the product (status %d)", e.Status)
}

// ErrBestEffort wraps a failure of a side call that must not fail the product
type ErrBestEffort struct {
	Operation string
	Err       error
}

func (e *ErrBestEffort) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *ErrBestEffort) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target *ErrNotFound
	return stderrors.As(err, &target)
}

func IsConfiguration(err error) bool {
	var target *ErrConfiguration
	return stderrors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ErrValidation
	return stderrors.As(err, &target)
}
