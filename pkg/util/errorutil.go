package util

import (
	"errors"
	"fmt"
)

// Error codes form the closed taxonomy surfaced to callers. Every failure in
// the core is one of these; all are recoverable.
const (
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeEmptyTitle         = "EMPTY_TITLE"
	CodeInvalidStatus      = "INVALID_STATUS"
	CodeDescriptionTooLong = "DESCRIPTION_TOO_LONG"
	CodeNotFound           = "NOT_FOUND"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, Details: details}
}

func NewDuplicateEmail(email string) error {
	return NewDomainError(CodeDuplicateEmail, "email already registered", map[string]any{"email": email})
}

func NewInvalidCredentials() error {
	return NewDomainError(CodeInvalidCredentials, "invalid email or password", nil)
}

func NewEmptyTitle() error {
	return NewDomainError(CodeEmptyTitle, "title is required", nil)
}

func NewInvalidStatus(status string) error {
	return NewDomainError(CodeInvalidStatus, "status must be open, in-progress, or closed", map[string]any{"status": status})
}

func NewDescriptionTooLong(length, limit int) error {
	return NewDomainError(CodeDescriptionTooLong, fmt.Sprintf("description must be at most %d characters", limit), map[string]any{"length": length})
}

func NewNotFound(resource, id string) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), map[string]any{"id": id})
}

func NewStorageUnavailable(err error) error {
	return &DomainError{
		Code:    CodeStorageUnavailable,
		Message: "durable store unavailable",
		Err:     err,
	}
}

// CodeOf extracts the error code, or "" for nil / non-domain errors.
func CodeOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	return CodeOf(err) == code
}
