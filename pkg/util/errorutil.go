package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to API callers.
const (
	CodeValidation         = "VALIDATION_FAILED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeCategoryMismatch   = "CATEGORY_MISMATCH"
	CodeAccountInactive    = "ACCOUNT_INACTIVE"
	CodePolicyViolation    = "POLICY_VIOLATION"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeTooManyAttempts    = "TOO_MANY_ATTEMPTS"
	CodeInternal           = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
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
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

// NewInvalidCredentials never says which half of the credential was wrong.
func NewInvalidCredentials(message string) error {
	return NewDomainError(CodeInvalidCredentials, message, http.StatusUnauthorized, nil)
}

func NewCategoryMismatch(category string) error {
	return NewDomainError(CodeCategoryMismatch,
		fmt.Sprintf("this user is not in the %s category", category),
		http.StatusUnauthorized,
		map[string]any{"category": category})
}

func NewAccountInactive() error {
	return NewDomainError(CodeAccountInactive, "account is inactive", http.StatusUnauthorized, nil)
}

func NewPolicyViolation(message string) error {
	return NewDomainError(CodePolicyViolation, message, http.StatusBadRequest, nil)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewTooManyAttempts(retryAfterSeconds int) error {
	return NewDomainError(CodeTooManyAttempts,
		"too many failed login attempts, try again later",
		http.StatusTooManyRequests,
		map[string]any{"retry_after_seconds": retryAfterSeconds})
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err is a DomainError carrying code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}
