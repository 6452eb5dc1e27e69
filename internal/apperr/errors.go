// Package apperr provides the application's standardized error taxonomy:
// a single AppError type carrying a machine-readable code, a human message,
// and an HTTP status mapping.
//
// Propagation policy (see the analyze pipeline): only the client-facing
// codes (bad_request, unauthorized, forbidden, not_found, conflict) fail a
// request outright. Sandbox and analysis-provider errors are recorded into
// the response body instead of being returned as a request failure.
package apperr

import (
	"fmt"
	"net/http"
)

// Code is a machine-readable error kind.
type Code string

const (
	CodeBadRequest             Code = "bad_request"
	CodeUnauthorized           Code = "unauthorized"
	CodeForbidden              Code = "forbidden"
	CodeNotFound               Code = "not_found"
	CodeConflict               Code = "conflict"
	CodeSandboxTimeout         Code = "sandbox_timeout"
	CodeSandboxContainerError  Code = "sandbox_container_error"
	CodeSandboxUnavailable     Code = "sandbox_unavailable"
	CodeAnalysisProviderError  Code = "analysis_provider_error"
	CodeAnalysisBlocked        Code = "analysis_blocked"
	CodePersistenceError       Code = "persistence_error"
	CodeInternal               Code = "internal"
)

// AppError is the application's uniform error type.
type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap lets errors.Is/As see through to the wrapped cause.
func (e *AppError) Unwrap() error { return e.cause }

// StatusCode returns the HTTP status code for this error's kind.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		// spec.md §6/§8: duplicate-signup is documented as a 400, not the
		// RFC-conventional 409 — the taxonomy kind stays "conflict" for
		// machine-readable clients, but the wire status matches the spec.
		return http.StatusBadRequest
	case CodeSandboxUnavailable, CodeAnalysisProviderError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the JSON body shape returned for request-failing errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ToResponse converts the error into its JSON response shape.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: string(e.Code), Message: e.Message}
}

func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, cause: cause}
}

func BadRequest(message string) *AppError { return New(CodeBadRequest, message) }

func Unauthorized(message string) *AppError { return New(CodeUnauthorized, message) }

func Forbidden(message string) *AppError { return New(CodeForbidden, message) }

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func Conflict(message string) *AppError { return New(CodeConflict, message) }

func Internal(message string, cause error) *AppError {
	return Wrap(CodeInternal, message, cause)
}

func PersistenceError(cause error) *AppError {
	return Wrap(CodePersistenceError, "persistence operation failed", cause)
}
