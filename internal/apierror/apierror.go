// Package apierror provides standardized error response structures for the
// HTTP surface. All errors returned to clients go through this package to
// ensure consistency and to prevent leaking internal details (stack traces,
// DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx JSON responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}
