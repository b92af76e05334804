package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// trail does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation marks data that does not conform to the Trail shape, whether
// it came from an HTTP response, a query parameter or a database row.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrRequest marks a fetch that did not complete: a transport failure or a
// non-2xx response.
var ErrRequest = errors.New("request error")

// Issue is one constraint violation found while validating a payload.
type Issue struct {
	// Path locates the offending value, e.g. "name" or "[2].difficulty".
	// Empty when the payload as a whole is wrong.
	Path string `json:"path"`
	// Code is a stable machine-readable identifier such as "invalid_uuid".
	Code string `json:"code"`
	// Message is the human-readable description.
	Message string `json:"message"`
}

// ValidationError reports every issue found in a payload.
// errors.Is(err, ErrValidation) reports true for it.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		if is.Path == "" {
			parts = append(parts, is.Message)
			continue
		}
		parts = append(parts, is.Path+": "+is.Message)
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// Is lets errors.Is match ValidationError against ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Paths returns the paths of all issues, in report order.
func (e *ValidationError) Paths() []string {
	out := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		out[i] = is.Path
	}
	return out
}

// RequestError describes a fetch that did not produce a usable response.
// StatusCode is zero when the request never got a response.
type RequestError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request error: %s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Is lets errors.Is match RequestError against ErrRequest.
func (e *RequestError) Is(target error) bool {
	return target == ErrRequest
}
