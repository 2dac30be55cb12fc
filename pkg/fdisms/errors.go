package fdisms

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for the status codes the API is known to return. Branch on
// them with errors.Is; recover the raw response with errors.As and *APIError.
var (
	ErrBadRequest          = errors.New("fdisms: bad request")
	ErrUnauthorized        = errors.New("fdisms: unauthorized")
	ErrForbidden           = errors.New("fdisms: forbidden")
	ErrNotFound            = errors.New("fdisms: not found")
	ErrUnprocessableEntity = errors.New("fdisms: unprocessable entity")
	ErrInternalServer      = errors.New("fdisms: internal server error")
	ErrServiceUnavailable  = errors.New("fdisms: service unavailable")
	ErrUnknown             = errors.New("fdisms: unexpected api response")
)

// APIError carries the status code and unmodified body of a non-200 response.
type APIError struct {
	StatusCode int
	Body       []byte

	kind error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fdisms: api returned status %d body: %s", e.StatusCode, responseSnippet(e.Body))
}

// Unwrap exposes the sentinel matching the status code.
func (e *APIError) Unwrap() error { return e.kind }

func kindFor(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnprocessableEntity:
		return ErrUnprocessableEntity
	case http.StatusInternalServerError:
		return ErrInternalServer
	case http.StatusServiceUnavailable:
		return ErrServiceUnavailable
	default:
		return ErrUnknown
	}
}

// translate maps an API response to its payload. A 200 passes the body
// through untouched; any other status becomes an *APIError wrapping the
// sentinel for that code.
func translate(status int, body []byte) ([]byte, error) {
	if status == http.StatusOK {
		return body, nil
	}
	return nil, &APIError{StatusCode: status, Body: body, kind: kindFor(status)}
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
