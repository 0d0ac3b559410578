package api

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrMalformedResponse marks a response body that could not be decoded.
var ErrMalformedResponse = errors.New("malformed response")

// ErrEmptyDownload marks a binary response with zero bytes. No file is saved.
var ErrEmptyDownload = errors.New("empty download")

// HTTPError is a non-2xx response from a backend.
type HTTPError struct {
	StatusCode int
	Status     string
	Host       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("API Error: %s", e.Status)
}

// ApplicationError is a JSON payload carrying status:"error".
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string {
	if e.Message == "" {
		return "Unknown error from API"
	}
	return e.Message
}
