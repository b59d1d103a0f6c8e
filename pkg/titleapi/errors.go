package titleapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingBaseURL is returned when the service settings carry no endpoint.
	ErrMissingBaseURL = errors.New("titleapi: missing base url")

	// ErrMarshalFailed is returned when a request body cannot be encoded.
	ErrMarshalFailed = errors.New("titleapi: failed to marshal request")
)

// StatusError is a non-2xx response from the title service.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("titleapi: %s %s: status %d", e.Method, e.Path, e.Code)
}

// Temporary reports whether retrying, or diverting to the offline path,
// makes sense for this status.
func (e *StatusError) Temporary() bool {
	return e.Code >= http.StatusInternalServerError || e.Code == http.StatusTooManyRequests
}
