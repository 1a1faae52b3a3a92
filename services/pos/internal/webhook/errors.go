package webhook

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedBody marks a listing body that is not usable JSON.
	ErrMalformedBody = errors.New("malformed response body")
	// ErrRejected marks an explicit success:false from the backend.
	ErrRejected = errors.New("rejected by backend")
	// ErrNotConfigured is returned when the client has no base URL.
	ErrNotConfigured = errors.New("webhook client not configured")
)

// TransportError reports a non-2xx reply.
type TransportError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: HTTP error status %d", e.Op, e.StatusCode)
}

// StatusCode extracts the HTTP status from err, or 0.
func StatusCode(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}
