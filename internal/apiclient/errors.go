package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPath is returned before any network call when a request has no path.
	ErrEmptyPath = errors.New("request path must not be empty")
	// ErrInvalidBody is returned when a request body cannot be encoded as JSON.
	ErrInvalidBody = errors.New("request body is not JSON-serializable")
)

// RemoteAPIError reports a platform response with status >= 400, or a
// platform-level failure envelope such as Slack's {"ok": false}.
type RemoteAPIError struct {
	Platform   string
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("%s API error (status %d) on %s %s: %s", e.Platform, e.StatusCode, e.Method, e.Path, e.Body)
}

// TransportError reports a request that never produced a response:
// timeouts, DNS failures, refused connections.
type TransportError struct {
	Platform string
	Method   string
	Path     string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request %s %s failed: %v", e.Platform, e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusCode extracts the upstream status code from err, if it wraps a
// RemoteAPIError.
func StatusCode(err error) (int, bool) {
	var remote *RemoteAPIError
	if errors.As(err, &remote) {
		return remote.StatusCode, true
	}
	return 0, false
}
