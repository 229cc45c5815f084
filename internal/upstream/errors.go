package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError reports a non-2xx upstream response. Transport failures (DNS,
// timeouts, resets) are returned as plain errors and never wrapped in it, so
// callers can tell the two kinds apart.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("upstream status %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("upstream status %d", e.Code)
}

// Transient reports whether the status is the retryable server-error case.
func (e *StatusError) Transient() bool {
	return e.Code == http.StatusInternalServerError
}

// AsStatusError unwraps err into a StatusError when possible.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
