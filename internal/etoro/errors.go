package etoro

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials reports a fetch attempted without configured keys.
// It is distinct from network and upstream errors so callers can prompt for
// setup instead of showing a generic failure.
var ErrMissingCredentials = errors.New("missing api credentials")

// StatusError is a non-success upstream response on a primary call. It
// carries the status code and body text for the user-visible message.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream error %d: %s", e.StatusCode, e.Body)
}
