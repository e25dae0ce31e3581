package translation

import (
	"errors"
	"fmt"
)

// ErrDuplicateRequest is returned when the same text was submitted again
// within the duplicate window. No HTTP call is made.
var ErrDuplicateRequest = errors.New("duplicate request detected")

// APIError reports a failed upstream call: a network error, a non-2xx status
// or a response without content.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s API request failed: %s", e.Provider, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s API request failed: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("%s API request failed", e.Provider)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}
