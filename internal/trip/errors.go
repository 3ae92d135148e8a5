package trip

import (
	"context"
	"errors"
	"fmt"
)

// ErrCancelled marks a request that was superseded or torn down. Callers must
// treat it as a no-op, never as a failure to surface.
var ErrCancelled = errors.New("trip: request cancelled")

// FetchError is a network error, timeout, or non-2xx upstream response.
type FetchError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("trip: %s returned status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("trip: %s fetch failed: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// UserMessage is the display string shown in the listing's error region.
func (e *FetchError) UserMessage() string {
	return "We couldn't load trips right now. Please try again."
}

// MalformedResponseError means the upstream body matched none of the accepted
// envelope shapes. It is surfaced like a fetch failure with a generic message.
type MalformedResponseError struct {
	Endpoint string
	Reason   string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("trip: %s returned unrecognized response shape: %s", e.Endpoint, e.Reason)
}

func (e *MalformedResponseError) UserMessage() string {
	return "We couldn't load trips right now. Please try again."
}

// IsCancelled reports whether err stems from cancellation rather than a real
// failure.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

// UserMessage extracts a display string from any search error.
func UserMessage(err error) string {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.UserMessage()
	}
	var malformed *MalformedResponseError
	if errors.As(err, &malformed) {
		return malformed.UserMessage()
	}
	return "We couldn't load trips right now. Please try again."
}
