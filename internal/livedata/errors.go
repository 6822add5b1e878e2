package livedata

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors for live fetch failures.
var (
	// ErrFetchTimeout indicates the live source did not answer within
	// the configured deadline.
	ErrFetchTimeout = errors.New("live fetch timed out")

	// ErrFetchUnavailable indicates the live source answered but the
	// response was unusable (non-200 status, network refusal, bad body).
	ErrFetchUnavailable = errors.New("live source unavailable")
)

// FetchError wraps a failure against a specific course page.
type FetchError struct {
	CourseID   string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d: %v", e.CourseID, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.CourseID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsTimeout reports whether err represents a fetch deadline expiry.
func IsTimeout(err error) bool {
	if errors.Is(err, ErrFetchTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

// IsUnavailable reports whether err represents an unusable live source.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrFetchUnavailable)
}

// classify wraps a transport error in the matching sentinel.
func classify(courseID, url string, err error) error {
	sentinel := ErrFetchUnavailable
	if IsTimeout(err) {
		sentinel = ErrFetchTimeout
	}
	return &FetchError{CourseID: courseID, URL: url, Err: fmt.Errorf("%w: %v", sentinel, err)}
}
