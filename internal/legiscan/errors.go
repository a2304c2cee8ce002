package legiscan

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorizes a dataset failure.
type Kind string

const (
	// KindApplication covers answers LegiScan gave that carry no usable data.
	KindApplication Kind = "application"
	// KindUpstream covers failures talking to LegiScan.
	KindUpstream Kind = "upstream"
	// KindInternal covers failures decoding what LegiScan sent.
	KindInternal Kind = "internal"
)

// Messages returned to clients of /api/get-laws.
const (
	msgErrorStatus = "LegiScan API returned error status"
	msgNoZip       = "No zip data found in API response"
	msgNoJSON      = "No valid JSON files found in zip archive"
)

// ErrMissingKey is wrapped when no LegiScan API key is configured.
var ErrMissingKey = errors.New("LEGISCAN_API_KEY is not set")

// Error is a dataset failure with the message shown to the user.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	if e.Kind == KindApplication {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func applicationError(msg string) *Error {
	return &Error{Kind: KindApplication, Message: msg}
}

func upstreamError(err error) *Error {
	return &Error{
		Kind:    KindUpstream,
		Message: fmt.Sprintf("Failed to fetch data from LegiScan API: %v", err),
		Err:     err,
	}
}

func internalError(err error) *Error {
	return &Error{
		Kind:    KindInternal,
		Message: fmt.Sprintf("Error processing LegiScan data: %v", err),
		Err:     err,
	}
}

// StatusOf returns the HTTP status for err, 500 when err is not an *Error.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status()
	}
	return http.StatusInternalServerError
}
