package viewer

import (
	"errors"
	"fmt"
)

// Kind categorizes a controller failure.
type Kind string

const (
	KindNetwork     Kind = "network"
	KindApplication Kind = "application"
	KindClipboard   Kind = "clipboard"
)

var (
	// ErrNoDocument is returned by Copy and Download when nothing is displayed.
	ErrNoDocument = errors.New("no document loaded")
	// ErrSuperseded is returned when a newer request replaced this one before
	// it completed; its result was discarded.
	ErrSuperseded = errors.New("request superseded by a newer one")
)

// Error is a failure with the message shown to the user.
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

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
}

func applicationError(msg string) *Error {
	return &Error{Kind: KindApplication, Message: msg}
}

func httpStatusError(status int) *Error {
	return applicationError(fmt.Sprintf("HTTP error! status: %d", status))
}
