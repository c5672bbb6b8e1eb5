// Package errs defines the engine's error taxonomy. None of these errors is
// fatal to a session: each one is reported to the player and the engine
// returns to waiting for input.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error.
type Kind int

const (
	KindUnknown      Kind = iota
	KindUserInput         // unparseable or incomplete command
	KindNotFound          // referenced room, item, character or save slot is absent
	KindInvalidState      // action not valid right now; nothing was mutated
	KindCapacity          // inventory full
	KindPersistence       // store read/write/decode failure
	KindInternal          // engine defect, not a player-facing condition
)

func (k Kind) String() string {
	switch k {
	case KindUserInput:
		return "user input"
	case KindNotFound:
		return "not found"
	case KindInvalidState:
		return "invalid state"
	case KindCapacity:
		return "capacity"
	case KindPersistence:
		return "persistence"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a classified engine error. Msg is player-facing.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Msg == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf returns an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies err under kind with a player-facing message.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain,
// or KindUnknown if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the player-facing message of err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return err.Error()
}
