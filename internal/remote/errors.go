package remote

import "errors"

// Kind classifies an operation failure for the operator-facing layer.
type Kind int

const (
	// KindValidation is a client-side failure caught before any network
	// call. It never reaches the wire.
	KindValidation Kind = iota
	// KindNotFound means the service reported no match.
	KindNotFound
	// KindConflict means a referenced entity vanished between
	// identification and commit.
	KindConflict
	// KindTransport is a network or server failure; the message is not
	// guaranteed to be meaningful.
	KindTransport
)

// Error is the taxonomy error surfaced verbatim to the operator. There is no
// automatic retry anywhere: the operator decides whether to retry, edit the
// input, or abandon.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validation builds a client-side validation error.
func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

// NotFound builds a no-match error.
func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

// Conflict builds a vanished-referent error.
func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

// Transport builds a network/server error.
func Transport(msg string) *Error { return &Error{Kind: KindTransport, Message: msg} }

func isKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsValidation reports whether err is a client-side validation error.
func IsValidation(err error) bool { return isKind(err, KindValidation) }

// IsNotFound reports whether err is a no-match error.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsConflict reports whether err is a vanished-referent error.
func IsConflict(err error) bool { return isKind(err, KindConflict) }

// IsTransport reports whether err is a network/server error.
func IsTransport(err error) bool { return isKind(err, KindTransport) }
