package domain

import "errors"

type ErrorKind string

const (
	KindScheduleUnavailable ErrorKind = "schedule_unavailable"
	KindInvalidDate         ErrorKind = "invalid_date"
	KindSlotTaken           ErrorKind = "slot_taken"
	KindInvalidRequest      ErrorKind = "invalid_request"
	KindServerUnavailable   ErrorKind = "server_unavailable"
	KindNotFound            ErrorKind = "not_found"
)

// Error is the typed outcome of a scheduling or booking operation.
// Two Errors match under errors.Is when their kinds are equal, so callers
// compare against the sentinels below instead of inspecting messages.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

var (
	ErrScheduleUnavailable = &Error{Kind: KindScheduleUnavailable}
	ErrInvalidDate         = &Error{Kind: KindInvalidDate}
	ErrSlotTaken           = &Error{Kind: KindSlotTaken}
	ErrInvalidRequest      = &Error{Kind: KindInvalidRequest}
	ErrServerUnavailable   = &Error{Kind: KindServerUnavailable}
	ErrNotFound            = &Error{Kind: KindNotFound}
)

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewError builds an Error of the given kind wrapping cause (which may be nil).
func NewError(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
