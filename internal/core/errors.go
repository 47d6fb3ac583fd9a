package core

import "fmt"

// Kind classifies the errors the core can return, per the documented error
// surface: callers that need to branch on failure mode should use
// errors.Is against the sentinel values below rather than string-matching.
type Kind int

const (
	// KindUnknown is never returned directly; it is the zero value.
	KindUnknown Kind = iota
	KindNotARepository
	KindAlreadyExists
	KindNotFound
	KindCorrupt
	KindMismatch
	KindUnknownName
	KindNonFastForward
	KindBusy
	KindIOError
)

func (k Kind) String() string {
	switch k {
	case KindNotARepository:
		return "NotARepository"
	case KindAlreadyExists:
		return "AlreadyExists"
	case KindNotFound:
		return "NotFound"
	case KindCorrupt:
		return "Corrupt"
	case KindMismatch:
		return "KindMismatch"
	case KindUnknownName:
		return "UnknownName"
	case KindNonFastForward:
		return "NonFastForward"
	case KindBusy:
		return "Busy"
	case KindIOError:
		return "IOError"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying cause with a Kind so callers can branch on
// failure mode with errors.Is/errors.As without parsing messages.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "core.ObjectStore.Read"
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so
// errors.Is(err, &Error{Kind: KindNotFound}) works without matching Op/Err.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newErr(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Sentinel errors for errors.Is comparisons against a bare Kind.
var (
	ErrNotARepository = &Error{Kind: KindNotARepository}
	ErrAlreadyExists  = &Error{Kind: KindAlreadyExists}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrCorrupt        = &Error{Kind: KindCorrupt}
	ErrKindMismatch   = &Error{Kind: KindMismatch}
	ErrUnknownName    = &Error{Kind: KindUnknownName}
	ErrNonFastForward = &Error{Kind: KindNonFastForward}
	ErrBusy           = &Error{Kind: KindBusy}
)
