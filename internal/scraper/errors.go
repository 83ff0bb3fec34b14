package scraper

import (
	"errors"
	"fmt"
)

// Kind classifies why a catalog or resolution call produced no result
type Kind int

const (
	// KindNone is reported for nil errors and errors not produced by this package
	KindNone Kind = iota
	// KindNotFound covers dead ends: no identifier, no servers, no playable source
	KindNotFound
	// KindTransport covers network failures, timeouts and non-2xx responses
	KindTransport
	// KindShape covers markup or JSON that does not have the expected structure
	KindShape
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindTransport:
		return "transport"
	case KindShape:
		return "shape"
	default:
		return "none"
	}
}

// Error is the typed failure returned by every Client operation
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Sentinels for errors.Is checks by kind
var (
	ErrNotFound  = &Error{Kind: KindNotFound}
	ErrTransport = &Error{Kind: KindTransport}
	ErrShape     = &Error{Kind: KindShape}
)

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}

func notFound(op, format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Op: op, Err: fmt.Errorf(format, args...)}
}

func shapeError(op, format string, args ...interface{}) *Error {
	return &Error{Kind: KindShape, Op: op, Err: fmt.Errorf(format, args...)}
}

func transportError(op string, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, Err: err}
}

// statusError is returned for non-2xx responses
type statusError struct {
	Code   int
	Status string
	URL    string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("server returned %s for %s", e.Status, e.URL)
}
