// Package taxerrors defines the failure taxonomy shared by every stage of the
// fetch, parse, cache and compute pipeline.
//
// Every error produced by the pipeline is a *Error carrying a Kind. Callers
// classify failures with errors.Is against the exported sentinels or with
// KindOf, regardless of how many times the error was wrapped on the way up.
package taxerrors

import (
	"errors"
	"fmt"
)

// Kind identifies a class of failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnsupportedJurisdiction
	KindNetwork
	KindSourceUnavailable
	KindSchemaMismatch
	KindInvalidInput
	KindCache
)

var kindNames = map[Kind]string{
	KindUnknown:                 "unknown",
	KindUnsupportedJurisdiction: "unsupported_jurisdiction",
	KindNetwork:                 "network_error",
	KindSourceUnavailable:       "source_unavailable",
	KindSchemaMismatch:          "schema_mismatch",
	KindInvalidInput:            "invalid_input",
	KindCache:                   "cache_error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String. Unrecognised names yield KindUnknown.
func ParseKind(name string) Kind {
	for k, n := range kindNames {
		if n == name {
			return k
		}
	}
	return KindUnknown
}

// Sentinels for errors.Is. A *Error matches the sentinel of its Kind.
var (
	ErrUnsupportedJurisdiction = errors.New("unsupported jurisdiction")
	ErrNetwork                 = errors.New("network error")
	ErrSourceUnavailable       = errors.New("source unavailable")
	ErrSchemaMismatch          = errors.New("schema mismatch")
	ErrInvalidInput            = errors.New("invalid input")
	ErrCache                   = errors.New("cache error")
)

var sentinels = map[Kind]error{
	KindUnsupportedJurisdiction: ErrUnsupportedJurisdiction,
	KindNetwork:                 ErrNetwork,
	KindSourceUnavailable:       ErrSourceUnavailable,
	KindSchemaMismatch:          ErrSchemaMismatch,
	KindInvalidInput:            ErrInvalidInput,
	KindCache:                   ErrCache,
}

// Sentinel returns the sentinel matched by errors of kind k, or nil for KindUnknown.
func Sentinel(k Kind) error {
	return sentinels[k]
}

// Error is a classified pipeline failure.
type Error struct {
	Kind Kind
	// Op is the operation that failed, e.g. "fetch", "parse", "compute".
	Op  string
	Msg string
	// StatusCode is the upstream HTTP status for KindSourceUnavailable, 0 otherwise.
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		if s, ok := sentinels[e.Kind]; ok {
			msg = s.Error()
		} else {
			msg = e.Kind.String()
		}
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// New creates an error of the given kind.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies err under kind. A nil err yields nil.
func Wrap(kind Kind, op, msg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

func UnsupportedJurisdiction(op, format string, args ...any) *Error {
	return Newf(KindUnsupportedJurisdiction, op, format, args...)
}

func Network(op, msg string, err error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Msg: msg, Err: err}
}

func SourceUnavailable(op string, statusCode int, msg string) *Error {
	return &Error{Kind: KindSourceUnavailable, Op: op, Msg: msg, StatusCode: statusCode}
}

func SchemaMismatch(op, format string, args ...any) *Error {
	return Newf(KindSchemaMismatch, op, format, args...)
}

func InvalidInput(op, format string, args ...any) *Error {
	return Newf(KindInvalidInput, op, format, args...)
}

func Cache(op, format string, args ...any) *Error {
	return Newf(KindCache, op, format, args...)
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsRetryable reports whether err is a transient network or upstream failure.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindNetwork, KindSourceUnavailable:
		return true
	default:
		return false
	}
}
