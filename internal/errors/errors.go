// Package errors provides domain-specific error types for netbat.
//
// Every failure the program can report falls into one Kind.  Connection
// establishment failures carry the host/port involved and render the
// one-line diagnostics printed by the driver; argument failures carry an
// optional hint for the usage message.
package errors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"syscall"
)

// Kind classifies a failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindArgument
	KindBind
	KindListen
	KindAccept
	KindResolve
	KindConnect
	KindIO
)

var kindNames = map[Kind]string{
	KindUnknown:  "unknown",
	KindArgument: "argument",
	KindBind:     "bind",
	KindListen:   "listen",
	KindAccept:   "accept",
	KindResolve:  "resolve",
	KindConnect:  "connect",
	KindIO:       "io",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ── Sentinel errors ──────────────────────────────────────────────────
//
// Sentinels match any structured error of the same Kind:
//
//	errors.Is(err, errors.ErrBind)

var (
	ErrArgument = &kindError{KindArgument}
	ErrBind     = &kindError{KindBind}
	ErrListen   = &kindError{KindListen}
	ErrAccept   = &kindError{KindAccept}
	ErrResolve  = &kindError{KindResolve}
	ErrConnect  = &kindError{KindConnect}
)

// ErrInterrupted marks a run ended by a signal rather than by either
// side closing.
var ErrInterrupted = errors.New("interrupted")

type kindError struct{ kind Kind }

func (e *kindError) Error() string { return e.kind.String() + " error" }

// ── Structured error types ───────────────────────────────────────────

// NetworkError represents a failure while establishing or using the
// connection.
type NetworkError struct {
	Kind Kind
	Host string // empty in server role
	Port int
	Err  error // underlying error
}

func (e *NetworkError) Error() string {
	var s string
	switch e.Kind {
	case KindBind, KindListen:
		s = fmt.Sprintf("failure listening on port %d", e.Port)
	case KindAccept:
		s = fmt.Sprintf("failure accepting connection on port %d", e.Port)
	case KindResolve, KindConnect:
		s = fmt.Sprintf("failure connecting to %s:%d", e.Host, e.Port)
	default:
		s = fmt.Sprintf("%s failure", e.Kind)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's Kind.
func (e *NetworkError) Is(target error) bool {
	ke, ok := target.(*kindError)
	return ok && ke.kind == e.Kind
}

// ArgumentError represents an invalid command line.
type ArgumentError struct {
	Arg     string // offending argument (empty when the arity is wrong)
	Message string
	Hint    string // suggestion for the user (optional)
}

func (e *ArgumentError) Error() string {
	msg := "usage: "
	if e.Arg != "" {
		msg += strconv.Quote(e.Arg) + ": "
	}
	msg += e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

// Is matches ErrArgument.
func (e *ArgumentError) Is(target error) bool { return target == ErrArgument }

// ── Constructors ─────────────────────────────────────────────────────

// Listen builds a server-role error of the given kind.
func Listen(kind Kind, port int, err error) *NetworkError {
	return &NetworkError{Kind: kind, Port: port, Err: err}
}

// Dial builds a client-role error of the given kind.
func Dial(kind Kind, host string, port int, err error) *NetworkError {
	return &NetworkError{Kind: kind, Host: host, Port: port, Err: err}
}

// KindOf returns the Kind of the first structured error in err's chain.
func KindOf(err error) Kind {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Kind
	}
	var ae *ArgumentError
	if errors.As(err, &ae) {
		return KindArgument
	}
	return KindUnknown
}

// ── Classification helpers ───────────────────────────────────────────

// IsExpectedClose reports whether err is a normal way for one relay
// direction to end: EOF, a closed or reset connection, a broken pipe,
// an expired deadline or a cancelled read.
func IsExpectedClose(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, os.ErrDeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EPIPE || errno == syscall.ECONNRESET
	}
	return false
}

// ── Re-exports for convenience ───────────────────────────────────────

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }
