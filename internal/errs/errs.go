// Package errs provides the typed error codes shared across the search
// kernel. The kernel's failure points (index build, peptide-index lookup,
// residue lookup, protein quarantine in the pipeline) return, wrap or panic
// with an *Error so that callers can discriminate failure classes with
// errors.As instead of string matching. The config loader, the file readers
// and the CLI return plain errors.
package errs

import (
	"errors"
	"fmt"
)

// Code is a coarse failure class, one per kind enumerated in the error
// handling design.
type Code int

const (
	// Unknown is the zero value; never returned deliberately.
	Unknown Code = iota

	// MalformedInput marks a non-standard amino-acid character or an empty
	// peptide encountered while parsing a protein or a spectrum. The
	// offending record is dropped, not the whole run.
	MalformedInput

	// DegenerateHyperscore marks a non-finite ln/factorial result that was
	// recovered locally by clamping; carried for diagnostics only.
	DegenerateHyperscore

	// ConfigurationError marks a fatal, build-time misconfiguration such as
	// a reversed tolerance window or a non-positive bucket size.
	ConfigurationError

	// IndexOutOfRange marks a PeptideIx presented to a database that did
	// not issue it. Always a programming error.
	IndexOutOfRange
)

func (c Code) String() string {
	switch c {
	case MalformedInput:
		return "malformed_input"
	case DegenerateHyperscore:
		return "degenerate_hyperscore"
	case ConfigurationError:
		return "configuration_error"
	case IndexOutOfRange:
		return "index_out_of_range"
	default:
		return "unknown"
	}
}

// Error is the carrier type returned by fallible operations in the kernel.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New constructs an *Error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches code and message to an existing error, preserving it for
// errors.Is/As traversal.
func Wrap(cause error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Is reports whether err is an *Error carrying the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
