// Package resp is an umbrella package which covers the types shared by all
// RESP handling in respcmd: the Marshaler interface implemented by every
// value which can be written back onto the wire, and the error taxonomy used
// by the decoder (resp/resp3) and the command classifier (command).
//
// Every failure produced while decoding or classifying wraps exactly one of
// ErrGrammar, ErrFraming, ErrShape or ErrSemantic, so callers can branch on the
// category with errors.Is without inspecting messages. Decoding failures caused
// by a buffer which ends before a declared length or terminator additionally
// wrap io.ErrUnexpectedEOF; a transport which buffers network reads can use
// that to decide to read more bytes rather than to drop the connection.
package resp

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Marshaler is the interface implemented by types that can marshal themselves
// into valid RESP.
type Marshaler interface {
	MarshalRESP(io.Writer) error
}

var (
	// ErrGrammar is wrapped by errors for input which does not follow the RESP
	// grammar: an unknown type marker, a malformed length, integer or sign, a
	// bad boolean character or a length below the null sentinel.
	ErrGrammar = errors.New("resp: grammar error")

	// ErrFraming is wrapped by errors for input whose framing is broken: a
	// buffer shorter than a declared length or a missing CRLF terminator.
	ErrFraming = errors.New("resp: framing error")

	// ErrShape is wrapped by errors for values which do not have the shape of
	// a command.
	ErrShape = errors.New("resp: shape error")

	// ErrSemantic is wrapped by errors for well-shaped commands which can't be
	// understood, e.g. an unknown command name.
	ErrSemantic = errors.New("resp: semantic error")
)

// Error describes a failure to decode a RESP message from a buffer.
type Error struct {
	// Kind is one of ErrGrammar or ErrFraming.
	Kind error

	// Prefix is the type marker of the value being decoded when the failure
	// happened. It is 0 if the buffer was empty.
	Prefix byte

	// Offset is the byte offset, relative to the start of the buffer given to
	// the top-level decode call, of the value being decoded.
	Offset int

	// Msg describes the failure.
	Msg string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	s := e.Kind.Error() + " at offset " + strconv.Itoa(e.Offset)
	if e.Prefix != 0 {
		s += fmt.Sprintf(" (%q)", e.Prefix)
	}
	s += ": " + e.Msg
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Is reports whether target is the Kind of e or matches its underlying cause.
func (e *Error) Is(target error) bool {
	return target == e.Kind || (e.Err != nil && errors.Is(e.Err, target))
}

// Unwrap implements the interface used by errors.Is and errors.As. Both the
// Kind and the underlying cause are exposed.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// IsTruncated returns true if err describes a buffer which ended before a
// complete message could be read from it.
func IsTruncated(err error) bool {
	return errors.Is(err, ErrFraming) && errors.Is(err, io.ErrUnexpectedEOF)
}
