// Package command turns decoded RESP messages into typed commands.
//
// A client sends a command as an array of strings, the first of which names
// the command. Classify matches that name case-insensitively against the
// commands this package knows (PING, ECHO, GET and SET) and builds the
// matching Command. Argument payloads are not copied, they share the buffer the
// message was decoded from.
package command

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mediocregopher/respcmd/internal/bytesutil"
	"github.com/mediocregopher/respcmd/resp"
	"github.com/mediocregopher/respcmd/resp/resp3"
)

// Command is implemented by every command Classify can return: Ping, Echo,
// Get and Set.
type Command interface {
	// Name returns the upper case name of the command.
	Name() string

	isCommand()
}

// Ping is the PING command. Any arguments it was sent with are ignored.
type Ping struct{}

// Name implements the method for the Command interface.
func (Ping) Name() string { return "PING" }

func (Ping) isCommand() {}

// Echo is the ECHO command.
type Echo struct {
	Args []resp3.Value
}

// Get is the GET command.
type Get struct {
	Args []resp3.Value
}

// Set is the SET command. PX is the expiry in milliseconds, or nil if the
// command didn't have one.
type Set struct {
	Key, Value []byte
	PX         *uint64
}

// Name implements the method for the Command interface.
func (Echo) Name() string { return "ECHO" }

func (Echo) isCommand() {}

// Name implements the method for the Command interface.
func (Get) Name() string { return "GET" }

func (Get) isCommand() {}

// Name implements the method for the Command interface.
func (Set) Name() string { return "SET" }

func (Set) isCommand() {}

// Argv returns the command as the flat list of strings a client would send
// for it: the name followed by every argument.
func Argv(c Command) [][]byte {
	argv := [][]byte{[]byte(c.Name())}
	switch c := c.(type) {
	case Echo:
		argv = append(argv, resp3.Flatten(resp3.Array{A: c.Args})...)
	case Get:
		argv = append(argv, resp3.Flatten(resp3.Array{A: c.Args})...)
	case Set:
		argv = append(argv, c.Key, c.Value)
		if c.PX != nil {
			argv = append(argv, []byte("PX"), strconv.AppendUint(nil, *c.PX, 10))
		}
	}
	return argv
}

// Error describes a value which could not be classified as a command.
type Error struct {
	// Kind is one of resp.ErrShape or resp.ErrSemantic.
	Kind error

	// Index is the position within the command array of the element which
	// caused the failure, or -1 if the failure isn't about a single element.
	Index int

	// Msg describes the failure.
	Msg string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	s := e.Kind.Error() + ": " + e.Msg
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Is reports whether target is the Kind of e or matches its underlying cause.
func (e *Error) Is(target error) bool {
	return target == e.Kind || (e.Err != nil && errors.Is(e.Err, target))
}

// Unwrap implements the interface used by errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func errShape(i int, format string, args ...interface{}) error {
	return &Error{Kind: resp.ErrShape, Index: i, Msg: fmt.Sprintf(format, args...)}
}

func errSemantic(i int, err error, format string, args ...interface{}) error {
	return &Error{Kind: resp.ErrSemantic, Index: i, Msg: fmt.Sprintf(format, args...), Err: err}
}

// text returns the payload of a string-like value.
func text(v resp3.Value) ([]byte, bool) {
	switch v := v.(type) {
	case resp3.BlobString:
		return v.B, true
	case resp3.SimpleString:
		return v.B, true
	}
	return nil, false
}

func describe(v resp3.Value) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%s %q", v.Prefix().Name(), fmt.Sprint(v))
}

// normalizeName upper cases ASCII without allocating for already upper case
// names.
func normalizeName(b []byte) string {
	if bytes.ContainsAny(b, "abcdefghijklmnopqrstuvwxyz") {
		return strings.ToUpper(string(b))
	}
	return string(b)
}

// Classify turns a decoded message into a Command. The message must be an
// Array whose first element is a BlobString or SimpleString naming one of the
// commands this package knows.
//
// If an error is returned it will be a *Error wrapping either resp.ErrShape,
// if v doesn't look like a command at all, or resp.ErrSemantic, if it looks
// like a command which can't be understood.
func Classify(v resp3.Value) (Command, error) {
	arr, ok := v.(resp3.Array)
	if !ok {
		return nil, errShape(-1, "not a command: expected array, got %s", describe(v))
	} else if len(arr.A) == 0 {
		return nil, errShape(-1, "not a command: empty array")
	}

	nameB, ok := text(arr.A[0])
	if !ok {
		return nil, errShape(0, "command name must be a string, got %s", describe(arr.A[0]))
	}

	switch normalizeName(nameB) {
	case "PING":
		return Ping{}, nil
	case "ECHO":
		return Echo{Args: arr.A[1:]}, nil
	case "GET":
		return Get{Args: arr.A[1:]}, nil
	case "SET":
		return classifySet(arr.A)
	default:
		return nil, errSemantic(0, nil, "unknown command: %s", nameB)
	}
}

// classifySet handles the "SET key value [PX milliseconds]" form. Other SET
// options are not supported.
func classifySet(args []resp3.Value) (Command, error) {
	if len(args) < 3 {
		return nil, errSemantic(-1, nil, "wrong number of arguments for SET: %d", len(args)-1)
	}

	var set Set
	var ok bool
	if set.Key, ok = text(args[1]); !ok {
		return nil, errSemantic(1, nil, "SET key must be a string, got %s", describe(args[1]))
	} else if set.Value, ok = text(args[2]); !ok {
		return nil, errSemantic(2, nil, "SET value must be a string, got %s", describe(args[2]))
	}

	if len(args) < 5 {
		return set, nil
	}

	if opt, _ := text(args[3]); normalizeName(opt) != "PX" {
		return nil, errSemantic(3, nil, "unsupported SET option %s", describe(args[3]))
	}

	pxB, ok := text(args[4])
	if !ok {
		return nil, errSemantic(4, nil, "SET PX must be a string, got %s", describe(args[4]))
	}
	// an explicit '+' sign is accepted
	digits := pxB
	if len(digits) > 0 && digits[0] == '+' {
		digits = digits[1:]
	}
	px, err := bytesutil.ParseUint(digits)
	if err != nil {
		return nil, errSemantic(4, err, "invalid SET PX %q", pxB)
	}
	set.PX = &px
	return set, nil
}
