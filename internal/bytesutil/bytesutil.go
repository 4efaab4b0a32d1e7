// Package bytesutil provides utility functions for working with the raw byte
// buffers that RESP messages are decoded from.
package bytesutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
)

// ErrMissingCRLF is returned by CutLine and CutCRLF when a line is terminated
// by something other than \r\n.
var ErrMissingCRLF = errors.New("missing CRLF terminator")

var bytePool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 64)
		return &b
	},
}

// GetBytes returns a non-nil pointer to a byte slice from a pool of byte slices.
//
// The returned byte slice should be put back into the pool using PutBytes after usage.
func GetBytes() *[]byte {
	return bytePool.Get().(*[]byte)
}

// PutBytes puts the given byte slice pointer into a pool that can be accessed via GetBytes.
//
// After calling PutBytes the given pointer and byte slice must not be accessed anymore.
func PutBytes(b *[]byte) {
	*b = (*b)[:0]
	bytePool.Put(b)
}

// ParseInt is a specialized version of strconv.ParseInt that parses a base-10
// encoded signed integer from a []byte. A single leading '+' or '-' is
// allowed. Values which do not fit in an int64 are rejected.
//
// This can be used to avoid allocating a string, since strconv.ParseInt only
// takes a string.
func ParseInt(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, errors.New("empty slice given to parseInt")
	}

	var neg bool
	if b[0] == '-' || b[0] == '+' {
		neg = b[0] == '-'
		b = b[1:]
	}

	n, err := ParseUint(b)
	if err != nil {
		return 0, err
	}

	if neg {
		if n > 1<<63 {
			return 0, fmt.Errorf("value -%d overflows int64", n)
		}
		return -int64(n), nil
	} else if n > math.MaxInt64 {
		return 0, fmt.Errorf("value %d overflows int64", n)
	}

	return int64(n), nil
}

// ParseUint is a specialized version of strconv.ParseUint that parses a base-10
// encoded integer from a []byte. No sign is allowed.
//
// This can be used to avoid allocating a string, since strconv.ParseUint only
// takes a string.
func ParseUint(b []byte) (uint64, error) {
	if len(b) == 0 {
		return 0, errors.New("empty slice given to parseUint")
	}

	var n uint64

	for i, c := range b {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid character %q at position %d in parseUint", c, i)
		}

		d := uint64(c - '0')
		if n > (math.MaxUint64-d)/10 {
			return 0, fmt.Errorf("value %q overflows uint64", b)
		}
		n = n*10 + d
	}

	return n, nil
}

// IsDigits returns true if b is non-empty and made up only of the characters
// '0' through '9'.
func IsDigits(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CutLine splits b around the first \r\n, returning the bytes before it and
// the bytes after it. The returned line never contains \r or \n.
//
// If b ends before a \r\n is found io.ErrUnexpectedEOF is returned. If a \r
// is followed by anything other than \n, or a \n is found without a \r before
// it, ErrMissingCRLF is returned.
func CutLine(b []byte) (line, rest []byte, err error) {
	i := bytes.IndexByte(b, '\r')
	end := i
	if end < 0 {
		end = len(b)
	}
	if bytes.IndexByte(b[:end], '\n') >= 0 {
		return nil, nil, ErrMissingCRLF
	} else if i < 0 || i == len(b)-1 {
		return nil, nil, io.ErrUnexpectedEOF
	} else if b[i+1] != '\n' {
		return nil, nil, ErrMissingCRLF
	}
	return b[:i:i], b[i+2:], nil
}

// CutN splits off exactly n bytes from the front of b, which must then be
// followed by \r\n. The returned head is capped so that appending to it never
// writes into b.
func CutN(b []byte, n int) (head, rest []byte, err error) {
	if n < 0 {
		return nil, nil, fmt.Errorf("negative length %d", n)
	} else if len(b) < n {
		return nil, nil, io.ErrUnexpectedEOF
	}
	head, rest = b[:n:n], b[n:]
	if rest, err = CutCRLF(rest); err != nil {
		return nil, nil, err
	}
	return head, rest, nil
}

// CutCRLF requires b to start with \r\n and returns what follows it.
func CutCRLF(b []byte) ([]byte, error) {
	switch {
	case len(b) >= 2 && b[0] == '\r' && b[1] == '\n':
		return b[2:], nil
	case len(b) == 0, len(b) == 1 && b[0] == '\r':
		return nil, io.ErrUnexpectedEOF
	default:
		return nil, ErrMissingCRLF
	}
}
