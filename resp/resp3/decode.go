package resp3

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/mediocregopher/respcmd/internal/bytesutil"
	"github.com/mediocregopher/respcmd/resp"
)

// MaxDepth is the deepest level of Array/Map nesting which will be decoded.
// Anything nested deeper is rejected as a grammar error.
const MaxDepth = 1024

// minValueLen is the number of bytes taken up by the shortest possible RESP
// value ("_\r\n").
const minValueLen = 3

// DecodeOne decodes exactly one value from the front of b, returning the value
// along with the bytes of b which were not consumed.
//
// All payloads of the returned value are sub-slices of b, see the package docs.
// If an error is returned it will be a *resp.Error, and no value is returned.
func DecodeOne(b []byte) (Value, []byte, error) {
	d := decoder{buf: b}
	return d.decode(b)
}

// DecodeExact is like DecodeOne, but it additionally fails if b holds anything
// after the decoded value.
func DecodeExact(b []byte) (Value, error) {
	v, rest, err := DecodeOne(b)
	if err != nil {
		return nil, err
	} else if len(rest) > 0 {
		return nil, &resp.Error{
			Kind:   resp.ErrFraming,
			Prefix: rest[0],
			Offset: len(b) - len(rest),
			Msg:    fmt.Sprintf("%d unexpected bytes after message", len(rest)),
		}
	}
	return v, nil
}

// decoder holds the state of one top-level decode call.
type decoder struct {
	buf   []byte
	depth int
}

func (d *decoder) errAt(kind error, start []byte, err error, format string, args ...interface{}) error {
	var prefix byte
	if len(start) > 0 {
		prefix = start[0]
	}
	return &resp.Error{
		Kind:   kind,
		Prefix: prefix,
		Offset: len(d.buf) - len(start),
		Msg:    fmt.Sprintf(format, args...),
		Err:    err,
	}
}

// errFraming converts an error from bytesutil's Cut functions.
func (d *decoder) errFraming(start []byte, err error, what string) error {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return d.errAt(resp.ErrFraming, start, io.ErrUnexpectedEOF, "truncated %s", what)
	}
	return d.errAt(resp.ErrFraming, start, nil, "%s: %s", what, err)
}

func (d *decoder) decode(b []byte) (Value, []byte, error) {
	if len(b) == 0 {
		return nil, nil, d.errAt(resp.ErrFraming, b, io.ErrUnexpectedEOF, "no message")
	}

	switch Prefix(b[0]) {
	case SimpleStringPrefix:
		return d.decodeSimpleString(b)
	case SimpleErrorPrefix:
		return d.decodeSimpleError(b)
	case NumberPrefix:
		return d.decodeNumber(b)
	case BlobStringPrefix:
		return d.decodeBlobString(b)
	case BlobErrorPrefix:
		return d.decodeBlobError(b)
	case ArrayHeaderPrefix:
		return d.decodeArray(b)
	case MapHeaderPrefix:
		return d.decodeMap(b)
	case BooleanPrefix:
		return d.decodeBoolean(b)
	case NullPrefix:
		return d.decodeNull(b)
	case DoublePrefix:
		return d.decodeDouble(b)
	case BigNumberPrefix:
		return d.decodeBigNumber(b)
	case VerbatimStringPrefix:
		return d.decodeVerbatimString(b)
	case SetHeaderPrefix, PushHeaderPrefix:
		return nil, nil, d.errAt(resp.ErrGrammar, b, nil, "unsupported type %s", Prefix(b[0]).Name())
	default:
		return nil, nil, d.errAt(resp.ErrGrammar, b, nil, "unknown type marker")
	}
}

// line returns the body of a simple (CRLF terminated, not length prefixed)
// value, along with the rest of the buffer after its CRLF.
func (d *decoder) line(b []byte) ([]byte, []byte, error) {
	line, rest, err := bytesutil.CutLine(b[1:])
	if err != nil {
		return nil, nil, d.errFraming(b, err, Prefix(b[0]).Name())
	}
	return line, rest, nil
}

// length reads the declared length line of a length prefixed value. If
// nullable is true then a length of -1 is accepted and returned as-is.
func (d *decoder) length(b []byte, nullable bool) (int, []byte, error) {
	line, rest, err := d.line(b)
	if err != nil {
		return 0, nil, err
	}

	if nullable && len(line) == 2 && line[0] == '-' && line[1] == '1' {
		return -1, rest, nil
	} else if len(line) > 0 && line[0] == '-' {
		return 0, nil, d.errAt(resp.ErrGrammar, b, nil, "invalid length %q", line)
	}

	n, err := bytesutil.ParseUint(line)
	if err != nil {
		return 0, nil, d.errAt(resp.ErrGrammar, b, err, "invalid length %q", line)
	} else if n > math.MaxInt32 {
		// anything this large can't be in a buffer the caller could hold
		return 0, nil, d.errAt(resp.ErrFraming, b, io.ErrUnexpectedEOF, "declared length %d exceeds buffer", n)
	}
	return int(n), rest, nil
}

func (d *decoder) decodeSimpleString(b []byte) (Value, []byte, error) {
	line, rest, err := d.line(b)
	if err != nil {
		return nil, nil, err
	}
	return SimpleString{B: line}, rest, nil
}

func (d *decoder) decodeSimpleError(b []byte) (Value, []byte, error) {
	line, rest, err := d.line(b)
	if err != nil {
		return nil, nil, err
	}
	return SimpleError{B: line}, rest, nil
}

func (d *decoder) decodeNumber(b []byte) (Value, []byte, error) {
	line, rest, err := d.line(b)
	if err != nil {
		return nil, nil, err
	}
	n, err := bytesutil.ParseInt(line)
	if err != nil {
		return nil, nil, d.errAt(resp.ErrGrammar, b, err, "invalid number %q", line)
	}
	return Number{N: n}, rest, nil
}

// blob reads the payload of a length prefixed value. If nullable is true and
// the declared length is -1 then a nil payload and null=true are returned.
func (d *decoder) blob(b []byte, nullable bool) (payload []byte, null bool, rest []byte, err error) {
	n, rest, err := d.length(b, nullable)
	if err != nil {
		return nil, false, nil, err
	} else if n == -1 {
		return nil, true, rest, nil
	}

	payload, rest, err = bytesutil.CutN(rest, n)
	if err != nil {
		return nil, false, nil, d.errFraming(b, err, Prefix(b[0]).Name()+" payload")
	}
	return payload, false, rest, nil
}

func (d *decoder) decodeBlobString(b []byte) (Value, []byte, error) {
	payload, null, rest, err := d.blob(b, true)
	if err != nil {
		return nil, nil, err
	} else if null {
		return Null{}, rest, nil
	}
	return BlobString{B: payload}, rest, nil
}

func (d *decoder) decodeBlobError(b []byte) (Value, []byte, error) {
	payload, _, rest, err := d.blob(b, false)
	if err != nil {
		return nil, nil, err
	}
	return BlobError{B: payload}, rest, nil
}

// values decodes n consecutive values off of b.
func (d *decoder) values(start, b []byte, n int) ([]Value, []byte, error) {
	if d.depth++; d.depth > MaxDepth {
		return nil, nil, d.errAt(resp.ErrGrammar, start, nil, "nesting deeper than %d", MaxDepth)
	}
	defer func() { d.depth-- }()

	// every value takes at least minValueLen bytes, so a length larger than
	// that allows for can't be satisfied and mustn't be preallocated.
	if n > len(b)/minValueLen {
		return nil, nil, d.errAt(resp.ErrFraming, start, io.ErrUnexpectedEOF,
			"declared %d elements but only %d bytes remain", n, len(b))
	}

	vv := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		v, rest, err := d.decode(b)
		if err != nil {
			return nil, nil, err
		}
		vv = append(vv, v)
		b = rest
	}
	return vv, b, nil
}

func (d *decoder) decodeArray(b []byte) (Value, []byte, error) {
	n, rest, err := d.length(b, true)
	if err != nil {
		return nil, nil, err
	} else if n == -1 {
		return Null{}, rest, nil
	}

	vv, rest, err := d.values(b, rest, n)
	if err != nil {
		return nil, nil, err
	}
	return Array{A: vv}, rest, nil
}

func (d *decoder) decodeMap(b []byte) (Value, []byte, error) {
	n, rest, err := d.length(b, false)
	if err != nil {
		return nil, nil, err
	} else if n > math.MaxInt32/2 {
		return nil, nil, d.errAt(resp.ErrFraming, b, io.ErrUnexpectedEOF, "declared map size %d exceeds buffer", n)
	}

	vv, rest, err := d.values(b, rest, n*2)
	if err != nil {
		return nil, nil, err
	}

	kvs := make([]KV, n)
	for i := range kvs {
		kvs[i] = KV{K: vv[i*2], V: vv[i*2+1]}
	}
	return NewMap(kvs...), rest, nil
}

func (d *decoder) decodeBoolean(b []byte) (Value, []byte, error) {
	line, rest, err := d.line(b)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case bytes.Equal(line, trueLine):
		return Boolean{B: true}, rest, nil
	case bytes.Equal(line, falseLine):
		return Boolean{B: false}, rest, nil
	}
	return nil, nil, d.errAt(resp.ErrGrammar, b, nil, "invalid boolean %q", line)
}

func (d *decoder) decodeNull(b []byte) (Value, []byte, error) {
	line, rest, err := d.line(b)
	if err != nil {
		return nil, nil, err
	} else if len(line) > 0 {
		return nil, nil, d.errAt(resp.ErrGrammar, b, nil, "unexpected %q after null marker", line)
	}
	return Null{}, rest, nil
}

// isFloatChar returns true for the characters allowed in a decimal floating
// point number. strconv.ParseFloat also accepts hex and underscores, which
// RESP doesn't.
func isFloatChar(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == '+', c == '-', c == '.', c == 'e', c == 'E':
		return true
	}
	return false
}

func parseDouble(line []byte) (float64, error) {
	switch string(bytes.ToLower(line)) {
	case "inf", "+inf", "infinity", "+infinity":
		return math.Inf(1), nil
	case "-inf", "-infinity":
		return math.Inf(-1), nil
	case "nan":
		return math.NaN(), nil
	}

	if len(line) == 0 {
		return 0, errors.New("empty double")
	}
	for i, c := range line {
		if !isFloatChar(c) {
			return 0, fmt.Errorf("invalid character %q at position %d", c, i)
		}
	}

	f, err := strconv.ParseFloat(string(line), 64)
	if errors.Is(err, strconv.ErrRange) {
		// ParseFloat returns the correctly rounded infinity or zero
		return f, nil
	}
	return f, err
}

func (d *decoder) decodeDouble(b []byte) (Value, []byte, error) {
	line, rest, err := d.line(b)
	if err != nil {
		return nil, nil, err
	}
	f, err := parseDouble(line)
	if err != nil {
		return nil, nil, d.errAt(resp.ErrGrammar, b, err, "invalid double %q", line)
	}
	return NewDouble(f), rest, nil
}

// isBigNumber returns true for an optionally signed, non-empty run of decimal
// digits.
func isBigNumber(b []byte) bool {
	if len(b) > 0 && (b[0] == '+' || b[0] == '-') {
		b = b[1:]
	}
	return bytesutil.IsDigits(b)
}

func (d *decoder) decodeBigNumber(b []byte) (Value, []byte, error) {
	line, rest, err := d.line(b)
	if err != nil {
		return nil, nil, err
	}
	if !isBigNumber(line) {
		return nil, nil, d.errAt(resp.ErrGrammar, b, nil, "invalid big number %q", line)
	}
	return BigNumber{B: line}, rest, nil
}

func (d *decoder) decodeVerbatimString(b []byte) (Value, []byte, error) {
	payload, _, rest, err := d.blob(b, false)
	if err != nil {
		return nil, nil, err
	} else if len(payload) < VerbatimStringFormatLen+1 {
		return nil, nil, d.errAt(resp.ErrGrammar, b, nil,
			"verbatim string length %d is shorter than its format", len(payload))
	} else if payload[VerbatimStringFormatLen] != ':' {
		return nil, nil, d.errAt(resp.ErrGrammar, b, nil,
			"verbatim string format %q not followed by ':'", payload[:VerbatimStringFormatLen])
	}

	const n = VerbatimStringFormatLen
	return VerbatimString{
		Format: payload[:n:n],
		B:      payload[n+1:],
	}, rest, nil
}
