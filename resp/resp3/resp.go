// Package resp3 implements the RESP2 and RESP3 value model along with a
// decoder which reads values out of a fully buffered message, and an encoder
// (MarshalRESP on every type) which writes them back out.
//
// Decoding is zero-copy: every string-like payload (SimpleString.B,
// BlobString.B, BigNumber.B, ...) is a sub-slice of the buffer which was
// passed to DecodeOne or DecodeExact. The sub-slices are capped at their own
// length, so appending to one never writes into the buffer, but the buffer
// must not be modified while decoded values are still in use. Double.S is the
// only payload which is built rather than sliced.
//
// The legacy RESP2 null spellings ("$-1\r\n" and "*-1\r\n") and the RESP3
// null ("_\r\n") all decode to Null.
package resp3

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/mediocregopher/respcmd/internal/bytesutil"
	"github.com/mediocregopher/respcmd/resp"
)

var delim = []byte{'\r', '\n'}

// Prefix enumerates the possible RESP3 types by enumerating the different
// prefix bytes a RESP3 message might start with.
type Prefix byte

// Enumeration of each of the RESP3 prefixes.
const (
	SimpleStringPrefix   Prefix = '+'
	SimpleErrorPrefix    Prefix = '-'
	NumberPrefix         Prefix = ':'
	BlobStringPrefix     Prefix = '$'
	BlobErrorPrefix      Prefix = '!'
	ArrayHeaderPrefix    Prefix = '*'
	MapHeaderPrefix      Prefix = '%'
	SetHeaderPrefix      Prefix = '~'
	PushHeaderPrefix     Prefix = '>'
	NullPrefix           Prefix = '_'
	DoublePrefix         Prefix = ','
	BooleanPrefix        Prefix = '#'
	BigNumberPrefix      Prefix = '('
	VerbatimStringPrefix Prefix = '='
)

var prefixNames = map[Prefix]string{
	SimpleStringPrefix:   "simple-string",
	SimpleErrorPrefix:    "simple-error",
	NumberPrefix:         "number",
	BlobStringPrefix:     "blob-string",
	BlobErrorPrefix:      "blob-error",
	ArrayHeaderPrefix:    "array",
	MapHeaderPrefix:      "map",
	SetHeaderPrefix:      "set",
	PushHeaderPrefix:     "push",
	NullPrefix:           "null",
	DoublePrefix:         "double",
	BooleanPrefix:        "boolean",
	BigNumberPrefix:      "big-number",
	VerbatimStringPrefix: "verbatim-string",
}

// Name returns the human readable name of the type the prefix introduces, or
// "unknown" if it isn't a RESP3 prefix.
func (p Prefix) Name() string {
	if name, ok := prefixNames[p]; ok {
		return name
	}
	return "unknown"
}

func (p Prefix) String() string {
	return fmt.Sprintf("%q", byte(p))
}

// Value is implemented by every type which a RESP3 message can decode into.
// The set of implementations is closed: SimpleString, SimpleError,
// BlobString, BlobError, Number, Double, BigNumber, Boolean, Null,
// VerbatimString, Array and Map.
type Value interface {
	resp.Marshaler

	// Prefix returns the type marker the value is written with.
	Prefix() Prefix

	isValue()
}

func writeLine(w io.Writer, p Prefix, b []byte) error {
	scratch := bytesutil.GetBytes()
	defer bytesutil.PutBytes(scratch)

	*scratch = append(*scratch, byte(p))
	*scratch = append(*scratch, b...)
	*scratch = append(*scratch, delim...)
	_, err := w.Write(*scratch)
	return err
}

func writeBlob(w io.Writer, p Prefix, parts ...[]byte) error {
	var l int
	for _, part := range parts {
		l += len(part)
	}

	scratch := bytesutil.GetBytes()
	defer bytesutil.PutBytes(scratch)

	*scratch = append(*scratch, byte(p))
	*scratch = strconv.AppendInt(*scratch, int64(l), 10)
	*scratch = append(*scratch, delim...)
	for _, part := range parts {
		*scratch = append(*scratch, part...)
	}
	*scratch = append(*scratch, delim...)
	_, err := w.Write(*scratch)
	return err
}

func writeHeader(w io.Writer, p Prefix, n int) error {
	scratch := bytesutil.GetBytes()
	defer bytesutil.PutBytes(scratch)

	*scratch = append(*scratch, byte(p))
	*scratch = strconv.AppendInt(*scratch, int64(n), 10)
	*scratch = append(*scratch, delim...)
	_, err := w.Write(*scratch)
	return err
}

func errMarshal(p Prefix, format string, args ...interface{}) error {
	return &resp.Error{Kind: resp.ErrGrammar, Prefix: byte(p), Msg: fmt.Sprintf(format, args...)}
}

// checkSimple returns an error if b can't be written as a simple (non length
// prefixed) payload.
func checkSimple(p Prefix, b []byte) error {
	if bytes.ContainsAny(b, "\r\n") {
		return errMarshal(p, "%s may not contain CR or LF", p.Name())
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////

// SimpleString represents the simple string type in the RESP protocol. It may
// not contain CR or LF.
type SimpleString struct {
	B []byte
}

// Prefix implements the method for the Value interface.
func (SimpleString) Prefix() Prefix { return SimpleStringPrefix }

// MarshalRESP implements the Marshaler method.
func (ss SimpleString) MarshalRESP(w io.Writer) error {
	if err := checkSimple(SimpleStringPrefix, ss.B); err != nil {
		return err
	}
	return writeLine(w, SimpleStringPrefix, ss.B)
}

func (ss SimpleString) String() string { return string(ss.B) }

func (SimpleString) isValue() {}

// SimpleError represents the simple error type in the RESP protocol. By
// convention the text starts with an upper case error type (e.g. "ERR"), but
// that isn't enforced.
type SimpleError struct {
	B []byte
}

// Prefix implements the method for the Value interface.
func (SimpleError) Prefix() Prefix { return SimpleErrorPrefix }

// MarshalRESP implements the Marshaler method.
func (e SimpleError) MarshalRESP(w io.Writer) error {
	if err := checkSimple(SimpleErrorPrefix, e.B); err != nil {
		return err
	}
	return writeLine(w, SimpleErrorPrefix, e.B)
}

func (e SimpleError) Error() string { return string(e.B) }

func (SimpleError) isValue() {}

// BlobString represents the blob string type in the RESP protocol, known as a
// bulk string in RESP2. Its payload is binary safe.
type BlobString struct {
	B []byte
}

// Prefix implements the method for the Value interface.
func (BlobString) Prefix() Prefix { return BlobStringPrefix }

// MarshalRESP implements the Marshaler method.
func (b BlobString) MarshalRESP(w io.Writer) error {
	return writeBlob(w, BlobStringPrefix, b.B)
}

func (b BlobString) String() string { return string(b.B) }

func (BlobString) isValue() {}

// BlobError represents the blob error type in the RESP protocol. Unlike
// BlobString there is no null spelling of it.
type BlobError struct {
	B []byte
}

// Prefix implements the method for the Value interface.
func (BlobError) Prefix() Prefix { return BlobErrorPrefix }

// MarshalRESP implements the Marshaler method.
func (e BlobError) MarshalRESP(w io.Writer) error {
	return writeBlob(w, BlobErrorPrefix, e.B)
}

func (e BlobError) Error() string { return string(e.B) }

func (BlobError) isValue() {}

// Number represents the number type in the RESP protocol, known as an integer
// in RESP2.
type Number struct {
	N int64
}

// Prefix implements the method for the Value interface.
func (Number) Prefix() Prefix { return NumberPrefix }

// MarshalRESP implements the Marshaler method.
func (n Number) MarshalRESP(w io.Writer) error {
	scratch := bytesutil.GetBytes()
	defer bytesutil.PutBytes(scratch)
	*scratch = strconv.AppendInt(*scratch, n.N, 10)
	return writeLine(w, NumberPrefix, *scratch)
}

func (n Number) String() string { return strconv.FormatInt(n.N, 10) }

func (Number) isValue() {}

// Double represents the double type in the RESP protocol. The value is kept as
// its canonical text: the shortest decimal which reads back as the same
// float64, or one of "inf", "-inf" or "NaN".
type Double struct {
	S string
}

// NewDouble returns the Double holding the canonical text of f.
func NewDouble(f float64) Double {
	return Double{S: formatDouble(f)}
}

func formatDouble(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Float returns the numeric value of the Double.
func (d Double) Float() (float64, error) {
	return strconv.ParseFloat(d.S, 64)
}

// Prefix implements the method for the Value interface.
func (Double) Prefix() Prefix { return DoublePrefix }

// MarshalRESP implements the Marshaler method.
func (d Double) MarshalRESP(w io.Writer) error {
	s := d.S
	if s == "NaN" {
		s = "nan"
	}
	if _, err := parseDouble([]byte(s)); err != nil {
		return errMarshal(DoublePrefix, "invalid double %q: %s", d.S, err)
	}
	return writeLine(w, DoublePrefix, []byte(s))
}

func (d Double) String() string { return d.S }

func (Double) isValue() {}

// BigNumber represents the big number type in the RESP protocol. B holds the
// decimal digits, including a leading sign if the wire form had one.
type BigNumber struct {
	B []byte
}

// Int parses the BigNumber into a big.Int.
func (b BigNumber) Int() (*big.Int, error) {
	i, ok := new(big.Int).SetString(string(b.B), 10)
	if !ok {
		return nil, fmt.Errorf("invalid big number %q", b.B)
	}
	return i, nil
}

// Prefix implements the method for the Value interface.
func (BigNumber) Prefix() Prefix { return BigNumberPrefix }

// MarshalRESP implements the Marshaler method.
func (b BigNumber) MarshalRESP(w io.Writer) error {
	if !isBigNumber(b.B) {
		return errMarshal(BigNumberPrefix, "invalid big number %q", b.B)
	}
	return writeLine(w, BigNumberPrefix, b.B)
}

func (b BigNumber) String() string { return string(b.B) }

func (BigNumber) isValue() {}

var (
	trueLine  = []byte{'t'}
	falseLine = []byte{'f'}
)

// Boolean represents the boolean type in the RESP protocol.
type Boolean struct {
	B bool
}

// Prefix implements the method for the Value interface.
func (Boolean) Prefix() Prefix { return BooleanPrefix }

// MarshalRESP implements the Marshaler method.
func (b Boolean) MarshalRESP(w io.Writer) error {
	if b.B {
		return writeLine(w, BooleanPrefix, trueLine)
	}
	return writeLine(w, BooleanPrefix, falseLine)
}

func (b Boolean) String() string { return strconv.FormatBool(b.B) }

func (Boolean) isValue() {}

// Null represents the null type in the RESP protocol. It is always marshaled
// using the RESP3 spelling.
type Null struct{}

// Prefix implements the method for the Value interface.
func (Null) Prefix() Prefix { return NullPrefix }

// MarshalRESP implements the Marshaler method.
func (Null) MarshalRESP(w io.Writer) error {
	return writeLine(w, NullPrefix, nil)
}

func (Null) String() string { return "(nil)" }

func (Null) isValue() {}

// VerbatimStringFormatLen is the length of a VerbatimString's Format.
const VerbatimStringFormatLen = 3

// VerbatimString represents the verbatim string type in the RESP protocol.
// Format is a 3 byte hint describing the payload, e.g. "txt" or "mkd".
type VerbatimString struct {
	Format []byte
	B      []byte
}

// Prefix implements the method for the Value interface.
func (VerbatimString) Prefix() Prefix { return VerbatimStringPrefix }

// MarshalRESP implements the Marshaler method.
func (v VerbatimString) MarshalRESP(w io.Writer) error {
	if len(v.Format) != VerbatimStringFormatLen {
		return errMarshal(VerbatimStringPrefix, "format %q must be %d bytes long", v.Format, VerbatimStringFormatLen)
	}
	return writeBlob(w, VerbatimStringPrefix, v.Format, []byte{':'}, v.B)
}

func (v VerbatimString) String() string { return string(v.B) }

func (VerbatimString) isValue() {}

// Array represents an array of RESP values. A decoded empty array has a
// non-nil, zero length A.
type Array struct {
	A []Value
}

// Prefix implements the method for the Value interface.
func (Array) Prefix() Prefix { return ArrayHeaderPrefix }

// MarshalRESP implements the Marshaler method.
func (a Array) MarshalRESP(w io.Writer) error {
	if err := writeHeader(w, ArrayHeaderPrefix, len(a.A)); err != nil {
		return err
	}
	for _, v := range a.A {
		if err := marshalElem(w, v); err != nil {
			return err
		}
	}
	return nil
}

func (a Array) String() string {
	strs := make([]string, len(a.A))
	for i, v := range a.A {
		strs[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(strs, " ") + "]"
}

func (Array) isValue() {}

func marshalElem(w io.Writer, v Value) error {
	if v == nil {
		return errors.New("can't marshal nil Value")
	}
	return v.MarshalRESP(w)
}
