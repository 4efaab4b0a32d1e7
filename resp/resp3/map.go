package resp3

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
)

// KV is a single key/value pair of a Map.
type KV struct {
	K, V Value
}

// Map represents a map of RESP values. Its pairs are kept sorted by key using
// Compare, and no two pairs share a key.
type Map struct {
	KV []KV
}

// NewMap returns a Map holding the given pairs, sorted by key. If a key is
// given more than once the pair given last wins.
func NewMap(kvs ...KV) Map {
	sorted := make([]KV, len(kvs))
	copy(sorted, kvs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Compare(sorted[i].K, sorted[j].K) < 0
	})

	// stable sort keeps equal keys in input order, keep the last of each run
	out := sorted[:0]
	for _, kv := range sorted {
		if n := len(out); n > 0 && Compare(out[n-1].K, kv.K) == 0 {
			out[n-1] = kv
			continue
		}
		out = append(out, kv)
	}
	return Map{KV: out}
}

// Get returns the value stored under the given key.
func (m Map) Get(k Value) (Value, bool) {
	i := sort.Search(len(m.KV), func(i int) bool {
		return Compare(m.KV[i].K, k) >= 0
	})
	if i < len(m.KV) && Compare(m.KV[i].K, k) == 0 {
		return m.KV[i].V, true
	}
	return nil, false
}

// Prefix implements the method for the Value interface.
func (Map) Prefix() Prefix { return MapHeaderPrefix }

// MarshalRESP implements the Marshaler method.
func (m Map) MarshalRESP(w io.Writer) error {
	if err := writeHeader(w, MapHeaderPrefix, len(m.KV)); err != nil {
		return err
	}
	for _, kv := range m.KV {
		if err := marshalElem(w, kv.K); err != nil {
			return err
		} else if err := marshalElem(w, kv.V); err != nil {
			return err
		}
	}
	return nil
}

func (m Map) String() string {
	strs := make([]string, len(m.KV))
	for i, kv := range m.KV {
		strs[i] = fmt.Sprintf("%v:%v", kv.K, kv.V)
	}
	return "{" + strings.Join(strs, " ") + "}"
}

func (Map) isValue() {}

////////////////////////////////////////////////////////////////////////////////

// deref turns a pointer to a Value type into the Value it points to.
func deref(v Value) Value {
	if v == nil {
		return nil
	} else if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		if ev, ok := rv.Elem().Interface().(Value); ok {
			return ev
		}
	}
	return v
}

// rankForeign is the rank of Value implementations defined outside this
// package, e.g. a struct embedding one of the types here.
const rankForeign = 13

// rank orders the Value types relative to each other.
func rank(v Value) int {
	switch v.(type) {
	case nil:
		return 0
	case SimpleString:
		return 1
	case SimpleError:
		return 2
	case BlobString:
		return 3
	case BlobError:
		return 4
	case Number:
		return 5
	case Double:
		return 6
	case BigNumber:
		return 7
	case Boolean:
		return 8
	case Null:
		return 9
	case VerbatimString:
		return 10
	case Array:
		return 11
	case Map:
		return 12
	}
	return rankForeign
}

// Compare defines a total order over Values, returning -1 if a sorts before b,
// 1 if it sorts after and 0 if the two are equal.
//
// Values of different types are ordered by type, in the order SimpleString,
// SimpleError, BlobString, BlobError, Number, Double, BigNumber, Boolean,
// Null, VerbatimString, Array, Map. Values of the same type are ordered by
// payload: bytes lexicographically, numbers numerically (NaN before every
// other Double and equal to itself, -0 equal to 0), false before true, and
// aggregates element by element and then by length. A nil Value sorts before
// everything else.
//
// Implementations of Value from outside this package sort after all of the
// above, by type name and then by their fmt.Sprint text.
func Compare(a, b Value) int {
	a, b = deref(a), deref(b)
	if ra, rb := rank(a), rank(b); ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch a := a.(type) {
	case SimpleString:
		return bytes.Compare(a.B, b.(SimpleString).B)
	case SimpleError:
		return bytes.Compare(a.B, b.(SimpleError).B)
	case BlobString:
		return bytes.Compare(a.B, b.(BlobString).B)
	case BlobError:
		return bytes.Compare(a.B, b.(BlobError).B)
	case Number:
		return cmp.Compare(a.N, b.(Number).N)
	case Double:
		return compareDouble(a, b.(Double))
	case BigNumber:
		return compareBigNumber(a, b.(BigNumber))
	case Boolean:
		bb := b.(Boolean)
		switch {
		case a.B == bb.B:
			return 0
		case !a.B:
			return -1
		}
		return 1
	case VerbatimString:
		bv := b.(VerbatimString)
		if c := bytes.Compare(a.Format, bv.Format); c != 0 {
			return c
		}
		return bytes.Compare(a.B, bv.B)
	case Array:
		ba := b.(Array)
		for i := 0; i < len(a.A) && i < len(ba.A); i++ {
			if c := Compare(a.A[i], ba.A[i]); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(a.A), len(ba.A))
	case Map:
		bm := b.(Map)
		for i := 0; i < len(a.KV) && i < len(bm.KV); i++ {
			if c := Compare(a.KV[i].K, bm.KV[i].K); c != 0 {
				return c
			} else if c := Compare(a.KV[i].V, bm.KV[i].V); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(a.KV), len(bm.KV))
	case nil, Null:
		return 0
	}

	if c := strings.Compare(fmt.Sprintf("%T", a), fmt.Sprintf("%T", b)); c != 0 {
		return c
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// compareDouble orders by numeric value. Text which doesn't parse (only
// possible for a hand built Double) sorts before every number and is compared
// as text.
func compareDouble(a, b Double) int {
	fa, errA := a.Float()
	fb, errB := b.Float()
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a.S, b.S)
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	return cmp.Compare(fa, fb)
}

// compareBigNumber orders by numeric value, falling back to comparing text
// the same way compareDouble does.
func compareBigNumber(a, b BigNumber) int {
	ia, errA := a.Int()
	ib, errB := b.Int()
	switch {
	case errA != nil && errB != nil:
		return bytes.Compare(a.B, b.B)
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	return ia.Cmp(ib)
}
