package resp3

import (
	"fmt"
	"strconv"
)

var boolStrs = [][]byte{
	{'0'},
	{'1'},
}

// Flatten converts a Value into a flattened array of byte slices, the way a
// command's arguments are laid out on the wire. For example:
//
//	Flatten(Number{N: 5}) -> {"5"}
//	Flatten(Null{}) -> {""}
//	Flatten(Array{A: []Value{BlobString{B: []byte("a")}, Number{N: 1}}}) -> {"a", "1"}
//	Flatten(NewMap(KV{K: SimpleString{B: []byte("a")}, V: Boolean{B: true}})) -> {"a", "1"}
//
// Payloads of string-like values are returned as-is, not copied. Value
// implementations from outside this package are flattened to their fmt.Sprint
// text.
func Flatten(v Value) [][]byte {
	f := flattener{
		out: make([][]byte, 0, 8),
	}
	f.flatten(v)
	return f.out
}

type flattener struct {
	out [][]byte
}

func (f *flattener) emit(b []byte) {
	f.out = append(f.out, b)
}

func (f *flattener) flatten(v Value) {
	switch v := deref(v).(type) {
	case SimpleString:
		f.emit(v.B)
	case SimpleError:
		f.emit(v.B)
	case BlobString:
		f.emit(v.B)
	case BlobError:
		f.emit(v.B)
	case Number:
		f.emit(strconv.AppendInt(nil, v.N, 10))
	case Double:
		f.emit([]byte(v.S))
	case BigNumber:
		f.emit(v.B)
	case Boolean:
		if v.B {
			f.emit(boolStrs[1])
		} else {
			f.emit(boolStrs[0])
		}
	case VerbatimString:
		f.emit(v.B)
	case Array:
		for _, el := range v.A {
			f.flatten(el)
		}
	case Map:
		for _, kv := range v.KV {
			f.flatten(kv.K)
			f.flatten(kv.V)
		}
	case nil, Null:
		f.emit([]byte{})
	default:
		// implementations from outside this package
		f.emit([]byte(fmt.Sprint(v)))
	}
}
