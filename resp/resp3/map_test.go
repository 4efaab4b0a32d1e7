package resp3

import (
	"math"
	"sort"
	. "testing"

	"github.com/mediocregopher/mediocre-go-lib/mrand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wrappedBlob and wrappedNumber implement Value by embedding, the way a caller
// outside this package could.
type wrappedBlob struct{ BlobString }

type wrappedNumber struct{ Number }

// orderedValues is sorted ascending according to Compare, with no two
// elements equal.
func orderedValues() []Value {
	return []Value{
		nil,
		SimpleString{B: str("")},
		SimpleString{B: str("a")},
		SimpleString{B: str("b")},
		SimpleError{B: str("ERR")},
		BlobString{B: str("a")},
		BlobString{B: str("a\r\nb")},
		BlobError{B: str("ERR")},
		Number{N: math.MinInt64},
		Number{N: -1},
		Number{N: 0},
		Number{N: 2},
		Double{S: "NaN"},
		Double{S: "-inf"},
		Double{S: "-1.5"},
		Double{S: "0"},
		Double{S: "10"},
		Double{S: "inf"},
		BigNumber{B: str("-3492890328409238509324850943850943825024385")},
		BigNumber{B: str("-5")},
		BigNumber{B: str("+7")},
		BigNumber{B: str("3492890328409238509324850943850943825024385")},
		Boolean{B: false},
		Boolean{B: true},
		Null{},
		VerbatimString{Format: str("mkd"), B: str("z")},
		VerbatimString{Format: str("txt"), B: str("a")},
		VerbatimString{Format: str("txt"), B: str("b")},
		Array{A: []Value{}},
		Array{A: []Value{Number{N: 1}}},
		Array{A: []Value{Number{N: 1}, Null{}}},
		Array{A: []Value{Number{N: 2}}},
		Map{KV: []KV{}},
		Map{KV: []KV{{K: Number{N: 1}, V: Boolean{B: true}}}},
		Map{KV: []KV{{K: Number{N: 1}, V: Null{}}}},
		Map{KV: []KV{{K: Number{N: 2}, V: Null{}}}},
		wrappedBlob{BlobString{B: str("a")}},
		wrappedBlob{BlobString{B: str("b")}},
		wrappedNumber{Number{N: 1}},
	}
}

func TestCompareOrder(t *T) {
	vv := orderedValues()
	for i := range vv {
		for j := range vv {
			var exp int
			switch {
			case i < j:
				exp = -1
			case i > j:
				exp = 1
			}
			assert.Equal(t, exp, Compare(vv[i], vv[j]), "a:%#v b:%#v", vv[i], vv[j])
		}
	}
}

func TestCompareTotalOrder(t *T) {
	vv := orderedValues()
	pick := func() Value { return vv[mrand.Intn(len(vv))] }

	for i := 0; i < 10000; i++ {
		a, b, c := pick(), pick(), pick()

		// antisymmetry
		assert.Equal(t, Compare(a, b), -Compare(b, a), "a:%#v b:%#v", a, b)

		// transitivity
		if Compare(a, b) <= 0 && Compare(b, c) <= 0 {
			assert.True(t, Compare(a, c) <= 0, "a:%#v b:%#v c:%#v", a, b, c)
		}
	}

	// shuffling then sorting gives back the original order
	shuffled := orderedValues()
	for i := len(shuffled) - 1; i > 0; i-- {
		j := mrand.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	sort.Slice(shuffled, func(i, j int) bool { return Compare(shuffled[i], shuffled[j]) < 0 })
	assert.Equal(t, orderedValues(), shuffled)
}

func TestCompareEquivalents(t *T) {
	assert.Equal(t, 0, Compare(Double{S: "NaN"}, NewDouble(math.NaN())))
	assert.Equal(t, 0, Compare(Double{S: "-0"}, Double{S: "0"}))
	assert.Equal(t, 0, Compare(BigNumber{B: str("+7")}, BigNumber{B: str("7")}))
	assert.Equal(t, 0, Compare(&BlobString{B: str("a")}, BlobString{B: str("a")}))
	assert.Equal(t, 0, Compare((*Array)(nil), nil))
	assert.Equal(t, 0, Compare(&wrappedBlob{BlobString{B: str("a")}}, wrappedBlob{BlobString{B: str("a")}}))
}

func TestNewMapWrappedKeys(t *T) {
	var m Map
	assert.NotPanics(t, func() {
		m = NewMap(
			KV{K: wrappedBlob{BlobString{B: str("x")}}, V: Null{}},
			KV{K: Null{}, V: Null{}},
			KV{K: BlobString{B: str("x")}, V: Number{N: 1}},
		)
	})
	require.Len(t, m.KV, 3)
	assert.Equal(t, BlobString{B: str("x")}, m.KV[0].K)
	assert.Equal(t, Null{}, m.KV[1].K)
	assert.Equal(t, wrappedBlob{BlobString{B: str("x")}}, m.KV[2].K)

	v, ok := m.Get(wrappedBlob{BlobString{B: str("x")}})
	assert.True(t, ok)
	assert.Equal(t, Null{}, v)
}

func TestNewMap(t *T) {
	m := NewMap(
		KV{K: BlobString{B: str("b")}, V: Number{N: 2}},
		KV{K: Number{N: 5}, V: Null{}},
		KV{K: BlobString{B: str("a")}, V: Number{N: 1}},
		KV{K: BlobString{B: str("b")}, V: Number{N: 3}},
	)
	require.Len(t, m.KV, 3)
	assert.Equal(t, BlobString{B: str("a")}, m.KV[0].K)
	assert.Equal(t, BlobString{B: str("b")}, m.KV[1].K)
	assert.Equal(t, Number{N: 5}, m.KV[2].K)

	v, ok := m.Get(BlobString{B: str("b")})
	assert.True(t, ok)
	assert.Equal(t, Number{N: 3}, v)

	v, ok = m.Get(Number{N: 5})
	assert.True(t, ok)
	assert.Equal(t, Null{}, v)

	// a SimpleString is a different key than a BlobString with the same text
	_, ok = m.Get(SimpleString{B: str("a")})
	assert.False(t, ok)

	_, ok = Map{}.Get(Null{})
	assert.False(t, ok)
}
