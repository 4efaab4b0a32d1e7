package resp3

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type FlattenTestSuite struct {
	suite.Suite
}

func (s *FlattenTestSuite) flat(v Value) []string {
	var out []string
	for _, b := range Flatten(v) {
		out = append(out, string(b))
	}
	return out
}

func (s *FlattenTestSuite) TestScalars() {
	s.Equal([]string{"5"}, s.flat(Number{N: 5}))
	s.Equal([]string{""}, s.flat(Null{}))
	s.Equal([]string{""}, s.flat(nil))
	s.Equal([]string{"1"}, s.flat(Boolean{B: true}))
	s.Equal([]string{"0"}, s.flat(Boolean{B: false}))
	s.Equal([]string{"inf"}, s.flat(Double{S: "inf"}))
	s.Equal([]string{"Some string"}, s.flat(VerbatimString{Format: str("txt"), B: str("Some string")}))
	s.Equal([]string{"ERR foo"}, s.flat(SimpleError{B: str("ERR foo")}))
}

// Nested aggregates are flattened depth first.
func (s *FlattenTestSuite) TestNested() {
	v := Array{A: []Value{
		BlobString{B: str("a")},
		Array{A: []Value{Number{N: 1}, Array{A: []Value{}}}},
		NewMap(KV{K: SimpleString{B: str("k")}, V: BigNumber{B: str("-12")}}),
	}}
	s.Equal([]string{"a", "1", "k", "-12"}, s.flat(v))
}

func (s *FlattenTestSuite) TestWrapped() {
	v := Array{A: []Value{
		wrappedBlob{BlobString{B: str("foo")}},
		wrappedNumber{Number{N: 7}},
	}}
	s.Equal([]string{"foo", "7"}, s.flat(v))
}

// An empty aggregate emits nothing at all.
func (s *FlattenTestSuite) TestEmpty() {
	s.Empty(Flatten(Array{A: []Value{}}))
	s.Empty(Flatten(Map{}))
}

func (s *FlattenTestSuite) TestNoCopy() {
	buf := str("$3\r\nfoo\r\n")
	v, err := DecodeExact(buf)
	s.Require().NoError(err)

	flat := Flatten(v)
	s.Require().Len(flat, 1)
	buf[4] = 'g'
	s.Equal("goo", string(flat[0]))
}

func TestFlattenTestSuite(t *testing.T) {
	suite.Run(t, new(FlattenTestSuite))
}
