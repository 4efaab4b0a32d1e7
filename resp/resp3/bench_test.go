package resp3

import (
	"bytes"
	"strings"
	. "testing"
)

func BenchmarkDecodeBlobString(b *B) {
	buf := []byte("$5\r\nhello\r\n")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := DecodeExact(buf); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodeCommand(b *B) {
	buf := []byte("*5\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n$2\r\nPX\r\n$3\r\n100\r\n")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := DecodeExact(buf); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodeLargeArray(b *B) {
	buf := []byte("*1000\r\n" + strings.Repeat(":12345\r\n", 1000))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := DecodeExact(buf); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMarshalArray(b *B) {
	v := Array{A: []Value{
		BlobString{B: []byte("SET")},
		BlobString{B: []byte("foo")},
		BlobString{B: []byte("bar")},
	}}
	buf := new(bytes.Buffer)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		if err := v.MarshalRESP(buf); err != nil {
			b.Fatal(err)
		}
	}
}
