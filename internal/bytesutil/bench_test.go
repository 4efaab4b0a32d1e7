package bytesutil

import (
	"fmt"
	"testing"
)

var (
	bint  int64
	buint uint64
)

func BenchmarkParseInt(b *testing.B) {
	tests := []string{"1", "123", "-1", "-123", "+123", "9223372036854775807"}

	for _, test := range tests {
		input := []byte(test)

		b.Run(fmt.Sprint(test), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				bint, _ = ParseInt(input)
			}
		})
	}
}

func BenchmarkParseUint(b *testing.B) {
	tests := []string{"1", "123", "18446744073709551615"}

	for _, test := range tests {
		input := []byte(test)

		b.Run(fmt.Sprint(test), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				buint, _ = ParseUint(input)
			}
		})
	}
}

func BenchmarkCutLine(b *testing.B) {
	input := []byte("+OK\r\n:1\r\n")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, _, err := CutLine(input); err != nil {
			b.Fatal(err)
		}
	}
}
