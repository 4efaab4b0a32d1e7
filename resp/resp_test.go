package resp

import (
	"io"
	. "testing"

	errors "golang.org/x/xerrors"

	"github.com/stretchr/testify/assert"
)

func TestError(t *T) {
	err := error(&Error{Kind: ErrGrammar, Prefix: ':', Offset: 4, Msg: "invalid integer"})
	assert.True(t, errors.Is(err, ErrGrammar))
	assert.False(t, errors.Is(err, ErrFraming))
	assert.False(t, IsTruncated(err))
	assert.Equal(t, `resp: grammar error at offset 4 (':'): invalid integer`, err.Error())

	var respErr *Error
	assert.True(t, errors.As(err, &respErr))
	assert.Equal(t, 4, respErr.Offset)
}

func TestErrorTruncated(t *T) {
	err := error(&Error{Kind: ErrFraming, Prefix: '$', Msg: "payload", Err: io.ErrUnexpectedEOF})
	assert.True(t, errors.Is(err, ErrFraming))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.True(t, IsTruncated(err))
	assert.Equal(t, `resp: framing error at offset 0 ('$'): payload: unexpected EOF`, err.Error())

	// an empty buffer has no prefix to report
	err = &Error{Kind: ErrFraming, Msg: "empty buffer", Err: io.ErrUnexpectedEOF}
	assert.Equal(t, `resp: framing error at offset 0: empty buffer: unexpected EOF`, err.Error())
}
