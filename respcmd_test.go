package respcmd

import (
	. "testing"

	errors "golang.org/x/xerrors"

	"github.com/mediocregopher/respcmd/command"
	"github.com/mediocregopher/respcmd/resp"
	"github.com/mediocregopher/respcmd/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tracer records every event fired by a Parser.
type tracer struct {
	decoded    []trace.ParseDecoded
	classified []trace.ParseClassified
	failed     []trace.ParseFailed
}

func (tr *tracer) trace() trace.ParseTrace {
	return trace.ParseTrace{
		Decoded:    func(e trace.ParseDecoded) { tr.decoded = append(tr.decoded, e) },
		Classified: func(e trace.ParseClassified) { tr.classified = append(tr.classified, e) },
		Failed:     func(e trace.ParseFailed) { tr.failed = append(tr.failed, e) },
	}
}

func TestParse(t *T) {
	var p Parser
	cmd, err := p.Parse([]byte("*1\r\n$4\r\nping\r\n"))
	require.NoError(t, err)
	assert.Equal(t, command.Ping{}, cmd)

	// trailing bytes are an error for Parse
	_, err = p.Parse([]byte("*1\r\n$4\r\nping\r\n*1\r\n$4\r\nping\r\n"))
	assert.True(t, errors.Is(err, resp.ErrFraming))

	_, err = p.Parse([]byte("+OK\r\n"))
	assert.True(t, errors.Is(err, resp.ErrShape))
}

func TestParseNext(t *T) {
	tr := new(tracer)
	p := Parser{Trace: tr.trace()}

	buf := []byte("*1\r\n$4\r\nPING\r\n" +
		"*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n" +
		"*5\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n$2\r\nPX\r\n$2\r\n10\r\n")

	var names []string
	for len(buf) > 0 {
		cmd, rest, err := p.ParseNext(buf)
		require.NoError(t, err)
		names = append(names, cmd.Name())
		buf = rest
	}
	assert.Equal(t, []string{"PING", "GET", "SET"}, names)

	assert.Equal(t, []trace.ParseDecoded{
		{Prefix: '*', Consumed: 14, Remaining: 69},
		{Prefix: '*', Consumed: 22, Remaining: 47},
		{Prefix: '*', Consumed: 47, Remaining: 0},
	}, tr.decoded)
	assert.Equal(t, []trace.ParseClassified{
		{Name: "PING", NumArgs: 0},
		{Name: "GET", NumArgs: 1},
		{Name: "SET", NumArgs: 4},
	}, tr.classified)
	assert.Empty(t, tr.failed)
}

func TestParseNextFailed(t *T) {
	tr := new(tracer)
	p := Parser{Trace: tr.trace()}

	cmd, rest, err := p.ParseNext([]byte("*2\r\n$3\r\nGET\r\n$3\r\nfo"))
	assert.Nil(t, cmd)
	assert.Nil(t, rest)
	assert.True(t, resp.IsTruncated(err))

	_, _, err = p.ParseNext([]byte("*1\r\n$7\r\nUNKNOWN\r\n"))
	assert.True(t, errors.Is(err, resp.ErrSemantic))

	require.Len(t, tr.failed, 2)
	assert.True(t, resp.IsTruncated(tr.failed[0].Err))
	assert.True(t, errors.Is(tr.failed[1].Err, resp.ErrSemantic))

	// the second message was decoded before it failed classification
	assert.Len(t, tr.decoded, 1)
	assert.Empty(t, tr.classified)
}
