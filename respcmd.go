// Package respcmd decodes RESP (REdis Serialization Protocol) messages and
// classifies them into typed commands.
//
// The work is split across a few packages:
//
//	resp/resp3 - the value model, DecodeOne/DecodeExact and MarshalRESP
//	command    - Classify, which turns a decoded array into a Command
//	trace      - callbacks for observing a Parser
//
// Parser ties decoding and classifying together for the common case of a
// server reading commands off of a buffer:
//
//	var p respcmd.Parser
//	for len(buf) > 0 {
//		cmd, rest, err := p.ParseNext(buf)
//		if resp.IsTruncated(err) {
//			// read more bytes into buf and try again
//		} else if err != nil {
//			// reply with an error and drop the connection
//		}
//		buf = rest
//		// execute cmd
//	}
//
// Nothing in respcmd performs IO or keeps state between calls, and every
// function may be called concurrently on independent buffers.
package respcmd

import (
	"github.com/mediocregopher/respcmd/command"
	"github.com/mediocregopher/respcmd/resp/resp3"
	"github.com/mediocregopher/respcmd/trace"
)

// Parser decodes and classifies commands. The zero value is ready to use.
type Parser struct {
	// Trace, if any of its callbacks are set, is called as messages are
	// parsed.
	Trace trace.ParseTrace
}

// Parse decodes b, which must hold exactly one message, and classifies it as a
// command.
func (p Parser) Parse(b []byte) (command.Command, error) {
	cmd, _, err := p.parse(b, true)
	return cmd, err
}

// ParseNext decodes the first message in b and classifies it as a command,
// returning the bytes of b which come after the message.
func (p Parser) ParseNext(b []byte) (command.Command, []byte, error) {
	return p.parse(b, false)
}

func (p Parser) parse(b []byte, exact bool) (command.Command, []byte, error) {
	var v resp3.Value
	var rest []byte
	var err error
	if exact {
		v, err = resp3.DecodeExact(b)
	} else {
		v, rest, err = resp3.DecodeOne(b)
	}
	if err != nil {
		return nil, nil, p.failed(err)
	}

	if p.Trace.Decoded != nil {
		p.Trace.Decoded(trace.ParseDecoded{
			Prefix:    byte(v.Prefix()),
			Consumed:  len(b) - len(rest),
			Remaining: len(rest),
		})
	}

	cmd, err := command.Classify(v)
	if err != nil {
		return nil, nil, p.failed(err)
	}

	if p.Trace.Classified != nil {
		p.Trace.Classified(trace.ParseClassified{
			Name:    cmd.Name(),
			NumArgs: len(v.(resp3.Array).A) - 1,
		})
	}
	return cmd, rest, nil
}

func (p Parser) failed(err error) error {
	if p.Trace.Failed != nil {
		p.Trace.Failed(trace.ParseFailed{Err: err})
	}
	return err
}
