package trace

// ParseTrace is passed into respcmd.Parser, and contains callbacks which are
// triggered as the Parser decodes and classifies messages.
//
// All callbacks are called synchronously. Any of them may be left nil.
type ParseTrace struct {
	// Decoded is called when a message has been decoded, before it is
	// classified.
	Decoded func(ParseDecoded)

	// Classified is called when a decoded message has been classified as a
	// command.
	Classified func(ParseClassified)

	// Failed is called when either decoding or classifying a message fails.
	Failed func(ParseFailed)
}

// ParseDecoded is passed into the ParseTrace.Decoded callback.
type ParseDecoded struct {
	// Prefix is the type marker of the decoded message.
	Prefix byte

	// Consumed is the number of bytes the message took up in the buffer, and
	// Remaining the number of bytes which came after it.
	Consumed, Remaining int
}

// ParseClassified is passed into the ParseTrace.Classified callback.
type ParseClassified struct {
	// Name is the upper case name of the command.
	Name string

	// NumArgs is the number of elements which followed the command name.
	NumArgs int
}

// ParseFailed is passed into the ParseTrace.Failed callback.
type ParseFailed struct {
	// Err is the error which the Parser is about to return. It wraps one of
	// resp.ErrGrammar, resp.ErrFraming, resp.ErrShape or resp.ErrSemantic.
	Err error
}
