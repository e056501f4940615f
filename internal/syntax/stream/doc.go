// Package stream defines the contract between line tokenizers and the
// incremental lexical cache.
//
// A tokenizer (a [Mode]) sees one line at a time through a [Stream]. Each call
// to Token consumes one token from the stream and returns its tag, a dotted
// string such as "keyword" or "string.special", or "" for untagged text.
// Tokenizer state that must survive across lines lives in a value of the
// mode's state type, which can be cloned so it can be checkpointed and resumed.
//
// A [Parser] wraps a mode with default behavior for the optional parts of the
// contract and guards against tokenizers that fail to advance:
//
//	p := stream.NewParser[*myState](myMode{})
//	state := p.StartState()
//	s := stream.New("key = 1", 4)
//	for !s.EOL() {
//	    tag, err := p.ReadToken(s, state)
//	    ...
//	}
package stream
