// Package protocol implements the linkframe byte-stuffed framing protocol.
//
// This package packages arbitrary payload bytes into self-delimiting frames and
// recovers them from a byte stream that may arrive in fragments of any size. A
// frame carries an error-detecting trailer so the receiver can tell a damaged
// frame from a good one.
//
// # Frame Layout
//
// Every frame has this structure:
//   - Start tag: 1 byte (default '{')
//   - Payload: 0..MaxChunk bytes, each tag-valued byte preceded by the escape tag
//   - Trailer: 1 byte computed over the unescaped payload
//   - Stop tag: 1 byte (default '}')
//
// The escape tag defaults to '\'. A trailer byte that happens to equal a tag
// value is escaped the same way a payload byte would be.
//
// # Trailer Schemes
//
// The framing logic is shared; only the Detector differs:
//   - CRC: 8-bit remainder of binary long division by a generator polynomial
//     (default 0x1D5 over 9 bits). A frame is valid when payload+trailer divides
//     evenly.
//   - Parity: one of two sentinel bytes (default 0x6d even, 0xd4 odd) chosen by the
//     parity of the payload's set-bit count.
//
// # Decoding
//
// The Decoder owns a receive buffer. Append adds bytes as they arrive and
// TryExtract resolves at most one frame:
//
//	SEEKING_START --start--> ACCUMULATING --stop--> DONE (payload or corrupt)
//	      |                      |    |
//	  drop garbage        escape: take next byte literally (or wait for it)
//	                      start:  supersede, drop the partial frame and restart
//
// Bytes before a start tag are garbage and are dropped. A start tag inside an
// unfinished frame means the earlier frame was truncated; everything before the
// new start tag is dropped and accumulation restarts from it. When the buffer
// runs out before a stop tag (including a trailing escape with nothing after
// it) nothing is consumed and TryExtract reports that no frame is ready.
//
// # Usage Example - Sending
//
//	codec, err := protocol.NewCodec(protocol.DefaultOptions(protocol.SchemeCRC))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	stream := codec.EncodeAll([]byte("hello, link layer"))
//
// # Usage Example - Receiving
//
//	dec := codec.NewDecoder()
//	for _, out := range dec.Feed(fragment) {
//	    switch out.Kind {
//	    case protocol.OutcomePayload:
//	        deliver(out.Payload)
//	    case protocol.OutcomeCorrupt:
//	        // trailer mismatch; the frame is gone
//	    }
//	}
//
// # Error Handling
//
// Nothing in the decoder is fatal. Incomplete input is a steady state, garbage
// and superseded frames are reported only to the Observer, and corrupt frames
// are returned as OutcomeCorrupt. Configuration problems are reported by
// NewCodec as errors wrapping the sentinels in errors.go.
//
// # Thread Safety
//
// Codec and the Detectors are immutable and safe for concurrent use. A Decoder
// serializes Append and TryExtract with a mutex, so one goroutine may feed it
// while another drains it.
package protocol
