package protocol

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"testing"
)

// recorder is an Observer that keeps every callback.
type recorder struct {
	corrupt   [][]byte
	discarded map[DiscardReason]int
}

func newRecorder() *recorder {
	return &recorder{discarded: make(map[DiscardReason]int)}
}

func (r *recorder) FrameCorrupt(payload []byte, trailer byte) {
	r.corrupt = append(r.corrupt, append([]byte{}, payload...))
}

func (r *recorder) BytesDiscarded(n int, reason DiscardReason) {
	r.discarded[reason] += n
}

func payloads(outs []Outcome) [][]byte {
	var got [][]byte
	for _, o := range outs {
		if o.Kind == OutcomePayload {
			got = append(got, o.Payload)
		}
	}
	return got
}

func countCorrupt(outs []Outcome) int {
	n := 0
	for _, o := range outs {
		if o.Kind == OutcomeCorrupt {
			n++
		}
	}
	return n
}

func randomPayload(rng *rand.Rand, n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(rng.UintN(256))
	}
	return p
}

func TestDecodeParityScenario(t *testing.T) {
	codec := mustCodec(t, SchemeParity)
	dec := codec.NewDecoder()

	outs := dec.Feed([]byte{'{', 0x43, 0x53, DefaultOddSentinel, '}'})
	if len(outs) != 1 {
		t.Fatalf("Feed() returned %d outcomes, want 1", len(outs))
	}
	if outs[0].Kind != OutcomePayload || string(outs[0].Payload) != "CS" {
		t.Errorf("outcome = %v %q, want payload %q", outs[0].Kind, outs[0].Payload, "CS")
	}
	if dec.Buffered() != 0 {
		t.Errorf("Buffered() = %d, want 0", dec.Buffered())
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	inputs := [][]byte{
		nil,
		[]byte("CS"),
		[]byte("{}\\{}\\"),
		[]byte("exactly8"),
		[]byte("a payload that is quite a bit longer than a single chunk"),
		{0x18, 0x0f, 0x33, 0x00, 0xff},
		randomPayload(rng, 1000),
	}

	for _, scheme := range []Scheme{SchemeCRC, SchemeParity} {
		for i, in := range inputs {
			t.Run(fmt.Sprintf("%s/%d", scheme, i), func(t *testing.T) {
				codec := mustCodec(t, scheme)
				outs := codec.NewDecoder().Feed(codec.EncodeAll(in))

				if n := countCorrupt(outs); n != 0 {
					t.Fatalf("%d corrupt frames on a clean stream", n)
				}
				want := Split(in, codec.MaxChunk())
				got := payloads(outs)
				if len(got) != len(want) {
					t.Fatalf("got %d chunks, want %d", len(got), len(want))
				}
				for j := range want {
					if !bytes.Equal(got[j], want[j]) {
						t.Errorf("chunk %d = %x, want %x", j, got[j], want[j])
					}
				}
			})
		}
	}
}

// A multi-megabyte stream must decode in linear time: consuming a frame
// advances an offset instead of shifting the rest of the buffer.
func TestLargeStream(t *testing.T) {
	rng := rand.New(rand.NewPCG(23, 29))
	payload := randomPayload(rng, 4<<20)

	for _, scheme := range []Scheme{SchemeCRC, SchemeParity} {
		codec := mustCodec(t, scheme)
		stream := append([]byte("leading garbage"), codec.EncodeAll(payload)...)

		t.Run(fmt.Sprintf("%s/whole", scheme), func(t *testing.T) {
			dec := codec.NewDecoder()
			outs := dec.Feed(stream)
			if n := countCorrupt(outs); n != 0 {
				t.Fatalf("%d corrupt frames on a clean stream", n)
			}
			if got := bytes.Join(payloads(outs), nil); !bytes.Equal(got, payload) {
				t.Fatalf("reassembled %d bytes, want %d", len(got), len(payload))
			}
			if dec.Buffered() != 0 {
				t.Errorf("Buffered() = %d, want 0", dec.Buffered())
			}
		})

		t.Run(fmt.Sprintf("%s/pieces", scheme), func(t *testing.T) {
			// An odd piece size leaves partial frames at most boundaries.
			const piece = 64<<10 + 7
			dec := codec.NewDecoder()
			var got []byte
			for rest := stream; len(rest) > 0; {
				n := min(piece, len(rest))
				for _, out := range dec.Feed(rest[:n]) {
					if out.Kind != OutcomePayload {
						t.Fatalf("unexpected %v outcome", out.Kind)
					}
					got = append(got, out.Payload...)
				}
				rest = rest[n:]
				if c := cap(dec.buf); c > 4*piece {
					t.Fatalf("buffer capacity grew to %d", c)
				}
			}
			if !bytes.Equal(got, payload) {
				t.Fatalf("reassembled %d bytes, want %d", len(got), len(payload))
			}
			if dec.Buffered() != 0 {
				t.Errorf("Buffered() = %d, want 0", dec.Buffered())
			}
		})
	}
}

func TestFragmentationDoesNotChangeOutput(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 19))
	payload := append([]byte("{escape}\\me"), randomPayload(rng, 300)...)

	for _, scheme := range []Scheme{SchemeCRC, SchemeParity} {
		codec := mustCodec(t, scheme)
		stream := codec.EncodeAll(payload)
		whole := codec.NewDecoder().Feed(stream)

		// One byte at a time.
		dec := codec.NewDecoder()
		var single []Outcome
		for _, b := range stream {
			single = append(single, dec.Feed([]byte{b})...)
		}
		assertSameOutcomes(t, scheme, "single bytes", whole, single)

		// Random fragment sizes, drained with TryExtract.
		for trial := 0; trial < 20; trial++ {
			dec := codec.NewDecoder()
			var frag []Outcome
			rest := stream
			for len(rest) > 0 {
				n := 1 + int(rng.UintN(uint(min(len(rest), 13))))
				dec.Append(rest[:n])
				rest = rest[n:]
				for {
					out, ok := dec.TryExtract()
					if !ok {
						break
					}
					frag = append(frag, out)
				}
			}
			assertSameOutcomes(t, scheme, fmt.Sprintf("trial %d", trial), whole, frag)
		}
	}
}

func assertSameOutcomes(t *testing.T, scheme Scheme, label string, want, got []Outcome) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s %s: got %d outcomes, want %d", scheme, label, len(got), len(want))
	}
	for i := range want {
		if got[i].Kind != want[i].Kind || !bytes.Equal(got[i].Payload, want[i].Payload) {
			t.Fatalf("%s %s: outcome %d = %v %x, want %v %x",
				scheme, label, i, got[i].Kind, got[i].Payload, want[i].Kind, want[i].Payload)
		}
	}
}

func TestSingleBitFlipReportedCorrupt(t *testing.T) {
	rng := rand.New(rand.NewPCG(23, 29))
	chunks := [][]byte{[]byte("CS"), []byte("datalink"), {0x18, 0x7b, 0x5c}, randomPayload(rng, 8)}

	for _, scheme := range []Scheme{SchemeCRC, SchemeParity} {
		codec := mustCodec(t, scheme)
		tags := codec.Tags()
		for _, chunk := range chunks {
			frame := codec.Encode(chunk)
			escaped := escapedPositions(frame, tags)
			// Bytes 1..len-2 are the escaped payload and trailer region.
			for i := 1; i < len(frame)-1; i++ {
				if frame[i] == tags.Escape && !escaped[i] {
					continue // structural escape byte
				}
				for bit := 0; bit < 8; bit++ {
					damaged := append([]byte{}, frame...)
					damaged[i] ^= 1 << bit
					if !escaped[i] && tags.IsTag(damaged[i]) {
						continue // the flip forged a structural byte
					}

					outs := codec.NewDecoder().Feed(damaged)
					if len(outs) != 1 || outs[0].Kind != OutcomeCorrupt {
						t.Errorf("%s %q: flip byte %d bit %d gave %v, want one corrupt frame",
							scheme, chunk, i, bit, outs)
					}
				}
			}
		}
	}
}

// escapedPositions marks the bytes of frame that follow an escape tag.
func escapedPositions(frame []byte, tags Tags) []bool {
	escaped := make([]bool, len(frame))
	for i := 1; i < len(frame)-1; i++ {
		if frame[i] == tags.Escape {
			escaped[i+1] = true
			i++
		}
	}
	return escaped
}

func TestCorruptFrameReportsPayloadWithoutTrailer(t *testing.T) {
	codec := mustCodec(t, SchemeParity)
	rec := newRecorder()
	dec := codec.NewDecoderWithObserver(rec)

	outs := dec.Feed([]byte{'{', 'C', 'S', DefaultEvenSentinel, '}'})
	if len(outs) != 1 || outs[0].Kind != OutcomeCorrupt {
		t.Fatalf("Feed() = %v, want one corrupt outcome", outs)
	}
	if string(outs[0].Payload) != "CS" || outs[0].Trailer != DefaultEvenSentinel {
		t.Errorf("corrupt outcome = %q/0x%02x, want %q/0x%02x", outs[0].Payload, outs[0].Trailer, "CS", DefaultEvenSentinel)
	}
	if len(rec.corrupt) != 1 || string(rec.corrupt[0]) != "CS" {
		t.Errorf("observer corrupt = %q, want [CS]", rec.corrupt)
	}
	if dec.Buffered() != 0 {
		t.Errorf("corrupt frame left %d bytes buffered, want 0", dec.Buffered())
	}
}

func TestResynchronization(t *testing.T) {
	codec := mustCodec(t, SchemeCRC)
	frame1 := codec.Encode([]byte("first"))
	frame2 := codec.Encode([]byte("second"))
	garbage := []byte("noise!")

	t.Run("malformed first frame is dropped", func(t *testing.T) {
		rec := newRecorder()
		dec := codec.NewDecoderWithObserver(rec)

		// frame1 without its stop tag, cut off by frame2's start tag.
		stream := append(append(append([]byte{}, garbage...), frame1[:len(frame1)-1]...), frame2...)
		outs := dec.Feed(stream)

		got := payloads(outs)
		if len(outs) != 1 || len(got) != 1 || string(got[0]) != "second" {
			t.Fatalf("Feed() = %v, want only payload %q", outs, "second")
		}
		if rec.discarded[DiscardGarbage] != len(garbage) {
			t.Errorf("garbage discarded = %d, want %d", rec.discarded[DiscardGarbage], len(garbage))
		}
		if rec.discarded[DiscardSuperseded] != len(frame1)-1 {
			t.Errorf("superseded discarded = %d, want %d", rec.discarded[DiscardSuperseded], len(frame1)-1)
		}
		if len(rec.corrupt) != 0 {
			t.Errorf("superseded frame was validated: %q", rec.corrupt)
		}
	})

	t.Run("well formed frames both delivered", func(t *testing.T) {
		stream := append(append(append([]byte{}, garbage...), frame1...), frame2...)
		got := payloads(codec.NewDecoder().Feed(stream))
		if len(got) != 2 || string(got[0]) != "first" || string(got[1]) != "second" {
			t.Fatalf("payloads = %q, want [first second]", got)
		}
	})

	t.Run("garbage only", func(t *testing.T) {
		dec := codec.NewDecoder()
		if outs := dec.Feed(garbage); len(outs) != 0 {
			t.Fatalf("Feed(garbage) = %v, want none", outs)
		}
		if dec.Buffered() != 0 {
			t.Errorf("Buffered() = %d, want garbage dropped", dec.Buffered())
		}
	})
}

func TestSupersedeKeepsNewStartTag(t *testing.T) {
	codec := mustCodec(t, SchemeParity)
	dec := codec.NewDecoder()

	// "{ab" is cut off by a start tag; the new frame is still incomplete.
	if outs := dec.Feed([]byte("{ab{cd")); len(outs) != 0 {
		t.Fatalf("Feed() = %v, want none", outs)
	}
	if dec.Buffered() != 3 {
		t.Fatalf("Buffered() = %d, want 3 (\"{cd\")", dec.Buffered())
	}

	// "cd" has 7 set bits: odd.
	outs := dec.Feed([]byte{DefaultOddSentinel, '}'})
	got := payloads(outs)
	if len(got) != 1 || string(got[0]) != "cd" {
		t.Fatalf("payloads = %q, want [cd]", got)
	}
}

func TestDanglingEscape(t *testing.T) {
	codec := mustCodec(t, SchemeCRC)
	frame := codec.Encode([]byte("a}")) // { a \ } 0x68 }
	dec := codec.NewDecoder()

	if outs := dec.Feed(frame[:3]); len(outs) != 0 {
		t.Fatalf("Feed(%q) = %v, want incomplete", frame[:3], outs)
	}
	if _, ok := dec.TryExtract(); ok {
		t.Fatal("TryExtract() resolved a frame ending in an escape")
	}
	if dec.Buffered() != 3 {
		t.Fatalf("Buffered() = %d, want 3", dec.Buffered())
	}

	// The escaped stop tag must not end the frame.
	if outs := dec.Feed(frame[3:4]); len(outs) != 0 {
		t.Fatalf("escaped stop tag ended the frame: %v", outs)
	}

	got := payloads(dec.Feed(frame[4:]))
	if len(got) != 1 || string(got[0]) != "a}" {
		t.Fatalf("payloads = %q, want [a}]", got)
	}
}

func TestEmptyFrameIsCorrupt(t *testing.T) {
	codec := mustCodec(t, SchemeCRC)
	outs := codec.NewDecoder().Feed([]byte("{}"))
	if len(outs) != 1 || outs[0].Kind != OutcomeCorrupt || len(outs[0].Payload) != 0 {
		t.Fatalf("Feed({}) = %v, want one empty corrupt outcome", outs)
	}
}

func TestStopWithoutStartIsGarbage(t *testing.T) {
	codec := mustCodec(t, SchemeParity)
	rec := newRecorder()
	dec := codec.NewDecoderWithObserver(rec)

	stream := append([]byte("x}y"), codec.Encode([]byte("ok"))...)
	got := payloads(dec.Feed(stream))
	if len(got) != 1 || string(got[0]) != "ok" {
		t.Fatalf("payloads = %q, want [ok]", got)
	}
	if rec.discarded[DiscardGarbage] != 3 {
		t.Errorf("garbage discarded = %d, want 3", rec.discarded[DiscardGarbage])
	}
}

func TestReset(t *testing.T) {
	codec := mustCodec(t, SchemeParity)
	dec := codec.NewDecoder()
	dec.Append([]byte("{partial"))
	dec.Reset()
	if dec.Buffered() != 0 {
		t.Errorf("Buffered() after Reset = %d, want 0", dec.Buffered())
	}
}

func TestDecoderConcurrentFeedAndDrain(t *testing.T) {
	codec := mustCodec(t, SchemeCRC)
	payload := []byte("producer and consumer share one decoder")
	stream := codec.EncodeAll(payload)
	dec := codec.NewDecoder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, b := range stream {
			dec.Append([]byte{b})
		}
	}()

	var got []byte
	want := len(Split(payload, codec.MaxChunk()))
	frames := 0
	for frames < want {
		out, ok := dec.TryExtract()
		if !ok {
			select {
			case <-done:
				// Producer finished; one more pass drains what is left.
				if out, ok = dec.TryExtract(); !ok {
					t.Fatalf("decoded %d of %d frames", frames, want)
				}
			default:
				continue
			}
		}
		if out.Kind != OutcomePayload {
			t.Fatalf("unexpected %v outcome", out.Kind)
		}
		got = append(got, out.Payload...)
		frames++
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("reassembled = %q, want %q", got, payload)
	}
}
