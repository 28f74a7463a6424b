package protocol

import "sync"

// OutcomeKind distinguishes the two ways a complete frame resolves.
type OutcomeKind int

const (
	// OutcomePayload is a frame whose trailer checked out.
	OutcomePayload OutcomeKind = iota
	// OutcomeCorrupt is a complete frame with a bad trailer. Its bytes are
	// consumed and not retried.
	OutcomeCorrupt
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomePayload:
		return "payload"
	case OutcomeCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// Outcome is one resolved frame. Payload never includes the trailer; for a
// corrupt frame it holds what was received, for diagnostics.
type Outcome struct {
	Kind    OutcomeKind
	Payload []byte
	Trailer byte
}

// decodeState is the position of a single extraction attempt.
type decodeState int

const (
	stateSeekingStart decodeState = iota
	stateAccumulating
	stateDone
)

// Decoder is the receive buffer plus the resynchronizing frame extractor.
// Create one with Codec.NewDecoder.
type Decoder struct {
	tags     Tags
	detector Detector
	observer Observer

	mu sync.Mutex
	// buf[off:] is received and not yet consumed. Consuming advances off;
	// the consumed prefix is reclaimed by compact.
	buf       []byte
	off       int
	candidate []byte // scratch space for the frame being accumulated
}

// Append adds newly received bytes to the tail of the buffer.
func (d *Decoder) Append(data []byte) {
	d.mu.Lock()
	d.append(data)
	d.mu.Unlock()
}

// Buffered returns the number of bytes held for a future attempt.
func (d *Decoder) Buffered() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.buf) - d.off
}

// Reset drops everything buffered.
func (d *Decoder) Reset() {
	d.mu.Lock()
	d.buf, d.off = d.buf[:0], 0
	d.mu.Unlock()
}

func (d *Decoder) append(data []byte) {
	if len(d.buf)+len(data) > cap(d.buf) {
		d.compact()
	}
	d.buf = append(d.buf, data...)
}

// compact moves the unconsumed tail to the front of buf.
func (d *Decoder) compact() {
	if d.off == 0 {
		return
	}
	d.buf = d.buf[:copy(d.buf, d.buf[d.off:])]
	d.off = 0
}

// TryExtract makes one attempt to resolve a frame from the buffer. ok is false
// when no complete frame is available yet; the unresolved bytes stay buffered
// until more arrive. Callers loop until ok is false to drain the buffer.
func (d *Decoder) TryExtract() (out Outcome, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.extract()
}

// Feed appends data and drains every frame it completes, in order.
func (d *Decoder) Feed(data []byte) []Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.append(data)
	var outs []Outcome
	for {
		out, ok := d.extract()
		if !ok {
			return outs
		}
		outs = append(outs, out)
	}
}

func (d *Decoder) extract() (Outcome, bool) {
	state := stateSeekingStart
	d.candidate = d.candidate[:0]

	// Index into the unconsumed bytes of the byte under inspection. While
	// accumulating, index 0 is the start tag of the current candidate.
	i := 0
	for state != stateDone {
		switch state {
		case stateSeekingStart:
			pending := d.buf[d.off:]
			for i < len(pending) && pending[i] != d.tags.Start {
				i++
			}
			d.discard(i, DiscardGarbage)
			if d.off == len(d.buf) {
				return Outcome{}, false
			}
			state = stateAccumulating
			i = 1

		case stateAccumulating:
			pending := d.buf[d.off:]
			if i >= len(pending) {
				return Outcome{}, false
			}
			switch b := pending[i]; b {
			case d.tags.Escape:
				if i+1 >= len(pending) {
					// Dangling escape: wait for the byte it protects.
					return Outcome{}, false
				}
				d.candidate = append(d.candidate, pending[i+1])
				i += 2
			case d.tags.Stop:
				d.consume(i + 1)
				state = stateDone
			case d.tags.Start:
				d.supersede(i)
				i = 1
			default:
				d.candidate = append(d.candidate, b)
				i++
			}
		}
	}

	return d.resolve(), true
}

// supersede handles a start tag found inside an unfinished frame: the partial
// frame before it is dropped and the new start tag becomes the first
// unconsumed byte. Nothing accumulated so far is validated.
func (d *Decoder) supersede(start int) {
	d.discard(start, DiscardSuperseded)
	d.candidate = d.candidate[:0]
}

// resolve validates the accumulated candidate. The last byte is the trailer.
func (d *Decoder) resolve() Outcome {
	if len(d.candidate) == 0 {
		// Start immediately followed by stop: there is no trailer to check.
		d.notifyCorrupt(nil, 0)
		return Outcome{Kind: OutcomeCorrupt, Payload: []byte{}}
	}

	n := len(d.candidate) - 1
	payload := make([]byte, n)
	copy(payload, d.candidate[:n])
	trailer := d.candidate[n]

	if !d.detector.Valid(payload, trailer) {
		d.notifyCorrupt(payload, trailer)
		return Outcome{Kind: OutcomeCorrupt, Payload: payload, Trailer: trailer}
	}
	return Outcome{Kind: OutcomePayload, Payload: payload, Trailer: trailer}
}

func (d *Decoder) discard(n int, reason DiscardReason) {
	if n == 0 {
		return
	}
	d.consume(n)
	if d.observer != nil {
		d.observer.BytesDiscarded(n, reason)
	}
}

// consume drops the first n unconsumed bytes. The backing array is kept and
// rewound once empty; otherwise it is compacted when more than half of it is
// consumed.
func (d *Decoder) consume(n int) {
	d.off += n
	switch {
	case d.off == len(d.buf):
		d.buf, d.off = d.buf[:0], 0
	case d.off > len(d.buf)/2:
		d.compact()
	}
}

func (d *Decoder) notifyCorrupt(payload []byte, trailer byte) {
	if d.observer != nil {
		d.observer.FrameCorrupt(payload, trailer)
	}
}
