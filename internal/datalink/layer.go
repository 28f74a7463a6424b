package datalink

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/muurk/linkframe/internal/logging"
	"github.com/muurk/linkframe/internal/medium"
	"github.com/muurk/linkframe/internal/protocol"
)

// Stats is a snapshot of a Layer's counters.
type Stats struct {
	FramesSent      uint64
	FramesDelivered uint64
	FramesCorrupt   uint64
	BytesSent       uint64 // payload bytes in frames the medium accepted
	BytesDelivered  uint64 // payload bytes returned by Receive
	BytesDiscarded  uint64 // garbage and superseded bytes dropped by the decoder
}

// Layer frames outgoing data onto a medium and recovers payload chunks from
// whatever the medium delivers. Corrupt frames are counted and logged, never
// delivered.
type Layer struct {
	name    string
	codec   *protocol.Codec
	decoder *protocol.Decoder
	medium  medium.Medium

	// recvMu serializes Receive; pending holds decoded chunks not yet returned.
	recvMu  sync.Mutex
	pending [][]byte

	framesSent      atomic.Uint64
	framesDelivered atomic.Uint64
	framesCorrupt   atomic.Uint64
	bytesSent       atomic.Uint64
	bytesDelivered  atomic.Uint64
	bytesDiscarded  atomic.Uint64
}

// NewLayer returns a layer named name (used in log entries) that frames with
// codec over m. Decoder diagnostics go to the layer's counters and the
// global logger.
func NewLayer(name string, codec *protocol.Codec, m medium.Medium) *Layer {
	l := &Layer{
		name:   name,
		codec:  codec,
		medium: m,
	}
	l.decoder = codec.NewDecoderWithObserver(protocol.Observers(
		discardCounter{l},
		logging.NewFrameObserver(name),
	))
	return l
}

// Name returns the name given to NewLayer.
func (l *Layer) Name() string { return l.name }

// Codec returns the codec used for both directions.
func (l *Layer) Codec() *protocol.Codec { return l.codec }

// Send splits data into chunks and transmits one frame per chunk. If a
// transmit fails, the frames before it stay counted as sent.
func (l *Layer) Send(ctx context.Context, data []byte) error {
	tags := l.codec.Tags()
	for i, chunk := range protocol.Split(data, l.codec.MaxChunk()) {
		frame := l.codec.Encode(chunk)
		logging.LogFrame("sent", tags, frame)
		if err := l.medium.Transmit(ctx, frame); err != nil {
			return fmt.Errorf("%s: transmit frame %d: %w", l.name, i, err)
		}
		l.framesSent.Add(1)
		l.bytesSent.Add(uint64(len(chunk)))
	}
	return nil
}

// Receive blocks until at least one payload chunk has been decoded and
// returns the oldest one. It returns the medium's error, including
// medium.ErrClosed, once nothing more can arrive. Bytes of an unfinished frame
// left when the medium closes are dropped.
func (l *Layer) Receive(ctx context.Context) ([]byte, error) {
	l.recvMu.Lock()
	defer l.recvMu.Unlock()

	for len(l.pending) == 0 {
		frag, err := l.medium.Receive(ctx)
		if err != nil {
			if n := l.decoder.Buffered(); n > 0 {
				logging.Debug("Unfinished frame at end of stream",
					zap.String("endpoint", l.name),
					zap.Int("bytes", n),
				)
			}
			return nil, err
		}
		logging.LogRawBytes(l.name+": fragment received", frag)
		l.accept(l.decoder.Feed(frag))
	}

	chunk := l.pending[0]
	l.pending[0] = nil
	l.pending = l.pending[1:]
	l.bytesDelivered.Add(uint64(len(chunk)))
	return chunk, nil
}

func (l *Layer) accept(outs []protocol.Outcome) {
	for _, out := range outs {
		switch out.Kind {
		case protocol.OutcomePayload:
			l.framesDelivered.Add(1)
			l.pending = append(l.pending, out.Payload)
		case protocol.OutcomeCorrupt:
			l.framesCorrupt.Add(1)
		}
	}
}

// Stats returns a snapshot of the counters.
func (l *Layer) Stats() Stats {
	return Stats{
		FramesSent:      l.framesSent.Load(),
		FramesDelivered: l.framesDelivered.Load(),
		FramesCorrupt:   l.framesCorrupt.Load(),
		BytesSent:       l.bytesSent.Load(),
		BytesDelivered:  l.bytesDelivered.Load(),
		BytesDiscarded:  l.bytesDiscarded.Load(),
	}
}

// discardCounter feeds decoder discards into the layer's counters. Corrupt
// frames are counted from outcomes instead.
type discardCounter struct{ l *Layer }

func (d discardCounter) FrameCorrupt([]byte, byte) {}

func (d discardCounter) BytesDiscarded(n int, _ protocol.DiscardReason) {
	d.l.bytesDiscarded.Add(uint64(n))
}
