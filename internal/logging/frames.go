package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/muurk/linkframe/internal/protocol"
)

// FrameObserver reports decoder diagnostics through zap. Corrupt frames are
// logged at Warn, discarded bytes at Debug.
type FrameObserver struct {
	log *zap.Logger
}

var _ protocol.Observer = (*FrameObserver)(nil)

// NewFrameObserver returns an observer that tags every entry with the given
// endpoint name. It binds to the global logger at call time.
func NewFrameObserver(endpoint string) *FrameObserver {
	return &FrameObserver{log: GetLogger().With(zap.String("endpoint", endpoint))}
}

// FrameCorrupt implements protocol.Observer.
func (o *FrameObserver) FrameCorrupt(payload []byte, trailer byte) {
	o.log.Warn("Corrupt frame dropped",
		zap.Int("length", len(payload)),
		zap.String("hex", hexDump(payload)),
		zap.String("ascii", asciiDump(payload)),
		zap.String("trailer", hexDump([]byte{trailer})),
	)
}

// BytesDiscarded implements protocol.Observer.
func (o *FrameObserver) BytesDiscarded(n int, reason protocol.DiscardReason) {
	o.log.Debug("Bytes discarded",
		zap.Int("count", n),
		zap.Stringer("reason", reason),
	)
}

// LogFrame logs one encoded frame in readable form, e.g.
// <start>a<esc>}<trailer 0x68><stop>. It is a no-op unless debug is enabled.
func LogFrame(direction string, tags protocol.Tags, frame []byte) {
	l := GetLogger()
	if !l.Core().Enabled(zapcore.DebugLevel) {
		return
	}
	l.Debug("Frame",
		zap.String("direction", direction),
		zap.Int("length", len(frame)),
		zap.String("frame", tags.Describe(frame)),
	)
}
