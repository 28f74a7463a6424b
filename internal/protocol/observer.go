package protocol

// DiscardReason says why the decoder dropped bytes without delivering them.
type DiscardReason int

const (
	// DiscardGarbage covers bytes that preceded any start tag.
	DiscardGarbage DiscardReason = iota
	// DiscardSuperseded covers a partial frame cut short by a new start tag.
	DiscardSuperseded
)

func (r DiscardReason) String() string {
	switch r {
	case DiscardGarbage:
		return "garbage"
	case DiscardSuperseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// Observer receives diagnostics from a Decoder. It is called with the
// decoder's lock held and must not call back into the decoder.
type Observer interface {
	// FrameCorrupt reports a complete frame whose trailer did not match. payload
	// has the trailer stripped.
	FrameCorrupt(payload []byte, trailer byte)
	// BytesDiscarded reports n buffered bytes dropped without a frame.
	BytesDiscarded(n int, reason DiscardReason)
}

// Observers fans diagnostics out to several observers. Nil entries are skipped.
func Observers(obs ...Observer) Observer {
	var list multiObserver
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	switch len(list) {
	case 0:
		return nil
	case 1:
		return list[0]
	}
	return list
}

type multiObserver []Observer

func (m multiObserver) FrameCorrupt(payload []byte, trailer byte) {
	for _, o := range m {
		o.FrameCorrupt(payload, trailer)
	}
}

func (m multiObserver) BytesDiscarded(n int, reason DiscardReason) {
	for _, o := range m {
		o.BytesDiscarded(n, reason)
	}
}
