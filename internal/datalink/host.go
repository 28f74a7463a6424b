package datalink

import (
	"bytes"
	"context"
	"errors"

	"github.com/muurk/linkframe/internal/medium"
	"github.com/muurk/linkframe/internal/protocol"
)

// Host is one endpoint of a simulated link.
type Host struct {
	layer *Layer
}

// NewHost returns a host whose data link layer frames with codec over m.
func NewHost(name string, codec *protocol.Codec, m medium.Medium) *Host {
	return &Host{layer: NewLayer(name, codec, m)}
}

// Layer returns the host's data link layer.
func (h *Host) Layer() *Layer { return h.layer }

// Send hands data to the data link layer.
func (h *Host) Send(ctx context.Context, data []byte) error {
	return h.layer.Send(ctx, data)
}

// Retrieve collects every delivered chunk until the medium closes and
// returns them concatenated. On any other error it returns what it has
// collected so far along with the error.
func (h *Host) Retrieve(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	for {
		chunk, err := h.layer.Receive(ctx)
		if errors.Is(err, medium.ErrClosed) {
			return buf.Bytes(), nil
		}
		if err != nil {
			return buf.Bytes(), err
		}
		buf.Write(chunk)
	}
}
