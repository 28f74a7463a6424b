package medium

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
)

// Type names a medium behaviour.
type Type string

const (
	// TypePerfect delivers each transmission intact as one fragment.
	TypePerfect Type = "perfect"
	// TypeFragmenting delivers transmissions intact but split into random
	// fragments.
	TypeFragmenting Type = "fragmenting"
	// TypeLowNoise fragments and flips bits at DefaultLowNoiseRate.
	TypeLowNoise Type = "lownoise"
	// TypeHighNoise fragments and flips bits at DefaultHighNoiseRate.
	TypeHighNoise Type = "highnoise"
)

const (
	DefaultLowNoiseRate  = 1e-4
	DefaultHighNoiseRate = 1e-2
	DefaultMaxFragment   = 5
	DefaultBuffer        = 64
)

var (
	// ErrClosed is returned by Transmit after Close, and by Receive once the
	// medium is closed and drained.
	ErrClosed = errors.New("medium: closed")

	// ErrUnknownType is returned for a Type outside the known set.
	ErrUnknownType = errors.New("medium: unknown type")
)

// Types lists every medium type, in the order the CLI shows them.
func Types() []Type {
	return []Type{TypePerfect, TypeFragmenting, TypeLowNoise, TypeHighNoise}
}

// Medium carries bytes between two endpoints. Bytes arrive in order, without
// duplication, possibly split differently from how they were sent and, for
// noisy media, with flipped bits.
type Medium interface {
	Transmit(ctx context.Context, data []byte) error
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}

// Options configures a Channel.
type Options struct {
	Type Type

	// NoiseRate is the probability that any single bit is flipped. Zero means
	// the default for Type.
	NoiseRate float64

	// MaxFragment bounds fragment length for every type except perfect. Zero
	// means DefaultMaxFragment.
	MaxFragment int

	// Seed makes fragmentation and noise reproducible.
	Seed uint64

	// Buffer is the number of fragments in flight before Transmit blocks.
	Buffer int
}

// DefaultOptions returns the defaults for t.
func DefaultOptions(t Type) Options {
	return Options{
		Type:        t,
		NoiseRate:   defaultNoiseRate(t),
		MaxFragment: DefaultMaxFragment,
		Buffer:      DefaultBuffer,
	}
}

func defaultNoiseRate(t Type) float64 {
	switch t {
	case TypeLowNoise:
		return DefaultLowNoiseRate
	case TypeHighNoise:
		return DefaultHighNoiseRate
	default:
		return 0
	}
}

// Validate checks the option values. Zero values are accepted and replaced by
// defaults in New.
func (o Options) Validate() error {
	switch o.Type {
	case TypePerfect, TypeFragmenting, TypeLowNoise, TypeHighNoise:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, o.Type)
	}
	if o.NoiseRate < 0 || o.NoiseRate > 1 {
		return fmt.Errorf("medium: noise rate %v outside [0, 1]", o.NoiseRate)
	}
	if o.MaxFragment < 0 {
		return fmt.Errorf("medium: negative max fragment %d", o.MaxFragment)
	}
	if o.Buffer < 0 {
		return fmt.Errorf("medium: negative buffer %d", o.Buffer)
	}
	return nil
}

// Stats counts what a Channel has carried.
type Stats struct {
	Transmissions uint64
	Fragments     uint64
	Bytes         uint64
	BitsFlipped   uint64
}

// Channel is an in-memory Medium backed by a buffered channel of fragments.
type Channel struct {
	typ         Type
	noiseRate   float64
	maxFragment int

	// mu guards closed and the closing of frags. Transmit holds it shared
	// while sending, so Close waits for in-flight transmissions.
	mu     sync.RWMutex
	closed bool
	frags  chan []byte

	rngMu sync.Mutex
	rng   *rand.Rand

	transmissions atomic.Uint64
	fragments     atomic.Uint64
	bytes         atomic.Uint64
	bitsFlipped   atomic.Uint64
}

var _ Medium = (*Channel)(nil)

// New validates opts and returns an open Channel.
func New(opts Options) (*Channel, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.NoiseRate == 0 {
		opts.NoiseRate = defaultNoiseRate(opts.Type)
	}
	if opts.MaxFragment == 0 {
		opts.MaxFragment = DefaultMaxFragment
	}
	if opts.Buffer == 0 {
		opts.Buffer = DefaultBuffer
	}
	if opts.Type == TypePerfect || opts.Type == TypeFragmenting {
		opts.NoiseRate = 0
	}

	return &Channel{
		typ:         opts.Type,
		noiseRate:   opts.NoiseRate,
		maxFragment: opts.MaxFragment,
		frags:       make(chan []byte, opts.Buffer),
		rng:         rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
	}, nil
}

// Type returns the medium type.
func (c *Channel) Type() Type { return c.typ }

// Transmit copies data onto the medium. It blocks while the buffer is full
// and returns ctx.Err() if ctx ends first; fragments already queued stay
// queued.
func (c *Channel) Transmit(ctx context.Context, data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	frags := c.prepare(data)
	c.transmissions.Add(1)
	for _, f := range frags {
		select {
		case c.frags <- f:
			c.fragments.Add(1)
			c.bytes.Add(uint64(len(f)))
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// prepare copies data, applies noise and cuts it into fragments.
func (c *Channel) prepare(data []byte) [][]byte {
	buf := make([]byte, len(data))
	copy(buf, data)

	c.rngMu.Lock()
	defer c.rngMu.Unlock()

	if c.noiseRate > 0 {
		c.bitsFlipped.Add(uint64(flipBits(c.rng, buf, c.noiseRate)))
	}
	if c.typ == TypePerfect {
		return [][]byte{buf}
	}
	return fragment(c.rng, buf, c.maxFragment)
}

// Receive returns the next fragment. Once the medium is closed and every
// queued fragment has been read, it returns ErrClosed.
func (c *Channel) Receive(ctx context.Context) ([]byte, error) {
	select {
	case f, ok := <-c.frags:
		if !ok {
			return nil, ErrClosed
		}
		return f, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops further transmissions. Queued fragments remain receivable.
// Closing twice is a no-op.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.frags)
	}
	return nil
}

// Stats returns a snapshot of the counters.
func (c *Channel) Stats() Stats {
	return Stats{
		Transmissions: c.transmissions.Load(),
		Fragments:     c.fragments.Load(),
		Bytes:         c.bytes.Load(),
		BitsFlipped:   c.bitsFlipped.Load(),
	}
}

// fragment splits buf into pieces of random length in [1, limit].
func fragment(rng *rand.Rand, buf []byte, limit int) [][]byte {
	frags := make([][]byte, 0, len(buf)/limit+1)
	for len(buf) > 0 {
		n := 1 + rng.IntN(min(limit, len(buf)))
		frags = append(frags, buf[:n:n])
		buf = buf[n:]
	}
	return frags
}

// flipBits flips each bit of buf independently with probability rate and
// returns how many were flipped.
func flipBits(rng *rand.Rand, buf []byte, rate float64) int {
	flipped := 0
	for i := range buf {
		for bit := 0; bit < 8; bit++ {
			if rng.Float64() < rate {
				buf[i] ^= 1 << bit
				flipped++
			}
		}
	}
	return flipped
}
