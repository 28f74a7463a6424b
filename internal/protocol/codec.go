package protocol

import (
	"fmt"

	"github.com/muurk/linkframe/internal/checksum"
)

// Options configures a Codec.
type Options struct {
	Tags     Tags
	Detector Detector
	MaxChunk int      // payload bytes per frame
	Observer Observer // optional decoder diagnostics
}

// DefaultOptions returns the default tags and chunk size with the default
// detector for scheme. An unknown scheme leaves Detector nil, which NewCodec
// rejects.
func DefaultOptions(scheme Scheme) Options {
	det, _ := NewDetector(scheme, checksum.DefaultPolynomial, DefaultParity())
	return Options{
		Tags:     DefaultTags(),
		Detector: det,
		MaxChunk: DefaultMaxChunk,
	}
}

// Validate checks the option set as a whole.
func (o Options) Validate() error {
	if err := o.Tags.Validate(); err != nil {
		return err
	}
	if o.Detector == nil {
		return ErrNoDetector
	}
	if tc, ok := o.Detector.(tagChecker); ok {
		if err := tc.checkTags(o.Tags); err != nil {
			return err
		}
	}
	if o.MaxChunk <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChunkSize, o.MaxChunk)
	}
	return nil
}

// Codec encodes payloads into frames and creates decoders for the same
// configuration.
type Codec struct {
	tags     Tags
	detector Detector
	maxChunk int
	observer Observer
}

// NewCodec validates opts and returns a Codec.
func NewCodec(opts Options) (*Codec, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid framing options: %w", err)
	}
	return &Codec{
		tags:     opts.Tags,
		detector: opts.Detector,
		maxChunk: opts.MaxChunk,
		observer: opts.Observer,
	}, nil
}

func (c *Codec) Tags() Tags { return c.tags }

func (c *Codec) Detector() Detector { return c.detector }

func (c *Codec) MaxChunk() int { return c.maxChunk }

// Encode frames one chunk. Callers are expected to keep chunk within MaxChunk;
// Encode itself accepts any length and never fails.
func (c *Codec) Encode(chunk []byte) []byte {
	return c.appendFrame(make([]byte, 0, encodedSizeHint(len(chunk))), chunk)
}

// EncodeAll splits payload into MaxChunk pieces and returns their frames
// back to back.
func (c *Codec) EncodeAll(payload []byte) []byte {
	out := make([]byte, 0, encodedSizeHint(len(payload))+4*(len(payload)/c.maxChunk))
	for _, chunk := range Split(payload, c.maxChunk) {
		out = c.appendFrame(out, chunk)
	}
	return out
}

// EncodeChunks is EncodeAll with one slice per frame.
func (c *Codec) EncodeChunks(payload []byte) [][]byte {
	chunks := Split(payload, c.maxChunk)
	frames := make([][]byte, len(chunks))
	for i, chunk := range chunks {
		frames[i] = c.Encode(chunk)
	}
	return frames
}

// NewDecoder returns an empty decoder using this codec's tags, detector and
// observer.
func (c *Codec) NewDecoder() *Decoder {
	return &Decoder{
		tags:     c.tags,
		detector: c.detector,
		observer: c.observer,
	}
}

// NewDecoderWithObserver is NewDecoder with obs added to the codec's observer.
func (c *Codec) NewDecoderWithObserver(obs Observer) *Decoder {
	d := c.NewDecoder()
	d.observer = Observers(c.observer, obs)
	return d
}

func (c *Codec) appendFrame(out, chunk []byte) []byte {
	out = append(out, c.tags.Start)
	for _, b := range chunk {
		out = c.appendEscaped(out, b)
	}
	out = c.appendEscaped(out, c.detector.Trailer(chunk))
	return append(out, c.tags.Stop)
}

func (c *Codec) appendEscaped(out []byte, b byte) []byte {
	if c.tags.IsTag(b) {
		out = append(out, c.tags.Escape)
	}
	return append(out, b)
}

// encodedSizeHint is the unescaped frame size: start, payload, trailer, stop.
func encodedSizeHint(n int) int {
	return n + 3
}
