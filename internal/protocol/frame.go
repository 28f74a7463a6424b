package protocol

import (
	"fmt"
	"strings"
)

// Default tag bytes
const (
	DefaultStartTag  = '{'
	DefaultStopTag   = '}'
	DefaultEscapeTag = '\\'
)

// DefaultMaxChunk is the number of payload bytes carried per frame.
const DefaultMaxChunk = 8

// Tags holds the three reserved byte values that give a frame its structure.
type Tags struct {
	Start  byte
	Stop   byte
	Escape byte
}

// DefaultTags returns '{', '}' and '\'.
func DefaultTags() Tags {
	return Tags{Start: DefaultStartTag, Stop: DefaultStopTag, Escape: DefaultEscapeTag}
}

// Validate checks that the three tags are distinct.
func (t Tags) Validate() error {
	if t.Start == t.Stop || t.Start == t.Escape || t.Stop == t.Escape {
		return fmt.Errorf("%w: start=0x%02x stop=0x%02x escape=0x%02x",
			ErrTagCollision, t.Start, t.Stop, t.Escape)
	}
	return nil
}

// IsTag reports whether b is one of the reserved values and must be escaped
// when it appears as data.
func (t Tags) IsTag(b byte) bool {
	return b == t.Start || b == t.Stop || b == t.Escape
}

// Describe renders an encoded frame stream with its structure spelled out, e.g.
// "<start>CS<esc>}<trailer 0xd4><stop>". Printable payload bytes are shown as
// is, everything else in hex. Used for trace logging.
func (t Tags) Describe(stream []byte) string {
	var b strings.Builder
	inFrame := false
	for i := 0; i < len(stream); i++ {
		c := stream[i]
		switch {
		case c == t.Escape && i+1 < len(stream):
			b.WriteString("<esc>")
			i++
			writeDataByte(&b, stream[i], inFrame && isTrailer(stream, i, t))
		case c == t.Escape:
			b.WriteString("<esc>")
		case c == t.Start:
			b.WriteString("<start>")
			inFrame = true
		case c == t.Stop:
			b.WriteString("<stop>")
			inFrame = false
		default:
			writeDataByte(&b, c, inFrame && isTrailer(stream, i, t))
		}
	}
	return b.String()
}

// isTrailer reports whether stream[i] is the last data byte before a stop tag.
func isTrailer(stream []byte, i int, t Tags) bool {
	return i+1 < len(stream) && stream[i+1] == t.Stop
}

func writeDataByte(b *strings.Builder, c byte, trailer bool) {
	switch {
	case trailer:
		fmt.Fprintf(b, "<trailer 0x%02x>", c)
	case c >= 32 && c <= 126:
		b.WriteByte(c)
	default:
		fmt.Fprintf(b, "<0x%02x>", c)
	}
}
