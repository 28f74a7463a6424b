package protocol

import (
	"fmt"

	"github.com/muurk/linkframe/internal/checksum"
)

// Scheme names a trailer scheme.
type Scheme string

const (
	SchemeCRC    Scheme = "crc"
	SchemeParity Scheme = "parity"
)

// Default parity sentinels
const (
	DefaultEvenSentinel = 0x6d
	DefaultOddSentinel  = 0xd4
)

// Detector computes and checks the one-byte trailer of a frame. Both methods
// see the unescaped payload only.
type Detector interface {
	Name() string
	Trailer(payload []byte) byte
	Valid(payload []byte, trailer byte) bool
}

// tagChecker is implemented by detectors whose configuration depends on the
// tag values in use.
type tagChecker interface {
	checkTags(Tags) error
}

// CRC is the polynomial-division detector.
type CRC struct {
	Poly checksum.Polynomial
}

// NewCRC validates poly and returns a CRC detector.
func NewCRC(poly checksum.Polynomial) (CRC, error) {
	if err := poly.Validate(); err != nil {
		return CRC{}, err
	}
	return CRC{Poly: poly}, nil
}

func (c CRC) Name() string { return string(SchemeCRC) }

func (c CRC) Trailer(payload []byte) byte {
	return c.Poly.Remainder(payload)
}

// Valid divides payload followed by trailer; a zero remainder means intact.
func (c CRC) Valid(payload []byte, trailer byte) bool {
	codeword := make([]byte, len(payload)+1)
	copy(codeword, payload)
	codeword[len(payload)] = trailer
	return c.Poly.Check(codeword)
}

// Parity is the population-count detector.
type Parity struct {
	Even byte
	Odd  byte
}

// DefaultParity returns the 0x6d / 0xd4 sentinel pair.
func DefaultParity() Parity {
	return Parity{Even: DefaultEvenSentinel, Odd: DefaultOddSentinel}
}

func (p Parity) Name() string { return string(SchemeParity) }

func (p Parity) Trailer(payload []byte) byte {
	if checksum.Odd(payload) {
		return p.Odd
	}
	return p.Even
}

func (p Parity) Valid(payload []byte, trailer byte) bool {
	if checksum.Odd(payload) {
		return trailer == p.Odd
	}
	return trailer == p.Even
}

func (p Parity) checkTags(t Tags) error {
	if p.Even == p.Odd || t.IsTag(p.Even) || t.IsTag(p.Odd) {
		return fmt.Errorf("%w: even=0x%02x odd=0x%02x", ErrSentinelCollision, p.Even, p.Odd)
	}
	return nil
}

// NewDetector builds the detector for a scheme. poly is used by SchemeCRC and
// parity by SchemeParity.
func NewDetector(scheme Scheme, poly checksum.Polynomial, parity Parity) (Detector, error) {
	switch scheme {
	case SchemeCRC:
		crc, err := NewCRC(poly)
		if err != nil {
			return nil, err
		}
		return crc, nil
	case SchemeParity:
		return parity, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}
