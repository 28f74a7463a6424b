package checksum

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sigurn/crc8"
)

const bitsPerByte = 8

// Generator limits. The remainder of a degree-d generator has d bits, and it
// must fit in the single trailer byte.
const (
	MinBitLength = 2
	MaxBitLength = 9
)

// ErrInvalidPolynomial is returned by Polynomial.Validate.
var ErrInvalidPolynomial = errors.New("checksum: invalid generator polynomial")

// tables caches crc8 lookup tables by generator.
var tables sync.Map

// DefaultPolynomial is x^8 + x^7 + x^6 + x^4 + x^2 + 1 (0b1_1101_0101).
var DefaultPolynomial = Polynomial{Generator: 0x1D5, BitLength: 9}

// Remainder divides data, followed by one zero byte, by generator using XOR long
// division and returns the low 8 bits of what is left. generator must span
// exactly bitLength bits.
func Remainder(data []byte, generator uint, bitLength int) byte {
	var acc uint32
	gen := uint32(generator)
	top := uint(bitLength - 1)

	step := func(b byte) {
		for i := 0; i < bitsPerByte; i++ {
			acc = (acc << 1) | uint32((b>>7)&1)
			b <<= 1
			if (acc>>top)&1 == 1 {
				acc ^= gen
			}
		}
	}

	for _, b := range data {
		step(b)
	}
	// Flush the last partial division step.
	step(0)

	return byte(acc)
}

// Polynomial is a CRC generator and its length in bits.
type Polynomial struct {
	Generator uint
	BitLength int
}

// Validate reports whether the generator can produce a one-byte remainder.
func (p Polynomial) Validate() error {
	if p.BitLength < MinBitLength || p.BitLength > MaxBitLength {
		return fmt.Errorf("%w: bit length %d outside [%d, %d]",
			ErrInvalidPolynomial, p.BitLength, MinBitLength, MaxBitLength)
	}
	if p.Generator>>uint(p.BitLength-1) != 1 {
		return fmt.Errorf("%w: generator 0x%X does not span exactly %d bits",
			ErrInvalidPolynomial, p.Generator, p.BitLength)
	}
	return nil
}

// Remainder returns the CRC trailer for data.
func (p Polynomial) Remainder(data []byte) byte {
	if table := p.table(); table != nil {
		return crc8.Checksum(data, table)
	}
	return Remainder(data, p.Generator, p.BitLength)
}

// Check reports whether data, whose last byte is the trailer, divides evenly.
func (p Polynomial) Check(data []byte) bool {
	return p.Remainder(data) == 0
}

// String renders the generator as a bit string, e.g. "1_1101_0101".
func (p Polynomial) String() string {
	s := fmt.Sprintf("%0*b", p.BitLength, p.Generator)
	out := make([]byte, 0, len(s)+len(s)/4)
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%4 == 0 {
			out = append(out, '_')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// table returns a lookup table for full degree-8 generators. Division by a
// degree-8 polynomial with a zero byte appended is the plain non-reflected
// CRC-8 with zero init and zero xorout, so the table and the bit loop agree.
func (p Polynomial) table() *crc8.Table {
	if p.BitLength != MaxBitLength || p.Validate() != nil {
		return nil
	}
	key := uint8(p.Generator)
	if t, ok := tables.Load(key); ok {
		return t.(*crc8.Table)
	}
	t, _ := tables.LoadOrStore(key, crc8.MakeTable(crc8.Params{
		Poly:   key,
		Init:   0x00,
		RefIn:  false,
		RefOut: false,
		XorOut: 0x00,
		Name:   "CRC-8/" + p.String(),
	}))
	return t.(*crc8.Table)
}
