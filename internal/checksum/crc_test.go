package checksum

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/sigurn/crc8"
)

func TestRemainder(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		generator uint
		bitLength int
		want      byte
	}{
		{"check string default generator", []byte("123456789"), 0x1D5, 9, 0xBC},
		{"check string CRC-8 generator", []byte("123456789"), 0x107, 9, 0xF4},
		{"two letters", []byte("CS"), 0x1D5, 9, 0xC7},
		{"two bytes", []byte{0b10110011, 0b11000111}, 0x1D5, 9, 0x95},
		{"empty payload", nil, 0x1D5, 9, 0x00},
		{"degree 3 generator", []byte("hi"), 0b1011, 4, 0x04},
		{"degree 4 generator", []byte("data"), 0b10011, 5, 0x07},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Remainder(tt.data, tt.generator, tt.bitLength)
			if got != tt.want {
				t.Errorf("Remainder(%q) = 0x%02X, want 0x%02X", tt.data, got, tt.want)
			}
		})
	}
}

func TestRemainderOfCodewordIsZero(t *testing.T) {
	polys := []Polynomial{
		DefaultPolynomial,
		{Generator: 0x107, BitLength: 9},
		{Generator: 0b10011, BitLength: 5},
		{Generator: 0b1011, BitLength: 4},
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for _, p := range polys {
		for n := 0; n < 32; n++ {
			data := make([]byte, n)
			for i := range data {
				data[i] = byte(rng.UintN(256))
			}
			codeword := append(append([]byte{}, data...), p.Remainder(data))
			if !p.Check(codeword) {
				t.Fatalf("%s: codeword %x does not divide evenly", p, codeword)
			}
		}
	}
}

func TestPolynomialTableMatchesBitwiseDivision(t *testing.T) {
	// Independent oracle: the published CRC-8/DVB-S2 parameters use the same
	// generator as DefaultPolynomial.
	oracle := crc8.MakeTable(crc8.CRC8_DVB_S2)

	rng := rand.New(rand.NewPCG(7, 11))
	for n := 0; n < 64; n++ {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(rng.UintN(256))
		}

		bitwise := Remainder(data, DefaultPolynomial.Generator, DefaultPolynomial.BitLength)
		table := DefaultPolynomial.Remainder(data)
		want := crc8.Checksum(data, oracle)

		if bitwise != want || table != want {
			t.Fatalf("data %x: bitwise = 0x%02X, table = 0x%02X, want 0x%02X", data, bitwise, table, want)
		}
	}
}

func TestSingleBitFlipDetected(t *testing.T) {
	payload := []byte("datalink")
	codeword := append(append([]byte{}, payload...), DefaultPolynomial.Remainder(payload))

	for i := range codeword {
		for bit := 0; bit < 8; bit++ {
			damaged := append([]byte{}, codeword...)
			damaged[i] ^= 1 << bit
			if DefaultPolynomial.Check(damaged) {
				t.Errorf("flip of byte %d bit %d went undetected", i, bit)
			}
		}
	}
}

func TestPolynomialValidate(t *testing.T) {
	tests := []struct {
		name    string
		poly    Polynomial
		wantErr bool
	}{
		{"default", DefaultPolynomial, false},
		{"degree 1", Polynomial{Generator: 0b11, BitLength: 2}, false},
		{"too short", Polynomial{Generator: 0b1, BitLength: 1}, true},
		{"too long", Polynomial{Generator: 0x11021, BitLength: 17}, true},
		{"top bit clear", Polynomial{Generator: 0xD5, BitLength: 9}, true},
		{"bits above length", Polynomial{Generator: 0x3D5, BitLength: 9}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.poly.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidPolynomial) {
				t.Errorf("Validate() error = %v, want ErrInvalidPolynomial", err)
			}
		})
	}
}

func TestPolynomialString(t *testing.T) {
	if got := DefaultPolynomial.String(); got != "1_1101_0101" {
		t.Errorf("String() = %q, want %q", got, "1_1101_0101")
	}
	if got := (Polynomial{Generator: 0b1011, BitLength: 4}).String(); got != "1011" {
		t.Errorf("String() = %q, want %q", got, "1011")
	}
}
