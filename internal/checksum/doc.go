// Package checksum implements the bit-level arithmetic behind frame trailers.
//
// Two error-detecting codes are provided:
//   - CRC: binary (XOR) long division of the payload bits, most-significant bit
//     first, by a generator polynomial of at most degree 8. The remainder fits in
//     one byte.
//   - Parity: the population count of every payload byte, reduced mod 2.
//
// All functions are pure and safe for concurrent use. The same routines serve
// the sender (producing a trailer) and the receiver (checking one).
//
// # CRC Example
//
//	poly := checksum.DefaultPolynomial // 0x1D5, 9 bits
//	trailer := poly.Remainder([]byte("CS"))
//	ok := poly.Check(append([]byte("CS"), trailer)) // true
package checksum
