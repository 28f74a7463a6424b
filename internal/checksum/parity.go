package checksum

import "math/bits"

// PopCount returns the number of set bits across data.
func PopCount(data []byte) int {
	n := 0
	for _, b := range data {
		n += bits.OnesCount8(b)
	}
	return n
}

// Odd reports whether data holds an odd number of set bits.
func Odd(data []byte) bool {
	return PopCount(data)%2 == 1
}
