// Package medium simulates the physical link between two hosts.
//
// A Channel moves whole bytes from Transmit to Receive in order. Depending
// on its Type it may deliver a transmission in several fragments and may
// flip individual bits on the way:
//
//	perfect      one fragment per transmission, no noise
//	fragmenting  random fragments of 1..MaxFragment bytes, no noise
//	lownoise     fragmenting, bit flip probability 1e-4
//	highnoise    fragmenting, bit flip probability 1e-2
//
// Close ends the stream; Receive keeps returning queued fragments and then
// ErrClosed. Fragmentation and noise are driven by a seeded PCG generator, so
// a given Seed reproduces the same run.
package medium
