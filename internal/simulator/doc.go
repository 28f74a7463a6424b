// Package simulator drives a complete transfer between two hosts.
//
// Run builds a medium and a sender and receiver host sharing one codec
// configuration, transmits a buffer and compares what arrives:
//
//	report, err := simulator.Run(ctx, simulator.Setup{
//	    Medium:   medium.DefaultOptions(medium.TypeLowNoise),
//	    Protocol: protocol.DefaultOptions(protocol.SchemeCRC),
//	}, data)
//
// Noisy media can make a run fail without Run returning an error: the
// framing detects corruption but never retransmits, so Report.Succeeded is
// false and the receiver's stats show how many frames were dropped.
package simulator
