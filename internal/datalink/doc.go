// Package datalink connects a protocol.Codec to a medium.
//
// A Layer sends data as a sequence of frames, one frame per transmission, and
// turns received fragments back into payload chunks. A Host wraps a Layer
// with the two operations a simulated endpoint needs: Send and Retrieve.
package datalink
