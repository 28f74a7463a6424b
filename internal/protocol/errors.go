package protocol

import "errors"

var (
	ErrTagCollision      = errors.New("protocol: tag bytes must be distinct")
	ErrSentinelCollision = errors.New("protocol: parity sentinel collides with a tag or the other sentinel")
	ErrInvalidChunkSize  = errors.New("protocol: max chunk size must be positive")
	ErrUnknownScheme     = errors.New("protocol: unknown trailer scheme")
	ErrNoDetector        = errors.New("protocol: no error detector configured")
)
