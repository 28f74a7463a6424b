package protocol

// Split cuts payload into consecutive pieces of at most size bytes. The pieces
// alias payload. An empty payload yields no pieces; size <= 0 yields the whole
// payload as one piece.
func Split(payload []byte, size int) [][]byte {
	if len(payload) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]byte{payload}
	}

	chunks := make([][]byte, 0, (len(payload)+size-1)/size)
	for len(payload) > size {
		chunks = append(chunks, payload[:size:size])
		payload = payload[size:]
	}
	return append(chunks, payload)
}
