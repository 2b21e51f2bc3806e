package bencode

import "sync"

// CHUNK_SIZE bounds a single allocation while reading a byte string payload.
const CHUNK_SIZE = 32 * 1024

// keyPool reuses the key slices the encoder sorts for every dictionary.
var keyPool = sync.Pool{
	New: func() any {
		keys := make([]string, 0, 16)
		return &keys
	},
}
