package badger

import (
	"encoding/binary"
	"fmt"
)

// Key prefixes for different data types
const (
	chunkPrefix          = "chunk"
	chunkNamespacePrefix = "chunkns"
	chunkIDSeq           = "chunkseq"
)

// makeChunkKey generates the primary key for a stored chunk.
func makeChunkKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkPrefix, id))
}

// makeNamespaceKey generates a composite key for the namespace index.
// Format: prefix:namespace:id
func makeNamespaceKey(namespace string, id uint64) []byte {
	prefix := chunkNamespacePrefix + ":" + namespace + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], id)
	return buf
}

// makePartialNamespaceKey generates a prefix for namespace scans.
func makePartialNamespaceKey(namespace string) []byte {
	return []byte(chunkNamespacePrefix + ":" + namespace + ":")
}
