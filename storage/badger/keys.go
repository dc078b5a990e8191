package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/arsipa/arsipa/core"
)

// Key prefixes for different data types
const (
	documentPrefix       = "docrec"
	documentStatusPrefix = "docrecs"
	documentIDSeq        = "docrecseq"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}

// makeDocumentStatusKey generates a composite key for the status index.
// Format: prefix:status:id
func makeDocumentStatusKey(status core.Status, id core.ID) []byte {
	prefix := documentStatusPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 9 // 1 byte for status + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	buf[offset] = byte(status)
	offset++
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialDocumentStatusKey generates a partial key for status queries.
// Format: prefix:status
func makePartialDocumentStatusKey(status core.Status) []byte {
	prefix := documentStatusPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 1 // 1 byte for status
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	buf[offset] = byte(status)
	return buf
}
