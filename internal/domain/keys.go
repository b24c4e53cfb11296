package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// KeyPrefix namespaces every key docrank writes or reads.
const KeyPrefix = "docrank:"

// ChunkIndexName is the FT index over chunk hashes.
const ChunkIndexName = KeyPrefix + "chunks:idx"

// ChunkKey builds the hash key for a single chunk.
func ChunkKey(ownerID, documentID string, index int) string {
	return fmt.Sprintf("%schunks:%s:%s:%d", KeyPrefix, ownerID, documentID, index)
}

// ChunkKeyPattern matches every chunk hash of an owner, or of a single
// document when documentID is non-empty.
func ChunkKeyPattern(ownerID, documentID string) string {
	if documentID == "" {
		return fmt.Sprintf("%schunks:%s:*", KeyPrefix, ownerID)
	}
	return fmt.Sprintf("%schunks:%s:%s:*", KeyPrefix, ownerID, documentID)
}

// DocumentsKey is the JSON key holding an owner's document metadata list.
func DocumentsKey(ownerID string) string {
	return fmt.Sprintf("%sdocs:%s", KeyPrefix, ownerID)
}

// ParseChunkKey splits a chunk hash key back into its parts.
func ParseChunkKey(key string) (ownerID, documentID string, index int, ok bool) {
	rest, found := strings.CutPrefix(key, KeyPrefix+"chunks:")
	if !found {
		return "", "", 0, false
	}
	parts := strings.Split(rest, ":")
	if len(parts) < 3 {
		return "", "", 0, false
	}
	idx, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return "", "", 0, false
	}
	ownerID = parts[0]
	documentID = strings.Join(parts[1:len(parts)-1], ":")
	return ownerID, documentID, idx, true
}
