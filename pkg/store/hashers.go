package store

import (
	"github.com/cespare/xxhash"
	"github.com/spaolacci/murmur3"
)

// FNV-1a parameters.
const (
	FNV_OFFSET uint64 = 0xcbf29ce484222325
	FNV_PRIME  uint64 = 0x100000001b3
)

// A Hasher maps a key to a 64-bit slot hash. Determinism is what
// matters here, not cryptographic strength; the table folds the result
// into its capacity with a bitmask.
type Hasher func(key string) uint64

// FnvHasher returns the FNV-1a hash of the given key.
// This is the table's default hasher.
func FnvHasher(key string) uint64 {
	hash := FNV_OFFSET
	for i := 0; i < len(key); i++ {
		hash ^= uint64(key[i])
		hash *= FNV_PRIME
	}
	return hash
}

// XxHasher returns the xxHash hash of the given key.
func XxHasher(key string) uint64 {
	return xxhash.Sum64([]byte(key))
}

// MurmurHasher returns the MurmurHash3 hash of the given key.
func MurmurHasher(key string) uint64 {
	return murmur3.Sum64([]byte(key))
}
