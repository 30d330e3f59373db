package store

import (
	"github.com/bits-and-blooms/bitset"
)

// A Table is a fixed-capacity open-addressing hash table mapping string
// keys to string values. Collisions resolve by linear probing with
// wraparound; deletions leave tombstones so entries placed further
// along a probe chain stay reachable.
//
// A Table is not safe for concurrent use. The serving model funnels
// every operation through one flow of control, so the table carries no
// lock; a caller that introduces concurrency must wrap each operation
// in its own exclusive region.
type Table struct {
	keys       []string
	values     []string
	used       *bitset.BitSet // slot has ever held an entry
	tombstones *bitset.BitSet // slot's entry was deleted
	capacity   uint64
	occupied   int
	hasher     Hasher
}

// NewTable returns a table with exactly the given capacity, which must
// be a positive power of two. The capacity never changes afterwards; a
// table that fills up drops further distinct keys.
// A nil hasher means FnvHasher.
func NewTable(capacity int, hasher Hasher) (*Table, error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, NewErrInvalidCapacity(capacity)
	}
	if hasher == nil {
		hasher = FnvHasher
	}
	return &Table{
		keys:       make([]string, capacity),
		values:     make([]string, capacity),
		used:       bitset.New(uint(capacity)),
		tombstones: bitset.New(uint(capacity)),
		capacity:   uint64(capacity),
		hasher:     hasher,
	}, nil
}

// NewSizedTable returns a table sized for the expected number of items,
// rounded up to a power of two with headroom that keeps the load factor
// at or below about one half. Sizing happens once at creation; the
// table never rehashes or grows afterwards.
func NewSizedTable(expectedItems int, hasher Hasher) (*Table, error) {
	if expectedItems <= 0 {
		return nil, NewErrInvalidCapacity(expectedItems)
	}
	return NewTable(nextPow2(2*expectedItems+1), hasher)
}

// Set stores value under key. An existing key is updated in place and
// keeps its slot. A new key takes the first tombstone seen along its
// probe path, or the first empty slot if the path had none.
//
// When the probe wraps through every slot without finding the key or an
// empty slot, the entry is dropped and a TableFull error is returned;
// the table is left unchanged. A full table with no tombstones cannot
// take new distinct keys.
func (t *Table) Set(key string, value string) error {
	idx := t.hasher(key) & (t.capacity - 1)
	firstTomb := -1

	for i := uint64(0); i < t.capacity; i++ {
		probe := (idx + i) & (t.capacity - 1)

		if !t.used.Test(uint(probe)) {
			dst := probe
			if firstTomb >= 0 {
				dst = uint64(firstTomb)
			}
			t.keys[dst] = key
			t.values[dst] = value
			t.used.Set(uint(dst))
			t.tombstones.Clear(uint(dst))
			t.occupied++
			return nil
		}

		if t.tombstones.Test(uint(probe)) {
			if firstTomb < 0 {
				firstTomb = int(probe)
			}
			continue
		}

		if t.keys[probe] == key {
			t.values[probe] = value
			return nil
		}
	}

	return NewErrTableFull(int(t.capacity))
}

// Get returns the value stored under key. The probe stops at the first
// empty slot and skips tombstones; a miss is a normal outcome, not an
// error.
func (t *Table) Get(key string) (string, bool) {
	idx := t.hasher(key) & (t.capacity - 1)

	for i := uint64(0); i < t.capacity; i++ {
		probe := (idx + i) & (t.capacity - 1)

		if !t.used.Test(uint(probe)) {
			return "", false
		}
		if t.tombstones.Test(uint(probe)) {
			continue
		}
		if t.keys[probe] == key {
			return t.values[probe], true
		}
	}

	return "", false
}

// Delete removes key if present, leaving a tombstone in its slot.
// Deleting an absent key is a no-op, so Delete is idempotent.
func (t *Table) Delete(key string) {
	idx := t.hasher(key) & (t.capacity - 1)

	for i := uint64(0); i < t.capacity; i++ {
		probe := (idx + i) & (t.capacity - 1)

		if !t.used.Test(uint(probe)) {
			return
		}
		if t.tombstones.Test(uint(probe)) {
			continue
		}
		if t.keys[probe] == key {
			t.keys[probe] = ""
			t.values[probe] = ""
			t.tombstones.Set(uint(probe))
			t.occupied--
			return
		}
	}
}

// Len returns the number of occupied slots. Tombstones do not count.
func (t *Table) Len() int {
	return t.occupied
}

// Capacity returns the table's fixed slot count.
func (t *Table) Capacity() int {
	return int(t.capacity)
}

// Clear releases every slot, returning the table to its freshly created
// state.
func (t *Table) Clear() {
	for i := range t.keys {
		t.keys[i] = ""
		t.values[i] = ""
	}
	t.used.ClearAll()
	t.tombstones.ClearAll()
	t.occupied = 0
}

// nextPow2 rounds x up to the nearest power of two.
func nextPow2(x int) int {
	p := 1
	for p < x {
		p <<= 1
	}
	return p
}
