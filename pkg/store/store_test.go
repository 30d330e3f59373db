package store_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taiki-okano/benchcached/pkg/store"
)

// =====================================================================
// HELPERS
// =====================================================================

// setupTable creates an empty fixed-capacity table.
func setupTable(t *testing.T, capacity int) *store.Table {
	t.Helper()
	table, err := store.NewTable(capacity, nil)
	require.NoError(t, err, "failed to create table")
	return table
}

// fillTable inserts exactly n distinct keys, erroring the test on any
// failed set.
func fillTable(t *testing.T, table *store.Table, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := table.Set(fmt.Sprintf("k%d", i), fmt.Sprintf("v%d", i))
		require.NoError(t, err, "failed to insert k%d", i)
	}
}

// =====================================================================
// TESTS
// =====================================================================

func TestCreate(t *testing.T) {
	t.Run("FixedCapacity", func(t *testing.T) {
		table := setupTable(t, 16)
		assert.Equal(t, 16, table.Capacity(), "capacity is taken as given")
		assert.Equal(t, 0, table.Len(), "new table is empty")
	})

	t.Run("RejectsBadCapacity", func(t *testing.T) {
		for _, capacity := range []int{0, -1, 3, 12, 1000} {
			_, err := store.NewTable(capacity, nil)
			assert.Error(t, err, "capacity %d should be rejected", capacity)
			assert.True(t, store.IsInvalidCapacity(err), "capacity %d yields a capacity error", capacity)
		}
	})

	t.Run("SizedFromHint", func(t *testing.T) {
		// capacity = next_pow2(2*hint + 1)
		for _, tc := range []struct{ hint, capacity int }{
			{1, 4},
			{7, 16},
			{16, 64},
			{1024, 2048},
		} {
			table, err := store.NewSizedTable(tc.hint, nil)
			require.NoError(t, err, "failed to size for %d items", tc.hint)
			assert.Equal(t, tc.capacity, table.Capacity(), "capacity for hint %d", tc.hint)
		}

		_, err := store.NewSizedTable(0, nil)
		assert.True(t, store.IsInvalidCapacity(err), "zero hint is rejected")
	})
}

func TestRoundTrip(t *testing.T) {
	table := setupTable(t, 256)
	fillTable(t, table, 100)

	for i := 0; i < 100; i++ {
		value, found := table.Get(fmt.Sprintf("k%d", i))
		assert.True(t, found, "k%d should be present", i)
		assert.Equal(t, fmt.Sprintf("v%d", i), value, "k%d round-trips", i)
	}
	assert.Equal(t, 100, table.Len(), "one occupied slot per key")

	_, found := table.Get("missing")
	assert.False(t, found, "absent key is a miss, not an error")
}

func TestUpdateInPlace(t *testing.T) {
	table := setupTable(t, 16)

	require.NoError(t, table.Set("k", "v1"))
	require.NoError(t, table.Set("k", "v2"))

	value, found := table.Get("k")
	assert.True(t, found)
	assert.Equal(t, "v2", value, "last write wins")
	assert.Equal(t, 1, table.Len(), "update must not add a duplicate entry")
}

func TestDelete(t *testing.T) {
	t.Run("Idempotent", func(t *testing.T) {
		table := setupTable(t, 16)
		require.NoError(t, table.Set("k", "v"))

		table.Delete("k")
		_, found := table.Get("k")
		assert.False(t, found, "deleted key is gone")
		assert.Equal(t, 0, table.Len())

		// Deleting again, or deleting a key that never existed, is a no-op.
		table.Delete("k")
		table.Delete("never")
		assert.Equal(t, 0, table.Len())
	})

	t.Run("TombstoneKeepsChainReachable", func(t *testing.T) {
		// Force a probe chain by using a hasher that collides everything,
		// then delete the middle of the chain.
		collide := func(string) uint64 { return 0 }
		table, err := store.NewTable(16, collide)
		require.NoError(t, err)

		require.NoError(t, table.Set("a", "1"))
		require.NoError(t, table.Set("b", "2"))
		require.NoError(t, table.Set("c", "3"))

		table.Delete("b")

		value, found := table.Get("c")
		assert.True(t, found, "entry past the tombstone must stay reachable")
		assert.Equal(t, "3", value)
	})
}

func TestTombstoneReuse(t *testing.T) {
	collide := func(string) uint64 { return 0 }
	table, err := store.NewTable(8, collide)
	require.NoError(t, err)

	require.NoError(t, table.Set("a", "1"))
	require.NoError(t, table.Set("b", "2"))
	require.NoError(t, table.Set("c", "3"))
	table.Delete("a")

	// The new key probes past the tombstone to the chain's first empty
	// slot, but inserts into the tombstone to keep the chain short.
	require.NoError(t, table.Set("d", "4"))
	assert.Equal(t, 3, table.Len())

	for key, want := range map[string]string{"b": "2", "c": "3", "d": "4"} {
		value, found := table.Get(key)
		assert.True(t, found, "%s present after slot reuse", key)
		assert.Equal(t, want, value)
	}
	assert.LessOrEqual(t, table.Len(), table.Capacity(), "occupied count bounded by capacity")
}

func TestCapacityExhaustion(t *testing.T) {
	table := setupTable(t, 8)
	fillTable(t, table, 8)

	err := table.Set("overflow", "x")
	assert.True(t, store.IsTableFull(err), "insert into a full table fails")

	_, found := table.Get("overflow")
	assert.False(t, found, "dropped key must be absent")
	assert.Equal(t, 8, table.Len(), "full table is left unchanged")

	// Existing keys survive the failed insert.
	for i := 0; i < 8; i++ {
		value, found := table.Get(fmt.Sprintf("k%d", i))
		assert.True(t, found)
		assert.Equal(t, fmt.Sprintf("v%d", i), value)
	}

	// With no empty slot anywhere, even a tombstone cannot take a new
	// key: the probe never terminates at an empty slot.
	table.Delete("k0")
	err = table.Set("overflow", "x")
	assert.True(t, store.IsTableFull(err), "probe with no empty slot still fails")
}

func TestClear(t *testing.T) {
	table := setupTable(t, 16)
	fillTable(t, table, 10)
	table.Delete("k3")

	table.Clear()
	assert.Equal(t, 0, table.Len())
	for i := 0; i < 10; i++ {
		_, found := table.Get(fmt.Sprintf("k%d", i))
		assert.False(t, found, "k%d gone after clear", i)
	}

	// The table is reusable after a clear.
	require.NoError(t, table.Set("k", "v"))
	value, found := table.Get("k")
	assert.True(t, found)
	assert.Equal(t, "v", value)
}
