package ownership

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/terrace-reservation/internal/model"
)

func TestCodeMatches(t *testing.T) {
	assert.True(t, Code("AB12").Matches("AB12"))
	assert.False(t, Code("AB12").Matches("AB13"))
	assert.False(t, Code("").Matches(""))
	assert.False(t, Code("AB12").Matches(""))
}

func TestLedger(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	ledger := NewLedger(store)
	mine := model.Reservation{ID: "r1", Code: "K1"}
	theirs := model.Reservation{ID: "r2", Code: "K2"}

	require.NoError(t, ledger.Remember(ctx, mine))
	v, err := store.Get(ctx, "reservation_r1")
	require.NoError(t, err)
	assert.Equal(t, "K1", v)

	owns, err := ledger.Owns(ctx, mine)
	require.NoError(t, err)
	assert.True(t, owns)

	owns, err = ledger.Owns(ctx, theirs)
	require.NoError(t, err)
	assert.False(t, owns)

	codes, err := ledger.Codes(ctx, []model.Reservation{mine, theirs})
	require.NoError(t, err)
	assert.Equal(t, Codes{"r1": "K1"}, codes)
	assert.True(t, codes.Owns(mine))
	assert.False(t, codes.Owns(theirs))

	t.Run("stale code does not prove ownership", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, Key("r2"), "OLD"))
		owns, err := ledger.Owns(ctx, theirs)
		require.NoError(t, err)
		assert.False(t, owns)
	})

	require.NoError(t, ledger.Forget(ctx, "r1"))
	require.NoError(t, ledger.Forget(ctx, "missing"))
	_, err = store.Get(ctx, "reservation_r1")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestMemoryDevicesIsolation(t *testing.T) {
	ctx := context.Background()
	devices := NewMemoryDevices()
	require.NoError(t, devices.For("a").Set(ctx, "k", "v"))

	_, err := devices.For("b").Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotExist)

	v, err := devices.For("a").Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}
