package replay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mimir/internal/book"
)

func writeLobsterFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "replay.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDriver_ReplayAll(t *testing.T) {
	// Two resting asks, a crossing bid, a deletion and a halt.
	path := writeLobsterFile(t, `34200.1,1,1001,100,1000000,-1
34200.2,1,1002,50,1001000,-1
34200.3,1,2001,120,1000000,1
34200.4,3,1002,50,1001000,-1
34200.5,7,0,0,1000000,1
`)

	d := NewDriver()
	require.NoError(t, d.Load(path))
	d.ReplayAll(false)

	stats := d.Stats()
	assert.Equal(t, 5, stats.Processed)
	assert.Equal(t, 5, stats.Succeeded)
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, 1, stats.EngineTrades) // the 100@100.00 cross

	// The bid's 20 unfilled shares rest; the second ask was deleted.
	bid, ok := d.Book().BestBid()
	require.True(t, ok)
	assert.Equal(t, book.Quote{Price: 100.0, Quantity: 20}, bid)
	_, ok = d.Book().BestAsk()
	assert.False(t, ok)

	// Bindings for orders that left the book by filling are only retired
	// by a later execution or removal message, so both the fully filled
	// ask and the resting bid still count here.
	assert.Equal(t, 2, stats.ActiveOrders)
	assert.NoError(t, d.Validate())
}

func TestDriver_CancellationTreatedAsFullRemoval(t *testing.T) {
	// LOBSTER type 2 is a partial reduction upstream; here it removes the
	// whole order, same as type 3.
	path := writeLobsterFile(t, `34200.1,1,1001,100,1000000,1
34200.2,2,1001,40,1000000,1
`)

	d := NewDriver()
	require.NoError(t, d.Load(path))
	d.ReplayAll(false)

	_, ok := d.Book().BestBid()
	assert.False(t, ok)
	assert.Equal(t, 0, d.Stats().ActiveOrders)
	assert.Equal(t, 0, d.Stats().Failed)
}

func TestDriver_RemovalOfUnknownOrderFailsGracefully(t *testing.T) {
	path := writeLobsterFile(t, `34200.1,3,9999,10,1000000,1
34200.2,1,1001,10,1000000,1
`)

	d := NewDriver()
	require.NoError(t, d.Load(path))
	d.ReplayAll(false)

	stats := d.Stats()
	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 1, stats.Succeeded)
	assert.Equal(t, 1, stats.Failed)

	// The failure did not stop the replay; the later order went in.
	_, ok := d.Book().BestBid()
	assert.True(t, ok)
	assert.NoError(t, d.Validate())
}

func TestDriver_ExecutionsRetireBindingsOnly(t *testing.T) {
	// An execution message reports a fill our own matching already
	// produced; the driver only drops the id binding.
	path := writeLobsterFile(t, `34200.1,1,1001,100,1000000,-1
34200.2,1,2001,100,1000000,1
34200.3,4,1001,100,1000000,-1
`)

	d := NewDriver()
	require.NoError(t, d.Load(path))
	d.ReplayAll(false)

	stats := d.Stats()
	assert.Equal(t, 1, stats.Executions)
	assert.Equal(t, 1, stats.EngineTrades)
	// 1001's binding is retired by the execution; the aggressor's stale
	// binding remains, as in the upstream data model.
	assert.Equal(t, 1, stats.ActiveOrders)
	assert.NoError(t, d.Validate())
}

func TestDriver_ReplayNAndReset(t *testing.T) {
	path := writeLobsterFile(t, `34200.1,1,1001,10,1000000,1
34200.2,1,1002,10,1001000,1
34200.3,1,1003,10,1002000,1
`)

	d := NewDriver()
	require.NoError(t, d.Load(path))

	assert.Equal(t, 2, d.ReplayN(2, false))
	assert.Equal(t, 2, d.Stats().Processed)
	assert.Equal(t, 2, d.Stats().ActiveOrders)

	// Asking past the end replays only what remains.
	assert.Equal(t, 1, d.ReplayN(5, false))

	d.Reset()
	assert.Equal(t, 0, d.Stats().Processed)
	_, ok := d.Book().BestBid()
	assert.False(t, ok)

	// The loaded messages survive a reset and replay identically.
	d.ReplayAll(false)
	assert.Equal(t, 3, d.Stats().Processed)
	bid, ok := d.Book().BestBid()
	require.True(t, ok)
	assert.Equal(t, 100.2, bid.Price)
	assert.NoError(t, d.Validate())
}
