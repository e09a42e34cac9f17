package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testOrder(id uint64, quantity uint64) *Order {
	return &Order{ID: id, Side: Sell, Kind: Limit, Price: 10.0, Remaining: quantity}
}

func TestQueue_AppendAndPeek(t *testing.T) {
	var q queue

	assert.True(t, q.isEmpty())
	assert.Nil(t, q.peekFront())
	assert.Equal(t, uint64(0), q.restingQuantity())

	q.append(testOrder(1, 100))
	q.append(testOrder(2, 50))

	assert.False(t, q.isEmpty())
	assert.Equal(t, uint64(1), q.peekFront().ID)
	assert.Equal(t, uint64(150), q.restingQuantity())
}

func TestQueue_PopFront(t *testing.T) {
	var q queue
	q.append(testOrder(1, 100))
	q.append(testOrder(2, 50))

	q.popFront()
	assert.Equal(t, uint64(2), q.peekFront().ID)
	assert.Equal(t, uint64(50), q.restingQuantity())

	q.popFront()
	assert.True(t, q.isEmpty())
	assert.Equal(t, uint64(0), q.restingQuantity())

	// Popping an empty queue is a no-op.
	q.popFront()
	assert.True(t, q.isEmpty())
}

func TestQueue_AdjustFrontQuantity(t *testing.T) {
	var q queue
	q.append(testOrder(1, 100))
	q.append(testOrder(2, 50))

	q.adjustFrontQuantity(30)

	// Head keeps its position with the reduced size and the cache
	// reflects the delta.
	assert.Equal(t, uint64(1), q.peekFront().ID)
	assert.Equal(t, uint64(30), q.peekFront().Remaining)
	assert.Equal(t, uint64(80), q.restingQuantity())
}

func TestQueue_RemoveByID(t *testing.T) {
	var q queue
	q.append(testOrder(1, 100))
	q.append(testOrder(2, 50))
	q.append(testOrder(3, 25))

	// Remove from the middle, FIFO order of the rest is preserved.
	assert.True(t, q.removeByID(2))
	assert.Equal(t, uint64(125), q.restingQuantity())
	assert.Equal(t, uint64(1), q.peekFront().ID)

	assert.False(t, q.removeByID(2))
	assert.False(t, q.removeByID(99))

	assert.True(t, q.removeByID(1))
	assert.True(t, q.removeByID(3))
	assert.True(t, q.isEmpty())
	assert.Equal(t, uint64(0), q.restingQuantity())
}

func TestLadder_Ordering(t *testing.T) {
	bids := newLadder(Buy)
	asks := newLadder(Sell)

	for _, price := range []float64{10.0, 12.0, 11.0} {
		bids.upsert(price)
		asks.upsert(price)
	}

	best, ok := bids.best()
	assert.True(t, ok)
	assert.Equal(t, 12.0, best.price)

	best, ok = asks.best()
	assert.True(t, ok)
	assert.Equal(t, 10.0, best.price)

	var bidPrices []float64
	for _, lvl := range bids.items() {
		bidPrices = append(bidPrices, lvl.price)
	}
	assert.Equal(t, []float64{12.0, 11.0, 10.0}, bidPrices)

	var askPrices []float64
	for _, lvl := range asks.items() {
		askPrices = append(askPrices, lvl.price)
	}
	assert.Equal(t, []float64{10.0, 11.0, 12.0}, askPrices)
}

func TestLadder_UpsertAndRemove(t *testing.T) {
	l := newLadder(Sell)

	lvl := l.upsert(10.0)
	assert.Same(t, lvl, l.upsert(10.0))
	assert.Equal(t, 1, l.len())

	found, ok := l.at(10.0)
	assert.True(t, ok)
	assert.Same(t, lvl, found)

	_, ok = l.at(11.0)
	assert.False(t, ok)

	l.remove(lvl)
	assert.Equal(t, 0, l.len())
	_, ok = l.best()
	assert.False(t, ok)
}
