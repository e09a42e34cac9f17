package book

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidPrice    = errors.New("invalid price")
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// location records where a resting order sits, so cancellation only has to
// scan the one level instead of the whole ladder.
type location struct {
	price float64
	side  Side
}

// Book is a single-instrument price-time-priority limit order book. All
// public operations serialize on one mutex: each submit or cancel is
// atomic with respect to book state, and queries only ever observe the
// result of a completed mutation. Multiple books are fully independent.
type Book struct {
	mu      sync.Mutex
	bids    *ladder
	asks    *ladder
	index   map[uint64]location
	nextID  uint64
	handler TradeHandler
}

func New() *Book {
	return &Book{
		bids:  newLadder(Buy),
		asks:  newLadder(Sell),
		index: make(map[uint64]location),
	}
}

// SetTradeHandler installs the recipient of trade notifications. Passing
// nil silences them; matching itself is unaffected.
func (b *Book) SetTradeHandler(h TradeHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler = h
}

// SubmitLimit enters a limit order. It matches against the opposite ladder
// from the best price outward while marketable; any remainder rests at the
// limit price on its own side. The returned id is always valid for a later
// Cancel, which simply reports not-found once the order has left the book.
func (b *Book) SubmitLimit(side Side, price float64, quantity uint64) (uint64, error) {
	if price <= 0 {
		return 0, ErrInvalidPrice
	}
	if quantity == 0 {
		return 0, ErrInvalidQuantity
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	order := &Order{
		ID:          b.nextID,
		Side:        side,
		Kind:        Limit,
		Price:       price,
		Remaining:   quantity,
		SubmittedAt: time.Now(),
	}

	b.match(order)

	if order.Remaining > 0 {
		lvl := b.own(side).upsert(price)
		lvl.queue.append(order)
		b.index[order.ID] = location{price: price, side: side}
	}
	return order.ID, nil
}

// SubmitMarket enters a market order. It sweeps the opposite ladder from
// the best price outward and never rests: whatever cannot be filled is
// dropped and returned as the shortfall. A shortfall is a diagnostic, not
// an error; the trades already executed stand.
func (b *Book) SubmitMarket(side Side, quantity uint64) (uint64, error) {
	if quantity == 0 {
		return 0, ErrInvalidQuantity
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	order := &Order{
		ID:          b.nextID,
		Side:        side,
		Kind:        Market,
		Remaining:   quantity,
		SubmittedAt: time.Now(),
	}

	b.match(order)

	if order.Remaining > 0 {
		log.Warn().
			Uint64("order_id", order.ID).
			Str("side", side.String()).
			Uint64("unfilled", order.Remaining).
			Msg("market order partially filled")
	}
	return order.Remaining, nil
}

// Cancel removes a resting order. Unknown ids, already filled ids and
// already cancelled ids are indistinguishable: all report found=false.
func (b *Book) Cancel(id uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	loc, ok := b.index[id]
	if !ok {
		return false
	}

	side := b.own(loc.side)
	lvl, ok := side.at(loc.price)
	if !ok {
		// The index claims a level that does not exist: the book is
		// corrupted and no recovery is possible.
		log.Panic().
			Uint64("order_id", id).
			Float64("price", loc.price).
			Msg("order index references missing price level")
	}

	found := lvl.queue.removeByID(id)
	if lvl.queue.isEmpty() {
		side.remove(lvl)
	}
	if found {
		delete(b.index, id)
	}
	return found
}

// match walks the opposite ladder from the best level outward, draining
// each level while the incoming order has quantity and, for limit orders,
// the level price is still favorable. Emptied levels are deleted before
// the walk moves on.
func (b *Book) match(order *Order) {
	opposite := b.own(order.Side.Opposite())
	for order.Remaining > 0 {
		lvl, ok := opposite.best()
		if !ok {
			break
		}
		if !marketable(order, lvl.price) {
			break
		}
		b.drainLevel(order, lvl)
		if lvl.queue.isEmpty() {
			opposite.remove(lvl)
		}
	}
}

// marketable reports whether the incoming order may trade at the given
// level price. Market orders always may; a buy limit must be at or above
// the level, a sell limit at or below it.
func marketable(order *Order, levelPrice float64) bool {
	if order.Kind == Market {
		return true
	}
	if order.Side == Buy {
		return levelPrice <= order.Price
	}
	return levelPrice >= order.Price
}

// drainLevel trades the incoming order against the level's FIFO queue
// until one of them is exhausted. Only the head order ever trades, so time
// priority within the level is honored structurally. A partially filled
// head keeps its position; a fully filled head leaves the queue and the
// order index.
func (b *Book) drainLevel(aggressor *Order, lvl *level) {
	for aggressor.Remaining > 0 {
		passive := lvl.queue.peekFront()
		if passive == nil {
			return
		}

		quantity := min(aggressor.Remaining, passive.Remaining)
		aggressor.Remaining -= quantity

		passiveID := passive.ID
		if passive.Remaining == quantity {
			lvl.queue.popFront()
			delete(b.index, passiveID)
		} else {
			lvl.queue.adjustFrontQuantity(passive.Remaining - quantity)
		}

		b.emit(Trade{
			AggressorID: aggressor.ID,
			PassiveID:   passiveID,
			Price:       lvl.price,
			Quantity:    quantity,
			Timestamp:   time.Now(),
		})
	}
}

func (b *Book) emit(t Trade) {
	log.Debug().
		Uint64("aggressor", t.AggressorID).
		Uint64("passive", t.PassiveID).
		Float64("price", t.Price).
		Uint64("quantity", t.Quantity).
		Msg("trade")
	if b.handler != nil {
		b.handler.HandleTrade(t)
	}
}

// own returns the ladder orders of the given side rest on.
func (b *Book) own(side Side) *ladder {
	if side == Buy {
		return b.bids
	}
	return b.asks
}
