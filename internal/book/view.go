package book

import "fmt"

// Quote is one side's best price and the aggregate quantity resting there.
type Quote struct {
	Price    float64
	Quantity uint64
}

// RestingOrder is a read-only view of one queued order.
type RestingOrder struct {
	ID       uint64
	Quantity uint64
}

// LevelView is a read-only view of one price level in queue order.
type LevelView struct {
	Price    float64
	Quantity uint64
	Orders   []RestingOrder
}

// BestBid returns the highest bid level, or false when no bids rest.
func (b *Book) BestBid() (Quote, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return quoteOf(b.bids)
}

// BestAsk returns the lowest ask level, or false when no asks rest.
func (b *Book) BestAsk() (Quote, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return quoteOf(b.asks)
}

// Spread returns ask minus bid. It is only defined while both sides are
// non-empty.
func (b *Book) Spread() (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	bid, bidOk := quoteOf(b.bids)
	ask, askOk := quoteOf(b.asks)
	if !bidOk || !askOk {
		return 0, false
	}
	return ask.Price - bid.Price, true
}

// Levels returns one side of the book in matching-priority order. The
// result is a copy; mutating it cannot touch the live book.
func (b *Book) Levels(side Side) []LevelView {
	b.mu.Lock()
	defer b.mu.Unlock()

	var views []LevelView
	for _, lvl := range b.own(side).items() {
		view := LevelView{
			Price:    lvl.price,
			Quantity: lvl.queue.restingQuantity(),
			Orders:   make([]RestingOrder, 0, len(lvl.queue.orders)),
		}
		for _, o := range lvl.queue.orders {
			view.Orders = append(view.Orders, RestingOrder{ID: o.ID, Quantity: o.Remaining})
		}
		views = append(views, view)
	}
	return views
}

func quoteOf(l *ladder) (Quote, bool) {
	lvl, ok := l.best()
	if !ok {
		return Quote{}, false
	}
	return Quote{Price: lvl.price, Quantity: lvl.queue.restingQuantity()}, true
}

// Validate cross-checks every structural invariant: no empty levels, level
// caches equal to the sum of their orders, and a one-to-one agreement
// between the order index and the orders actually resting. A non-nil
// error means the book is corrupted by a programming error, not by input.
func (b *Book) Validate() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	seen := make(map[uint64]int)
	for _, l := range []*ladder{b.bids, b.asks} {
		for _, lvl := range l.items() {
			if lvl.queue.isEmpty() {
				return fmt.Errorf("empty level retained at %.4f on %v", lvl.price, l.side)
			}
			var sum uint64
			for _, o := range lvl.queue.orders {
				sum += o.Remaining
				seen[o.ID]++
				loc, ok := b.index[o.ID]
				if !ok {
					return fmt.Errorf("resting order %d missing from index", o.ID)
				}
				if loc.price != lvl.price || loc.side != l.side {
					return fmt.Errorf("order %d indexed at %.4f/%v but rests at %.4f/%v",
						o.ID, loc.price, loc.side, lvl.price, l.side)
				}
			}
			if sum != lvl.queue.restingQuantity() {
				return fmt.Errorf("level %.4f on %v caches %d but holds %d",
					lvl.price, l.side, lvl.queue.restingQuantity(), sum)
			}
		}
	}
	for id := range b.index {
		if seen[id] != 1 {
			return fmt.Errorf("index entry %d resolves to %d resting orders", id, seen[id])
		}
	}
	return nil
}
