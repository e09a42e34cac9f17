package book

import "github.com/tidwall/btree"

// level is one price point and its FIFO queue of resting orders.
type level struct {
	price float64
	queue queue
}

// ladder is one side's price-ordered collection of levels. Bids sort
// highest price first, asks lowest price first, so Min is always the best
// level on either side.
type ladder struct {
	side   Side
	levels *btree.BTreeG[*level]
}

func newLadder(side Side) *ladder {
	var less func(a, b *level) bool
	if side == Buy {
		less = func(a, b *level) bool { return a.price > b.price }
	} else {
		less = func(a, b *level) bool { return a.price < b.price }
	}
	return &ladder{
		side:   side,
		levels: btree.NewBTreeG(less),
	}
}

// best returns the level with the highest matching priority.
func (l *ladder) best() (*level, bool) {
	return l.levels.MinMut()
}

// at looks up the level resting at exactly the given price.
func (l *ladder) at(price float64) (*level, bool) {
	// The comparator only reads prices, so a bare pivot suffices.
	return l.levels.GetMut(&level{price: price})
}

// upsert returns the level at the given price, creating it if absent.
func (l *ladder) upsert(price float64) *level {
	if lvl, ok := l.at(price); ok {
		return lvl
	}
	lvl := &level{price: price}
	l.levels.Set(lvl)
	return lvl
}

// remove deletes a level. Callers must only remove emptied levels; the
// ladder never retains an entry with an empty queue.
func (l *ladder) remove(lvl *level) {
	l.levels.Delete(lvl)
}

func (l *ladder) len() int {
	return l.levels.Len()
}

// items returns the levels in matching-priority order.
func (l *ladder) items() []*level {
	return l.levels.Items()
}
