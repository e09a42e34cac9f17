package book

// queue holds the resting orders at one price level in arrival order,
// together with a cached sum of their remaining quantities. The cache must
// always equal the sum over the contained orders; every mutation below
// keeps the two in step.
type queue struct {
	orders  []*Order
	resting uint64
}

// append enqueues an order at the tail of the level.
func (q *queue) append(o *Order) {
	q.orders = append(q.orders, o)
	q.resting += o.Remaining
}

// peekFront returns the head order without removing it, or nil when the
// queue is empty.
func (q *queue) peekFront() *Order {
	if len(q.orders) == 0 {
		return nil
	}
	return q.orders[0]
}

// popFront removes the head order and subtracts its remaining quantity
// from the cache.
func (q *queue) popFront() {
	if len(q.orders) == 0 {
		return
	}
	q.resting -= q.orders[0].Remaining
	q.orders[0] = nil
	q.orders = q.orders[1:]
}

// adjustFrontQuantity sets the head order's remaining quantity and
// corrects the cache by the delta. Used after a partial fill of the head;
// the order keeps its queue position.
func (q *queue) adjustFrontQuantity(remaining uint64) {
	if len(q.orders) == 0 {
		return
	}
	head := q.orders[0]
	q.resting = q.resting - head.Remaining + remaining
	head.Remaining = remaining
}

// removeByID scans for the order with the given id and removes it wherever
// it sits, correcting the cache. Returns whether it was found. This is a
// linear pass bounded by the depth of this one level.
func (q *queue) removeByID(id uint64) bool {
	for i, o := range q.orders {
		if o.ID != id {
			continue
		}
		q.resting -= o.Remaining
		q.orders = append(q.orders[:i], q.orders[i+1:]...)
		return true
	}
	return false
}

func (q *queue) isEmpty() bool {
	return len(q.orders) == 0
}

func (q *queue) restingQuantity() uint64 {
	return q.resting
}
