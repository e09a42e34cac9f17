package book

import "time"

type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Opposite returns the side an incoming order matches against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

type Kind int

const (
	// Limit orders carry a price and may rest on the book until filled
	// or cancelled.
	Limit Kind = iota
	// Market orders execute immediately against the best available
	// prices and never rest.
	Market
)

func (k Kind) String() string {
	if k == Limit {
		return "LIMIT"
	}
	return "MARKET"
}

// Order is a single order tracked by the book. While resting it is owned
// by exactly one price level queue; the book only hands out copies.
type Order struct {
	ID        uint64
	Side      Side
	Kind      Kind
	Price     float64 // zero for market orders
	Remaining uint64

	// SubmittedAt is diagnostic only. Priority is structural: queue
	// position within a level decides time priority, not timestamps.
	SubmittedAt time.Time
}
