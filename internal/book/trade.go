package book

import "time"

// Trade records one match between an aggressing and a passive order. The
// price is always the passive order's resting price, so any price
// improvement accrues to the aggressor.
type Trade struct {
	AggressorID uint64
	PassiveID   uint64
	Price       float64
	Quantity    uint64
	Timestamp   time.Time
}

// TradeHandler receives exactly one notification per matched pairing,
// synchronously, while the submit that produced it is still executing.
// How the notification leaves the process (print, log, channel) is up to
// the handler.
type TradeHandler interface {
	HandleTrade(Trade)
}

// TradeHandlerFunc adapts a plain function to a TradeHandler.
type TradeHandlerFunc func(Trade)

func (f TradeHandlerFunc) HandleTrade(t Trade) { f(t) }
