// Package replay feeds a LOBSTER event stream through a fresh order book,
// translating external order ids into engine ids along the way.
package replay

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"mimir/internal/book"
	"mimir/internal/lobster"
)

// Stats tracks the outcome of a replay run.
type Stats struct {
	Processed    int
	Succeeded    int
	Failed       int
	Executions   int // execution messages seen in the data
	EngineTrades int // trades our own matching produced
	ActiveOrders int
}

func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== REPLAY STATISTICS ===\n")
	fmt.Fprintf(&b, "Messages Processed: %d\n", s.Processed)
	fmt.Fprintf(&b, "Successful Operations: %d\n", s.Succeeded)
	fmt.Fprintf(&b, "Failed Operations: %d\n", s.Failed)
	fmt.Fprintf(&b, "Executions In Data: %d\n", s.Executions)
	fmt.Fprintf(&b, "Engine Trades: %d\n", s.EngineTrades)
	fmt.Fprintf(&b, "Active Orders: %d", s.ActiveOrders)
	if s.Processed > 0 {
		rate := float64(s.Succeeded) / float64(s.Processed) * 100.0
		fmt.Fprintf(&b, "\nSuccess Rate: %.1f%%", rate)
	}
	return b.String()
}

// Driver owns the book it replays into, so a reset cannot disturb any
// other book in the process. Every run gets a fresh uuid that tags its
// log lines.
type Driver struct {
	book   *book.Book
	parser *lobster.Parser
	ids    *IDMap
	stats  Stats
	logger zerolog.Logger
}

func NewDriver() *Driver {
	d := &Driver{parser: &lobster.Parser{}}
	d.rebuild()
	return d
}

// rebuild replaces the book, the id map and the counters, leaving the
// parser's loaded messages intact.
func (d *Driver) rebuild() {
	d.book = book.New()
	d.ids = NewIDMap()
	d.stats = Stats{}
	d.logger = log.With().Str("run_id", uuid.New().String()).Logger()
	d.book.SetTradeHandler(book.TradeHandlerFunc(func(t book.Trade) {
		d.stats.EngineTrades++
		d.logger.Debug().
			Uint64("aggressor", t.AggressorID).
			Uint64("passive", t.PassiveID).
			Float64("price", t.Price).
			Uint64("quantity", t.Quantity).
			Msg("replay trade")
	}))
}

// Load parses a LOBSTER file and resets the run state.
func (d *Driver) Load(path string) error {
	d.rebuild()
	return d.parser.LoadFile(path)
}

// Reset rewinds the parser and rebuilds the book and counters.
func (d *Driver) Reset() {
	d.parser.Reset()
	d.rebuild()
}

// ReplayAll drives every remaining message through the book.
func (d *Driver) ReplayAll(verbose bool) {
	d.logger.Info().Int("total", d.parser.Total()).Msg("starting replay")
	for d.parser.HasNext() {
		msg, _ := d.parser.Next()
		d.apply(msg, verbose)
		if !verbose && d.stats.Processed%1000 == 0 {
			d.logger.Info().Int("processed", d.stats.Processed).Msg("replay progress")
		}
	}
	d.logger.Info().
		Int("processed", d.stats.Processed).
		Int("failed", d.stats.Failed).
		Msg("replay complete")
}

// ReplayN drives up to n messages through the book.
func (d *Driver) ReplayN(n int, verbose bool) int {
	count := 0
	for d.parser.HasNext() && count < n {
		msg, _ := d.parser.Next()
		d.apply(msg, verbose)
		count++
	}
	return count
}

func (d *Driver) apply(msg lobster.Message, verbose bool) {
	d.stats.Processed++
	if verbose {
		d.logger.Info().
			Float64("time", msg.Timestamp).
			Stringer("type", msg.Type).
			Int64("order_id", msg.OrderID).
			Uint64("size", msg.Size).
			Float64("price", msg.Price).
			Str("side", msg.Side().String()).
			Msg("replaying message")
	}

	switch msg.Type {
	case lobster.NewOrder:
		d.applyNewOrder(msg)
	case lobster.Cancellation, lobster.Deletion:
		// LOBSTER cancellations are partial reductions; this layer
		// collapses them into full removals, same as deletions. Known
		// simplification, kept on purpose.
		d.applyRemoval(msg)
	case lobster.ExecutionVisible, lobster.ExecutionHidden:
		// The matching engine already produced these fills while the
		// aggressor entered; only the id binding needs retiring.
		d.stats.Executions++
		d.stats.Succeeded++
		d.ids.Unbind(msg.OrderID)
	case lobster.TradingHalt:
		d.logger.Info().Float64("time", msg.Timestamp).Msg("trading halt")
		d.stats.Succeeded++
	}
}

func (d *Driver) applyNewOrder(msg lobster.Message) {
	internal, err := d.book.SubmitLimit(msg.Side(), msg.Price, msg.Size)
	if err != nil {
		d.stats.Failed++
		d.logger.Warn().Err(err).Int64("order_id", msg.OrderID).Msg("rejected new order")
		return
	}
	d.ids.Bind(msg.OrderID, internal)
	d.stats.Succeeded++
}

func (d *Driver) applyRemoval(msg lobster.Message) {
	internal, ok := d.ids.Internal(msg.OrderID)
	if !ok {
		d.stats.Failed++
		d.logger.Warn().Int64("order_id", msg.OrderID).Msg("removal for unknown order id")
		return
	}
	if !d.book.Cancel(internal) {
		d.stats.Failed++
		d.logger.Warn().
			Int64("order_id", msg.OrderID).
			Uint64("internal_id", internal).
			Msg("order already left the book")
		d.ids.Unbind(msg.OrderID)
		return
	}
	d.ids.Unbind(msg.OrderID)
	d.stats.Succeeded++
}

// Stats returns a snapshot of the run counters.
func (d *Driver) Stats() Stats {
	s := d.stats
	s.ActiveOrders = d.ids.Len()
	return s
}

// Book exposes the replay book for inspection.
func (d *Driver) Book() *book.Book {
	return d.book
}

// Parser exposes the underlying parser, mainly for its Stats.
func (d *Driver) Parser() *lobster.Parser {
	return d.parser
}

// Validate cross-checks the book's structural invariants and the id map's
// mirror property after a run.
func (d *Driver) Validate() error {
	if err := d.book.Validate(); err != nil {
		return err
	}
	return d.ids.Validate()
}
