package lobster

import (
	"fmt"
	"strings"
)

// Stats summarizes a loaded message set.
type Stats struct {
	Total      int
	ByType     map[MessageType]int
	BuyOrders  int
	SellOrders int
	StartTime  float64
	EndTime    float64
	MinPrice   float64
	MaxPrice   float64
}

// Stats computes summary statistics over the loaded messages.
func (p *Parser) Stats() Stats {
	s := Stats{
		Total:  len(p.messages),
		ByType: make(map[MessageType]int),
	}
	if s.Total == 0 {
		return s
	}

	first := p.messages[0]
	s.StartTime, s.EndTime = first.Timestamp, first.Timestamp
	s.MinPrice, s.MaxPrice = first.Price, first.Price
	for _, m := range p.messages {
		s.ByType[m.Type]++
		if m.Direction == 1 {
			s.BuyOrders++
		} else {
			s.SellOrders++
		}
		s.StartTime = min(s.StartTime, m.Timestamp)
		s.EndTime = max(s.EndTime, m.Timestamp)
		s.MinPrice = min(s.MinPrice, m.Price)
		s.MaxPrice = max(s.MaxPrice, m.Price)
	}
	return s
}

func (s Stats) String() string {
	if s.Total == 0 {
		return "no messages loaded"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== LOBSTER DATA STATISTICS ===\n")
	fmt.Fprintf(&b, "Total Messages: %d\n", s.Total)
	fmt.Fprintf(&b, "Time Range: %.3fs - %.3fs (%.3fs duration)\n",
		s.StartTime, s.EndTime, s.EndTime-s.StartTime)
	fmt.Fprintf(&b, "Price Range: $%.2f - $%.2f\n", s.MinPrice, s.MaxPrice)
	fmt.Fprintf(&b, "Message Types:\n")
	for _, t := range []MessageType{NewOrder, Cancellation, Deletion, ExecutionVisible, ExecutionHidden, TradingHalt} {
		fmt.Fprintf(&b, "  %s: %d\n", t, s.ByType[t])
	}
	fmt.Fprintf(&b, "Buy Orders: %d\n", s.BuyOrders)
	fmt.Fprintf(&b, "Sell Orders: %d", s.SellOrders)
	return b.String()
}
