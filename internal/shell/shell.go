// Package shell is the line-oriented front end: manual order entry against
// one book, plus load/replay commands driving the replay engine's own book.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"mimir/internal/book"
	"mimir/internal/replay"
)

type Shell struct {
	book   *book.Book
	driver *replay.Driver
	in     io.Reader
	out    io.Writer
}

func New(b *book.Book, d *replay.Driver, in io.Reader, out io.Writer) *Shell {
	s := &Shell{book: b, driver: d, in: in, out: out}
	b.SetTradeHandler(book.TradeHandlerFunc(s.printTrade))
	return s
}

// Run reads commands until exit, EOF or context cancellation. The input
// reader runs in its own goroutine feeding the tomb-managed command loop,
// so a dying context interrupts the prompt cleanly.
func (s *Shell) Run(ctx context.Context) error {
	t, _ := tomb.WithContext(ctx)

	lines := make(chan string)
	go s.readLines(t, lines)

	t.Go(func() error {
		fmt.Fprintln(s.out, "Limit order book simulator. Type 'help' for commands.")
		for {
			fmt.Fprint(s.out, "\nlob> ")
			select {
			case <-t.Dying():
				return nil
			case line, ok := <-lines:
				if !ok {
					return nil
				}
				if s.dispatch(line) {
					t.Kill(nil)
					return nil
				}
			}
		}
	})

	err := t.Wait()
	if errors.Is(err, context.Canceled) {
		// A shutdown signal is a clean exit, not a shell failure.
		return nil
	}
	return err
}

// readLines pumps input lines into the command loop. It is not tracked by
// the tomb: a read blocked on an interactive stdin only unblocks at
// process exit, and must not hold up shutdown.
func (s *Shell) readLines(t *tomb.Tomb, lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(s.in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-t.Dying():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("error reading shell input")
	}
}

// dispatch runs one command line. It returns true when the shell should
// exit.
func (s *Shell) dispatch(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "exit", "quit":
		fmt.Fprintln(s.out, "Goodbye!")
		return true
	case "help":
		s.printHelp()
	case "limit":
		s.cmdLimit(fields[1:])
	case "market":
		s.cmdMarket(fields[1:])
	case "cancel":
		s.cmdCancel(fields[1:])
	case "print":
		s.printBook(s.book)
	case "load":
		s.cmdLoad(fields[1:])
	case "replay":
		s.cmdReplay(fields[1:])
	case "reset":
		s.driver.Reset()
		fmt.Fprintln(s.out, "Replay reset to beginning.")
	case "stats":
		s.cmdStats()
	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type 'help' for commands.\n", fields[0])
	}
	return false
}

func parseSide(word string) (book.Side, error) {
	switch strings.ToLower(word) {
	case "buy":
		return book.Buy, nil
	case "sell":
		return book.Sell, nil
	default:
		return 0, fmt.Errorf("side must be 'buy' or 'sell', got %q", word)
	}
}

func (s *Shell) cmdLimit(args []string) {
	if len(args) != 3 {
		fmt.Fprintln(s.out, "Usage: limit buy|sell <price> <quantity>")
		return
	}
	side, err := parseSide(args[0])
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	price, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		fmt.Fprintf(s.out, "Bad price %q\n", args[1])
		return
	}
	quantity, err := strconv.ParseUint(args[2], 10, 64)
	if err != nil {
		fmt.Fprintf(s.out, "Bad quantity %q\n", args[2])
		return
	}

	id, err := s.book.SubmitLimit(side, price, quantity)
	if err != nil {
		fmt.Fprintf(s.out, "Rejected: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Limit %s order placed, id=%d\n", side, id)
}

func (s *Shell) cmdMarket(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "Usage: market buy|sell <quantity>")
		return
	}
	side, err := parseSide(args[0])
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	quantity, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		fmt.Fprintf(s.out, "Bad quantity %q\n", args[1])
		return
	}

	remainder, err := s.book.SubmitMarket(side, quantity)
	if err != nil {
		fmt.Fprintf(s.out, "Rejected: %v\n", err)
		return
	}
	if remainder > 0 {
		fmt.Fprintf(s.out, "Market %s order partially filled, %d unfilled\n", side, remainder)
	} else {
		fmt.Fprintf(s.out, "Market %s order fully filled\n", side)
	}
}

func (s *Shell) cmdCancel(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: cancel <order_id>")
		return
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(s.out, "Bad order id %q\n", args[0])
		return
	}
	if s.book.Cancel(id) {
		fmt.Fprintf(s.out, "Order %d cancelled\n", id)
	} else {
		fmt.Fprintf(s.out, "Order %d not found\n", id)
	}
}

func (s *Shell) cmdLoad(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: load <filename>")
		return
	}
	if err := s.driver.Load(args[0]); err != nil {
		fmt.Fprintf(s.out, "Failed to load %s: %v\n", args[0], err)
		return
	}
	fmt.Fprintln(s.out, s.driver.Parser().Stats())
}

func (s *Shell) cmdReplay(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: replay <all|n> [verbose]")
		return
	}
	verbose := len(args) > 1 && args[1] == "verbose"

	if args[0] == "all" {
		s.driver.ReplayAll(verbose)
	} else {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			fmt.Fprintln(s.out, "Usage: replay <all|n> [verbose]")
			return
		}
		count := s.driver.ReplayN(n, verbose)
		fmt.Fprintf(s.out, "Processed %d messages.\n", count)
	}
	if err := s.driver.Validate(); err != nil {
		fmt.Fprintf(s.out, "INVARIANT VIOLATION: %v\n", err)
		return
	}
	s.printBook(s.driver.Book())
}

func (s *Shell) cmdStats() {
	fmt.Fprintln(s.out, s.driver.Stats())
}

func (s *Shell) printTrade(t book.Trade) {
	fmt.Fprintf(s.out, "TRADE: %d @ $%.2f (aggressor %d, passive %d)\n",
		t.Quantity, t.Price, t.AggressorID, t.PassiveID)
}

func (s *Shell) printBook(b *book.Book) {
	fmt.Fprintln(s.out, "=== ORDER BOOK ===")

	ask, askOk := b.BestAsk()
	bid, bidOk := b.BestBid()
	if !askOk && !bidOk {
		fmt.Fprintln(s.out, "Book is empty")
		fmt.Fprintln(s.out, "==================")
		return
	}

	if askOk {
		fmt.Fprintf(s.out, "Best Ask: $%.2f (%d shares)\n", ask.Price, ask.Quantity)
	} else {
		fmt.Fprintln(s.out, "Best Ask: No asks available")
	}
	if bidOk {
		fmt.Fprintf(s.out, "Best Bid: $%.2f (%d shares)\n", bid.Price, bid.Quantity)
	} else {
		fmt.Fprintln(s.out, "Best Bid: No bids available")
	}
	if spread, ok := b.Spread(); ok {
		fmt.Fprintf(s.out, "Spread: $%.2f\n", spread)
	}
	fmt.Fprintln(s.out, "==================")
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `=== COMMANDS ===
limit buy <price> <quantity>   - Add buy limit order
limit sell <price> <quantity>  - Add sell limit order
market buy <quantity>          - Execute market buy order
market sell <quantity>         - Execute market sell order
cancel <order_id>              - Cancel order by id
print                          - Display current book state
load <filename>                - Load LOBSTER CSV file
replay all [verbose]           - Replay all messages
replay <n> [verbose]           - Replay next n messages
reset                          - Reset replay to beginning
stats                          - Show replay statistics
help                           - Show this help message
exit                           - Exit simulator
`)
}
