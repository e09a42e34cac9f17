// Package lobster parses LOBSTER historical message files into a neutral
// order-event stream. The format is one event per line, six comma-separated
// columns: time, type, order id, size, price (scaled by 10000), direction.
package lobster

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mimir/internal/book"
)

var (
	ErrColumnCount      = errors.New("expected 6 columns")
	ErrUnknownType      = errors.New("unknown message type")
	ErrInvalidDirection = errors.New("direction must be 1 or -1")
)

type MessageType int

const (
	NewOrder         MessageType = 1
	Cancellation     MessageType = 2
	Deletion         MessageType = 3
	ExecutionVisible MessageType = 4
	ExecutionHidden  MessageType = 5
	TradingHalt      MessageType = 7
)

func (t MessageType) String() string {
	switch t {
	case NewOrder:
		return "NEW_ORDER"
	case Cancellation:
		return "CANCELLATION"
	case Deletion:
		return "DELETION"
	case ExecutionVisible:
		return "EXECUTION_VISIBLE"
	case ExecutionHidden:
		return "EXECUTION_HIDDEN"
	case TradingHalt:
		return "TRADING_HALT"
	default:
		return "UNKNOWN"
	}
}

// Message is one normalized LOBSTER event.
type Message struct {
	Timestamp float64 // seconds after midnight
	Type      MessageType
	OrderID   int64 // exchange-assigned id, external to the engine
	Size      uint64
	Price     float64 // already divided out of the 10000x wire format
	Direction int     // 1 = buy, -1 = sell
}

// Side maps the LOBSTER direction onto an order side.
func (m Message) Side() book.Side {
	if m.Direction == 1 {
		return book.Buy
	}
	return book.Sell
}

// ParseLine parses one raw line. All failures come back as error values;
// malformed external input never panics.
func ParseLine(line string) (Message, error) {
	columns := strings.Split(line, ",")
	if len(columns) != 6 {
		return Message{}, fmt.Errorf("%w, got %d", ErrColumnCount, len(columns))
	}

	timestamp, err := strconv.ParseFloat(strings.TrimSpace(columns[0]), 64)
	if err != nil {
		return Message{}, fmt.Errorf("timestamp: %w", err)
	}
	rawType, err := strconv.Atoi(strings.TrimSpace(columns[1]))
	if err != nil {
		return Message{}, fmt.Errorf("type: %w", err)
	}
	orderID, err := strconv.ParseInt(strings.TrimSpace(columns[2]), 10, 64)
	if err != nil {
		return Message{}, fmt.Errorf("order id: %w", err)
	}
	size, err := strconv.ParseUint(strings.TrimSpace(columns[3]), 10, 64)
	if err != nil {
		return Message{}, fmt.Errorf("size: %w", err)
	}
	rawPrice, err := strconv.ParseInt(strings.TrimSpace(columns[4]), 10, 64)
	if err != nil {
		return Message{}, fmt.Errorf("price: %w", err)
	}
	direction, err := strconv.Atoi(strings.TrimSpace(columns[5]))
	if err != nil {
		return Message{}, fmt.Errorf("direction: %w", err)
	}

	messageType := MessageType(rawType)
	switch messageType {
	case NewOrder, Cancellation, Deletion, ExecutionVisible, ExecutionHidden, TradingHalt:
	default:
		return Message{}, fmt.Errorf("%w: %d", ErrUnknownType, rawType)
	}
	if direction != 1 && direction != -1 {
		return Message{}, fmt.Errorf("%w: %d", ErrInvalidDirection, direction)
	}

	return Message{
		Timestamp: timestamp,
		Type:      messageType,
		OrderID:   orderID,
		Size:      size,
		Price:     float64(rawPrice) / 10000.0,
		Direction: direction,
	}, nil
}
