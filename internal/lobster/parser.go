package lobster

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

var ErrNoMessages = errors.New("no parsable messages in file")

// Parser loads a LOBSTER file into memory and hands the messages out
// through a cursor, so a replay can be resumed or restarted cheaply.
type Parser struct {
	messages []Message
	cursor   int
}

// LoadFile reads and parses the whole file. Bad lines are logged and
// skipped rather than aborting the load; the file only fails as a whole
// when it cannot be opened or yields nothing parsable.
func (p *Parser) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open lobster file: %w", err)
	}
	defer f.Close()

	p.messages = p.messages[:0]
	p.cursor = 0

	scanner := bufio.NewScanner(f)
	lineNumber := 0
	badLines := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		msg, err := ParseLine(line)
		if err != nil {
			badLines++
			log.Warn().
				Err(err).
				Int("line", lineNumber).
				Str("file", path).
				Msg("skipping unparsable lobster line")
			continue
		}
		p.messages = append(p.messages, msg)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read lobster file: %w", err)
	}
	if len(p.messages) == 0 {
		return fmt.Errorf("%s: %w", path, ErrNoMessages)
	}

	log.Info().
		Str("file", path).
		Int("messages", len(p.messages)).
		Int("skipped", badLines).
		Msg("lobster file loaded")
	return nil
}

// Reset rewinds the cursor to the first message.
func (p *Parser) Reset() {
	p.cursor = 0
}

// HasNext reports whether unconsumed messages remain.
func (p *Parser) HasNext() bool {
	return p.cursor < len(p.messages)
}

// Next returns the next message and advances the cursor.
func (p *Parser) Next() (Message, bool) {
	if !p.HasNext() {
		return Message{}, false
	}
	msg := p.messages[p.cursor]
	p.cursor++
	return msg, true
}

// Total returns the number of loaded messages.
func (p *Parser) Total() int {
	return len(p.messages)
}

// Index returns the cursor position.
func (p *Parser) Index() int {
	return p.cursor
}
