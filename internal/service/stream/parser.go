package stream

import (
	"bufio"
	"io"
	"strings"
)

const maxLineSize = 1 << 20

// RawEvent is one dispatched server-sent event before it is interpreted.
type RawEvent struct {
	Name string
	Data string
	ID   string
}

// Parser splits a text/event-stream body into events.
//
// An event is dispatched at every blank line once any field has been seen, so
// `event: done` without data still counts. A trailing event without its blank
// line is dropped, as is every comment line.
type Parser struct {
	scanner *bufio.Scanner
}

// NewParser reads events from r.
func NewParser(r io.Reader) *Parser {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &Parser{scanner: scanner}
}

// Next returns the next event, or io.EOF once the body is exhausted.
func (p *Parser) Next() (RawEvent, error) {
	var (
		event   RawEvent
		data    []string
		touched bool
	)

	for p.scanner.Scan() {
		line := p.scanner.Text()
		if line == "" {
			if !touched {
				continue
			}
			event.Data = strings.Join(data, "\n")
			return event, nil
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "event":
			event.Name = value
			touched = true
		case "data":
			data = append(data, value)
			touched = true
		case "id":
			event.ID = value
			touched = true
		}
	}

	if err := p.scanner.Err(); err != nil {
		return RawEvent{}, err
	}
	return RawEvent{}, io.EOF
}
