package httpclient

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

const maxEventSize = 1 << 20

// EventIterator pulls server-sent event payloads off a response body one at a
// time. Each payload is the raw text of a `data:` line; iteration ends at the
// `[DONE]` sentinel or at end of body.
type EventIterator struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	current json.RawMessage
	err     error
	done    bool
}

func NewEventIterator(body io.ReadCloser) *EventIterator {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)
	return &EventIterator{body: body, scanner: scanner}
}

func (it *EventIterator) Next() bool {
	if it.done {
		return false
	}
	for it.scanner.Scan() {
		line := strings.TrimRight(it.scanner.Text(), "\r")
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}
		if data == "[DONE]" {
			it.done = true
			return false
		}
		it.current = json.RawMessage(data)
		return true
	}
	it.done = true
	it.err = it.scanner.Err()
	return false
}

// Current returns the payload read by the last successful Next.
func (it *EventIterator) Current() any {
	return it.current
}

func (it *EventIterator) Err() error {
	return it.err
}

func (it *EventIterator) Close() error {
	it.done = true
	return it.body.Close()
}
