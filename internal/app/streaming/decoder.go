// Package streaming decodes the text/event-stream body of a completion
// request into discrete protocol events. The transport hands us raw byte
// chunks with no alignment guarantees: a chunk may end mid rune, mid line or
// mid JSON payload, and the decoder has to absorb all of that without ever
// dropping a token or aborting the reply.
package streaming

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

const (
	dataPrefix   = "data: "
	doneSentinel = "[DONE]"
)

// Decoder is an incremental SSE decoder for one response body. It is not
// safe for concurrent use and cannot be reused across streams.
type Decoder struct {
	// rem holds trailing bytes that do not yet form a complete UTF-8 rune.
	rem []byte
	// pending holds decoded text after the last line terminator seen so far.
	pending string
	// done is latched by the [DONE] sentinel; everything after it is ignored.
	done bool
}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// completionChunk is the fixed path we extract from each data payload:
// choices[0].delta.content. Payloads of any other valid JSON shape decode
// cleanly into the zero value and are reported as Skip.
type completionChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

func (c completionChunk) content() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Delta.Content
}

// Feed appends the next transport chunk and returns every event that became
// complete. It never fails: malformed lines are skipped or held back until
// more bytes arrive.
func (d *Decoder) Feed(chunk []byte) []Event {
	if d.done {
		return nil
	}

	d.rem = append(d.rem, chunk...)
	hold := incompleteTailLen(d.rem)
	d.pending += string(d.rem[:len(d.rem)-hold])
	d.rem = append(d.rem[:0], d.rem[len(d.rem)-hold:]...)

	var events []Event
	for {
		nl := strings.IndexByte(d.pending, '\n')
		if nl < 0 {
			return events
		}
		line := strings.TrimSuffix(d.pending[:nl], "\r")
		rest := d.pending[nl+1:]

		if line == "" || strings.HasPrefix(line, ":") {
			d.pending = rest
			continue
		}
		if !strings.HasPrefix(line, dataPrefix) {
			d.pending = rest
			continue
		}

		payload := strings.TrimSpace(line[len(dataPrefix):])
		if payload == doneSentinel {
			// Anything still buffered after the sentinel is abandoned.
			d.done = true
			d.pending = ""
			d.rem = nil
			return append(events, Done())
		}

		var cc completionChunk
		if err := json.Unmarshal([]byte(payload), &cc); err != nil {
			// The payload may have been truncated by a chunk boundary and
			// not fully received yet. Push the line back, terminator and
			// all, and resume from here when more bytes arrive.
			d.pending = line + "\n" + rest
			return events
		}

		d.pending = rest
		if content := cc.content(); content != "" {
			events = append(events, TokenDelta(content))
		} else {
			events = append(events, Skip())
		}
	}
}

// Close signals end-of-stream. A partial trailing line left in the buffer is
// discarded: no further data is coming to complete it.
func (d *Decoder) Close() {
	d.pending = ""
	d.rem = nil
	d.done = true
}

// incompleteTailLen returns how many trailing bytes of b form the start of a
// UTF-8 rune whose remaining bytes have not arrived yet. Those bytes must not
// be decoded until the sequence is complete.
func incompleteTailLen(b []byte) int {
	n := len(b)
	for i := 1; i <= utf8.UTFMax && i <= n; i++ {
		c := b[n-i]
		if !utf8.RuneStart(c) {
			continue
		}
		if utf8.FullRune(b[n-i:]) {
			return 0
		}
		return i
	}
	return 0
}
