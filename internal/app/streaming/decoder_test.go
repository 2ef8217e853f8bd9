package streaming

import (
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func delta(content string) string {
	return `data: {"choices":[{"delta":{"content":` + jsonString(content) + `}}]}` + "\n"
}

func jsonString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// collect feeds the whole body in the given chunk sizes and returns the
// tokens and whether Done was seen.
func collect(t *testing.T, body []byte, chunks [][]byte) ([]string, bool) {
	t.Helper()
	dec := NewDecoder()
	var tokens []string
	var done bool
	for _, chunk := range chunks {
		for _, ev := range dec.Feed(chunk) {
			switch ev.Kind {
			case KindTokenDelta:
				tokens = append(tokens, ev.Text)
			case KindDone:
				done = true
			}
		}
	}
	dec.Close()
	return tokens, done
}

func splitAt(body []byte, offsets ...int) [][]byte {
	var chunks [][]byte
	prev := 0
	for _, off := range offsets {
		chunks = append(chunks, body[prev:off])
		prev = off
	}
	return append(chunks, body[prev:])
}

func TestDecoderSingleChunk(t *testing.T) {
	body := []byte(delta("Hello") + delta(" ") + delta("world") + "data: [DONE]\n")

	tokens, done := collect(t, body, [][]byte{body})

	assert.Equal(t, []string{"Hello", " ", "world"}, tokens)
	assert.True(t, done)
}

func TestDecoderChunkBoundaryIndependence(t *testing.T) {
	body := []byte(delta("Namaste, ") + delta("Pune — शनिवार वाडा") + ":keepalive\n\n" + delta(" awaits!") + "data: [DONE]\n")

	wantTokens, wantDone := collect(t, body, [][]byte{body})
	require.True(t, wantDone)

	// Every single split point, including mid-rune and mid-JSON.
	for off := 1; off < len(body); off++ {
		tokens, done := collect(t, body, splitAt(body, off))
		assert.Equalf(t, wantTokens, tokens, "split at byte %d", off)
		assert.Truef(t, done, "split at byte %d", off)
	}

	// Random multi-way splits.
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		offsets := map[int]bool{}
		for len(offsets) < 5 {
			offsets[1+rng.Intn(len(body)-1)] = true
		}
		var sorted []int
		for off := range offsets {
			sorted = append(sorted, off)
		}
		sort.Ints(sorted)
		tokens, done := collect(t, body, splitAt(body, sorted...))
		assert.Equalf(t, wantTokens, tokens, "splits %v", sorted)
		assert.Truef(t, done, "splits %v", sorted)
	}
}

func TestDecoderByteAtATime(t *testing.T) {
	body := []byte(delta("día") + delta(" soleado") + "data: [DONE]\n")

	var chunks [][]byte
	for i := range body {
		chunks = append(chunks, body[i:i+1])
	}
	tokens, done := collect(t, body, chunks)

	assert.Equal(t, []string{"día", " soleado"}, tokens)
	assert.True(t, done)
}

func TestDecoderSkipsCommentsAndBlankLines(t *testing.T) {
	plain := []byte(delta("a") + delta("b") + "data: [DONE]\n")
	noisy := []byte(":keepalive\n\n" + delta("a") + "\r\n:ping\n" + delta("b") + "\n" + "data: [DONE]\n")

	wantTokens, _ := collect(t, plain, [][]byte{plain})
	tokens, done := collect(t, noisy, [][]byte{noisy})

	assert.Equal(t, wantTokens, tokens)
	assert.True(t, done)
}

func TestDecoderIgnoresNonDataLines(t *testing.T) {
	body := []byte("event: message\nid: 42\n" + delta("x") + "data: [DONE]\n")

	tokens, done := collect(t, body, [][]byte{body})

	assert.Equal(t, []string{"x"}, tokens)
	assert.True(t, done)
}

func TestDecoderRebuffersLineSplitMidJSON(t *testing.T) {
	line := delta("split across reads")
	body := []byte(line + "data: [DONE]\n")

	// Split inside the JSON payload, before the line terminator.
	cut := len(line) / 2
	tokens, done := collect(t, body, splitAt(body, cut))

	assert.Equal(t, []string{"split across reads"}, tokens)
	assert.True(t, done)
}

func TestDecoderMalformedLineBlocksUntilClose(t *testing.T) {
	dec := NewDecoder()

	events := dec.Feed([]byte("data: {not json}\n"))
	assert.Empty(t, events)

	// The broken line never completes; later chunks stay queued behind it.
	events = dec.Feed([]byte(delta("queued")))
	assert.Empty(t, events)

	dec.Close()
	assert.Nil(t, dec.Feed([]byte(delta("after close"))))
}

func TestDecoderDoneShortCircuits(t *testing.T) {
	body := []byte("data: [DONE]\n" + delta("ignored"))

	tokens, done := collect(t, body, [][]byte{body})

	assert.Empty(t, tokens)
	assert.True(t, done)

	dec := NewDecoder()
	events := dec.Feed(body)
	require.Len(t, events, 1)
	assert.Equal(t, KindDone, events[0].Kind)
	assert.Nil(t, dec.Feed([]byte(delta("later chunk"))))
}

func TestDecoderDoneSentinelWithSurroundingWhitespace(t *testing.T) {
	body := []byte("data:  [DONE] \r\n")

	_, done := collect(t, body, [][]byte{body})

	assert.True(t, done)
}

func TestDecoderEmptyContentIsSkip(t *testing.T) {
	dec := NewDecoder()

	events := dec.Feed([]byte(`data: {"choices":[{"delta":{}}]}` + "\n"))
	require.Len(t, events, 1)
	assert.Equal(t, KindSkip, events[0].Kind)

	events = dec.Feed([]byte(`data: {"choices":[]}` + "\n"))
	require.Len(t, events, 1)
	assert.Equal(t, KindSkip, events[0].Kind)
}

func TestDecoderTrailingPartialLineDiscardedOnClose(t *testing.T) {
	dec := NewDecoder()

	events := dec.Feed([]byte(delta("kept") + `data: {"choices":[{"delta":{"content":"trunc`))
	require.Len(t, events, 1)
	assert.Equal(t, TokenDelta("kept"), events[0])

	dec.Close()
	assert.Nil(t, dec.Feed([]byte(`ated"}}]}`+"\n")))
}

func TestIncompleteTailLen(t *testing.T) {
	full := []byte("वाडा")
	assert.Zero(t, incompleteTailLen(full))
	assert.Equal(t, 2, incompleteTailLen(full[:len(full)-1]))
	assert.Zero(t, incompleteTailLen([]byte("ascii")))
	assert.Zero(t, incompleteTailLen(nil))
}
