package streaming

// EventKind enumerates the closed set of protocol events a Decoder produces.
type EventKind int

const (
	// KindTokenDelta carries an incremental fragment of assistant text.
	KindTokenDelta EventKind = iota
	// KindDone marks the [DONE] sentinel. No further events follow.
	KindDone
	// KindSkip marks a data line that parsed but carried no content.
	KindSkip
)

// Event is one decoded protocol event. Text is only set for KindTokenDelta.
type Event struct {
	Kind EventKind
	Text string
}

func TokenDelta(text string) Event { return Event{Kind: KindTokenDelta, Text: text} }

func Done() Event { return Event{Kind: KindDone} }

func Skip() Event { return Event{Kind: KindSkip} }
