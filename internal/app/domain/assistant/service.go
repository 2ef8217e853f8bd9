// Package assistant drives the chat turn lifecycle: it sends the accumulated
// conversation to the completion gateway, folds the streamed token deltas
// into an in-progress assistant message and commits it to the history.
package assistant

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/pune-companion/internal/app/models"
	"github.com/FACorreiaa/pune-companion/internal/app/observability/metrics"
	"github.com/FACorreiaa/pune-companion/internal/app/streaming"
)

var (
	// ErrEmptyMessage rejects a turn whose text is blank after trimming.
	ErrEmptyMessage = errors.New("message cannot be empty")
	// ErrTurnInFlight rejects a submission while another turn is active.
	// The conversation is left untouched.
	ErrTurnInFlight = errors.New("a turn is already in flight")
)

// DeltaFunc receives each token delta as it is folded, together with the
// accumulated assistant text so far. Called from the streaming loop, so
// implementations must be fast.
type DeltaFunc func(delta, accumulated string)

// Conversation is one session's ordered message history. The service is its
// sole mutator; at most one message is in progress at any instant and it is
// always the trailing assistant message.
type Conversation struct {
	mu       sync.Mutex
	inFlight bool
	messages []models.ChatMessage
}

// History returns a copy of the messages in turn order.
func (c *Conversation) History() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// beginTurn appends the user message and flips the in-flight flag, returning
// the wire-shape snapshot of the history. Fails when a turn is active.
func (c *Conversation) beginTurn(text string) ([]models.ChatTurnMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return nil, ErrTurnInFlight
	}
	c.inFlight = true
	c.messages = append(c.messages, models.ChatMessage{
		ID:        uuid.New(),
		Role:      models.RoleUser,
		Content:   text,
		Timestamp: time.Now(),
	})
	return models.TurnMessages(c.messages), nil
}

func (c *Conversation) endTurn() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}

// foldDelta rewrites the trailing in-progress assistant message with the
// accumulated text, creating it on the first delta of a reply.
func (c *Conversation) foldDelta(accumulated string) models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n := len(c.messages); n > 0 && c.messages[n-1].Role == models.RoleAssistant {
		c.messages[n-1].Content = accumulated
		return c.messages[n-1]
	}
	msg := models.ChatMessage{
		ID:        uuid.New(),
		Role:      models.RoleAssistant,
		Content:   accumulated,
		Timestamp: time.Now(),
	}
	c.messages = append(c.messages, msg)
	return msg
}

func (c *Conversation) appendFallback() models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := models.ChatMessage{
		ID:        uuid.New(),
		Role:      models.RoleAssistant,
		Content:   fallbackAssistantContent,
		Timestamp: time.Now(),
	}
	c.messages = append(c.messages, msg)
	return msg
}

// Service owns the per-session conversations and the gateway client.
type Service struct {
	client  *Client
	scanner *MentionScanner
	logger  *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Conversation
}

func NewService(client *Client, scanner *MentionScanner, logger *zap.Logger) *Service {
	return &Service{
		client:   client,
		scanner:  scanner,
		logger:   logger,
		sessions: make(map[string]*Conversation),
	}
}

// Conversation returns the session's conversation, creating it on first use.
// Conversations are constructed per session and injected into whatever
// renders them; there is no ambient global chat state.
func (s *Service) Conversation(sessionID string) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.sessions[sessionID]
	if !ok {
		conv = &Conversation{}
		s.sessions[sessionID] = conv
	}
	return conv
}

// SubmitChatTurn runs one full chat turn against the completion gateway and
// returns the committed assistant message. A transport failure before any
// token arrived yields the fixed fallback message (returned with a nil
// error); a mid-stream failure keeps whatever was accumulated. The in-flight
// flag is cleared on every path out.
func (s *Service) SubmitChatTurn(ctx context.Context, sessionID, userText string, onDelta DeltaFunc) (*models.ChatMessage, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return nil, ErrEmptyMessage
	}

	ctx, span := otel.Tracer("assistant").Start(ctx, "SubmitChatTurn")
	defer span.End()

	conv := s.Conversation(sessionID)
	turn, err := conv.beginTurn(userText)
	if err != nil {
		return nil, err
	}
	defer conv.endTurn()

	body, err := s.client.StreamChat(ctx, chatMessages(turn))
	if err != nil {
		// Sending → Idle: nothing was streamed, surface the fixed fallback.
		s.logger.Warn("Chat turn failed before streaming",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		metrics.Get().ChatTurnsTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("outcome", "fallback")))
		msg := conv.appendFallback()
		return &msg, nil
	}
	defer body.Close()

	msg, tokens := s.consumeStream(ctx, conv, body, onDelta)
	span.SetAttributes(attribute.Int("chat.tokens", tokens))
	metrics.Get().StreamTokensTotal.Add(ctx, int64(tokens))
	metrics.Get().ChatTurnsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", "committed")))

	return msg, nil
}

// consumeStream feeds the response body through the decoder and folds the
// events. Returns the committed assistant message (nil when the stream
// carried no tokens and closed cleanly) and the token count.
func (s *Service) consumeStream(ctx context.Context, conv *Conversation, body io.Reader, onDelta DeltaFunc) (*models.ChatMessage, int) {
	dec := streaming.NewDecoder()
	defer dec.Close()

	var (
		accumulated strings.Builder
		last        models.ChatMessage
		tokens      int
		finished    bool
	)

	buf := make([]byte, 4096)
	for !finished {
		n, readErr := body.Read(buf)
		if n > 0 {
			for _, ev := range dec.Feed(buf[:n]) {
				switch ev.Kind {
				case streaming.KindTokenDelta:
					accumulated.WriteString(ev.Text)
					last = conv.foldDelta(accumulated.String())
					tokens++
					if onDelta != nil {
						onDelta(ev.Text, accumulated.String())
					}
				case streaming.KindDone:
					finished = true
				case streaming.KindSkip:
					// no-op
				}
			}
		}
		if readErr != nil {
			if readErr != io.EOF && tokens == 0 {
				// Failed with no body consumed: same as a pre-stream failure.
				s.logger.Warn("Stream failed before any token arrived", zap.Error(readErr))
				last = conv.appendFallback()
				return &last, 0
			}
			if readErr != io.EOF {
				// Streaming → Committed even on failure: partial content is
				// kept, nothing is retracted.
				s.logger.Warn("Stream interrupted, keeping partial reply",
					zap.Int("tokens", tokens),
					zap.Error(readErr),
				)
			}
			break
		}
	}

	if tokens == 0 {
		return nil, 0
	}
	return &last, tokens
}

// GenerateItinerary is the non-streaming variant: one preferences payload in,
// one completion string out. The decoder is not involved.
func (s *Service) GenerateItinerary(ctx context.Context, prefs models.ItineraryPreferences) (string, error) {
	if err := prefs.Validate(); err != nil {
		return "", err
	}

	ctx, span := otel.Tracer("assistant").Start(ctx, "GenerateItinerary")
	defer span.End()
	span.SetAttributes(
		attribute.Int("itinerary.duration_days", prefs.Duration),
		attribute.String("itinerary.budget", prefs.Budget),
	)

	metrics.Get().ItineraryRequestsTotal.Add(ctx, 1)
	return s.client.Complete(ctx, itineraryMessages(prefs))
}

// AttractionMentions lists known attraction names found in content.
func (s *Service) AttractionMentions(content string) []string {
	if s.scanner == nil {
		return nil
	}
	return s.scanner.Scan(content)
}
