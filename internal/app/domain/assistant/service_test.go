package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FACorreiaa/pune-companion/internal/app/models"
	"github.com/FACorreiaa/pune-companion/internal/app/observability/metrics"
	"github.com/FACorreiaa/pune-companion/internal/pkg/config"
	"github.com/FACorreiaa/pune-companion/internal/pkg/logger"
)

func TestMain(m *testing.M) {
	metrics.InitAppMetrics()
	_ = logger.Init(zapcore.ErrorLevel)
	m.Run()
}

func jsonDecode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func sseBody(tokens ...string) string {
	var body string
	for _, tok := range tokens {
		body += `data: {"choices":[{"delta":{"content":"` + tok + `"}}]}` + "\n\n"
	}
	return body + "data: [DONE]\n\n"
}

func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(config.GatewayConfig{
		Endpoint: srv.URL,
		APIKey:   "test-key",
		Model:    "test-model",
		Timeout:  5 * time.Second,
	}, zap.NewNop())

	return NewService(client, nil, zap.NewNop()), srv
}

func TestSubmitChatTurnAccumulatesIntoOneMessage(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(sseBody("Hello", " ", "world")))
	})

	var deltas []string
	msg, err := svc.SubmitChatTurn(context.Background(), "s1", "hi", func(delta, _ string) {
		deltas = append(deltas, delta)
	})

	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "Hello world", msg.Content)
	assert.Equal(t, models.RoleAssistant, msg.Role)
	assert.Equal(t, []string{"Hello", " ", "world"}, deltas)

	// One user message plus exactly one assistant message, not one per delta.
	history := svc.Conversation("s1").History()
	require.Len(t, history, 2)
	assert.Equal(t, models.RoleUser, history[0].Role)
	assert.Equal(t, "hi", history[0].Content)
	assert.Equal(t, "Hello world", history[1].Content)
}

func TestSubmitChatTurnRejectsEmptyInput(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("gateway must not be called for empty input")
	})

	msg, err := svc.SubmitChatTurn(context.Background(), "s1", "   \n\t", nil)

	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Nil(t, msg)
	assert.Empty(t, svc.Conversation("s1").History())
}

func TestSubmitChatTurnFallbackOnTransportFailure(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	msg, err := svc.SubmitChatTurn(context.Background(), "s1", "hi", nil)

	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, fallbackAssistantContent, msg.Content)

	history := svc.Conversation("s1").History()
	require.Len(t, history, 2)
	assert.Equal(t, fallbackAssistantContent, history[1].Content)

	// The in-flight flag is back down: the next turn goes through.
	_, err = svc.SubmitChatTurn(context.Background(), "s1", "again", nil)
	require.NoError(t, err)
}

func TestSubmitChatTurnFallbackOnRateLimit(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusPaymentRequired} {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"upstream"}`))
		})

		msg, err := svc.SubmitChatTurn(context.Background(), "s1", "hi", nil)

		require.NoError(t, err)
		require.NotNil(t, msg)
		assert.Equal(t, fallbackAssistantContent, msg.Content)
	}
}

func TestSubmitChatTurnKeepsPartialOnMidStreamFailure(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(`data: {"choices":[{"delta":{"content":"partial"}}]}` + "\n\n"))
		w.(http.Flusher).Flush()
		// Abort the connection without sending [DONE].
		panic(http.ErrAbortHandler)
	})

	msg, err := svc.SubmitChatTurn(context.Background(), "s1", "hi", nil)

	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "partial", msg.Content)

	history := svc.Conversation("s1").History()
	require.Len(t, history, 2)
	assert.Equal(t, "partial", history[1].Content)
}

func TestSubmitChatTurnAtMostOneInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(`data: {"choices":[{"delta":{"content":"slow"}}]}` + "\n\n"))
		w.(http.Flusher).Flush()
		close(started)
		<-release
		_, _ = w.Write([]byte("data: [DONE]\n\n"))
	})

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_, err := svc.SubmitChatTurn(context.Background(), "s1", "first", nil)
		assert.NoError(t, err)
	}()

	<-started
	msg, err := svc.SubmitChatTurn(context.Background(), "s1", "second", nil)
	assert.ErrorIs(t, err, ErrTurnInFlight)
	assert.Nil(t, msg)

	close(release)
	<-firstDone

	// Only the first turn left a trace.
	history := svc.Conversation("s1").History()
	require.Len(t, history, 2)
	assert.Equal(t, "first", history[0].Content)
	assert.Equal(t, "slow", history[1].Content)
}

func TestSubmitChatTurnSendsSystemPromptAndHistory(t *testing.T) {
	var got completionRequest
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, jsonDecode(r, &got))
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(sseBody("ok")))
	})

	_, err := svc.SubmitChatTurn(context.Background(), "s1", "first", nil)
	require.NoError(t, err)
	_, err = svc.SubmitChatTurn(context.Background(), "s1", "second", nil)
	require.NoError(t, err)

	assert.True(t, got.Stream)
	require.Len(t, got.Messages, 4) // system + first turn pair + new user message
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "first", got.Messages[1].Content)
	assert.Equal(t, "ok", got.Messages[2].Content)
	assert.Equal(t, "second", got.Messages[3].Content)
}

func TestGenerateItinerary(t *testing.T) {
	var got completionRequest
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, jsonDecode(r, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Day 1: Shaniwar Wada"}}]}`))
	})

	content, err := svc.GenerateItinerary(context.Background(), models.ItineraryPreferences{
		Interests: []string{"heritage", "food"},
		Duration:  2,
		Budget:    "medium",
	})

	require.NoError(t, err)
	assert.Equal(t, "Day 1: Shaniwar Wada", content)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 2)
	assert.Contains(t, got.Messages[1].Content, "2-day itinerary")
	assert.Contains(t, got.Messages[1].Content, "heritage, food")
}

func TestGenerateItineraryValidatesPreferences(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("gateway must not be called for invalid preferences")
	})

	_, err := svc.GenerateItinerary(context.Background(), models.ItineraryPreferences{
		Interests: []string{"heritage"},
		Duration:  0,
		Budget:    "medium",
	})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.GenerateItinerary(context.Background(), models.ItineraryPreferences{
		Interests: []string{"heritage"},
		Duration:  3,
		Budget:    "extravagant",
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestGenerateItineraryPropagatesRateLimit(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := svc.GenerateItinerary(context.Background(), models.ItineraryPreferences{
		Interests: []string{"heritage"},
		Duration:  1,
		Budget:    "low",
	})
	assert.ErrorIs(t, err, models.ErrRateLimited)
}
