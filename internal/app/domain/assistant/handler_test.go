package assistant

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProxyRouter(t *testing.T, gateway http.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, _ := newTestService(t, gateway)
	handler := NewHandler(svc)

	r := gin.New()
	r.POST("/api/chat", handler.Completions)
	r.POST("/api/chat/turn", handler.SubmitTurn)
	r.GET("/api/chat/history", handler.History)
	return r
}

func TestCompletionsChatStreamsBodyThrough(t *testing.T) {
	upstream := sseBody("Namaste", "!")
	r := newProxyRouter(t, func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(upstream))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"type":"chat","messages":[{"role":"user","content":"hi"}]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	// The proxy relays the gateway frames untouched.
	assert.Equal(t, upstream, w.Body.String())
}

func TestCompletionsGatewayStatusMapping(t *testing.T) {
	tests := []struct {
		upstreamStatus int
		wantStatus     int
		wantMessage    string
	}{
		{http.StatusTooManyRequests, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later."},
		{http.StatusPaymentRequired, http.StatusPaymentRequired, "Service temporarily unavailable."},
		{http.StatusInternalServerError, http.StatusInternalServerError, "Unknown error"},
	}

	for _, tt := range tests {
		r := newProxyRouter(t, func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(tt.upstreamStatus)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/chat",
			strings.NewReader(`{"type":"chat","messages":[]}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, tt.wantStatus, w.Code)
		assert.Contains(t, w.Body.String(), tt.wantMessage)
	}
}

func TestCompletionsItinerary(t *testing.T) {
	r := newProxyRouter(t, func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Day 1"}}]}`))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"type":"itinerary","preferences":{"interests":["food"],"duration":1,"budget":"low"}}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"content":"Day 1"}`, w.Body.String())
}

func TestCompletionsUnknownType(t *testing.T) {
	r := newProxyRouter(t, func(w http.ResponseWriter, req *http.Request) {
		t.Fatal("gateway must not be called")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"type":"mystery"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitTurnRelaysDeltasAndCommit(t *testing.T) {
	r := newProxyRouter(t, func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(sseBody("Hello", " Pune")))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/turn", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "chat_session", Value: "sess-1"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `event: delta`)
	assert.Contains(t, body, `{"delta":"Hello"}`)
	assert.Contains(t, body, `event: committed`)
	assert.Contains(t, body, "Hello Pune")
}

func TestHistoryEmptySession(t *testing.T) {
	r := newProxyRouter(t, func(w http.ResponseWriter, req *http.Request) {})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/chat/history", nil)
	req.AddCookie(&http.Cookie{Name: "chat_session", Value: "sess-2"})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"messages":[]}`, w.Body.String())
}
