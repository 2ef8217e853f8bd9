package assistant

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/pune-companion/internal/app/models"
	"github.com/FACorreiaa/pune-companion/internal/pkg/logger"
)

const sessionCookie = "chat_session"

// Handler exposes the completion proxy and the server-held conversation.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type proxyRequest struct {
	Type        string                      `json:"type"`
	Messages    []models.ChatTurnMessage    `json:"messages"`
	Preferences models.ItineraryPreferences `json:"preferences"`
}

// Completions mirrors the upstream proxy the web client talks to:
// {type:"chat"} streams the gateway body through verbatim as
// text/event-stream, {type:"itinerary"} returns a single {content} JSON.
func (h *Handler) Completions(c *gin.Context) {
	var req proxyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	switch req.Type {
	case "itinerary":
		content, err := h.service.GenerateItinerary(c.Request.Context(), req.Preferences)
		if err != nil {
			h.gatewayError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"content": content})
	case "chat":
		body, err := h.service.client.StreamChat(c.Request.Context(), chatMessages(req.Messages))
		if err != nil {
			h.gatewayError(c, err)
			return
		}
		defer body.Close()

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Status(http.StatusOK)

		buf := make([]byte, 4096)
		for {
			n, readErr := body.Read(buf)
			if n > 0 {
				if _, writeErr := c.Writer.Write(buf[:n]); writeErr != nil {
					return
				}
				c.Writer.Flush()
			}
			if readErr != nil {
				if readErr != io.EOF {
					logger.Log.Warn("Completion proxy stream interrupted", zap.Error(readErr))
				}
				return
			}
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown request type"})
	}
}

// gatewayError maps upstream failures onto client-facing statuses:
// 429 for rate limits, 402 for quota, 500 otherwise.
func (h *Handler) gatewayError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please try again later."})
	case errors.Is(err, models.ErrQuotaExceeded):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Service temporarily unavailable."})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preferences"})
	default:
		logger.Log.Error("Completion gateway failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unknown error"})
	}
}

type turnRequest struct {
	Message string `json:"message"`
}

type turnEvent struct {
	Delta   string `json:"delta,omitempty"`
	Content string `json:"content,omitempty"`
}

// SubmitTurn runs one chat turn through the conversation controller and
// relays the deltas to the browser as an SSE stream. The committed message
// and any attraction mentions arrive in the closing event.
func (h *Handler) SubmitTurn(c *gin.Context) {
	var req turnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sessionID := h.sessionID(c)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	writeEvent := func(event string, payload any) {
		data, err := json.Marshal(payload)
		if err != nil {
			return
		}
		_, _ = c.Writer.WriteString("event: " + event + "\ndata: " + string(data) + "\n\n")
		c.Writer.Flush()
	}

	msg, err := h.service.SubmitChatTurn(c.Request.Context(), sessionID, req.Message, func(delta, accumulated string) {
		writeEvent("delta", turnEvent{Delta: delta})
	})
	switch {
	case errors.Is(err, ErrEmptyMessage):
		writeEvent("error", gin.H{"error": "message cannot be empty"})
		return
	case errors.Is(err, ErrTurnInFlight):
		// Duplicate submission while a turn is active: dropped, history
		// untouched.
		writeEvent("error", gin.H{"error": "a reply is already being generated"})
		return
	case err != nil:
		writeEvent("error", gin.H{"error": "could not process request"})
		return
	}

	if msg == nil {
		writeEvent("done", gin.H{})
		return
	}
	writeEvent("committed", gin.H{
		"message":  msg,
		"mentions": h.service.AttractionMentions(msg.Content),
	})
}

// History returns the session's conversation in turn order.
func (h *Handler) History(c *gin.Context) {
	sessionID := h.sessionID(c)
	c.JSON(http.StatusOK, gin.H{
		"messages": h.service.Conversation(sessionID).History(),
	})
}

// sessionID reads the chat session cookie, minting one on first contact.
func (h *Handler) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		return id
	}
	id := uuid.New().String()
	c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	return id
}
