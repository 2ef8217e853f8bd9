package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/FACorreiaa/pune-companion/internal/app/models"
	"github.com/FACorreiaa/pune-companion/internal/pkg/config"
)

// Client talks to the upstream completion gateway (OpenAI wire format).
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
	logger     *zap.Logger
}

func NewClient(cfg config.GatewayConfig, logger *zap.Logger) *Client {
	return &Client{
		// Bounds the whole request, streamed body included, so an idle
		// upstream cannot pin a turn open forever.
		httpClient: &http.Client{Timeout: cfg.Timeout},
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		logger:     logger,
	}
}

type completionRequest struct {
	Model    string                   `json:"model"`
	Messages []models.ChatTurnMessage `json:"messages"`
	Stream   bool                     `json:"stream"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) post(ctx context.Context, messages []models.ChatTurnMessage, stream bool) (*http.Response, error) {
	body, err := json.Marshal(completionRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   stream,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call completion gateway: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("Completion gateway error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", errBody),
		)
		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			return nil, models.ErrRateLimited
		case http.StatusPaymentRequired:
			return nil, models.ErrQuotaExceeded
		default:
			return nil, fmt.Errorf("completion gateway returned status %d", resp.StatusCode)
		}
	}

	return resp, nil
}

// StreamChat opens a streaming completion. The caller owns the returned body
// and must close it.
func (c *Client) StreamChat(ctx context.Context, messages []models.ChatTurnMessage) (io.ReadCloser, error) {
	resp, err := c.post(ctx, messages, true)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Complete performs a non-streaming completion and extracts the single
// message content from the response.
func (c *Client) Complete(ctx context.Context, messages []models.ChatTurnMessage) (string, error) {
	resp, err := c.post(ctx, messages, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return fallbackItineraryContent, nil
	}
	return parsed.Choices[0].Message.Content, nil
}
