// Package completion is a client for OpenAI-compatible chat-completions APIs (Groq by default).
package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/AFARIMINTAH/Safehaven/internal/model"
)

const (
	// MsgProcessingFailed is the caller-facing message for transport and status failures.
	MsgProcessingFailed = "Error processing your message"
	// MsgEmptyResponse is the caller-facing message when the reply has no content.
	MsgEmptyResponse = "Empty response from assistant."
)

// Options configures a Client.
type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// Client calls POST {BaseURL}/chat/completions.
type Client struct {
	http        *resty.Client
	model       string
	temperature float64
	hasKey      bool
}

// New returns a Client. It never retries; each Complete is exactly one upstream call.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if opts.APIKey != "" {
		c.SetAuthToken(opts.APIKey)
	}
	return &Client{http: c, model: opts.Model, temperature: opts.Temperature, hasKey: opts.APIKey != ""}
}

type chatRequest struct {
	Model       string              `json:"model"`
	Messages    []model.ChatMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the full message list and returns the trimmed content of the first choice.
// Failures are *model.UpstreamError.
func (c *Client) Complete(ctx context.Context, messages []model.ChatMessage) (string, error) {
	reqBody := chatRequest{Model: c.model, Messages: messages, Temperature: c.temperature}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&reqBody).
		Post("/chat/completions")
	if err != nil {
		return "", &model.UpstreamError{Message: MsgProcessingFailed, Details: err.Error(), Err: err}
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return "", &model.UpstreamError{
			Message: MsgProcessingFailed,
			Details: fmt.Sprintf("status %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String())),
		}
	}

	var cr chatResponse
	if err := json.Unmarshal(resp.Body(), &cr); err != nil {
		return "", &model.UpstreamError{Message: MsgProcessingFailed, Details: "decode response: " + err.Error(), Err: err}
	}
	if len(cr.Choices) == 0 {
		return "", &model.UpstreamError{Message: MsgEmptyResponse}
	}
	content := strings.TrimSpace(cr.Choices[0].Message.Content)
	if content == "" {
		return "", &model.UpstreamError{Message: MsgEmptyResponse}
	}
	return content, nil
}

// HealthPing implements health.HealthPinger by listing models.
func (c *Client) HealthPing(ctx context.Context) error {
	if !c.hasKey {
		return fmt.Errorf("completion API key not configured")
	}
	resp, err := c.http.R().SetContext(ctx).Get("/models")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("completion status %d", resp.StatusCode())
	}
	return nil
}
