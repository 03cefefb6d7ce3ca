package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Sender is the outbound side of the transport. Handlers treat sends as
// fire-and-forget: failures are logged by the caller, never fatal.
type Sender interface {
	SendMessage(ctx context.Context, msg SendMessage) error
	EditMessageText(ctx context.Context, msg EditMessageText) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Client talks to the Bot API over HTTP with bounded retries on transient
// failures.
type Client struct {
	baseURL string
	token   string
	http    *retryablehttp.Client
}

func NewClient(baseURL, token string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = 10 * time.Second
	rc.Logger = nil

	return &Client{baseURL: baseURL, token: token, http: rc}
}

func (c *Client) SendMessage(ctx context.Context, msg SendMessage) error {
	return c.call(ctx, "sendMessage", msg)
}

func (c *Client) EditMessageText(ctx context.Context, msg EditMessageText) error {
	return c.call(ctx, "editMessageText", msg)
}

func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	return c.call(ctx, "answerCallbackQuery", AnswerCallbackQuery{
		CallbackQueryID: callbackID,
		Text:            text,
	})
}

func (c *Client) call(ctx context.Context, method string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshal %s: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("telegram: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: %s: %w", method, err)
	}
	defer resp.Body.Close()

	var apiResp struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("telegram: decode %s response: %w", method, err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram: %s failed: %s", method, apiResp.Description)
	}
	return nil
}
