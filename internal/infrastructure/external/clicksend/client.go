package clicksend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fieldops/po-tracker/internal/application/port"
)

const defaultBaseURL = "https://rest.clicksend.com/v3"

// Config holds ClickSend API credentials and message defaults
type Config struct {
	Username string
	APIKey   string
	// Suffix is appended to every message, e.g. the company name.
	Suffix  string
	BaseURL string
}

// Client sends SMS through the ClickSend REST API. It implements
// port.Notifier: sends report success as a bool and never return an error,
// since notification delivery is best-effort throughout the workflow.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new ClickSend client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type smsMessage struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type sendRequest struct {
	Messages []smsMessage `json:"messages"`
}

type sendResponse struct {
	ResponseCode string `json:"response_code"`
	Data         struct {
		Messages []struct {
			To     string `json:"to"`
			Status string `json:"status"`
		} `json:"messages"`
	} `json:"data"`
}

// Send sends a single SMS and reports whether it was accepted
func (c *Client) Send(ctx context.Context, to, message string) bool {
	result := c.SendBulk(ctx, []port.SMSRecipient{{To: to, Message: message}})
	return result.SuccessCount == 1
}

// SendBulk sends a batch of SMS in one API call
func (c *Client) SendBulk(ctx context.Context, recipients []port.SMSRecipient) port.BulkSendResult {
	if len(recipients) == 0 {
		return port.BulkSendResult{}
	}
	if c.cfg.Username == "" || c.cfg.APIKey == "" {
		c.logger.Warn("ClickSend credentials not configured, skipping send",
			zap.Int("recipients", len(recipients)))
		return port.BulkSendResult{FailureCount: len(recipients)}
	}

	req := sendRequest{Messages: make([]smsMessage, 0, len(recipients))}
	for _, rec := range recipients {
		body := rec.Message
		if c.cfg.Suffix != "" {
			body = fmt.Sprintf("%s\n- %s", body, c.cfg.Suffix)
		}
		req.Messages = append(req.Messages, smsMessage{To: rec.To, Body: body})
	}

	resp, err := c.post(ctx, "/sms/send", req)
	if err != nil {
		c.logger.Error("ClickSend send failed", zap.Error(err), zap.Int("recipients", len(recipients)))
		return port.BulkSendResult{FailureCount: len(recipients)}
	}

	var result port.BulkSendResult
	for _, msg := range resp.Data.Messages {
		if msg.Status == "SUCCESS" {
			result.SuccessCount++
		} else {
			result.FailureCount++
			c.logger.Error("ClickSend message rejected",
				zap.String("to", msg.To), zap.String("status", msg.Status))
		}
	}

	// Account for recipients missing from the response.
	if accounted := result.SuccessCount + result.FailureCount; accounted < len(recipients) {
		result.FailureCount += len(recipients) - accounted
	}

	return result
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) (*sendResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.SetBasicAuth(c.cfg.Username, c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", httpResp.StatusCode)
	}

	var resp sendResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp, nil
}

// Verify interface compliance
var _ port.Notifier = (*Client)(nil)
