// Package notify posts text notifications to chat webhooks. Two
// independent platforms are supported, Feishu and DingTalk; both are thin
// JSON-POST wrappers with a shared timeout and client-side rate limit.
// There is no retry: a failed delivery is an error, nothing more.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"lntools/logging"
)

// DefaultTimeout bounds a single webhook delivery.
const DefaultTimeout = 10 * time.Second

// Option tweaks a client.
type Option func(*client)

// WithTimeout replaces the delivery timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *client) { c.httpc.Timeout = d }
}

// WithRateLimit caps deliveries per second (burst 1). Zero disables the
// limiter.
func WithRateLimit(rps float64) Option {
	return func(c *client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithLogger replaces the registry logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *client) { c.logger = l }
}

type client struct {
	webhook string
	httpc   *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func newClient(webhook, component string, opts []Option) *client {
	c := &client{
		webhook: webhook,
		httpc:   &http.Client{Timeout: DefaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(5), 1),
		logger:  logging.Component(component),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// post delivers one JSON payload. Each delivery is logged under a unique
// id so failures can be correlated with platform-side logs.
func (c *client) post(ctx context.Context, payload any) error {
	if c.webhook == "" {
		return fmt.Errorf("webhook URL is empty")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhook, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	deliveryID := uuid.NewString()
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Error("notification delivery failed",
			slog.String("delivery_id", deliveryID),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("notification rejected",
			slog.String("delivery_id", deliveryID),
			slog.Int("status", resp.StatusCode))
		return fmt.Errorf("notification rejected with status %d", resp.StatusCode)
	}

	c.logger.Info("notification sent", slog.String("delivery_id", deliveryID))
	return nil
}

// Feishu sends text messages to a Feishu group webhook.
type Feishu struct {
	*client
}

// NewFeishu builds a Feishu client for the given webhook URL.
func NewFeishu(webhook string, opts ...Option) *Feishu {
	return &Feishu{client: newClient(webhook, "notify.feishu", opts)}
}

// Send posts a plain-text message.
func (f *Feishu) Send(ctx context.Context, message string) error {
	return f.post(ctx, map[string]any{
		"msg_type": "text",
		"content":  map[string]string{"text": message},
	})
}

// DingTalk sends text messages to a DingTalk group webhook.
type DingTalk struct {
	*client
}

// NewDingTalk builds a DingTalk client for the given webhook URL.
func NewDingTalk(webhook string, opts ...Option) *DingTalk {
	return &DingTalk{client: newClient(webhook, "notify.dingtalk", opts)}
}

// Send posts a plain-text message.
func (d *DingTalk) Send(ctx context.Context, message string) error {
	return d.post(ctx, map[string]any{
		"msgtype": "text",
		"text":    map[string]string{"content": message},
	})
}
