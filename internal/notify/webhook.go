// Package notify delivers enrollment changes to an external webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/idtoken"

	"github.com/octobees/fitness-studio/api/internal/logger"
)

// Enrollment actions.
const (
	ActionEnrolled    = "enrolled"
	ActionDisenrolled = "disenrolled"
)

// Enrollment is the payload posted after a committed enroll or disenroll.
type Enrollment struct {
	GymEventID uuid.UUID `json:"gym_event_id"`
	UserID     uuid.UUID `json:"user_id"`
	Action     string    `json:"action"`
}

// Notifier publishes enrollment changes.
type Notifier interface {
	EnrollmentChanged(ctx context.Context, e Enrollment) error
}

// WebhookClient posts JSON payloads to the configured webhook base URL.
type WebhookClient struct {
	client  *http.Client
	baseURL string
}

// NewWebhookClient builds a client, using a Google ID-token client when no
// explicit http.Client is supplied and credentials are available.
func NewWebhookClient(client *http.Client, baseURL string) (*WebhookClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("webhook base url must not be empty")
	}
	if client == nil {
		idc, err := idtoken.NewClient(context.Background(), baseURL)
		if err != nil {
			client = &http.Client{Timeout: 10 * time.Second}
		} else {
			client = idc
		}
	}
	return &WebhookClient{client: client, baseURL: baseURL}, nil
}

// EnrollmentChanged posts e to {baseURL}/enrollments.
func (c *WebhookClient) EnrollmentChanged(ctx context.Context, e Enrollment) error {
	return c.PostJSON(ctx, "/enrollments", e)
}

// PostJSON posts payload to path, forwarding the request id found in ctx.
func (c *WebhookClient) PostJSON(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if rid := logger.RequestIDFromContext(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook error: status %d: %s", resp.StatusCode, readError(resp.Body))
	}
	return nil
}

func readError(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "no body"
	}
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &parsed) == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return strings.TrimSpace(string(raw))
}

// Noop drops every notification.
type Noop struct{}

func (Noop) EnrollmentChanged(context.Context, Enrollment) error { return nil }

var (
	_ Notifier = (*WebhookClient)(nil)
	_ Notifier = Noop{}
)
