package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ChatClient posts operator alerts to an incoming-webhook style chat
// endpoint.
type ChatClient struct {
	webhookURL string
	http       *http.Client
}

func NewChatClient(webhookURL string, timeout time.Duration) *ChatClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ChatClient{webhookURL: webhookURL, http: &http.Client{Timeout: timeout}}
}

func (c *ChatClient) Alert(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("chat webhook status %d: %s", resp.StatusCode, raw)
	}
	return nil
}
