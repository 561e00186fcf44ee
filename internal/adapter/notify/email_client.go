// Package notify holds the outbound collaborator clients used by the
// notification worker: a transactional email API and an operator chat
// webhook. Both are fire-and-forget from the reconciler's point of view.
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

type EmailClient struct {
	apiURL string
	apiKey string
	from   string
	http   *http.Client
}

func NewEmailClient(apiURL, apiKey, from string, timeout time.Duration) *EmailClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &EmailClient{
		apiURL: apiURL,
		apiKey: apiKey,
		from:   from,
		http:   &http.Client{Timeout: timeout},
	}
}

type sendEmailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func (c *EmailClient) Send(ctx context.Context, to, subject, htmlBody string) error {
	body, err := json.Marshal(sendEmailRequest{From: c.from, To: to, Subject: subject, HTML: htmlBody})
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email api status %d: %s", resp.StatusCode, raw)
	}
	return nil
}
