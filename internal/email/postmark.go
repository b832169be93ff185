// Package email provides Postmark email provider.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PostmarkProvider implements the Provider interface for Postmark.
type PostmarkProvider struct {
	apiKey string
	from   string
}

func NewPostmarkProvider(apiKey, from string) *PostmarkProvider {
	return &PostmarkProvider{apiKey: apiKey, from: from}
}

type postmarkEmail struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	TextBody string `json:"TextBody,omitempty"`
	HtmlBody string `json:"HtmlBody,omitempty"`
}

type postmarkResponse struct {
	ErrorCode int    `json:"ErrorCode"`
	Message   string `json:"Message"`
}

// SendEmail sends an email via the Postmark API.
func (p *PostmarkProvider) SendEmail(ctx context.Context, email *Email) error {
	payload, err := json.Marshal(postmarkEmail{
		From:     p.from,
		To:       email.To,
		Subject:  email.Subject,
		TextBody: email.Text,
		HtmlBody: email.HTML,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.postmarkapp.com/email", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", p.apiKey)

	body, status, err := doRequest(req, 30*time.Second)
	if err != nil {
		return err
	}

	var decoded postmarkResponse
	_ = json.Unmarshal(body, &decoded)
	if status != http.StatusOK || decoded.ErrorCode != 0 {
		if decoded.Message != "" {
			return fmt.Errorf("postmark error: %s", decoded.Message)
		}
		return fmt.Errorf("postmark API returned status %d: %s", status, string(body))
	}
	return nil
}

// ValidateAPIKey checks the server token against the server endpoint.
func (p *PostmarkProvider) ValidateAPIKey(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://api.postmarkapp.com/server", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", p.apiKey)

	body, status, err := doRequest(req, 10*time.Second)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("invalid API key: received status %d: %s", status, string(body))
	}
	return nil
}
