package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const brevoAPIURL = "https://api.brevo.com/v3/smtp/email"

// BrevoMailer sends transactional email through the Brevo HTTP API.
type BrevoMailer struct {
	apiKey      string
	senderEmail string
	senderName  string
	apiURL      string
	httpClient  *http.Client
}

func NewBrevoMailer(apiKey, senderEmail, senderName string) *BrevoMailer {
	return &BrevoMailer{
		apiKey:      apiKey,
		senderEmail: senderEmail,
		senderName:  senderName,
		apiURL:      brevoAPIURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (m *BrevoMailer) Configured() bool {
	return m.apiKey != "" && m.senderEmail != ""
}

type brevoAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoSendRequest struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
	TextContent string         `json:"textContent,omitempty"`
}

type brevoSendResponse struct {
	MessageID string `json:"messageId"`
}

// Send delivers one email via Brevo. A missing API key is reported as
// ErrNotConfigured without any network call.
func (m *BrevoMailer) Send(ctx context.Context, toEmail, toName, subject, htmlBody, textBody string) (string, error) {
	if !m.Configured() {
		return "", ErrNotConfigured
	}

	payload := brevoSendRequest{
		Sender:      brevoAddress{Name: m.senderName, Email: m.senderEmail},
		To:          []brevoAddress{{Name: toName, Email: toEmail}},
		Subject:     subject,
		HTMLContent: htmlBody,
		TextContent: textBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create send request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", m.apiKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		if IsTimeout(err) {
			return "", fmt.Errorf("timeout sending email: %w", err)
		}
		return "", fmt.Errorf("network error sending email: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", &RejectError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var sendResp brevoSendResponse
	if err := json.Unmarshal(respBody, &sendResp); err != nil {
		// Delivery was accepted; only the message id is lost.
		log.Printf("Failed to decode Brevo response: %v", err)
		return "", nil
	}

	return sendResp.MessageID, nil
}
