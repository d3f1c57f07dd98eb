package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultSendGridBaseURL = "https://api.sendgrid.com"

// SendGrid delivers via the SendGrid v3 mail send API.
type SendGrid struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// SendGridOption customises the client.
type SendGridOption func(*SendGrid)

// WithBaseURL points the client at a different endpoint, used in tests.
func WithBaseURL(u string) SendGridOption {
	return func(s *SendGrid) { s.baseURL = strings.TrimRight(u, "/") }
}

// NewSendGrid creates a SendGrid deliverer authenticated with apiKey.
func NewSendGrid(apiKey string, timeout time.Duration, opts ...SendGridOption) *SendGrid {
	s := &SendGrid{
		apiKey:  apiKey,
		baseURL: defaultSendGridBaseURL,
		http:    &http.Client{Timeout: timeout},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type sgAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sgPersonalization struct {
	To []sgAddress `json:"to"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sgMail struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgAddress           `json:"from"`
	ReplyTo          *sgAddress          `json:"reply_to,omitempty"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
}

// Send submits the message to the mail send endpoint. Any status outside
// the 2xx range is a rejection and returned as an error.
func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	payload := sgMail{
		Personalizations: []sgPersonalization{{To: []sgAddress{{Email: msg.To}}}},
		From:             sgAddress{Email: msg.FromEmail, Name: msg.FromName},
		Subject:          msg.Subject,
		Content:          []sgContent{{Type: "text/html", Value: msg.HTMLBody}},
	}
	if msg.ReplyTo != "" {
		payload.ReplyTo = &sgAddress{Email: msg.ReplyTo}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sendgrid rejected message: status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
