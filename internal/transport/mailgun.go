package transport

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

// MailgunTransport delivers mail through the Mailgun HTTP API instead of a
// raw SMTP session. The operator's password prompt supplies the API key.
type MailgunTransport struct {
	mg     mailgun.Mailgun
	domain string
	apiKey string
}

// NewMailgunTransport creates an unauthenticated Mailgun transport for the
// given sending domain. An apiKey from configuration may be empty; in that
// case the key is taken from the credential supplied to Authenticate.
func NewMailgunTransport(domain, apiKey string) (*MailgunTransport, error) {
	if domain == "" {
		return nil, fmt.Errorf("mailgun domain is required")
	}
	return &MailgunTransport{domain: domain, apiKey: apiKey}, nil
}

// Authenticate validates the API key against the Mailgun API. The key is
// probed with a stats request so a bad key is caught before any send.
func (t *MailgunTransport) Authenticate(identity, secret string) error {
	key := t.apiKey
	if key == "" {
		key = secret
	}
	if key == "" {
		return &AuthError{Identity: identity, Err: fmt.Errorf("no API key provided")}
	}

	log.Printf("Initializing Mailgun with domain: %s", t.domain)
	mg := mailgun.NewMailgun(t.domain, key)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := mg.GetStats(ctx, []string{"accepted", "delivered"}, &mailgun.GetStatOptions{})
	if err != nil {
		if strings.Contains(err.Error(), "401") {
			return &AuthError{Identity: identity, Err: fmt.Errorf("Mailgun rejected the API key: %w", err)}
		}
		return fmt.Errorf("failed to validate Mailgun credentials: %w", err)
	}

	t.mg = mg
	t.apiKey = key
	log.Printf("Authenticated with Mailgun for domain %s", t.domain)
	return nil
}

// Send submits one message to the Mailgun API. The raw wire message is split
// back into subject and body since the API takes them separately.
func (t *MailgunTransport) Send(from, to, rawMessage string) error {
	if t.mg == nil {
		return &DeliveryError{Recipient: to, Err: fmt.Errorf("transport is not authenticated")}
	}

	subject, body := splitMessage(rawMessage)
	message := t.mg.NewMessage(from, subject, body, to)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, id, err := t.mg.Send(ctx, message)
	if err != nil {
		return &DeliveryError{Recipient: to, Err: err}
	}
	log.Printf("Delivered message to %s via Mailgun with message ID: %s", to, id)
	return nil
}

func (t *MailgunTransport) Close() error {
	// The Mailgun API is stateless; nothing to tear down.
	return nil
}

// splitMessage separates the Subject header from the body of a raw message.
// Messages without a subject header are treated as all body.
func splitMessage(raw string) (subject, body string) {
	lines := strings.Split(raw, "\r\n")
	var bodyStart int
	for i, line := range lines {
		if line == "" {
			bodyStart = i + 1
			break
		}
		if idx := strings.Index(line, ":"); idx > 0 {
			if strings.EqualFold(strings.TrimSpace(line[:idx]), "Subject") {
				subject = strings.TrimSpace(line[idx+1:])
			}
		}
	}
	if bodyStart == 0 {
		return subject, raw
	}
	return subject, strings.Join(lines[bodyStart:], "\r\n")
}
