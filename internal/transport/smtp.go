package transport

import (
	"fmt"
	"io"
	"log"
	"net"
	"strconv"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// SMTPTransport delivers mail through an SMTP relay over a STARTTLS session.
type SMTPTransport struct {
	client *smtp.Client
	addr   string
}

// DialSMTP connects to the relay and negotiates STARTTLS. The returned
// transport is unauthenticated until Authenticate succeeds.
func DialSMTP(host string, port int) (*SMTPTransport, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	log.Printf("Connecting to SMTP relay at %s", addr)

	client, err := smtp.DialStartTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	log.Printf("Connected to %s, STARTTLS negotiated", addr)

	return &SMTPTransport{client: client, addr: addr}, nil
}

// Authenticate performs SASL PLAIN auth with the relay.
func (t *SMTPTransport) Authenticate(identity, secret string) error {
	if err := t.client.Auth(sasl.NewPlainClient("", identity, secret)); err != nil {
		log.Printf("Authentication rejected for %s: %v", identity, err)
		return &AuthError{Identity: identity, Err: err}
	}
	log.Printf("Authenticated with %s as %s", t.addr, identity)
	return nil
}

// Send runs one MAIL/RCPT/DATA transaction. On failure the session is reset
// so the next recipient in a batch can still be attempted.
func (t *SMTPTransport) Send(from, to, rawMessage string) error {
	if err := t.client.Mail(from, nil); err != nil {
		return t.sendFailed(to, fmt.Errorf("MAIL FROM rejected: %w", err))
	}
	if err := t.client.Rcpt(to, nil); err != nil {
		return t.sendFailed(to, fmt.Errorf("RCPT TO rejected: %w", err))
	}

	w, err := t.client.Data()
	if err != nil {
		return t.sendFailed(to, fmt.Errorf("failed to start data transaction: %w", err))
	}
	if _, err := io.WriteString(w, rawMessage); err != nil {
		w.Close()
		return t.sendFailed(to, fmt.Errorf("failed to write message: %w", err))
	}
	if err := w.Close(); err != nil {
		return t.sendFailed(to, fmt.Errorf("failed to close data transaction: %w", err))
	}

	log.Printf("Delivered message to %s via %s", to, t.addr)
	return nil
}

func (t *SMTPTransport) sendFailed(to string, err error) error {
	if resetErr := t.client.Reset(); resetErr != nil {
		log.Printf("Warning: failed to reset session after send error: %v", resetErr)
	}
	return &DeliveryError{Recipient: to, Err: err}
}

// Close sends QUIT and tears down the connection.
func (t *SMTPTransport) Close() error {
	log.Printf("Closing SMTP session with %s", t.addr)
	if err := t.client.Quit(); err != nil {
		return fmt.Errorf("failed to close connection cleanly: %w", err)
	}
	return nil
}
