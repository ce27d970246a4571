package email

import (
	"fmt"
	"log"
	"strings"

	"github.com/mkhalidi/mailblast/internal/transport"
)

// BuildMessage assembles the raw wire message: a Subject header, a blank
// line, then the body with CRLF line endings.
func BuildMessage(subject, body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\n", "\r\n")
	return fmt.Sprintf("Subject: %s\r\n\r\n%s", subject, body)
}

// SendToOne delivers a single message over the transport.
func SendToOne(t transport.Transport, from, to, subject, body string) error {
	if !Validate(to) {
		return fmt.Errorf("invalid recipient address: %q", to)
	}
	return t.Send(from, to, BuildMessage(subject, body))
}

// SendFailure records one recipient whose delivery failed.
type SendFailure struct {
	Recipient string
	Err       error
}

// GroupReport summarizes a group send.
type GroupReport struct {
	Sent     int
	Failures []SendFailure
}

// SendToGroup renders the template for every recipient, then delivers one
// message per recipient in list order. The whole batch is rendered before
// the first send, so a missing placeholder aborts with zero messages sent.
// Delivery failures after that point are collected per recipient and do not
// stop the rest of the batch.
func SendToGroup(t transport.Transport, from string, recipients []Recipient, subject, template string) (*GroupReport, error) {
	messages := make([]string, len(recipients))
	for i, r := range recipients {
		body, err := Render(template, r)
		if err != nil {
			return nil, err
		}
		messages[i] = BuildMessage(subject, body)
	}

	report := &GroupReport{}
	for i, r := range recipients {
		if err := t.Send(from, r.Email, messages[i]); err != nil {
			log.Printf("Send to %s failed: %v", r.Email, err)
			report.Failures = append(report.Failures, SendFailure{Recipient: r.Email, Err: err})
			continue
		}
		report.Sent++
	}
	log.Printf("Group send finished: %d delivered, %d failed", report.Sent, len(report.Failures))
	return report, nil
}
