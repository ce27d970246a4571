package email

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mkhalidi/mailblast/internal/transport"
)

func TestBuildMessage(t *testing.T) {
	got := BuildMessage("HELLO", "line one\nline two\n")
	want := "Subject: HELLO\r\n\r\nline one\r\nline two\r\n"
	if got != want {
		t.Errorf("BuildMessage = %q, want %q", got, want)
	}
}

func TestSendToOne(t *testing.T) {
	mock := &transport.Mock{}

	err := SendToOne(mock, "admin@x.com", "ann@x.com", "HELLO", "Hi Ann\n")
	if err != nil {
		t.Fatalf("SendToOne failed: %v", err)
	}
	if len(mock.Sent) != 1 {
		t.Fatalf("Expected 1 send, got %d", len(mock.Sent))
	}
	sent := mock.Sent[0]
	if sent.From != "admin@x.com" || sent.To != "ann@x.com" {
		t.Errorf("Unexpected envelope: from=%s to=%s", sent.From, sent.To)
	}
	if sent.Raw != "Subject: HELLO\r\n\r\nHi Ann\r\n" {
		t.Errorf("Unexpected message: %q", sent.Raw)
	}
}

func TestSendToOneRejectsInvalidAddress(t *testing.T) {
	mock := &transport.Mock{}

	if err := SendToOne(mock, "admin@x.com", "not-an-email", "HELLO", "Hi\n"); err == nil {
		t.Fatal("Expected error for invalid recipient address")
	}
	if len(mock.Sent) != 0 {
		t.Errorf("Expected no sends, got %d", len(mock.Sent))
	}
}

func TestSendToGroup(t *testing.T) {
	mock := &transport.Mock{}
	recipients, err := NewBatch(
		[]string{"Ann", "Bob"},
		[]string{"ann@x.com", "bob@x.com"},
		[]string{"a toaster", "a kettle"},
	)
	if err != nil {
		t.Fatalf("NewBatch failed: %v", err)
	}

	report, err := SendToGroup(mock, "admin@x.com", recipients, "PRIZES", "Dear {name}, you won {custom1}.\n")
	if err != nil {
		t.Fatalf("SendToGroup failed: %v", err)
	}
	if report.Sent != 2 || len(report.Failures) != 0 {
		t.Fatalf("Expected 2 sends and no failures, got %d/%d", report.Sent, len(report.Failures))
	}

	// Sends happen in recipient-list order with per-recipient rendering.
	if mock.Sent[0].To != "ann@x.com" || mock.Sent[1].To != "bob@x.com" {
		t.Errorf("Sends out of order: %s, %s", mock.Sent[0].To, mock.Sent[1].To)
	}
	if mock.Sent[1].Raw != "Subject: PRIZES\r\n\r\nDear Bob, you won a kettle.\r\n" {
		t.Errorf("Unexpected rendered message: %q", mock.Sent[1].Raw)
	}
}

func TestSendToGroupContinuesAfterDeliveryFailure(t *testing.T) {
	mock := &transport.Mock{
		SendErr: map[string]error{
			"ann@x.com": &transport.DeliveryError{Recipient: "ann@x.com", Err: fmt.Errorf("mailbox full")},
		},
	}
	recipients, err := NewBatch(nil, []string{"ann@x.com", "bob@x.com"})
	if err != nil {
		t.Fatalf("NewBatch failed: %v", err)
	}

	report, err := SendToGroup(mock, "admin@x.com", recipients, "HELLO", "Hi all\n")
	if err != nil {
		t.Fatalf("SendToGroup failed: %v", err)
	}
	if report.Sent != 1 {
		t.Errorf("Expected 1 successful send, got %d", report.Sent)
	}
	if len(report.Failures) != 1 || report.Failures[0].Recipient != "ann@x.com" {
		t.Fatalf("Expected one failure for ann@x.com, got %+v", report.Failures)
	}
	if len(mock.Sent) != 1 || mock.Sent[0].To != "bob@x.com" {
		t.Errorf("Expected bob@x.com to still receive mail, got %+v", mock.Sent)
	}
}

func TestSendToGroupAbortsOnMissingPlaceholderBeforeAnySend(t *testing.T) {
	mock := &transport.Mock{}
	recipients, err := NewBatch(nil, []string{"ann@x.com", "bob@x.com"})
	if err != nil {
		t.Fatalf("NewBatch failed: %v", err)
	}

	_, err = SendToGroup(mock, "admin@x.com", recipients, "HELLO", "Dear {name}\n")
	var missing *MissingPlaceholderError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected MissingPlaceholderError, got %v", err)
	}
	if len(mock.Sent) != 0 {
		t.Errorf("Expected zero sends before the abort, got %d", len(mock.Sent))
	}
}

func TestLengthMismatchHappensBeforeAnySend(t *testing.T) {
	mock := &transport.Mock{}

	recipients, err := NewBatch([]string{"A", "B"}, []string{"a@x.com"})
	var mismatch *LengthMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Expected LengthMismatchError, got %v", err)
	}
	if recipients != nil {
		t.Errorf("Expected no batch on mismatch, got %+v", recipients)
	}
	if len(mock.Sent) != 0 {
		t.Errorf("Expected zero transport calls, got %d", len(mock.Sent))
	}
}
