package console

import (
	"bytes"
	"strings"
	"testing"
)

func TestLine(t *testing.T) {
	var out bytes.Buffer
	p := NewWith(strings.NewReader("hello world\r\n"), &out)

	got, err := p.Line("say something: ")
	if err != nil {
		t.Fatalf("Line failed: %v", err)
	}
	if got != "hello world" {
		t.Errorf("Line = %q, want %q", got, "hello world")
	}
	if out.String() != "say something: " {
		t.Errorf("Prompt output = %q", out.String())
	}
}

func TestLineUntilRetries(t *testing.T) {
	var out bytes.Buffer
	p := NewWith(strings.NewReader("maybe\n  2  \n"), &out)

	got, err := p.LineUntil("choose [1/2]: ", "Enter a valid choice: ", func(s string) bool {
		return s == "1" || s == "2"
	})
	if err != nil {
		t.Fatalf("LineUntil failed: %v", err)
	}
	if got != "2" {
		t.Errorf("LineUntil = %q, want trimmed %q", got, "2")
	}
	if !strings.Contains(out.String(), "Enter a valid choice: ") {
		t.Errorf("Expected retry prompt, got %q", out.String())
	}
}

func TestBodyReadsUntilBlankLine(t *testing.T) {
	var out bytes.Buffer
	p := NewWith(strings.NewReader("first line\nsecond line\n\nignored\n"), &out)

	got, err := p.Body("message: ")
	if err != nil {
		t.Fatalf("Body failed: %v", err)
	}
	if got != "first line\nsecond line\n" {
		t.Errorf("Body = %q", got)
	}
}

func TestBodyTerminatesOnEOF(t *testing.T) {
	var out bytes.Buffer
	p := NewWith(strings.NewReader("only line\n"), &out)

	got, err := p.Body("message: ")
	if err != nil {
		t.Fatalf("Body failed: %v", err)
	}
	if got != "only line\n" {
		t.Errorf("Body = %q", got)
	}
}

func TestYesNo(t *testing.T) {
	var out bytes.Buffer
	p := NewWith(strings.NewReader("what\n Y \n"), &out)

	yes, err := p.YesNo("again? [y/n]: ", "Enter a valid choice [y/n]: ")
	if err != nil {
		t.Fatalf("YesNo failed: %v", err)
	}
	if !yes {
		t.Error("Expected yes for ' Y '")
	}

	p = NewWith(strings.NewReader("n\n"), &out)
	yes, err = p.YesNo("again? [y/n]: ", "Enter a valid choice [y/n]: ")
	if err != nil {
		t.Fatalf("YesNo failed: %v", err)
	}
	if yes {
		t.Error("Expected no for 'n'")
	}
}

func TestPasswordFallsBackToLineRead(t *testing.T) {
	var out bytes.Buffer
	p := NewWith(strings.NewReader("s3cret\n"), &out)

	got, err := p.Password("password: ")
	if err != nil {
		t.Fatalf("Password failed: %v", err)
	}
	if got != "s3cret" {
		t.Errorf("Password = %q", got)
	}
}
