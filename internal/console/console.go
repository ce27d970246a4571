// Package console implements the line-based operator protocol: plain
// prompts, masked password entry, retry-until-valid loops and blank-line
// terminated message bodies.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter reads operator input one line at a time.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	// stdinFd is the file descriptor used for masked password reads, or -1
	// when the input is not the process stdin.
	stdinFd int
}

// New returns a Prompter on the process stdin/stdout.
func New() *Prompter {
	return &Prompter{
		in:      bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		stdinFd: int(os.Stdin.Fd()),
	}
}

// NewWith returns a Prompter over arbitrary streams, used by tests.
func NewWith(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, stdinFd: -1}
}

// Line prints the prompt and reads one line, stripped of its line ending.
// A final unterminated line before EOF is still returned.
func (p *Prompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// LineUntil re-prompts until accept returns true for the trimmed input. The
// first round uses prompt; every retry uses the retry prompt.
func (p *Prompter) LineUntil(prompt, retry string, accept func(string) bool) (string, error) {
	current := prompt
	for {
		line, err := p.Line(current)
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if accept(line) {
			return line, nil
		}
		current = retry
	}
}

// Password reads a credential without echo when stdin is a terminal, and
// falls back to a plain line read otherwise (pipes, tests).
func (p *Prompter) Password(prompt string) (string, error) {
	if p.stdinFd >= 0 && term.IsTerminal(p.stdinFd) {
		fmt.Fprint(p.out, prompt)
		secret, err := term.ReadPassword(p.stdinFd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}
	return p.Line(prompt)
}

// Body prints the prompt and collects lines until the first empty line
// (press Enter twice). EOF also terminates the body. Every collected line
// keeps a trailing newline.
func (p *Prompter) Body(prompt string) (string, error) {
	first, err := p.Line(prompt)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	var b strings.Builder
	b.WriteString(first)
	b.WriteString("\n")
	for {
		line, err := p.Line("")
		if err != nil || line == "" {
			break
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// YesNo asks a y/n question, trimmed and case-insensitive, re-prompting on
// anything else. It returns true for yes.
func (p *Prompter) YesNo(prompt, retry string) (bool, error) {
	answer, err := p.LineUntil(prompt, retry, func(s string) bool {
		s = strings.ToLower(s)
		return s == "y" || s == "n"
	})
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y"), nil
}
