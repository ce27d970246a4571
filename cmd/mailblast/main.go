package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/mkhalidi/mailblast/internal/config"
	"github.com/mkhalidi/mailblast/internal/console"
	"github.com/mkhalidi/mailblast/internal/email"
	"github.com/mkhalidi/mailblast/internal/transport"
)

func main() {
	// Configure logging
	log.SetFlags(log.Ldate | log.Ltime)
	log.SetPrefix("[mailblast] ")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	p := console.New()
	fmt.Println(center("Welcome to your personal emailing system!", 78))

	session, sender, err := login(p, cfg)
	if err != nil {
		log.Fatalf("Failed to log in: %v", err)
	}

	for {
		choice, err := p.LineUntil(
			"Email to one user [1] or to multiple [2]: ",
			"Enter a valid choice: ",
			func(s string) bool { return s == "1" || s == "2" },
		)
		if err != nil {
			log.Fatalf("Failed to read choice: %v", err)
		}

		if choice == "1" {
			err = sendToOne(p, session, sender)
		} else {
			err = sendToGroup(p, session, sender)
		}
		if err != nil {
			fmt.Println(err)
		}

		again, err := p.YesNo(
			"Do you want to send another email? [y/n]: ",
			"Enter a valid choice [y/n]: ",
		)
		if err != nil {
			log.Fatalf("Failed to read choice: %v", err)
		}
		if !again {
			fmt.Println("Logging out")
			if err := session.Close(); err != nil {
				log.Printf("Warning: %v", err)
			}
			return
		}
	}
}

// login prompts for credentials until the transport accepts them. Each
// attempt opens a fresh session; the authenticated one is returned along
// with the operator's address.
func login(p *console.Prompter, cfg *config.Config) (transport.Transport, string, error) {
	for {
		address, err := p.LineUntil("Enter your email: ", "Enter a valid email: ", email.Validate)
		if err != nil {
			return nil, "", err
		}
		secret, err := p.Password("Enter your password: ")
		if err != nil {
			return nil, "", err
		}

		session, err := openTransport(cfg)
		if err != nil {
			return nil, "", err
		}

		if err := session.Authenticate(address, secret); err != nil {
			session.Close()
			var authErr *transport.AuthError
			if errors.As(err, &authErr) {
				fmt.Println("Invalid combination of email and password!")
				continue
			}
			return nil, "", err
		}
		return session, address, nil
	}
}

// openTransport creates the configured delivery transport.
func openTransport(cfg *config.Config) (transport.Transport, error) {
	switch cfg.Delivery.Method {
	case "smtp":
		return transport.DialSMTP(cfg.SMTP.Host, cfg.SMTP.Port)
	case "mailgun":
		return transport.NewMailgunTransport(cfg.Mailgun.Domain, cfg.Mailgun.APIKey)
	default:
		return nil, fmt.Errorf("unknown delivery method: %s", cfg.Delivery.Method)
	}
}

func sendToOne(p *console.Prompter, session transport.Transport, sender string) error {
	recipient, err := p.LineUntil("Enter receiver's email: ", "Enter a valid email: ", email.Validate)
	if err != nil {
		return err
	}
	subject, body, err := promptMessage(p, "Enter the message (Press Enter twice to exit): ")
	if err != nil {
		return err
	}

	if err := email.SendToOne(session, sender, recipient, subject, body); err != nil {
		return err
	}
	fmt.Println("Email sent!")
	fmt.Println(strings.Repeat("-", 50))
	return nil
}

func sendToGroup(p *console.Prompter, session transport.Transport, sender string) error {
	recipients, err := promptRecipients(p)
	if err != nil {
		return err
	}
	if recipients == nil {
		fmt.Println("No Emails Found!")
		return nil
	}

	subject, template, err := promptMessage(p, "Enter your message (Press Enter twice to exit): ")
	if err != nil {
		return err
	}

	report, err := email.SendToGroup(session, sender, recipients, subject, template)
	if err != nil {
		return err
	}
	for _, f := range report.Failures {
		fmt.Printf("Could not send to %s: %v\n", f.Recipient, f.Err)
	}
	if report.Sent > 0 {
		fmt.Println("Email sent!")
	}
	fmt.Println(strings.Repeat("-", 50))
	return nil
}

// promptRecipients asks for a tabular file path until one can be read. A nil
// result with nil error means the file had no usable recipient columns.
func promptRecipients(p *console.Prompter) ([]email.Recipient, error) {
	for {
		path, err := p.Line("Enter file path: ")
		if err != nil {
			return nil, err
		}

		recipients, err := email.LoadRecipientsFile(strings.TrimSpace(path))
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Println("File not found. Please try again.")
			continue
		}
		if errors.Is(err, email.ErrNoQualifyingColumns) || errors.Is(err, email.ErrNoEmailColumn) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if len(recipients) == 0 {
			return nil, nil
		}
		return recipients, nil
	}
}

// promptMessage collects the subject and a blank-line terminated body. The
// subject is uppercased before it goes on the wire.
func promptMessage(p *console.Prompter, bodyPrompt string) (subject, body string, err error) {
	subject, err = p.Line("Enter the subject: ")
	if err != nil {
		return "", "", err
	}
	body, err = p.Body(bodyPrompt)
	if err != nil {
		return "", "", err
	}
	return strings.ToUpper(subject), body, nil
}

func center(s string, width int) string {
	if pad := (width - len(s)) / 2; pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}
