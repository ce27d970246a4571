package transport

import "fmt"

// Transport is an authenticated session with a mail relay. Implementations
// deliver one raw message per Send call; the session is used one call at a
// time and closed by the owner when the operator logs out.
type Transport interface {
	// Authenticate logs in to the relay. A rejected credential pair is
	// reported as *AuthError.
	Authenticate(identity, secret string) error

	// Send delivers rawMessage from sender to recipient. Transport and
	// protocol failures are reported as *DeliveryError.
	Send(from, to, rawMessage string) error

	Close() error
}

// AuthError reports a rejected login attempt.
type AuthError struct {
	Identity string
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed for %s: %v", e.Identity, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// DeliveryError reports a failed send for a single recipient.
type DeliveryError struct {
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver to %s: %v", e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
