package transport

// SentMessage records one Send call made against a Mock transport.
type SentMessage struct {
	From string
	To   string
	Raw  string
}

// Mock is a Transport that records sends for tests.
type Mock struct {
	Sent     []SentMessage
	AuthErr  error
	SendErr  map[string]error // per-recipient send failures
	Closed   bool
	Identity string
}

func (m *Mock) Authenticate(identity, secret string) error {
	if m.AuthErr != nil {
		return m.AuthErr
	}
	m.Identity = identity
	return nil
}

func (m *Mock) Send(from, to, rawMessage string) error {
	if err := m.SendErr[to]; err != nil {
		return err
	}
	m.Sent = append(m.Sent, SentMessage{From: from, To: to, Raw: rawMessage})
	return nil
}

func (m *Mock) Close() error {
	m.Closed = true
	return nil
}
