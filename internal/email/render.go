package email

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// placeholderPattern matches {token} markers in a message template.
var placeholderPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// MissingPlaceholderError reports a template placeholder with no bound value
// for a recipient.
type MissingPlaceholderError struct {
	Placeholder string
	Recipient   string
}

func (e *MissingPlaceholderError) Error() string {
	if e.Recipient != "" {
		return fmt.Sprintf("no value for placeholder {%s} for recipient %s", e.Placeholder, e.Recipient)
	}
	return fmt.Sprintf("no value for placeholder {%s}", e.Placeholder)
}

// Render substitutes every placeholder in template with the recipient's
// bound values: {name} binds to the recipient's name, {customN} to the Nth
// custom field (1-based). It is a pure function of its inputs and fails
// with MissingPlaceholderError on the first placeholder without a binding.
func Render(template string, r Recipient) (string, error) {
	var missing *MissingPlaceholderError
	rendered := placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		if missing != nil {
			return m
		}
		token := m[1 : len(m)-1]
		value, ok := bind(token, r)
		if !ok {
			missing = &MissingPlaceholderError{Placeholder: token, Recipient: r.Email}
			return m
		}
		return value
	})
	if missing != nil {
		return "", missing
	}
	return rendered, nil
}

func bind(token string, r Recipient) (string, bool) {
	if token == "name" {
		if !r.HasName {
			return "", false
		}
		return r.Name, true
	}
	if n, ok := strings.CutPrefix(token, "custom"); ok && n != "" {
		idx, err := strconv.Atoi(n)
		if err != nil || idx < 1 || idx > len(r.Custom) {
			return "", false
		}
		return r.Custom[idx-1], true
	}
	return "", false
}
