package email

import "regexp"

// addressPattern accepts a word-character local part and a dot-separated
// all-letter domain whose final label is at least two letters. This is a
// TLD-shape check, not full RFC 5321 validation.
var addressPattern = regexp.MustCompile(`^\w+@[A-Za-z]+(\.[A-Za-z]+)*\.[A-Za-z]{2,}$`)

// Validate reports whether candidate looks like a mailable address. A
// non-match (including the empty string) is the normal invalid signal, not
// an error.
func Validate(candidate string) bool {
	return addressPattern.MatchString(candidate)
}
