package email

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
)

// Header vocabularies for column role resolution. Matching is exact after
// lowercasing and trimming; no partial or fuzzy matches.
var (
	emailHeaders = []string{"email", "emails", "email address", "email addresses"}
	nameHeaders  = []string{"name", "names"}
)

var (
	// ErrNoQualifyingColumns means neither a name nor an email column was
	// found in the header row.
	ErrNoQualifyingColumns = errors.New("no recipients found: no qualifying columns in header")

	// ErrNoEmailColumn means a name column was found but no email column; a
	// name-only list cannot be mailed.
	ErrNoEmailColumn = errors.New("no recipients found: name column present but no email column")
)

// Recipient is one addressable entry extracted from tabular input. Name is
// only meaningful when HasName is set, and Custom holds every column that
// resolved to neither role, in low-to-high column order.
type Recipient struct {
	Name    string
	HasName bool
	Email   string
	Custom  []string
}

// LengthMismatchError reports recipient-associated sequences of unequal
// length. The batch is unusable; nothing is sent.
type LengthMismatchError struct {
	Field string
	Want  int
	Got   int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("recipient list length mismatch: %s has %d entries, want %d", e.Field, e.Got, e.Want)
}

// columnIndex returns the first header cell matching the vocabulary, or -1.
func columnIndex(header, vocab []string) int {
	for i, cell := range header {
		cell = strings.ToLower(strings.TrimSpace(cell))
		for _, v := range vocab {
			if cell == v {
				return i
			}
		}
	}
	return -1
}

// LoadRecipients extracts recipient records from tabular rows. Row 0 is the
// header. Columns that resolve to neither the name nor the email role become
// custom fields, so {custom1} in a template is the first such column.
func LoadRecipients(rows [][]string) ([]Recipient, error) {
	if len(rows) == 0 {
		return nil, ErrNoQualifyingColumns
	}

	header := rows[0]
	emailIdx := columnIndex(header, emailHeaders)
	nameIdx := columnIndex(header, nameHeaders)

	if emailIdx < 0 {
		if nameIdx >= 0 {
			return nil, ErrNoEmailColumn
		}
		return nil, ErrNoQualifyingColumns
	}

	recipients := make([]Recipient, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, &LengthMismatchError{
				Field: fmt.Sprintf("row %d", n+1),
				Want:  len(header),
				Got:   len(row),
			}
		}

		r := Recipient{Email: strings.TrimSpace(row[emailIdx])}
		if nameIdx >= 0 {
			r.Name = strings.TrimSpace(row[nameIdx])
			r.HasName = true
		}
		for i, cell := range row {
			if i == emailIdx || i == nameIdx {
				continue
			}
			r.Custom = append(r.Custom, cell)
		}
		recipients = append(recipients, r)
	}

	customCols := len(header) - 1
	if nameIdx >= 0 {
		customCols--
	}
	log.Printf("Loaded %d recipients (name column: %v, custom columns: %d)",
		len(recipients), nameIdx >= 0, customCols)
	return recipients, nil
}

// LoadRecipientsFile reads a UTF-8 CSV file with a header row and extracts
// recipients from it. A missing file surfaces as an fs.ErrNotExist error so
// callers can re-prompt for the path.
func LoadRecipientsFile(path string) ([]Recipient, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return LoadRecipients(rows)
}

// NewBatch builds recipient records from parallel slices: one slice of
// addresses, an optional slice of names (nil for a nameless batch), and any
// number of custom columns. Every non-nil slice must match len(emails);
// a violation fails with LengthMismatchError before anything is sent.
func NewBatch(names, emails []string, customs ...[]string) ([]Recipient, error) {
	if names != nil && len(names) != len(emails) {
		return nil, &LengthMismatchError{Field: "names", Want: len(emails), Got: len(names)}
	}
	for i, col := range customs {
		if len(col) != len(emails) {
			return nil, &LengthMismatchError{
				Field: fmt.Sprintf("custom%d", i+1),
				Want:  len(emails),
				Got:   len(col),
			}
		}
	}

	recipients := make([]Recipient, len(emails))
	for i, addr := range emails {
		r := Recipient{Email: addr}
		if names != nil {
			r.Name = names[i]
			r.HasName = true
		}
		for _, col := range customs {
			r.Custom = append(r.Custom, col[i])
		}
		recipients[i] = r
	}
	return recipients, nil
}
