package statement

import "fmt"

// FormatMismatchError reports text that does not match the selected
// bank layout at all (wrong format chosen, or no format recognized).
type FormatMismatchError struct {
	Format string // empty when auto-detection found nothing
	Reason string
}

func (e *FormatMismatchError) Error() string {
	if e.Format == "" {
		return "no statement format matched: " + e.Reason
	}
	return fmt.Sprintf("text does not match %s layout: %s", e.Format, e.Reason)
}

// MalformedLineError reports a line that has the shape of a transaction
// row but carries an invalid date or amount. Extraction is strict: the
// first malformed line aborts the whole statement.
type MalformedLineError struct {
	Format string
	Line   string
	Field  string
	Err    error
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("%s: malformed %s in row %q: %v", e.Format, e.Field, e.Line, e.Err)
}

func (e *MalformedLineError) Unwrap() error { return e.Err }
