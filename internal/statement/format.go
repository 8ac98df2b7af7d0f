// Package statement converts bank statement text into ordered
// transaction sequences. Each supported bank layout is described by a
// Format: detection markers, the markers bounding the transaction
// section, and the row pattern applied inside it.
package statement

import (
	"regexp"
	"strings"
)

// Format names. The set is closed; callers select by name or via Detect.
const (
	FormatBoACredit   = "boa-credit"
	FormatBoAChecking = "boa-checking"
	FormatChaseCredit = "chase-credit"
)

// rowSpec describes a single-pattern row layout (credit card statements).
type rowSpec struct {
	pattern    *regexp.Regexp
	dateGroup  int
	descGroup  int
	amtGroup   int
	dateLayout string // layout of the captured date token
	yearless   bool   // date token carries no year; recovered from the statement date
}

// Format describes one bank statement layout.
type Format struct {
	Name string
	Bank string

	// marker identifies the bank on the page, lowercase. Extraction
	// refuses text that lacks it (wrong format selected).
	marker string

	// sectionFrom/sectionTo bound the transaction listing. When either
	// marker is absent the whole text is scanned, matching the printed
	// statements that split the listing across pages.
	sectionFrom string
	sectionTo   string

	row *rowSpec // nil for sectioned layouts (BoA checking)
}

// formats holds the closed set of supported layouts, dispatched by name.
var formats = map[string]Format{
	FormatBoACredit: {
		Name:        FormatBoACredit,
		Bank:        "Bank of America",
		marker:      "www.bankofamerica.com",
		sectionFrom: "Page 3 of",
		sectionTo:   "TOTAL PURCHASES AND ADJUSTMENTS",
		row: &rowSpec{
			// txn date, posting date, description, reference, account, amount
			pattern:    regexp.MustCompile(`(\d{2}/\d{2})\s(\d{2}/\d{2})\s([\w\s\.\*\-]+?)\s(\d{4})\s(\d{4})\s(-?\d+\.\d{2})`),
			dateGroup:  1,
			descGroup:  3,
			amtGroup:   6,
			dateLayout: "01/02",
			yearless:   true,
		},
	},
	FormatChaseCredit: {
		Name:        FormatChaseCredit,
		Bank:        "Chase",
		marker:      "www.chase.com",
		sectionFrom: "Page2 of",
		sectionTo:   "Total fees charged",
		row: &rowSpec{
			pattern:    regexp.MustCompile(`(\d{2}/\d{2})\s+(.*?)\s+(-?\d+\.\d{2})`),
			dateGroup:  1,
			descGroup:  2,
			amtGroup:   3,
			dateLayout: "01/02",
			yearless:   true,
		},
	},
	FormatBoAChecking: {
		Name:   FormatBoAChecking,
		Bank:   "Bank of America",
		marker: "bankofamerica.com",
	},
}

// Lookup returns the format with the given name.
func Lookup(name string) (Format, bool) {
	f, ok := formats[strings.ToLower(name)]
	return f, ok
}

// Names returns the supported format names.
func Names() []string {
	return []string{FormatBoACredit, FormatBoAChecking, FormatChaseCredit}
}

// Detect picks a format from the statement text by its bank markers.
// Credit card statements carry the www. domain; checking statements
// mention the bare domain only, so the more specific marker wins.
func Detect(text string) (Format, error) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "www.bankofamerica.com"):
		return formats[FormatBoACredit], nil
	case strings.Contains(lower, "bankofamerica.com"):
		return formats[FormatBoAChecking], nil
	case strings.Contains(lower, "www.chase.com"):
		return formats[FormatChaseCredit], nil
	}
	return Format{}, &FormatMismatchError{Reason: "no known bank marker found"}
}
