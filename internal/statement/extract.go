package statement

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finview-dev/finview/internal/model"
)

// Options carries per-statement context for extraction.
type Options struct {
	// SourceFile is the statement file name. A YYYY-MM-DD or
	// YYYYMMDD-statements- prefix supplies the year for layouts whose
	// printed dates carry none.
	SourceFile string

	// Now anchors year recovery when the file name has no date.
	// Zero means time.Now().
	Now time.Time
}

// Extract converts statement text into transactions in printed order.
// It is a pure function of its inputs: an empty transaction section
// yields an empty sequence, a wrong format yields FormatMismatchError,
// and a transaction-shaped row with a bad date or amount aborts with
// MalformedLineError.
func Extract(text string, f Format, opts Options) ([]model.Transaction, error) {
	if f.Name == "" {
		return nil, &FormatMismatchError{Reason: "no format selected"}
	}
	if !strings.Contains(strings.ToLower(text), f.marker) {
		return nil, &FormatMismatchError{Format: f.Name, Reason: fmt.Sprintf("missing %q marker", f.marker)}
	}

	if f.row == nil {
		return extractChecking(text, f, opts)
	}

	section := boundSection(text, f.sectionFrom, f.sectionTo)

	stmtDate := statementDate(opts)

	var txns []model.Transaction
	for _, m := range f.row.pattern.FindAllStringSubmatch(section, -1) {
		dateTok := m[f.row.dateGroup]
		day, err := time.Parse(f.row.dateLayout, dateTok)
		if err != nil {
			return nil, &MalformedLineError{Format: f.Name, Line: strings.TrimSpace(m[0]), Field: "date", Err: err}
		}

		amtTok := m[f.row.amtGroup]
		amount, err := decimal.NewFromString(amtTok)
		if err != nil {
			return nil, &MalformedLineError{Format: f.Name, Line: strings.TrimSpace(m[0]), Field: "amount", Err: err}
		}

		date := day
		if f.row.yearless {
			date = time.Date(resolveYear(stmtDate, day.Month()), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		}

		txns = append(txns, model.Transaction{
			Date:        date,
			Description: collapseSpaces(m[f.row.descGroup]),
			Amount:      amount,
			SourceFile:  opts.SourceFile,
		})
	}
	return txns, nil
}

// boundSection returns the lines between the from and to markers. The
// scan is a single forward pass: before the section, inside it, done.
// Statements that split the listing oddly may omit a marker; the whole
// text is scanned then, matching the printed originals.
func boundSection(text, from, to string) string {
	if from == "" && to == "" {
		return text
	}

	const (
		before = iota
		inside
	)
	state := before
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		switch state {
		case before:
			if strings.Contains(line, from) {
				state = inside
			}
		case inside:
			if to != "" && strings.Contains(line, to) {
				return b.String()
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	if state == before {
		// Start marker never appeared; fall back to the full text.
		return text
	}
	return b.String()
}

func statementDate(opts Options) time.Time {
	if d, ok := StatementDate(opts.SourceFile); ok {
		return d
	}
	if !opts.Now.IsZero() {
		return opts.Now
	}
	return time.Now()
}

// resolveYear assigns the statement's year to a yearless transaction
// date. December rows on a January statement belong to the prior year.
func resolveYear(stmt time.Time, month time.Month) int {
	year := stmt.Year()
	if stmt.Month() == time.January && month == time.December {
		year--
	}
	return year
}

var spacesRe = regexp.MustCompile(`\s+`)

func collapseSpaces(s string) string {
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}
