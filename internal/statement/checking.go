package statement

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finview-dev/finview/internal/model"
)

// Bank of America checking statements list transactions under three
// named sections, with descriptions that wrap across lines and the
// amount printed at the end of the final line of each entry.

var (
	checkingDateStartRe  = regexp.MustCompile(`^(\d{2}/\d{2}/\d{2})\s+(.*)`)
	checkingAmountTailRe = regexp.MustCompile(`(-?\$?\d[\d,]*\.\d{2})\s*$`)
	trailingDateRe       = regexp.MustCompile(`\s*\b\d{2}/\d{2}/\d{2}\b\s*$`)
	trailingJunkRe       = regexp.MustCompile(`[\s-]+$`)

	checkingSections = []string{
		"deposits and other additions",
		"atm and debit card subtractions",
		"other subtractions",
	}

	checkingNoisePrefixes = []string{
		"page ",
		"customer service information",
		"important information",
		"bank deposit accounts",
		"total deposits and other additions",
		"total atm and debit card subtractions",
		"total other subtractions",
	}
)

const checkingDateLayout = "01/02/06"

// pendingRow accumulates a transaction whose description wraps lines.
type pendingRow struct {
	date  string
	parts []string
}

func extractChecking(text string, f Format, opts Options) ([]model.Transaction, error) {
	var (
		txns    []model.Transaction
		pending *pendingRow
		inside  bool
	)

	finalize := func(line string) (bool, error) {
		if pending == nil {
			return false, nil
		}
		m := checkingAmountTailRe.FindStringSubmatchIndex(line)
		if m == nil {
			return false, nil
		}
		amtTok := strings.NewReplacer("$", "", ",", "").Replace(line[m[2]:m[3]])
		amount, err := decimal.NewFromString(amtTok)
		if err != nil {
			return false, &MalformedLineError{Format: f.Name, Line: line, Field: "amount", Err: err}
		}

		date, err := time.Parse(checkingDateLayout, pending.date)
		if err != nil {
			return false, &MalformedLineError{Format: f.Name, Line: line, Field: "date", Err: err}
		}

		if extra := strings.TrimSpace(line[:m[0]]); extra != "" {
			pending.parts = append(pending.parts, extra)
		}
		desc := cleanCheckingDescription(strings.Join(pending.parts, " "), amount)

		txns = append(txns, model.Transaction{
			Date:        time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
			Description: desc,
			Amount:      amount,
			SourceFile:  opts.SourceFile,
		})
		pending = nil
		return true, nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		low := strings.ToLower(line)

		if isCheckingNoise(low) {
			continue
		}

		if sectionHeader(low) {
			inside = true
			pending = nil
			continue
		}

		if !inside {
			continue
		}

		if m := checkingDateStartRe.FindStringSubmatch(line); m != nil {
			// A new dated row discards any pending row that never
			// produced an amount.
			pending = &pendingRow{date: m[1], parts: []string{strings.TrimSpace(m[2])}}
			if _, err := finalize(line[len(m[1]):]); err != nil {
				return nil, err
			}
			continue
		}

		if pending != nil {
			done, err := finalize(line)
			if err != nil {
				return nil, err
			}
			if !done {
				pending.parts = append(pending.parts, line)
			}
		}
	}

	return txns, nil
}

func isCheckingNoise(low string) bool {
	if strings.Contains(low, "continued on the next page") {
		return true
	}
	if low == "date description amount" {
		return true
	}
	for _, p := range checkingNoisePrefixes {
		if strings.HasPrefix(low, p) {
			return true
		}
	}
	return false
}

func sectionHeader(low string) bool {
	for _, h := range checkingSections {
		if strings.Contains(low, h) {
			return true
		}
	}
	return false
}

var descCutRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bID:`),
	regexp.MustCompile(`(?i)\bConf#`),
	regexp.MustCompile(`;`),
}

// cleanCheckingDescription strips tokens the PDF text runs into the
// description column: trailing transfer IDs, confirmation numbers, a
// repeat of the amount, and stray date tokens.
func cleanCheckingDescription(desc string, amount decimal.Decimal) string {
	s := collapseSpaces(desc)

	cut := -1
	for _, re := range descCutRes {
		if loc := re.FindStringIndex(s); loc != nil && (cut == -1 || loc[0] < cut) {
			cut = loc[0]
		}
	}

	abs := amount.Abs().StringFixed(2)
	for _, v := range []string{withThousands(abs), abs, "-" + withThousands(abs), "-" + abs} {
		if idx := strings.Index(s, v); idx >= 0 {
			if cut == -1 || idx < cut {
				cut = idx
			}
			break
		}
	}

	if cut >= 0 {
		s = strings.TrimRight(s[:cut], " ")
	}

	s = trailingDateRe.ReplaceAllString(s, "")
	s = collapseSpaces(s)
	return trailingJunkRe.ReplaceAllString(s, "")
}

// withThousands inserts comma separators into a fixed-point amount
// string like "1190.00" -> "1,190.00".
func withThousands(s string) string {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		dot = len(s)
	}
	intPart, rest := s[:dot], s[dot:]
	if len(intPart) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	b.WriteString(rest)
	return b.String()
}
