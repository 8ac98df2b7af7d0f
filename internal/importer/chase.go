package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finview-dev/finview/internal/model"
)

// ChaseCheckingParser parses Chase checking CSV exports.
type ChaseCheckingParser struct{}

const (
	chaseDateFormat = "01/02/2006"
	chaseNumFields  = 7
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
	chaseColBalance = 5
)

// Format returns the parser name.
func (p *ChaseCheckingParser) Format() string { return "chase-checking" }

// Parse reads a Chase checking CSV and returns Transactions.
func (p *ChaseCheckingParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := parseChaseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseChaseRow(rec []string) (model.Transaction, error) {
	date, err := time.Parse(chaseDateFormat, rec[chaseColDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", rec[chaseColDate], err)
	}

	amount, err := decimal.NewFromString(rec[chaseColAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", rec[chaseColAmount], err)
	}

	txn := model.Transaction{
		Date:        date,
		Description: rec[chaseColDesc],
		Amount:      amount,
		SourceKind:  model.SourceCSV,
	}

	if bal := strings.TrimSpace(rec[chaseColBalance]); bal != "" {
		b, err := decimal.NewFromString(bal)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing balance %q: %w", rec[chaseColBalance], err)
		}
		txn.Balance = &b
	}

	return txn, nil
}
