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

// TransactionsParser parses a generic transactions CSV with named
// columns: date, description, amount and an optional balance. Column
// order does not matter; the header row decides.
type TransactionsParser struct{}

// dateLayouts are the accepted date spellings, tried in order.
var dateLayouts = []string{"2006-01-02", "01/02/2006"}

// Format returns the parser name.
func (p *TransactionsParser) Format() string { return "transactions" }

// Parse reads a named-column CSV and returns Transactions in row order.
func (p *TransactionsParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("transactions CSV has no header row")
	}

	cols, err := mapColumns(records[0])
	if err != nil {
		return nil, err
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := cols.parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

type columnMap struct {
	date    int
	desc    int
	amount  int
	balance int // -1 when absent
}

func mapColumns(header []string) (columnMap, error) {
	cols := columnMap{date: -1, desc: -1, amount: -1, balance: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date", "transaction date":
			cols.date = i
		case "description":
			cols.desc = i
		case "amount":
			cols.amount = i
		case "balance":
			cols.balance = i
		}
	}
	if cols.date < 0 || cols.desc < 0 || cols.amount < 0 {
		return cols, fmt.Errorf("transactions CSV needs date, description and amount columns, got %q", strings.Join(header, ","))
	}
	return cols, nil
}

func (c columnMap) parseRow(rec []string) (model.Transaction, error) {
	date, err := parseDate(rec[c.date])
	if err != nil {
		return model.Transaction{}, err
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(rec[c.amount]))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", rec[c.amount], err)
	}

	txn := model.Transaction{
		Date:        date,
		Description: rec[c.desc],
		Amount:      amount,
		SourceKind:  model.SourceCSV,
	}

	if c.balance >= 0 && strings.TrimSpace(rec[c.balance]) != "" {
		bal, err := decimal.NewFromString(strings.TrimSpace(rec[c.balance]))
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing balance %q: %w", rec[c.balance], err)
		}
		txn.Balance = &bal
	}

	return txn, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q: unrecognized layout", s)
}
