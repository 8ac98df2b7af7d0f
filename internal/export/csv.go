// Package export reads and writes the combined transactions CSV, the
// durable output of a parse run.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finview-dev/finview/internal/model"
)

// Header is the CSV header for the combined transactions file.
const Header = "hash,source_file,date,description,amount,balance"

const (
	numFields  = 6
	dateFormat = "2006-01-02"
	colHash    = 0
	colSource  = 1
	colDate    = 2
	colDesc    = 3
	colAmount  = 4
	colBalance = 5
)

// Write writes transactions (including header) sorted by date,
// description, amount.
func Write(w io.Writer, txns []model.Transaction) error {
	sorted := make([]model.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Description != b.Description {
			return a.Description < b.Description
		}
		return a.Amount.LessThan(b.Amount)
	})

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, txn := range sorted {
		if err := cw.Write(Marshal(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// Read reads all transactions from a combined CSV reader.
func Read(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := Unmarshal(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// Marshal converts a Transaction to a CSV row.
func Marshal(t model.Transaction) []string {
	row := make([]string, numFields)
	row[colHash] = t.Hash
	row[colSource] = t.SourceFile
	row[colDate] = t.Date.Format(dateFormat)
	row[colDesc] = t.Description
	row[colAmount] = t.Amount.StringFixed(2)
	if t.Balance != nil {
		row[colBalance] = t.Balance.StringFixed(2)
	}
	return row
}

// Unmarshal converts a CSV row to a Transaction.
func Unmarshal(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	txn := model.Transaction{
		Hash:        record[colHash],
		SourceFile:  record[colSource],
		Date:        date,
		Description: record[colDesc],
		Amount:      amount,
	}

	if record[colBalance] != "" {
		bal, err := decimal.NewFromString(record[colBalance])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
		}
		txn.Balance = &bal
	}

	return txn, nil
}
