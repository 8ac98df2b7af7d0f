package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceKind identifies where a transaction came from.
type SourceKind string

const (
	SourcePDF   SourceKind = "pdf"
	SourceCSV   SourceKind = "csv"
	SourcePlaid SourceKind = "plaid"
)

// Transaction represents one parsed statement row.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal  // statement sign convention: negative = debit, positive = credit
	Balance     *decimal.Decimal // running balance, nil when the layout has none
	SourceFile  string
	SourceKind  SourceKind
	Hash        string // dedup identity, see txid
}
