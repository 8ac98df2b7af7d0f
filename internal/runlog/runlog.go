// Package runlog keeps an append-only CSV record of batch parse runs:
// which file, which format, how many rows, and what went wrong.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Status values for an Entry.
const (
	StatusParsed   = "parsed"
	StatusEmpty    = "empty"
	StatusNoFormat = "no-format"
	StatusFailed   = "failed"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp    time.Time
	File         string
	Format       string
	Transactions int
	Status       string
	Detail       string
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,file,format,transactions,status,detail"

const (
	numFields    = 6
	logDir       = "logs"
	logFile      = "logs/run-log.csv"
	colTimestamp = 0
	colFile      = 1
	colFormat    = 2
	colTxns      = 3
	colStatus    = 4
	colDetail    = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colFile] = e.File
	row[colFormat] = e.Format
	row[colTxns] = strconv.Itoa(e.Transactions)
	row[colStatus] = e.Status
	row[colDetail] = e.Detail
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	n, err := strconv.Atoi(record[colTxns])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing transactions %q: %w", record[colTxns], err)
	}

	return Entry{
		Timestamp:    ts,
		File:         record[colFile],
		Format:       record[colFormat],
		Transactions: n,
		Status:       record[colStatus],
		Detail:       record[colDetail],
	}, nil
}

// Append writes entries to <workRoot>/logs/run-log.csv, creating the
// file and header if needed.
func Append(workRoot string, entries []Entry) error {
	dir := filepath.Join(workRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(workRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <workRoot>/logs/run-log.csv.
// Returns nil if the file does not exist.
func Read(workRoot string) ([]Entry, error) {
	path := filepath.Join(workRoot, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
