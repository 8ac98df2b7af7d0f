// Package parse routes an uploaded file to the right parser: PDF
// statements through text extraction and the format scanner, CSV
// exports through the importer.
package parse

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/finview-dev/finview/internal/importer"
	"github.com/finview-dev/finview/internal/model"
	"github.com/finview-dev/finview/internal/pdftext"
	"github.com/finview-dev/finview/internal/statement"
	"github.com/finview-dev/finview/internal/txid"
)

// UnsupportedFileTypeError reports a file that is neither a PDF nor a
// CSV.
type UnsupportedFileTypeError struct {
	Name string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %q (want .pdf or .csv)", filepath.Ext(e.Name))
}

// File parses file bytes by extension. formatName selects a statement
// format or CSV parser explicitly; empty means auto-detect for PDFs
// and the named-column parser for CSVs. Transactions come back in
// source order with hashes stamped.
func File(name string, data []byte, formatName string) ([]model.Transaction, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return PDF(name, data, formatName)
	case ".csv":
		return CSV(name, data, formatName)
	default:
		return nil, &UnsupportedFileTypeError{Name: name}
	}
}

// PDF extracts text from statement bytes and runs the format scanner.
func PDF(name string, data []byte, formatName string) ([]model.Transaction, error) {
	text, err := pdftext.Extract(data)
	if err != nil {
		return nil, err
	}
	return Text(name, text, formatName)
}

// Text runs the statement extractor over already-extracted text.
func Text(name, text, formatName string) ([]model.Transaction, error) {
	var (
		f   statement.Format
		err error
	)
	if formatName == "" {
		f, err = statement.Detect(text)
		if err != nil {
			return nil, err
		}
	} else {
		var ok bool
		f, ok = statement.Lookup(formatName)
		if !ok {
			return nil, &statement.FormatMismatchError{Format: formatName, Reason: "unknown format"}
		}
	}

	txns, err := statement.Extract(text, f, statement.Options{SourceFile: name})
	if err != nil {
		return nil, err
	}
	for i := range txns {
		txns[i].SourceKind = model.SourcePDF
	}
	txid.Stamp(txns)
	return txns, nil
}

// CSV parses CSV bytes with the named parser, defaulting to the
// generic named-column layout.
func CSV(name string, data []byte, formatName string) ([]model.Transaction, error) {
	if formatName == "" {
		formatName = "transactions"
	}
	p := importer.DefaultRegistry().Get(formatName)
	if p == nil {
		return nil, fmt.Errorf("unknown CSV format %q", formatName)
	}

	txns, err := p.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	for i := range txns {
		txns[i].SourceFile = name
	}
	txid.Stamp(txns)
	return txns, nil
}
