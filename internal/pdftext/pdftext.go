// Package pdftext extracts plain text from bank statement PDFs. The
// statement parser works on text only; no PDF structure leaks past
// this package.
package pdftext

import (
	"bytes"
	"fmt"

	"github.com/dslipak/pdf"
)

// Extract returns the text of every page, joined with newlines. Pages
// whose text cannot be decoded are skipped, matching how scanned or
// partially damaged statements print.
func Extract(data []byte) (text string, err error) {
	defer recoverParse(&err)
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	return pagesText(r), nil
}

// ExtractFile reads a PDF from disk and returns its text.
func ExtractFile(path string) (text string, err error) {
	defer recoverParse(&err)
	r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf %s: %w", path, err)
	}
	return pagesText(r), nil
}

// The pdf reader panics on some malformed files. Surface that as an
// error so a bad upload cannot take the process down.
func recoverParse(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("malformed pdf: %v", r)
	}
}

func pagesText(r *pdf.Reader) string {
	var b bytes.Buffer
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String()
}
