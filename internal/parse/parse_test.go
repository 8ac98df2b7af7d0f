package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finview-dev/finview/internal/model"
	"github.com/finview-dev/finview/internal/statement"
)

const chaseText = "Manage your account online at www.chase.com\n" +
	"Page2 of 3\n" +
	"01/04 NETFLIX.COM 15.49\n" +
	"01/12 AUTOMATIC PAYMENT - THANK -300.00\n" +
	"Total fees charged in 2025 $0.00\n"

func TestText_AutoDetect(t *testing.T) {
	txns, err := Text("20250125-statements-4421-.pdf", chaseText, "")
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, "NETFLIX.COM", txns[0].Description)
	assert.Equal(t, model.SourcePDF, txns[0].SourceKind)
	assert.NotEmpty(t, txns[0].Hash)
	assert.Equal(t, "20250125-statements-4421-.pdf", txns[0].SourceFile)
}

func TestText_ExplicitFormat(t *testing.T) {
	txns, err := Text("stmt.pdf", chaseText, statement.FormatChaseCredit)
	require.NoError(t, err)
	assert.Len(t, txns, 2)
}

func TestText_UnknownFormat(t *testing.T) {
	_, err := Text("stmt.pdf", chaseText, "citibank")
	var mismatch *statement.FormatMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "citibank", mismatch.Format)
}

func TestText_WrongFormatForText(t *testing.T) {
	_, err := Text("stmt.pdf", chaseText, statement.FormatBoACredit)
	var mismatch *statement.FormatMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestCSV_DefaultFormat(t *testing.T) {
	data := []byte("Date,Description,Amount\n2024-01-05,COFFEE SHOP,-4.50\n")

	txns, err := CSV("export.csv", data, "")
	require.NoError(t, err)
	require.Len(t, txns, 1)

	assert.Equal(t, "COFFEE SHOP", txns[0].Description)
	assert.Equal(t, model.SourceCSV, txns[0].SourceKind)
	assert.Equal(t, "export.csv", txns[0].SourceFile)
	assert.NotEmpty(t, txns[0].Hash)
}

func TestCSV_UnknownFormat(t *testing.T) {
	_, err := CSV("export.csv", []byte("x"), "quicken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quicken")
}

func TestFile_RoutesByExtension(t *testing.T) {
	csvData := []byte("Date,Description,Amount\n2024-01-05,COFFEE SHOP,-4.50\n")

	txns, err := File("Export.CSV", csvData, "")
	require.NoError(t, err)
	assert.Len(t, txns, 1)

	_, err = File("statement.docx", nil, "")
	var unsupported *UnsupportedFileTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Contains(t, unsupported.Error(), ".docx")
}

func TestFile_BadPDFBytes(t *testing.T) {
	_, err := File("statement.pdf", []byte("not a pdf"), "")
	require.Error(t, err)
}
