package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finview-dev/finview/internal/model"
)

func txn(date string, desc string, amount string) model.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return model.Transaction{
		Date:        d,
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		SourceFile:  "stmt.pdf",
		Hash:        "abc123",
	}
}

func TestWriteSortsByDate(t *testing.T) {
	txns := []model.Transaction{
		txn("2024-02-01", "LATER", "5.00"),
		txn("2024-01-05", "B ROW", "1.00"),
		txn("2024-01-05", "A ROW", "2.00"),
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, txns))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, Header, lines[0])
	assert.Contains(t, lines[1], "A ROW")
	assert.Contains(t, lines[2], "B ROW")
	assert.Contains(t, lines[3], "LATER")
}

func TestWriteRead_RoundTrip(t *testing.T) {
	bal := decimal.RequireFromString("1190.00")
	in := txn("2024-01-05", "COFFEE SHOP", "-4.50")
	in.Balance = &bal

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []model.Transaction{in}))

	out, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.True(t, in.Date.Equal(out[0].Date))
	assert.Equal(t, in.Description, out[0].Description)
	assert.True(t, in.Amount.Equal(out[0].Amount))
	assert.Equal(t, in.SourceFile, out[0].SourceFile)
	assert.Equal(t, in.Hash, out[0].Hash)
	require.NotNil(t, out[0].Balance)
	assert.True(t, bal.Equal(*out[0].Balance))
}

func TestRead_HeaderOnly(t *testing.T) {
	out, err := Read(strings.NewReader(Header + "\n"))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRead_BadRow(t *testing.T) {
	in := Header + "\nabc123,stmt.pdf,not-a-date,DESC,1.00,\n"
	_, err := Read(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestUnmarshal_FieldCount(t *testing.T) {
	_, err := Unmarshal([]string{"too", "few"})
	require.Error(t, err)
}
