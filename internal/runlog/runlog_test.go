package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(file, status string, n int) Entry {
	return Entry{
		Timestamp:    time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
		File:         file,
		Format:       "boa-credit",
		Transactions: n,
		Status:       status,
	}
}

func TestAppendAndRead(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, Append(root, []Entry{entry("a.pdf", StatusParsed, 12)}))
	require.NoError(t, Append(root, []Entry{
		entry("b.pdf", StatusEmpty, 0),
		{
			Timestamp: time.Date(2025, 1, 15, 10, 31, 0, 0, time.UTC),
			File:      "c.pdf",
			Status:    StatusFailed,
			Detail:    "opening pdf: malformed",
		},
	}))

	entries, err := Read(root)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "a.pdf", entries[0].File)
	assert.Equal(t, StatusParsed, entries[0].Status)
	assert.Equal(t, 12, entries[0].Transactions)
	assert.True(t, entries[0].Timestamp.Equal(time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)))

	assert.Equal(t, StatusFailed, entries[2].Status)
	assert.Equal(t, "opening pdf: malformed", entries[2].Detail)
}

func TestAppend_WritesHeaderOnce(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, Append(root, []Entry{entry("a.pdf", StatusParsed, 1)}))
	require.NoError(t, Append(root, []Entry{entry("b.pdf", StatusParsed, 2)}))

	data, err := os.ReadFile(filepath.Join(root, "logs", "run-log.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header))
}

func TestRead_Missing(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_BadRow(t *testing.T) {
	_, err := UnmarshalEntry([]string{"not-a-time", "f", "fmt", "1", "parsed", ""})
	require.Error(t, err)

	_, err = UnmarshalEntry([]string{"2025-01-15T10:30:00Z", "f", "fmt", "x", "parsed", ""})
	require.Error(t, err)

	_, err = UnmarshalEntry([]string{"too", "few"})
	require.Error(t, err)
}
