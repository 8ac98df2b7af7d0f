package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finview-dev/finview/internal/export"
	"github.com/finview-dev/finview/internal/importer"
	"github.com/finview-dev/finview/internal/model"
	"github.com/finview-dev/finview/internal/runlog"
)

func writeImportFile(t *testing.T, dir, name, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "import"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", name), []byte(data), 0o644))
}

func readCombinedCSV(t *testing.T, dir string) []model.Transaction {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, "output", "transactions.csv"))
	require.NoError(t, err)
	defer f.Close()
	txns, err := export.Read(f)
	require.NoError(t, err)
	return txns
}

func TestRunImport(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "finview.yaml")
	writeImportFile(t, dir, "jan.csv", "Date,Description,Amount\n2024-01-05,COFFEE SHOP,-4.50\n")

	require.NoError(t, runImport(dir, cfgPath, ""))

	txns := readCombinedCSV(t, dir)
	require.Len(t, txns, 1)
	assert.Equal(t, "COFFEE SHOP", txns[0].Description)
	assert.Equal(t, "-4.50", txns[0].Amount.StringFixed(2))
	assert.Equal(t, "jan.csv", txns[0].SourceFile)
	assert.NotEmpty(t, txns[0].Hash)

	// The file moved to import/processed/ and the queue is empty.
	_, err := os.Stat(filepath.Join(dir, "import", "processed", "jan.csv"))
	require.NoError(t, err)
	files, err := importer.Scan(dir)
	require.NoError(t, err)
	assert.Empty(t, files)

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, runlog.StatusParsed, entries[0].Status)
	assert.Equal(t, 1, entries[0].Transactions)
	assert.Equal(t, "transactions", entries[0].Format)
}

func TestRunImport_MergesIntoExistingCombined(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "finview.yaml")

	writeImportFile(t, dir, "jan.csv", "Date,Description,Amount\n2024-01-05,COFFEE SHOP,-4.50\n")
	require.NoError(t, runImport(dir, cfgPath, ""))

	writeImportFile(t, dir, "feb.csv", "Date,Description,Amount\n2024-02-01,RENT,-1800.00\n")
	require.NoError(t, runImport(dir, cfgPath, ""))

	txns := readCombinedCSV(t, dir)
	require.Len(t, txns, 2)
	// The combined CSV stays date-sorted across runs.
	assert.Equal(t, "COFFEE SHOP", txns[0].Description)
	assert.Equal(t, "RENT", txns[1].Description)
}

func TestRunImport_BadFileStaysQueued(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "finview.yaml")
	writeImportFile(t, dir, "broken.csv", "Date,Description,Amount\nnot-a-date,X,1.00\n")

	require.NoError(t, runImport(dir, cfgPath, ""))

	// Nothing imported, so no combined CSV is written.
	_, err := os.Stat(filepath.Join(dir, "output", "transactions.csv"))
	assert.True(t, os.IsNotExist(err))

	// The broken file stays in the queue for a fixed export.
	files, err := importer.Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "broken.csv", files[0].Name)

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, runlog.StatusFailed, entries[0].Status)
	assert.Contains(t, entries[0].Detail, "row 2")
}

func TestRunImport_EmptyQueue(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runImport(dir, filepath.Join(dir, "finview.yaml"), ""))

	_, err := os.Stat(filepath.Join(dir, "output", "transactions.csv"))
	assert.True(t, os.IsNotExist(err))
}
