package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finview-dev/finview/internal/export"
	"github.com/finview-dev/finview/internal/runlog"
)

func writeFile(t *testing.T, path string, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestRun_ProblemFiles(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "statements")
	output := filepath.Join(root, "output")

	// Neither file is a real PDF; both end up in the problems report.
	writeFile(t, filepath.Join(input, "boa-card", "2025-01-25 eStmt.pdf"), "not a pdf")
	writeFile(t, filepath.Join(input, "chase-card", "20250125-statements-4421-.pdf"), "still not a pdf")
	writeFile(t, filepath.Join(input, "boa-card", "notes.txt"), "ignored")

	r := &Runner{InputDir: input, OutputDir: output, Workers: 2, LogRoot: root}
	result, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Files)
	assert.Equal(t, 0, result.Parsed)
	require.Len(t, result.Problems, 2)

	// Problems sort by group then file.
	assert.Equal(t, "boa-card", result.Problems[0].Group)
	assert.Equal(t, "chase-card", result.Problems[1].Group)
	assert.Contains(t, result.Problems[0].Reason, runlog.StatusFailed)

	// The combined CSV is written even when nothing parsed.
	f, err := os.Open(filepath.Join(output, "transactions.csv"))
	require.NoError(t, err)
	defer f.Close()
	txns, err := export.Read(f)
	require.NoError(t, err)
	assert.Empty(t, txns)

	report, err := os.ReadFile(filepath.Join(output, "problem_pdfs.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(report), "boa-card")
	assert.Contains(t, string(report), "2025-01-25 eStmt.pdf")

	entries, err := runlog.Read(root)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, runlog.StatusFailed, entries[0].Status)
}

func TestRun_EmptyInput(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "statements")
	require.NoError(t, os.MkdirAll(input, 0o755))

	r := &Runner{InputDir: input, OutputDir: filepath.Join(root, "output")}
	result, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Files)
	assert.Empty(t, result.Problems)

	// No problems report when there are no problems.
	_, err = os.Stat(filepath.Join(root, "output", "problem_pdfs.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_MissingInputDir(t *testing.T) {
	r := &Runner{InputDir: filepath.Join(t.TempDir(), "nope"), OutputDir: t.TempDir()}
	_, err := r.Run(context.Background())
	require.Error(t, err)
}

func TestGroupByDir(t *testing.T) {
	groups := groupByDir([]string{
		filepath.Join("in", "chase", "a.pdf"),
		filepath.Join("in", "boa", "b.pdf"),
		filepath.Join("in", "boa", "c.pdf"),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, "boa", groups[0].name)
	assert.Len(t, groups[0].files, 2)
	assert.Equal(t, "chase", groups[1].name)
}
