// Package batch runs the folder pipeline: every statement PDF under
// the input directory is parsed, results are merged into one combined
// CSV, and files that would not parse end up in a problems report.
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/finview-dev/finview/internal/export"
	"github.com/finview-dev/finview/internal/model"
	"github.com/finview-dev/finview/internal/parse"
	"github.com/finview-dev/finview/internal/pdftext"
	"github.com/finview-dev/finview/internal/runlog"
	"github.com/finview-dev/finview/internal/statement"
)

// CombinedFile is the merged transactions CSV written to the output
// directory. The import command appends to the same file.
const CombinedFile = "transactions.csv"

const (
	defaultWorkers = 8
	problemsFile   = "problem_pdfs.txt"
)

// Problem records a file that produced no usable transactions.
type Problem struct {
	Group  string
	File   string
	Reason string
}

// Result summarizes one pipeline run.
type Result struct {
	Files        int
	Parsed       int
	Transactions []model.Transaction
	Problems     []Problem
}

// Runner executes the pipeline for one workspace.
type Runner struct {
	InputDir  string
	OutputDir string
	Workers   int
	LogRoot   string // workspace root for the run log; empty disables it
	Logger    *zap.Logger
}

// Run parses every PDF under InputDir and writes the combined CSV and
// problems report to OutputDir.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := r.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	files, err := findPDFs(r.InputDir)
	if err != nil {
		return nil, err
	}
	logger.Info("found statement files", zap.Int("count", len(files)))

	result := &Result{Files: len(files)}
	var (
		mu      sync.Mutex
		entries []runlog.Entry
	)

	// Files are grouped by their immediate parent directory, one
	// statement account per folder.
	for _, group := range groupByDir(files) {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)

		for _, file := range group.files {
			file := file
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				txns, entry := parseOne(file)
				entry.File = relOrBase(r.InputDir, file)

				mu.Lock()
				defer mu.Unlock()
				entries = append(entries, entry)
				if entry.Status == runlog.StatusParsed {
					result.Parsed++
					result.Transactions = append(result.Transactions, txns...)
				} else {
					result.Problems = append(result.Problems, Problem{
						Group:  group.name,
						File:   entry.File,
						Reason: entry.Status + ": " + entry.Detail,
					})
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		logger.Info("group done", zap.String("group", group.name), zap.Int("files", len(group.files)))
	}

	sort.Slice(result.Problems, func(i, j int) bool {
		a, b := result.Problems[i], result.Problems[j]
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		return a.File < b.File
	})

	if err := r.writeOutputs(result); err != nil {
		return nil, err
	}

	if r.LogRoot != "" && len(entries) > 0 {
		sort.Slice(entries, func(i, j int) bool { return entries[i].File < entries[j].File })
		if err := runlog.Append(r.LogRoot, entries); err != nil {
			logger.Warn("writing run log failed", zap.Error(err))
		}
	}

	logger.Info("batch complete",
		zap.Int("files", result.Files),
		zap.Int("parsed", result.Parsed),
		zap.Int("transactions", len(result.Transactions)),
		zap.Int("problems", len(result.Problems)),
	)
	return result, nil
}

// parseOne extracts and parses a single statement PDF.
func parseOne(path string) ([]model.Transaction, runlog.Entry) {
	entry := runlog.Entry{Timestamp: time.Now()}

	text, err := pdftext.ExtractFile(path)
	if err != nil {
		entry.Status = runlog.StatusFailed
		entry.Detail = err.Error()
		return nil, entry
	}

	f, err := statement.Detect(text)
	if err != nil {
		entry.Status = runlog.StatusNoFormat
		entry.Detail = err.Error()
		return nil, entry
	}
	entry.Format = f.Name

	txns, err := parse.Text(filepath.Base(path), text, f.Name)
	if err != nil {
		entry.Status = runlog.StatusFailed
		entry.Detail = err.Error()
		return nil, entry
	}
	if len(txns) == 0 {
		entry.Status = runlog.StatusEmpty
		return nil, entry
	}

	entry.Status = runlog.StatusParsed
	entry.Transactions = len(txns)
	return txns, entry
}

func (r *Runner) writeOutputs(result *Result) error {
	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	out, err := os.Create(filepath.Join(r.OutputDir, CombinedFile))
	if err != nil {
		return fmt.Errorf("creating combined CSV: %w", err)
	}
	defer out.Close()
	if err := export.Write(out, result.Transactions); err != nil {
		return fmt.Errorf("writing combined CSV: %w", err)
	}

	if len(result.Problems) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString("# group\tfile\treason\n")
	for _, p := range result.Problems {
		fmt.Fprintf(&b, "%s\t%s\t%s\n", p.Group, p.File, p.Reason)
	}
	if err := os.WriteFile(filepath.Join(r.OutputDir, problemsFile), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing problems report: %w", err)
	}
	return nil
}

func findPDFs(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

type fileGroup struct {
	name  string
	files []string
}

func groupByDir(files []string) []fileGroup {
	byDir := make(map[string][]string)
	var order []string
	for _, f := range files {
		dir := filepath.Base(filepath.Dir(f))
		if _, seen := byDir[dir]; !seen {
			order = append(order, dir)
		}
		byDir[dir] = append(byDir[dir], f)
	}
	sort.Strings(order)

	groups := make([]fileGroup, 0, len(order))
	for _, name := range order {
		groups = append(groups, fileGroup{name: name, files: byDir[name]})
	}
	return groups
}

func relOrBase(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return filepath.Base(path)
}
