package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/finview-dev/finview/internal/batch"
	"github.com/finview-dev/finview/internal/export"
	"github.com/finview-dev/finview/internal/importer"
	"github.com/finview-dev/finview/internal/model"
	"github.com/finview-dev/finview/internal/parse"
	"github.com/finview-dev/finview/internal/runlog"
)

func newImportCommand() *cobra.Command {
	var configPath string
	var workDir string
	var format string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Merge CSV exports from the import directory into the combined CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(workDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runImport(absDir, configPath, format)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "finview.yaml", "config file")
	cmd.Flags().StringVar(&workDir, "dir", ".", "workspace directory")
	cmd.Flags().StringVar(&format, "format", "", "CSV format for every file (default: transactions)")

	return cmd
}

// runImport parses every CSV in import/, merges the rows into the
// combined CSV and moves the file to import/processed/. Files that do
// not parse stay in import/ so a fixed export can be dropped in again.
func runImport(workDir, configPath, format string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	files, err := importer.Scan(workDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No CSV files to import")
		return nil
	}

	outPath := filepath.Join(workDir, cfg.Statements.OutputDir, batch.CombinedFile)
	combined, err := readCombined(outPath)
	if err != nil {
		return err
	}

	entryFormat := format
	if entryFormat == "" {
		entryFormat = "transactions"
	}

	var entries []runlog.Entry
	imported := 0
	for _, file := range files {
		data, err := os.ReadFile(file.Path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", file.Name, err)
		}

		entry := runlog.Entry{Timestamp: time.Now(), File: file.Name, Format: entryFormat}

		txns, err := parse.CSV(file.Name, data, format)
		if err != nil {
			entry.Status = runlog.StatusFailed
			entry.Detail = err.Error()
			entries = append(entries, entry)
			fmt.Printf("Skipped %s: %v\n", file.Name, err)
			continue
		}

		entry.Status = runlog.StatusParsed
		entry.Transactions = len(txns)
		if len(txns) == 0 {
			entry.Status = runlog.StatusEmpty
		}
		entries = append(entries, entry)

		combined = append(combined, txns...)
		if err := importer.MarkProcessed(workDir, file.Name); err != nil {
			return err
		}
		imported++
	}

	if imported > 0 {
		if err := writeCombined(outPath, combined); err != nil {
			return err
		}
	}
	if err := runlog.Append(workDir, entries); err != nil {
		return err
	}

	fmt.Printf("Imported %d/%d files, %d transactions total\n", imported, len(files), len(combined))
	return nil
}

func readCombined(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return export.Read(f)
}

func writeCombined(path string, txns []model.Transaction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := export.Write(f, txns); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
