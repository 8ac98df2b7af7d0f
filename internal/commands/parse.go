package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finview-dev/finview/internal/export"
	"github.com/finview-dev/finview/internal/model"
	"github.com/finview-dev/finview/internal/parse"
)

func newParseCommand() *cobra.Command {
	var format string
	var outPath string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a statement PDF or transactions CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(args[0], format, outPath)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "statement or CSV format (default: auto-detect)")
	cmd.Flags().StringVar(&outPath, "out", "", "write results as CSV instead of printing a table")

	return cmd
}

func runParse(path, format, outPath string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	txns, err := parse.File(path, data, format)
	if err != nil {
		return err
	}

	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		if err := export.Write(f, txns); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		fmt.Printf("Wrote %d transactions to %s\n", len(txns), outPath)
		return nil
	}

	printTable(txns)
	return nil
}

func printTable(txns []model.Transaction) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tDESCRIPTION\tAMOUNT\tBALANCE")
	for _, t := range txns {
		balance := ""
		if t.Balance != nil {
			balance = t.Balance.StringFixed(2)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Date.Format("2006-01-02"), t.Description, t.Amount.StringFixed(2), balance)
	}
	w.Flush()
	fmt.Printf("%d transactions\n", len(txns))
}
