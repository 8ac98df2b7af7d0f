package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/finview-dev/finview/internal/config"
)

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a finview workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir)
		},
	}

	return cmd
}

func runInit(dir string) error {
	// Create directory structure.
	dirs := []string{
		"statements",
		"output",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write finview.yaml.
	cfg := config.Default()
	if err := config.Save(filepath.Join(dir, "finview.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write .gitignore. Everything under these directories holds
	// account data, import/processed/ included, and never belongs in
	// version control.
	gitignore := "statements/\noutput/\nlogs/\nimport/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write statements/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "statements", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	fmt.Printf("Initialized finview workspace at %s\n", dir)
	return nil
}
