package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finview-dev/finview/internal/buildinfo"
	"github.com/finview-dev/finview/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "finview",
		Short:   "Bank statement parsing and transaction viewing",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newBatchCommand())
	rootCmd.AddCommand(newFetchCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}

// loadConfig reads the config file, falling back to defaults (plus env
// overrides) when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Default()
		cfg.ApplyEnv()
		return cfg, nil
	}
	return nil, err
}
