package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/finview-dev/finview/internal/batch"
	"github.com/finview-dev/finview/internal/logging"
)

func newBatchCommand() *cobra.Command {
	var configPath string
	var workDir string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Parse every statement PDF under the statements directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(workDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runBatch(cmd, absDir, configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "finview.yaml", "config file")
	cmd.Flags().StringVar(&workDir, "dir", ".", "workspace directory")

	return cmd
}

func runBatch(cmd *cobra.Command, workDir, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	runner := &batch.Runner{
		InputDir:  filepath.Join(workDir, cfg.Statements.InputDir),
		OutputDir: filepath.Join(workDir, cfg.Statements.OutputDir),
		Workers:   cfg.Statements.Workers,
		LogRoot:   workDir,
		Logger:    logger,
	}

	result, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Parsed %d/%d files, %d transactions, %d problems\n",
		result.Parsed, result.Files, len(result.Transactions), len(result.Problems))
	return nil
}
