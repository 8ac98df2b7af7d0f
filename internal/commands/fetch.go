package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/finview-dev/finview/internal/plaid"
)

func newFetchCommand() *cobra.Command {
	var configPath string
	var accessToken string
	var days int

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch recent transactions from Plaid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, configPath, accessToken, days)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "finview.yaml", "config file")
	cmd.Flags().StringVar(&accessToken, "token", "", "Plaid access token (required)")
	cmd.Flags().IntVar(&days, "days", 30, "how many days back to fetch")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}

func runFetch(cmd *cobra.Command, configPath, accessToken string, days int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Plaid.ClientID == "" || cfg.Plaid.Secret == "" {
		return errors.New("plaid credentials not configured (set plaid.client_id and plaid.secret, or PLAID_CLIENT_ID and PLAID_SECRET)")
	}

	client, err := plaid.NewClient(cfg.Plaid)
	if err != nil {
		return err
	}

	txns, err := client.RecentTransactions(cmd.Context(), accessToken, days)
	if err != nil {
		return err
	}

	printTable(txns)
	return nil
}
