package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bankwizard-dev/bankwizard/internal/api"
	"github.com/bankwizard-dev/bankwizard/internal/config"
	"github.com/bankwizard-dev/bankwizard/internal/ledger"
)

func newServeCommand() *cobra.Command {
	var configPath string
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the wizard HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, addr)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "bankwizard.yaml", "configuration file")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

func runServe(configPath, addr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	led, err := ledger.Load(cfg.Import.LedgerDir)
	if err != nil {
		return fmt.Errorf("loading ledger: %w", err)
	}

	app := api.New(cfg, led)
	return app.Listen(addr)
}
