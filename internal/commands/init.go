package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bankwizard-dev/bankwizard/internal/config"
	"github.com/bankwizard-dev/bankwizard/internal/ledger"
)

func newInitCommand() *cobra.Command {
	var company string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new bankwizard project",
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

			return runInit(absDir, company)
		},
	}

	cmd.Flags().StringVar(&company, "company", "", "company name (required)")
	_ = cmd.MarkFlagRequired("company")

	return cmd
}

func runInit(dir, company string) error {
	for _, d := range []string{"ledger", "logs", "statements"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(company)
	if err := config.Save(filepath.Join(dir, "bankwizard.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Seed an empty payment log so re-imports have something to check.
	svc := ledger.NewService()
	if err := svc.SavePayments(filepath.Join(dir, "ledger")); err != nil {
		return fmt.Errorf("writing payment log: %w", err)
	}

	fmt.Printf("Initialized bankwizard project at %s\n", dir)
	return nil
}
