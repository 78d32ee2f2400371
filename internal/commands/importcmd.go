package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bankwizard-dev/bankwizard/internal/config"
	"github.com/bankwizard-dev/bankwizard/internal/engine"
	"github.com/bankwizard-dev/bankwizard/internal/export"
	"github.com/bankwizard-dev/bankwizard/internal/importlog"
	"github.com/bankwizard-dev/bankwizard/internal/ledger"
	"github.com/bankwizard-dev/bankwizard/internal/reader"
)

func newImportCommand() *cobra.Command {
	var configPath string
	var statementFormat string
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "import <statement.xml>",
		Short: "Parse a bank statement and match it against the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args[0], configPath, statementFormat, format, output)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "bankwizard.yaml", "configuration file")
	cmd.Flags().StringVar(&statementFormat, "reader", "camt053", "statement format")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to stdout)")

	return cmd
}

func runImport(statementPath, configPath, statementFormat, format, output string) error {
	rd := reader.DefaultRegistry().Get(statementFormat)
	if rd == nil {
		return fmt.Errorf("unknown statement format %q (have: %s)",
			statementFormat, strings.Join(reader.DefaultRegistry().Formats(), ", "))
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	led, err := ledger.Load(cfg.Import.LedgerDir)
	if err != nil {
		return fmt.Errorf("loading ledger: %w", err)
	}

	content, err := os.ReadFile(statementPath)
	if err != nil {
		return fmt.Errorf("reading statement: %w", err)
	}

	result := rd.Read(led, content)

	if err := logImport(cfg.Import.LogDir, filepath.Base(statementPath), result); err != nil {
		return err
	}

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "json":
		if err := export.WriteJSON(out, result.Transactions); err != nil {
			return err
		}
	case "csv":
		if err := export.WriteCSV(out, result.Transactions); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want json or csv)", format)
	}

	fmt.Fprintf(os.Stderr, "Parsed %d transaction(s), %d duplicate(s) skipped\n",
		len(result.Transactions), len(result.Duplicates))
	return nil
}

func logImport(logDir, statement string, result engine.Result) error {
	if logDir == "" {
		return nil
	}
	now := time.Now()
	entries := []importlog.Entry{{
		Timestamp: now,
		Statement: statement,
		Event:     importlog.EventImported,
		Details:   fmt.Sprintf("%d transaction(s), %d duplicate(s)", len(result.Transactions), len(result.Duplicates)),
	}}
	for _, d := range result.Duplicates {
		entries = append(entries, importlog.Entry{
			Timestamp: now,
			Statement: statement,
			Event:     importlog.EventDuplicate,
			Reference: d.UniqueReference,
			Details:   "already imported in " + d.ExistingPosting,
		})
	}
	if err := importlog.Append(logDir, entries); err != nil {
		return fmt.Errorf("writing import log: %w", err)
	}
	return nil
}
