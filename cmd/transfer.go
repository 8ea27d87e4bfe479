package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/spendlens/internal/apperr"
	"github.com/theirongolddev/spendlens/internal/transfer"
)

// maxRowErrors bounds the skipped-row details import prints.
const maxRowErrors = 10

var importCmd = &cobra.Command{
	Use:   "import <csv>",
	Short: "Import expenses from a CSV export",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export <csv>",
	Short: "Export all expenses to CSV (- for stdout)",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var r io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0]) //nolint:gosec // import path is supplied by the local user
		if err != nil {
			return apperr.File("import", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	ledger, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ledger.Close() }()

	res, err := transfer.Import(cmd.Context(), r, ledger)
	if err != nil {
		if res.Imported > 0 {
			fmt.Fprintf(os.Stderr, "  %d expenses were saved before the import stopped\n", res.Imported)
		}
		return err
	}

	infof("  Imported %d expenses", res.Imported)
	if res.Skipped > 0 {
		infof(", skipped %d rows", res.Skipped)
	}
	infof("\n")

	if !flagQuiet {
		for i, re := range res.Errors {
			if i == maxRowErrors {
				fmt.Fprintf(os.Stderr, "    ... %d more\n", len(res.Errors)-maxRowErrors)
				break
			}
			fmt.Fprintf(os.Stderr, "    line %d: %v\n", re.Line, re.Err)
		}
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ledger, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ledger.Close() }()

	expenses, err := ledger.AllExpenses(cmd.Context())
	if err != nil {
		return err
	}

	if args[0] == "-" {
		return transfer.Export(os.Stdout, expenses)
	}

	if err := os.MkdirAll(filepath.Dir(args[0]), 0o750); err != nil {
		return apperr.File("export", err)
	}
	//nolint:gosec // export path is supplied by the local user
	f, err := os.OpenFile(args[0], os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return apperr.File("export", err)
	}
	if err := transfer.Export(f, expenses); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return apperr.File("export", err)
	}

	infof("  Exported %d expenses to %s\n", len(expenses), args[0])
	return nil
}
