package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/spendlens/internal/apperr"
	"github.com/theirongolddev/spendlens/internal/config"
	"github.com/theirongolddev/spendlens/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup for region, alerts and theme",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("  Existing config unreadable (%v), starting from defaults.\n", err)
		cfg = config.DefaultConfig()
	}

	fmt.Println()
	if config.Exists() {
		fmt.Println("  Updating your spendlens settings.")
	} else {
		fmt.Println("  Welcome to spendlens!")
	}
	fmt.Println()

	vals := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	if err := tui.ApplySetup(&cfg, *vals); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return apperr.WrapKind("save config", apperr.KindFile, err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Printf("  Ledger: %s\n", ledgerPath(cfg))
	fmt.Println("  Run `spendlens setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
