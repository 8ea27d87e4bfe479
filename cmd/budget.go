package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/spendlens/internal/apperr"
	"github.com/theirongolddev/spendlens/internal/cli"
	"github.com/theirongolddev/spendlens/internal/model"
	"github.com/theirongolddev/spendlens/internal/pipeline"
)

var (
	flagBudgetPeriod  string
	flagBudgetStart   string
	flagBudgetReplace bool
	flagBudgetAll     bool
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Manage category budgets",
	RunE:  runBudgetProgress,
}

var budgetAddCmd = &cobra.Command{
	Use:   "add <category> <limit>",
	Short: "Create a budget for a category",
	Args:  cobra.ExactArgs(2),
	RunE:  runBudgetAdd,
}

var budgetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List budgets",
	RunE:  runBudgetList,
}

var budgetProgressCmd = &cobra.Command{
	Use:   "progress [id]",
	Short: "Show spending against active budgets",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBudgetProgress,
}

var budgetDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Retire a budget",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetDeactivate,
}

func init() {
	budgetAddCmd.Flags().StringVar(&flagBudgetPeriod, "period", "monthly", "monthly or annual")
	budgetAddCmd.Flags().StringVar(&flagBudgetStart, "start", "", "Start date YYYY-MM-DD (default: first of this month)")
	budgetAddCmd.Flags().BoolVar(&flagBudgetReplace, "replace", false, "Deactivate the category's current budget")
	budgetListCmd.Flags().BoolVarP(&flagBudgetAll, "all", "a", false, "Include inactive budgets")

	budgetCmd.AddCommand(budgetAddCmd)
	budgetCmd.AddCommand(budgetListCmd)
	budgetCmd.AddCommand(budgetProgressCmd)
	budgetCmd.AddCommand(budgetDeactivateCmd)
	rootCmd.AddCommand(budgetCmd)
}

func parseBudgetID(op, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation(op, fmt.Errorf("budget id %q must be a positive number", s))
	}
	return id, nil
}

func runBudgetAdd(cmd *cobra.Command, args []string) error {
	category, err := parseCategoryArg("add budget", args[0])
	if err != nil {
		return err
	}
	limit, err := parseAmount("add budget", args[1])
	if err != nil {
		return err
	}
	period, ok := model.ParseBudgetPeriod(flagBudgetPeriod)
	if !ok {
		return apperr.Validation("add budget", fmt.Errorf("period must be monthly or annual, got %q", flagBudgetPeriod))
	}

	start := pipeline.MonthsBefore(time.Now(), 0)
	if flagBudgetStart != "" {
		if start, err = parseDay("add budget", flagBudgetStart); err != nil {
			return err
		}
	}

	b, err := model.NewBudget(category, limit, period, start)
	if err != nil {
		return apperr.Validation("add budget", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ledger, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ledger.Close() }()

	ctx := cmd.Context()
	existing, err := ledger.ActiveBudgetForCategory(ctx, category)
	switch {
	case err == nil && flagBudgetReplace:
		if err := ledger.DeactivateBudget(ctx, existing.ID); err != nil {
			return err
		}
		infof("  Deactivated budget #%d\n", existing.ID)
	case err == nil:
		infof("  %s\n", cli.Warn(fmt.Sprintf("%s already has budget #%d; progress uses the newest (--replace retires it)",
			category.Label(), existing.ID)))
	case !apperr.Is(err, apperr.KindNotFound):
		return err
	}

	id, err := ledger.CreateBudget(ctx, b)
	if err != nil {
		return err
	}
	infof("  Created budget #%d: %s %s %s, %s - %s\n",
		id, category.Label(), money(cfg, limit), period,
		cli.FormatDate(b.StartDate), cli.FormatDate(b.EndDate))
	return nil
}

func runBudgetList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ledger, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ledger.Close() }()

	var budgets []model.Budget
	if flagBudgetAll {
		budgets, err = ledger.AllBudgets(cmd.Context())
	} else {
		budgets, err = ledger.ActiveBudgets(cmd.Context())
	}
	if err != nil {
		return err
	}
	if len(budgets) == 0 {
		fmt.Println("\n  No budgets. Create one with `spendlens budget add FOOD 300`.")
		return nil
	}

	rows := make([][]string, 0, len(budgets))
	for _, b := range budgets {
		state := "active"
		if !b.Active {
			state = cli.Muted("inactive")
		}
		rows = append(rows, []string{
			strconv.FormatInt(b.ID, 10),
			b.Category.Label(),
			money(cfg, b.Limit),
			string(b.Period),
			cli.FormatDate(b.StartDate),
			cli.FormatDate(b.EndDate),
			state,
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Category", "Limit", "Period", "Start", "End", "State"},
		Rows:    rows,
	}))
	return nil
}

func runBudgetProgress(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ledger, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ledger.Close() }()

	ctx := cmd.Context()
	var progress []model.BudgetProgress
	if len(args) == 1 {
		id, err := parseBudgetID("budget progress", args[0])
		if err != nil {
			return err
		}
		p, err := pipeline.ProgressByID(ctx, ledger, ledger, id)
		if err != nil {
			return err
		}
		progress = append(progress, p)
	} else {
		budgets, err := ledger.ActiveBudgets(ctx)
		if err != nil {
			return err
		}
		for _, b := range budgets {
			p, err := pipeline.ProgressFor(ctx, ledger, b)
			if err != nil {
				return err
			}
			progress = append(progress, p)
		}
	}

	if len(progress) == 0 {
		fmt.Println("\n  No active budgets. Create one with `spendlens budget add FOOD 300`.")
		return nil
	}

	rows := make([][]string, 0, len(progress))
	for _, p := range progress {
		rows = append(rows, []string{
			strconv.FormatInt(p.Budget.ID, 10),
			p.Budget.Category.Label(),
			cli.RenderUsageBar(p.Percentage, 20) + " " + cli.FormatPercent(p.Percentage),
			money(cfg, p.Spent),
			money(cfg, p.Budget.Limit),
			money(cfg, p.Remaining),
			cli.StatusStyle(p.Status).Render(string(p.Status)),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Budget progress",
		Headers: []string{"ID", "Category", "Used", "Spent", "Limit", "Remaining", "Status"},
		Rows:    rows,
	}))
	return nil
}

func runBudgetDeactivate(cmd *cobra.Command, args []string) error {
	id, err := parseBudgetID("deactivate budget", args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ledger, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ledger.Close() }()

	if err := ledger.DeactivateBudget(cmd.Context(), id); err != nil {
		return err
	}
	infof("  Deactivated budget #%d\n", id)
	return nil
}
