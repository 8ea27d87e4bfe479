package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/spendlens/internal/apperr"
	"github.com/theirongolddev/spendlens/internal/classify"
	"github.com/theirongolddev/spendlens/internal/cli"
	"github.com/theirongolddev/spendlens/internal/config"
	"github.com/theirongolddev/spendlens/internal/model"
	"github.com/theirongolddev/spendlens/internal/pipeline"
	"github.com/theirongolddev/spendlens/internal/store"
)

// minIDPrefix is the shortest id prefix delete accepts.
const minIDPrefix = 6

var (
	flagAddCategory string
	flagAddDate     string
	flagAddMerchant string
	flagAddNotes    string
	flagAddTags     []string

	flagListMonth    string
	flagListFrom     string
	flagListTo       string
	flagListCategory string
	flagListSearch   string
	flagListLimit    int
)

var addCmd = &cobra.Command{
	Use:   "add <amount> <description>",
	Short: "Record an expense",
	Long:  "Record an expense. Without --category the description and merchant are classified automatically.",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runAdd,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses",
	RunE:  runList,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an expense by id or unique id prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	addCmd.Flags().StringVarP(&flagAddCategory, "category", "c", "", "Category (e.g. FOOD, Groceries)")
	addCmd.Flags().StringVarP(&flagAddDate, "date", "d", "", "Date as YYYY-MM-DD (default: today)")
	addCmd.Flags().StringVarP(&flagAddMerchant, "merchant", "m", "", "Merchant name")
	addCmd.Flags().StringVar(&flagAddNotes, "notes", "", "Free-form notes")
	addCmd.Flags().StringSliceVarP(&flagAddTags, "tag", "t", nil, "Tag (repeatable or comma separated)")

	listCmd.Flags().StringVar(&flagListMonth, "month", "", "Only this month (YYYY-MM)")
	listCmd.Flags().StringVar(&flagListFrom, "from", "", "Range start (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&flagListTo, "to", "", "Range end, inclusive (YYYY-MM-DD)")
	listCmd.Flags().StringVarP(&flagListCategory, "category", "c", "", "Only this category")
	listCmd.Flags().StringVarP(&flagListSearch, "search", "s", "", "Match description, merchant or notes")
	listCmd.Flags().IntVarP(&flagListLimit, "limit", "n", 50, "Maximum rows (0 for all)")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
}

// parseAmount accepts "12.50", "12,50" and "1,234.50".
func parseAmount(op, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", "")
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, apperr.Validation(op, fmt.Errorf("amount %q is not a number", s))
	}
	return v, nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	amount, err := parseAmount("add expense", args[0])
	if err != nil {
		return err
	}
	desc := strings.Join(args[1:], " ")

	date := time.Now()
	if flagAddDate != "" {
		d, err := parseDay("add expense", flagAddDate)
		if err != nil {
			return err
		}
		date = d
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var category model.Category
	auto := flagAddCategory == ""
	if auto {
		category = classify.NewRegional(currentRegion(cfg)).Classify(desc, flagAddMerchant)
	} else if category, err = parseCategoryArg("add expense", flagAddCategory); err != nil {
		return err
	}

	e := model.NewExpense(amount, category, desc, date)
	e.Merchant = strings.TrimSpace(flagAddMerchant)
	e.Notes = flagAddNotes
	e.Tags = flagAddTags

	ledger, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ledger.Close() }()

	if err := ledger.SaveExpense(cmd.Context(), e); err != nil {
		return err
	}

	suffix := ""
	if auto {
		suffix = cli.Muted(" (auto)")
	}
	infof("  Added %s  %s  %s%s\n", money(cfg, e.Amount), e.Category.Label(), e.Description, suffix)
	infof("  %s\n", cli.Muted("id "+e.ID))

	return printCategoryBudget(cmd.Context(), cfg, ledger, e.Category)
}

// printCategoryBudget shows where the category's active budget stands, if
// it has one.
func printCategoryBudget(ctx context.Context, cfg config.Config, ledger *store.Ledger, c model.Category) error {
	b, err := ledger.ActiveBudgetForCategory(ctx, c)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	p, err := pipeline.ProgressFor(ctx, ledger, b)
	if err != nil {
		return err
	}
	infof("  Budget  %s %s of %s  %s\n",
		cli.RenderUsageBar(p.Percentage, 20),
		money(cfg, p.Spent), money(cfg, b.Limit),
		cli.StatusStyle(p.Status).Render(string(p.Status)))
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ledger, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ledger.Close() }()

	expenses, err := selectExpenses(cmd.Context(), ledger)
	if err != nil {
		return err
	}

	if flagListCategory != "" {
		c, err := parseCategoryArg("list expenses", flagListCategory)
		if err != nil {
			return err
		}
		filtered := expenses[:0]
		for _, e := range expenses {
			if e.Category == c {
				filtered = append(filtered, e)
			}
		}
		expenses = filtered
	}

	if len(expenses) == 0 {
		fmt.Println("\n  No matching expenses.")
		return nil
	}

	total := model.SumAmounts(expenses)
	shown := expenses
	if flagListLimit > 0 && len(shown) > flagListLimit {
		shown = shown[:flagListLimit]
	}

	rows := make([][]string, 0, len(shown))
	for _, e := range shown {
		rows = append(rows, []string{
			e.ID[:min(8, len(e.ID))],
			cli.FormatDate(e.Date),
			money(cfg, e.Amount),
			e.Category.Label(),
			cli.Truncate(e.Description, 36),
			cli.Truncate(e.Merchant, 20),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Date", "Amount", "Category", "Description", "Merchant"},
		Rows:    rows,
	}))
	if len(shown) < len(expenses) {
		fmt.Printf("  %s\n", cli.Muted(fmt.Sprintf("showing %d of %d (use --limit 0 for all)", len(shown), len(expenses))))
	}
	fmt.Printf("  Total: %s across %s expenses\n", money(cfg, total), cli.FormatNumber(int64(len(expenses))))
	return nil
}

// selectExpenses applies --search, --month and --from/--to. Results are
// newest first.
func selectExpenses(ctx context.Context, ledger *store.Ledger) ([]model.Expense, error) {
	if flagListSearch != "" {
		return ledger.SearchExpenses(ctx, flagListSearch)
	}

	switch {
	case flagListMonth != "":
		m, err := parseMonth("list expenses", flagListMonth)
		if err != nil {
			return nil, err
		}
		start, end := pipeline.MonthWindow(m)
		return ledger.ExpensesInRange(ctx, start, end)
	case flagListFrom != "" || flagListTo != "":
		start, end := time.Unix(0, 0), time.Now()
		if flagListFrom != "" {
			t, err := parseDay("list expenses", flagListFrom)
			if err != nil {
				return nil, err
			}
			start = t
		}
		if flagListTo != "" {
			t, err := parseDay("list expenses", flagListTo)
			if err != nil {
				return nil, err
			}
			end = t.AddDate(0, 0, 1).Add(-time.Second)
		}
		return ledger.ExpensesInRange(ctx, start, end)
	}
	return ledger.AllExpenses(ctx)
}

func runDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ledger, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ledger.Close() }()

	e, err := resolveExpense(cmd.Context(), ledger, strings.TrimSpace(args[0]))
	if err != nil {
		return err
	}
	if err := ledger.DeleteExpense(cmd.Context(), e.ID); err != nil {
		return err
	}
	infof("  Deleted %s  %s  %s\n", cli.FormatDate(e.Date), money(cfg, e.Amount), e.Description)
	return nil
}

// resolveExpense looks up a full id, then falls back to a unique prefix as
// printed by list.
func resolveExpense(ctx context.Context, ledger *store.Ledger, id string) (model.Expense, error) {
	e, err := ledger.ExpenseByID(ctx, id)
	if err == nil || !apperr.Is(err, apperr.KindNotFound) || len(id) < minIDPrefix {
		return e, err
	}

	all, err := ledger.AllExpenses(ctx)
	if err != nil {
		return model.Expense{}, err
	}
	var match []model.Expense
	for _, x := range all {
		if strings.HasPrefix(x.ID, id) {
			match = append(match, x)
		}
	}
	switch len(match) {
	case 0:
		return model.Expense{}, apperr.NotFound("delete expense", "no expense with id "+id)
	case 1:
		return match[0], nil
	}
	return model.Expense{}, apperr.Validation("delete expense", fmt.Errorf("id prefix %q matches %d expenses", id, len(match)))
}
