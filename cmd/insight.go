package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/spendlens/internal/cli"
	"github.com/theirongolddev/spendlens/internal/config"
	"github.com/theirongolddev/spendlens/internal/pipeline"
)

var flagInsightMonth string

var insightCmd = &cobra.Command{
	Use:   "insight",
	Short: "Monthly spending insight with category breakdown",
	RunE:  runInsight,
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Forecast this month's spending from recent months",
	RunE:  runPredict,
}

func init() {
	insightCmd.Flags().StringVar(&flagInsightMonth, "month", "", "Month to analyse as YYYY-MM (default: current)")
	rootCmd.AddCommand(insightCmd)
	rootCmd.AddCommand(predictCmd)
}

func runInsight(cmd *cobra.Command, _ []string) error {
	month := time.Now()
	if flagInsightMonth != "" {
		m, err := parseMonth("insight", flagInsightMonth)
		if err != nil {
			return err
		}
		month = m
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

	return printInsight(cmd, cfg, ledger, month)
}

func runPredict(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ledger, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ledger.Close() }()

	return printPrediction(cmd, cfg, ledger, time.Now())
}

func printInsight(cmd *cobra.Command, cfg config.Config, src pipeline.ExpenseSource, month time.Time) error {
	in, err := pipeline.ComputeInsight(cmd.Context(), src, month)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SPENDING  " + strings.ToUpper(in.Month.Format("January 2006"))))
	fmt.Println()

	if in.TotalSpent == 0 {
		fmt.Println("  No expenses in this month.")
		return nil
	}

	rows := [][]string{
		{"Total spent", money(cfg, in.TotalSpent)},
		{"Average per day", money(cfg, in.AverageDaily)},
		{"Top category", in.TopCategory.Label()},
	}
	if in.MostExpensiveDay != nil {
		rows = append(rows, []string{"Most expensive day",
			fmt.Sprintf("%s (%s)", cli.FormatDate(*in.MostExpensiveDay), money(cfg, in.MostExpensiveDayAmount))})
	}
	if c := in.Comparison; c != nil {
		rows = append(rows, []string{"---"})
		rows = append(rows, []string{"Previous month", money(cfg, c.Previous)})
		rows = append(rows, []string{"Change", fmt.Sprintf("%s %s (%s)",
			cli.FormatTrend(c.Trend), money(cfg, c.Difference), cli.FormatDelta(c.PercentageDiff))})
	}
	fmt.Print(cli.RenderTable(cli.Table{Headers: []string{"Metric", "Value"}, Rows: rows}))

	fmt.Println()
	catRows := make([][]string, 0, len(in.Breakdown))
	for _, c := range in.Breakdown {
		catRows = append(catRows, []string{
			c.Category.Label(),
			money(cfg, c.Amount),
			cli.FormatPercent(c.Percentage),
			cli.FormatNumber(int64(c.Count)),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By category",
		Headers: []string{"Category", "Amount", "Share", "Count"},
		Rows:    catRows,
	}))

	fmt.Println()
	// Shares relative to the top category.
	peak := in.Breakdown[0].Amount
	for _, c := range in.Breakdown {
		fmt.Println(cli.RenderHorizontalBar(
			fmt.Sprintf("%s %s", c.Category.Label(), cli.FormatPercent(c.Percentage)),
			c.Amount, peak, categoryBarWidth))
	}
	return nil
}

// categoryBarWidth is the width of the longest category bar.
const categoryBarWidth = 30

func printPrediction(cmd *cobra.Command, cfg config.Config, src pipeline.ExpenseSource, now time.Time) error {
	p, err := pipeline.Predict(cmd.Context(), src, now)
	if err != nil {
		return err
	}

	fmt.Println()
	rows := [][]string{
		{"Spent so far", money(cfg, p.CurrentMonthTotal)},
	}
	if p.BasedOnMonths > 0 {
		rows = append(rows,
			[]string{"Predicted total", money(cfg, p.PredictedAmount)},
			[]string{"Confidence", cli.FormatPercent(p.Confidence)},
			[]string{"Based on", fmt.Sprintf("%d months", p.BasedOnMonths)},
		)
		trailing := make([]string, 0, len(p.TrailingTotals))
		for _, t := range p.TrailingTotals {
			trailing = append(trailing, money(cfg, t))
		}
		rows = append(rows, []string{"Recent months", strings.Join(trailing, "  ")})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Prediction for " + now.Format("January"),
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))
	fmt.Printf("  %s\n", cli.Muted(p.Recommendation))
	return nil
}
