package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/spendlens/internal/apperr"
	"github.com/theirongolddev/spendlens/internal/cli"
	"github.com/theirongolddev/spendlens/internal/model"
	"github.com/theirongolddev/spendlens/internal/pipeline"
)

var (
	flagReportPeriod string
	flagReportFrom   string
	flagReportTo     string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Spending report for a period",
	Long: "Spending report for daily, weekly, monthly, yearly, all-time or a custom range.\n" +
		"--from/--to imply the custom period.",
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&flagReportPeriod, "period", "p", "monthly", "daily, weekly, monthly, yearly, all-time or custom")
	reportCmd.Flags().StringVar(&flagReportFrom, "from", "", "Custom range start (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&flagReportTo, "to", "", "Custom range end, inclusive (YYYY-MM-DD)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	period, ok := model.ParseReportPeriod(flagReportPeriod)
	if !ok {
		return apperr.Validation("report", fmt.Errorf("unknown period %q", flagReportPeriod))
	}

	var from, to time.Time
	if flagReportFrom != "" {
		t, err := parseDay("report", flagReportFrom)
		if err != nil {
			return err
		}
		from = t
		period = model.ReportCustom
	}
	if flagReportTo != "" {
		t, err := parseDay("report", flagReportTo)
		if err != nil {
			return err
		}
		to = t.AddDate(0, 0, 1).Add(-time.Second)
		period = model.ReportCustom
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return apperr.Validation("report", fmt.Errorf("--to is before --from"))
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

	r, err := pipeline.GenerateReport(cmd.Context(), ledger, period, time.Now(), from, to)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("REPORT  %s", strings.ToUpper(r.Period.Label()))))
	fmt.Println()

	if r.Count == 0 {
		fmt.Println("  No expenses in the selected range.")
		return nil
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Range", fmt.Sprintf("%s - %s", cli.FormatDate(r.Start), cli.FormatDate(r.End))},
			{"Total", money(cfg, r.Total)},
			{"Expenses", cli.FormatNumber(int64(r.Count))},
		},
	}))

	fmt.Println()
	catRows := make([][]string, 0, len(r.Categories))
	for _, c := range r.Categories {
		catRows = append(catRows, []string{
			c.Category.Label(),
			money(cfg, c.Total),
			cli.FormatPercent(c.Percentage),
			cli.FormatNumber(int64(c.Count)),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By category",
		Headers: []string{"Category", "Total", "Share", "Count"},
		Rows:    catRows,
	}))

	if len(r.DailyTrend) > 1 {
		values := make([]float64, len(r.DailyTrend))
		for i, d := range r.DailyTrend {
			values[i] = d.Total
		}
		fmt.Printf("\n  Daily  %s\n", cli.RenderSparkline(values))
		fmt.Printf("         %s\n", cli.Muted(fmt.Sprintf("%s - %s, %d active days",
			r.DailyTrend[0].Date.Format("Jan 02"), r.DailyTrend[len(r.DailyTrend)-1].Date.Format("Jan 02"), len(values))))
	}

	fmt.Println()
	topRows := make([][]string, 0, len(r.TopExpenses))
	for _, e := range r.TopExpenses {
		topRows = append(topRows, []string{
			cli.FormatDate(e.Date),
			money(cfg, e.Amount),
			e.Category.Label(),
			cli.Truncate(e.Description, 40),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Largest expenses",
		Headers: []string{"Date", "Amount", "Category", "Description"},
		Rows:    topRows,
	}))
	return nil
}
