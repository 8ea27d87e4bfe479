package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/spendlens/internal/apperr"
	"github.com/theirongolddev/spendlens/internal/classify"
	"github.com/theirongolddev/spendlens/internal/cli"
	"github.com/theirongolddev/spendlens/internal/model"
	"github.com/theirongolddev/spendlens/internal/receipt"
)

// maxReceiptBytes caps how much recognized text receipt reads.
const maxReceiptBytes = 1 << 20

var (
	flagClassifyMerchant string

	flagReceiptSave bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Suggest a category for a description",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

var receiptCmd = &cobra.Command{
	Use:   "receipt [file]",
	Short: "Extract an expense from recognized receipt text (stdin when no file)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReceipt,
}

func init() {
	classifyCmd.Flags().StringVarP(&flagClassifyMerchant, "merchant", "m", "", "Merchant name, checked against the regional tables")
	receiptCmd.Flags().BoolVar(&flagReceiptSave, "save", false, "Record the receipt as an expense")
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(receiptCmd)
}

func runClassify(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	region := currentRegion(cfg)
	p := classify.NewRegional(region).Predict(strings.Join(args, " "), flagClassifyMerchant)

	fmt.Printf("  Category:   %s (%s)\n", p.Category.Label(), p.Category)
	fmt.Printf("  Confidence: %s\n", cli.FormatPercent(p.Confidence*100))
	fmt.Printf("  Region:     %s\n", region)
	return nil
}

func runReceipt(cmd *cobra.Command, args []string) error {
	var r io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0]) //nolint:gosec // receipt path is supplied by the local user
		if err != nil {
			return apperr.File("receipt", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	raw, err := io.ReadAll(io.LimitReader(r, maxReceiptBytes))
	if err != nil {
		return apperr.File("receipt", err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return apperr.Validation("receipt", fmt.Errorf("no receipt text"))
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	regional := classify.NewRegional(currentRegion(cfg))
	data := receipt.Parse(string(raw), time.Now(), regional.Rules)
	if data.Merchant != "" {
		if p := regional.Predict("", data.Merchant); p.Category != model.CategoryOther {
			data.Category = p.Category
		}
	}

	printReceipt(cfg.General.CurrencySymbol, data)

	if !flagReceiptSave {
		return nil
	}
	if data.Amount == nil {
		return apperr.Validation("receipt", fmt.Errorf("no total found; add the expense manually"))
	}

	desc := data.Merchant
	if desc == "" {
		desc = "Receipt"
	}
	e := model.NewExpense(*data.Amount, data.Category, desc, data.Date)
	e.Merchant = data.Merchant
	e.Notes = strings.Join(data.Items, "; ")
	if len(e.Notes) > model.MaxDescriptionLength {
		e.Notes = cli.Truncate(e.Notes, model.MaxDescriptionLength)
	}

	ledger, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ledger.Close() }()

	if err := ledger.SaveExpense(cmd.Context(), e); err != nil {
		return err
	}
	infof("\n  Saved as expense %s\n", cli.Muted(e.ID))
	return printCategoryBudget(cmd.Context(), cfg, ledger, e.Category)
}

func printReceipt(symbol string, d model.ReceiptData) {
	amount := cli.Muted("not found")
	if d.Amount != nil {
		amount = cli.FormatMoney(symbol, *d.Amount)
	}
	date := cli.FormatDate(d.Date)
	if !d.DateFound {
		date += cli.Muted(" (today, none found)")
	}
	merchant := d.Merchant
	if merchant == "" {
		merchant = cli.Muted("not found")
	}

	rows := [][]string{
		{"Amount", amount},
		{"Date", date},
		{"Merchant", merchant},
		{"Category", d.Category.Label()},
		{"Confidence", cli.FormatPercent(d.Confidence * 100)},
	}
	for i, item := range d.Items {
		label := ""
		if i == 0 {
			label = "Items"
		}
		rows = append(rows, []string{label, cli.Truncate(item, 40)})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{Headers: []string{"Field", "Value"}, Rows: rows}))
}
