package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/spendlens/internal/cli"
	"github.com/theirongolddev/spendlens/internal/config"
	"github.com/theirongolddev/spendlens/internal/logging"
	"github.com/theirongolddev/spendlens/internal/model"
	"github.com/theirongolddev/spendlens/internal/notify"
	"github.com/theirongolddev/spendlens/internal/pipeline"
	"github.com/theirongolddev/spendlens/internal/store"
)

// publishQueueSize buffers notifications waiting for the broker.
const publishQueueSize = 64

var (
	flagAlertsDryRun bool

	flagNotifUnread   bool
	flagNotifMarkRead string
	flagNotifAll      bool
	flagNotifLimit    int
	flagNotifPurge    int
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Evaluate budget and spending alerts and store the notifications",
	RunE:  runAlerts,
}

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notif"},
	Short:   "List or acknowledge notifications",
	RunE:    runNotifications,
}

func init() {
	alertsCmd.Flags().BoolVar(&flagAlertsDryRun, "dry-run", false, "Print alerts without storing or publishing them")

	notificationsCmd.Flags().BoolVarP(&flagNotifUnread, "unread", "u", false, "Only unread notifications")
	notificationsCmd.Flags().StringVar(&flagNotifMarkRead, "mark-read", "", "Mark the notification with this id as read")
	notificationsCmd.Flags().BoolVar(&flagNotifAll, "all", false, "Mark every notification as read")
	notificationsCmd.Flags().IntVarP(&flagNotifLimit, "limit", "n", 20, "Maximum rows")
	notificationsCmd.Flags().IntVar(&flagNotifPurge, "purge-days", 0, "Delete notifications older than this many days")

	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(notificationsCmd)
}

// notificationSink stores to the ledger and, when a broker is configured,
// also publishes through a background worker. The returned func flushes
// and closes the publisher.
func notificationSink(cfg config.Config, ledger *store.Ledger, base *logging.Logger) (pipeline.NotificationSink, func(), error) {
	url := config.AMQPURL(cfg)
	if url == "" {
		return ledger, func() {}, nil
	}

	logger := base.WithComponent(logging.ComponentNotifier).Logger

	pub, err := notify.NewPublisher(url, cfg.AMQP.Exchange, cfg.AMQP.Queue, logger)
	if err != nil {
		return nil, nil, err
	}
	worker := notify.NewWorker(pub, publishQueueSize, logger)
	worker.Start()

	sink := &notify.Multi{
		Primary: ledger,
		Others:  []notify.Sink{worker},
		Logger:  logger,
	}
	closeFn := func() {
		worker.Shutdown()
		if err := pub.Close(); err != nil {
			logger.Warn("closing publisher", logging.FieldError, err)
		}
	}
	return sink, closeFn, nil
}

func runAlerts(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ledger, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ledger.Close() }()

	eval := &pipeline.AlertEvaluator{
		Budgets:  ledger,
		Expenses: ledger,
		Logger:   baseLogger.WithComponent(logging.ComponentAlerts).Logger,
	}
	if !flagAlertsDryRun {
		sink, closeSink, err := notificationSink(cfg, ledger, baseLogger)
		if err != nil {
			return err
		}
		defer closeSink()
		eval.Sink = sink
	}

	result, err := eval.CheckAll(cmd.Context(), cfg.Notifications)
	if err != nil {
		return err
	}

	if len(result.BudgetAlerts) == 0 && len(result.InsightAlerts) == 0 {
		fmt.Println("\n  No alerts. Spending is within your limits.")
		return nil
	}

	fmt.Println()
	for _, a := range result.BudgetAlerts {
		fmt.Printf("  %s  %s\n", cli.PriorityStyle(a.Severity).Render(fmt.Sprintf("%-7s", a.Severity)), a.Message)
	}
	for _, n := range result.InsightAlerts {
		fmt.Printf("  %s  %s: %s\n", cli.PriorityStyle(n.Priority).Render(fmt.Sprintf("%-7s", n.Priority)), n.Title, n.Message)
	}
	if result.HasUrgentAlerts {
		fmt.Printf("\n  %s\n", cli.Warn("At least one budget is exceeded."))
	}
	if flagAlertsDryRun {
		fmt.Printf("  %s\n", cli.Muted("dry run: nothing stored"))
	}
	return nil
}

func runNotifications(cmd *cobra.Command, _ []string) error {
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
	switch {
	case flagNotifAll:
		n, err := ledger.MarkAllNotificationsRead(ctx)
		if err != nil {
			return err
		}
		infof("  Marked %d notifications as read\n", n)
		return nil
	case flagNotifMarkRead != "":
		if err := ledger.MarkNotificationRead(ctx, strings.TrimSpace(flagNotifMarkRead)); err != nil {
			return err
		}
		infof("  Marked as read\n")
		return nil
	case flagNotifPurge > 0:
		n, err := ledger.DeleteNotificationsBefore(ctx, time.Now().AddDate(0, 0, -flagNotifPurge))
		if err != nil {
			return err
		}
		infof("  Deleted %d notifications older than %d days\n", n, flagNotifPurge)
		return nil
	}

	list, err := ledger.Notifications(ctx, flagNotifLimit, flagNotifUnread)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("\n  No notifications.")
		return nil
	}

	fmt.Println()
	for _, n := range list {
		printNotification(n)
	}
	return nil
}

func printNotification(n model.Notification) {
	marker := "●"
	if n.Read {
		marker = cli.Muted("○")
	}
	fmt.Printf("  %s %s  %s  %s\n", marker,
		cli.PriorityStyle(n.Priority).Render(fmt.Sprintf("%-7s", n.Priority)),
		n.Title, cli.Muted(cli.FormatAgo(n.TriggerDate)))
	fmt.Printf("      %s\n", n.Message)
	fmt.Printf("      %s\n", cli.Muted("id "+n.ID))
}
