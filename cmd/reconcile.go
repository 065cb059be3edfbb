package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"attendly/internal/timeutil"
	"attendly/reconcile"
)

var (
	reconcileMode     string
	reconcileEmployee string
	reconcileDate     string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Classify every stored employee-day against its roster",
	Long: `Compare the first and last valid punch of each employee-day with the scheduled
shift and store the resulting remark (late, early leave, overtime, absent, on time).

Days without a roster are stored as unclassified ("No roster"). Days with a roster
but no valid punch are absent.

Cross-midnight modes:
- heuristic: when the shift ends after midnight, early-morning punches count as next day
- explicit: only the day_offset recorded on each punch is trusted`,
	Example: `
  # Reconcile everything with the configured mode
  attendly reconcile

  # Reconcile a single day with explicit day offsets
  attendly reconcile --employee E1 --date 2024-03-04 --mode explicit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadRuntime()
		if err != nil {
			return err
		}
		opts, err := reconcileOptions(cfg, reconcileMode)
		if err != nil {
			return err
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if strings.TrimSpace(reconcileEmployee) != "" || strings.TrimSpace(reconcileDate) != "" {
			if strings.TrimSpace(reconcileEmployee) == "" || strings.TrimSpace(reconcileDate) == "" {
				return fmt.Errorf("--employee and --date must be given together")
			}
			date, err := timeutil.ParseDate(reconcileDate, time.Local)
			if err != nil {
				return err
			}
			result, err := reconcile.ReconcileDay(store, reconcileEmployee, date, opts)
			if err != nil {
				return err
			}
			fmt.Printf("%s %s: %s\n", reconcileEmployee, timeutil.FormatDate(date), reconcile.FormatRemarks(result))
			return nil
		}

		summary, err := reconcile.Run(store, opts)
		if err != nil {
			return err
		}
		fmt.Print("Reconcile completed. ")
		printReconcileSummary(summary)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVar(&reconcileMode, "mode", "", "Cross-midnight mode: heuristic|explicit (default from config)")
	reconcileCmd.Flags().StringVar(&reconcileEmployee, "employee", "", "Reconcile only this employee (requires --date)")
	reconcileCmd.Flags().StringVar(&reconcileDate, "date", "", "Reconcile only this date, format YYYY-MM-DD (requires --employee)")
}

func printReconcileSummary(summary *reconcile.Summary) {
	fmt.Printf("Days processed: %d, Remarks saved: %d\n", summary.DaysProcessed, summary.RemarksSaved)

	statuses := make([]string, 0, len(summary.ByStatus))
	for status := range summary.ByStatus {
		statuses = append(statuses, string(status))
	}
	sort.Strings(statuses)
	for _, status := range statuses {
		fmt.Printf("  %s: %d\n", status, summary.ByStatus[reconcile.Status(status)])
	}
	for _, failure := range summary.Failed {
		fmt.Printf("  failed: %s\n", failure)
	}
}
