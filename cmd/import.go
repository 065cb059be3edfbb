package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"attendly/config"
	"attendly/holiday"
	"attendly/importer"
	"attendly/reconcile"
	"attendly/storage"
)

var (
	importInputs        []string
	importFormat        string
	importReconcileMode string
	importYear          int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import clock punches, rosters or public holidays into the local SQLite database",
	Long: `Read source files, map each row for the selected kind, and persist results in SQLite.

When --format is omitted, the format comes from a matching import rule in the
configuration, and otherwise from each input file extension. Re-importing the
same punch file does not duplicate events.

After clock or roster imports every stored employee-day is reconciled against
its roster, unless --reconcile off is given or import.auto_reconcile_after_import
is false.`,
}

var importClockCmd = &cobra.Command{
	Use:   "clock",
	Short: "Import clock punches",
	Example: `
  # Import a CSV punch export
  attendly import clock -i punches-2024-03.csv

  # Import a UTF-16 device export and skip reconciliation
  attendly import clock -i T3_202403.txt --format device --reconcile off
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}

		result, err := importer.ImportClock(importInputs, importOptions(cfg))
		if err != nil {
			return err
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		inserted, err := store.InsertClockEvents(result.Events)
		if err != nil {
			return err
		}

		reselected, err := importer.ReselectStoredDays(store, result.Events, cfg.Attendance.MaxValidPunches)
		if err != nil {
			return err
		}

		logger.WithFields(logrus.Fields{
			"files":           result.FilesProcessed,
			"inserted":        inserted,
			"duplicates":      result.Duplicates,
			"days_corrected":  result.DaysCorrected,
			"days_reselected": reselected,
		}).Debug("clock import persisted")
		printImportResult(result.Result, inserted)
		fmt.Printf("Duplicate punches dropped: %d\n", result.Duplicates)
		fmt.Printf("Days with more than %d punches corrected: %d\n", cfg.Attendance.MaxValidPunches, result.DaysCorrected+reselected)

		return reconcileAfterImport(cfg, store)
	},
}

var importRosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Import scheduled shifts",
	Example: `
  # Import a roster workbook; shifts ending after midnight use hours such as 26:00
  attendly import roster -i roster-2024-03.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadRuntime()
		if err != nil {
			return err
		}

		result, err := importer.ImportRosters(importInputs, importOptions(cfg))
		if err != nil {
			return err
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		stored, err := store.UpsertRosters(result.Rosters)
		if err != nil {
			return err
		}
		printImportResult(result.Result, stored)

		return reconcileAfterImport(cfg, store)
	},
}

var importHolidayCmd = &cobra.Command{
	Use:   "holiday",
	Short: "Import the public holidays of one year",
	Long: `Import public holidays from CSV/Excel/device files or from JSON calendar files
({"year": 2024, "holidays": [{"date": "2024-01-01", "name": "New Year"}]}).

--year is required; a row dated in another year fails the import.`,
	Example: `
  # Import a JSON calendar
  attendly import holiday -i holidays-2024.json --year 2024

  # Import a CSV list with date,name columns
  attendly import holiday -i holidays.csv --year 2024
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadRuntime()
		if err != nil {
			return err
		}

		records, result, err := importHolidays(importInputs, importOptions(cfg))
		if err != nil {
			return err
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		stored, err := store.InsertHolidays(records)
		if err != nil {
			return err
		}
		printImportResult(result, stored)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.AddCommand(importClockCmd, importRosterCmd, importHolidayCmd)

	importCmd.PersistentFlags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.PersistentFlags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|excel|device (optional, inferred from rule or extension)")
	importClockCmd.Flags().StringVar(&importReconcileMode, "reconcile", "auto", "Reconcile mode after import: auto|on|off")
	importRosterCmd.Flags().StringVar(&importReconcileMode, "reconcile", "auto", "Reconcile mode after import: auto|on|off")
	importHolidayCmd.Flags().IntVar(&importYear, "year", 0, "Calendar year of the imported holidays")

	_ = importCmd.MarkPersistentFlagRequired("input")
	_ = importHolidayCmd.MarkFlagRequired("year")
}

func importOptions(cfg *config.Config) importer.Options {
	return importer.Options{
		Format:          importFormat,
		Location:        time.Local,
		Rules:           cfg.Import.Rules,
		MaxValidPunches: cfg.Attendance.MaxValidPunches,
		Year:            importYear,
	}
}

// importHolidays loads .json paths as calendar files and every other path
// through the tabular importer.
func importHolidays(paths []string, options importer.Options) ([]holiday.Record, importer.Result, error) {
	calendars, tabular := splitCalendarPaths(paths, options.Format)

	var result importer.Result
	records := make([]holiday.Record, 0, 16)
	for _, path := range calendars {
		loaded, err := holiday.LoadCalendarJSON(path, options.Year, options.Location)
		if err != nil {
			return nil, result, err
		}
		result.FilesProcessed++
		result.RowsRead += len(loaded)
		result.RowsMapped += len(loaded)
		records = append(records, loaded...)
	}

	if len(tabular) > 0 {
		imported, err := importer.ImportHolidays(tabular, options)
		if err != nil {
			return nil, result, err
		}
		result.FilesProcessed += imported.FilesProcessed
		result.RowsRead += imported.RowsRead
		result.RowsMapped += imported.RowsMapped
		result.RowsSkipped += imported.RowsSkipped
		records = append(records, imported.Holidays...)
	}
	return records, result, nil
}

func splitCalendarPaths(paths []string, format string) (calendars, tabular []string) {
	for _, path := range paths {
		if strings.EqualFold(filepath.Ext(path), ".json") && strings.TrimSpace(format) == "" {
			calendars = append(calendars, path)
			continue
		}
		tabular = append(tabular, path)
	}
	return calendars, tabular
}

func printImportResult(result importer.Result, persisted int) {
	fmt.Printf("Import completed. Files: %d, Rows read: %d, Rows mapped: %d, Rows skipped: %d, Rows persisted: %d\n",
		result.FilesProcessed,
		result.RowsRead,
		result.RowsMapped,
		result.RowsSkipped,
		persisted,
	)
}

func reconcileAfterImport(cfg *config.Config, store *storage.SQLiteStore) error {
	shouldReconcile, err := resolveReconcileMode(importReconcileMode, cfg.Import.AutoReconcileAfterImport)
	if err != nil {
		return err
	}
	if !shouldReconcile {
		return nil
	}

	opts, err := reconcileOptions(cfg, "")
	if err != nil {
		return err
	}
	summary, err := reconcile.Run(store, opts)
	if err != nil {
		return err
	}
	fmt.Print("Auto-reconcile completed. ")
	printReconcileSummary(summary)
	return nil
}

func resolveReconcileMode(mode string, configDefault bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return configDefault, nil
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid reconcile mode %q (supported: auto|on|off)", mode)
	}
}
