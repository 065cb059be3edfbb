package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"attendly/internal/timeutil"
	"attendly/output"
)

var (
	exportFormat   string
	exportMode     string
	exportOutput   string
	exportFrom     string
	exportTo       string
	exportEmployee string
	exportDelim    string
	exportBOM      bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export attendance remarks, leave requests or per-employee summaries to CSV/Excel",
	Long: `Export data from SQLite.

Modes:
- attendance: one row per reconciled employee-day (statuses, minutes, remarks)
- leave: one row per stored leave request
- summary: per-employee totals of the reconciled days

Run "attendly reconcile" first so remarks reflect the latest punches.
Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Export March attendance to Excel
  attendly export --mode attendance --from 2024-03-01 --to 2024-03-31 --output ./attendance.xlsx

  # Export leave requests of one employee to CSV
  attendly export --mode leave --employee E1 --output ./leave.csv

  # Export per-employee summary
  attendly export --mode summary --output ./summary.csv

  # Semicolon CSV with BOM for spreadsheets in comma-decimal locales
  attendly export --mode attendance --output ./attendance.csv --delimiter semicolon --bom
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}
		writer, err := output.WriterForFormat(format, output.Options{Delimiter: exportDelim, BOM: exportBOM})
		if err != nil {
			return err
		}

		cfg, _, err := loadRuntime()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		from, to, err := parseExportRange(exportFrom, exportTo)
		if err != nil {
			return err
		}

		var table output.Table
		mode := strings.TrimSpace(strings.ToLower(exportMode))
		switch mode {
		case "", "attendance":
			mode = "attendance"
			remarks, err := store.ListAttendanceRemarks(from, to)
			if err != nil {
				return err
			}
			table = output.AttendanceTable(remarks)
		case "leave":
			requests, err := store.ListLeaveRequests(exportEmployee)
			if err != nil {
				return err
			}
			table = output.LeaveTable(requests)
		case "summary":
			remarks, err := store.ListAttendanceRemarks(from, to)
			if err != nil {
				return err
			}
			table = output.SummaryTable(output.BuildEmployeeSummaries(remarks))
		default:
			return fmt.Errorf("unsupported export mode: %s (supported: attendance, leave, summary)", exportMode)
		}

		if err := writer.Write(exportOutput, table); err != nil {
			return err
		}
		fmt.Printf("Export completed. Rows: %d, Mode: %s, Format: %s, File: %s\n", len(table.Rows), mode, format, exportOutput)
		return nil
	},
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

// parseExportRange parses optional YYYY-MM-DD bounds; an empty bound stays
// zero and means open-ended.
func parseExportRange(fromValue, toValue string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if strings.TrimSpace(fromValue) != "" {
		if from, err = timeutil.ParseDate(fromValue, time.Local); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from value: %w", err)
		}
	}
	if strings.TrimSpace(toValue) != "" {
		if to, err = timeutil.ParseDate(toValue, time.Local); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to value: %w", err)
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid range: --from must be <= --to")
	}
	return from, to, nil
}

func printTable(out io.Writer, table output.Table) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(table.Headers, "\t"))
	for _, row := range table.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMode, "mode", "attendance", "Export mode: attendance|leave|summary")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "First date of attendance/summary exports, format YYYY-MM-DD")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "Last date of attendance/summary exports, format YYYY-MM-DD")
	exportCmd.Flags().StringVar(&exportEmployee, "employee", "", "Only export leave requests of this employee")
	exportCmd.Flags().StringVar(&exportDelim, "delimiter", ",", "CSV delimiter: comma|semicolon|tab")
	exportCmd.Flags().BoolVar(&exportBOM, "bom", false, "Start CSV output with a UTF-8 BOM")

	_ = exportCmd.MarkFlagRequired("output")
}
