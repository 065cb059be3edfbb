package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"attendly/attendance"
	"attendly/internal/timeutil"
	"attendly/output"
	"attendly/reconcile"
	"attendly/storage"
)

var (
	attendanceEmployee  string
	attendanceDate      string
	attendanceKey       string
	attendanceValid     bool
	attendanceTime      string
	attendanceDirection string
	attendanceDayOffset int
	attendanceCount     int
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Show and curate the clock punches of one employee-day",
	Long: `Show and curate the clock punches of one employee-day.

Events are addressed by key: "id:<n>" for stored punches as listed by
"attendance show". Every curation command saves the day and recomputes its
attendance remark.`,
	Example: `
  # List punches with their keys
  attendly attendance show --employee E1 --date 2024-03-04

  # Invalidate a duplicate punch
  attendly attendance set-valid --employee E1 --date 2024-03-04 --key id:12 --valid=false

  # Correct a punch time; 02:15 the next morning of a night shift is 26:15
  attendly attendance edit --employee E1 --date 2024-03-04 --key id:13 --time 26:15

  # Add a forgotten punch
  attendly attendance add --employee E1 --date 2024-03-04 --time 09:00 --direction in
`,
}

var attendanceShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List the punches, roster and classification of one day",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDay(func(store *storage.SQLiteStore, day *attendance.Day, opts reconcile.Options, _ *logrus.Logger) error {
			return printDay(os.Stdout, store, day, opts)
		})
	},
}

var attendanceSetValidCmd = &cobra.Command{
	Use:   "set-valid",
	Short: "Mark one punch valid or invalid",
	RunE: func(cmd *cobra.Command, args []string) error {
		return curateDay(func(day *attendance.Day) error {
			key, err := lookupKey(day, attendanceKey)
			if err != nil {
				return err
			}
			day.SetValidity(key, attendanceValid)
			return nil
		})
	},
}

var attendanceEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Change the time of one punch",
	RunE: func(cmd *cobra.Command, args []string) error {
		return curateDay(func(day *attendance.Day) error {
			key, err := lookupKey(day, attendanceKey)
			if err != nil {
				return err
			}
			return day.UpsertTime(key, attendanceTime)
		})
	},
}

var attendanceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a manual punch",
	RunE: func(cmd *cobra.Command, args []string) error {
		return curateDay(func(day *attendance.Day) error {
			_, err := day.AddDraft(attendance.ClockEvent{
				Time:      attendanceTime,
				DayOffset: attendanceDayOffset,
				Direction: strings.ToLower(strings.TrimSpace(attendanceDirection)),
			})
			return err
		})
	},
}

var attendanceRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Invalidate one stored punch",
	RunE: func(cmd *cobra.Command, args []string) error {
		return curateDay(func(day *attendance.Day) error {
			key, err := lookupKey(day, attendanceKey)
			if err != nil {
				return err
			}
			return day.Remove(key)
		})
	},
}

var attendanceAutoSelectCmd = &cobra.Command{
	Use:   "auto-select",
	Short: "Keep only the earliest punches of the day valid",
	RunE: func(cmd *cobra.Command, args []string) error {
		return curateDay(func(day *attendance.Day) error {
			day.AutoSelectEarliestN(attendanceCount)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(attendanceCmd)
	attendanceCmd.AddCommand(
		attendanceShowCmd,
		attendanceSetValidCmd,
		attendanceEditCmd,
		attendanceAddCmd,
		attendanceRemoveCmd,
		attendanceAutoSelectCmd,
	)

	attendanceCmd.PersistentFlags().StringVar(&attendanceEmployee, "employee", "", "Employee ID")
	attendanceCmd.PersistentFlags().StringVar(&attendanceDate, "date", "", "Day, format YYYY-MM-DD")
	_ = attendanceCmd.MarkPersistentFlagRequired("employee")
	_ = attendanceCmd.MarkPersistentFlagRequired("date")

	for _, command := range []*cobra.Command{attendanceSetValidCmd, attendanceEditCmd, attendanceRemoveCmd} {
		command.Flags().StringVar(&attendanceKey, "key", "", "Event key, e.g. id:12")
		_ = command.MarkFlagRequired("key")
	}
	attendanceSetValidCmd.Flags().BoolVar(&attendanceValid, "valid", true, "Validity to set")
	for _, command := range []*cobra.Command{attendanceEditCmd, attendanceAddCmd} {
		command.Flags().StringVar(&attendanceTime, "time", "", "Time in HH:mm; hours up to 32 for the next morning")
		_ = command.MarkFlagRequired("time")
	}
	attendanceAddCmd.Flags().StringVar(&attendanceDirection, "direction", "", "Punch direction: in|out (optional)")
	attendanceAddCmd.Flags().IntVar(&attendanceDayOffset, "day-offset", 0, "1 when the punch belongs to the next calendar day")
	attendanceAutoSelectCmd.Flags().IntVar(&attendanceCount, "count", 0, "Number of punches to keep (default attendance.max_valid_punches)")
}

func withDay(fn func(store *storage.SQLiteStore, day *attendance.Day, opts reconcile.Options, logger *logrus.Logger) error) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	opts, err := reconcileOptions(cfg, "")
	if err != nil {
		return err
	}
	if attendanceCount <= 0 {
		attendanceCount = cfg.Attendance.MaxValidPunches
	}

	date, err := timeutil.ParseDate(attendanceDate, time.Local)
	if err != nil {
		return err
	}
	employeeID := strings.TrimSpace(attendanceEmployee)

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	events, err := store.ListClockEvents(employeeID, date)
	if err != nil {
		return err
	}
	return fn(store, attendance.NewDay(employeeID, date, events), opts, logger)
}

// curateDay applies one change to the stored day, saves it and recomputes
// the day's remark.
func curateDay(apply func(day *attendance.Day) error) error {
	return withDay(func(store *storage.SQLiteStore, day *attendance.Day, opts reconcile.Options, logger *logrus.Logger) error {
		if err := apply(day); err != nil {
			return err
		}
		saved, err := day.Save(store)
		if err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{
			"employee_id":      day.EmployeeID,
			"date":             timeutil.FormatDate(day.Date),
			"validity_updated": saved.ValidityUpdated,
			"times_updated":    saved.TimesUpdated,
			"created":          saved.Created,
		}).Info("attendance day curated")

		if _, err := reconcile.ReconcileDay(store, day.EmployeeID, day.Date, opts); err != nil {
			return fmt.Errorf("reconcile %s %s: %w", day.EmployeeID, timeutil.FormatDate(day.Date), err)
		}
		return printDay(os.Stdout, store, day, opts)
	})
}

func lookupKey(day *attendance.Day, raw string) (attendance.Key, error) {
	key, err := attendance.ParseKey(raw)
	if err != nil {
		return "", err
	}
	if _, ok := day.Get(key); !ok {
		return "", fmt.Errorf("%w: %s", attendance.ErrEventNotFound, key)
	}
	return key, nil
}

func printDay(out io.Writer, store *storage.SQLiteStore, day *attendance.Day, opts reconcile.Options) error {
	roster, err := store.GetRoster(day.EmployeeID, day.Date)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s\n", day.EmployeeID, timeutil.FormatDate(day.Date))
	if roster.Empty() {
		fmt.Fprintln(out, "Roster: none")
	} else {
		fmt.Fprintf(out, "Roster: %s - %s %s\n", roster.ScheduledStart, roster.ScheduledEnd, roster.Location)
	}

	table := output.Table{Headers: []string{"Key", "Time", "DayOffset", "Direction", "Valid", "Source"}}
	for _, event := range day.Events() {
		table.Rows = append(table.Rows, []string{
			string(event.Key()),
			event.Time,
			strconv.Itoa(event.DayOffset),
			event.Direction,
			strconv.FormatBool(event.Valid),
			string(event.Source),
		})
	}
	if err := printTable(out, table); err != nil {
		return err
	}

	result, err := reconcile.Compare(roster, day.Events(), opts)
	if err != nil {
		fmt.Fprintf(out, "Remarks: unavailable (%v)\n", err)
		return nil
	}
	fmt.Fprintf(out, "Remarks: %s\n", reconcile.FormatRemarks(result))
	return nil
}
