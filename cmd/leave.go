package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"attendly/config"
	"attendly/internal/timeutil"
	"attendly/leave"
	"attendly/output"
)

var (
	leaveStart           string
	leaveEnd             string
	leaveStartSession    string
	leaveEndSession      string
	leaveIncludeWeekends bool
	leaveExcludeHolidays bool
	leaveEmployee        string
	leaveType            string
	leaveReason          string
)

var leaveCmd = &cobra.Command{
	Use:   "leave",
	Short: "Compute, submit and list leave requests",
	Long: `Compute leave durations in half-day steps.

A leave runs from the start session (AM|PM) of the first day to the end session of
the last day. Weekends are skipped unless included; public holidays stored with
"attendly import holiday" are deducted unless --exclude-holidays=false.`,
}

var leaveComputeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute the net days of a leave span",
	Example: `
  # Monday morning to Friday evening
  attendly leave compute --start 2024-03-04 --end 2024-03-08

  # Afternoon of the first day to the morning of the last day, weekends counted
  attendly leave compute --start 2024-03-04 --end 2024-03-11 --start-session PM --end-session AM --include-weekends
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		service, closeStore, err := openLeaveService()
		if err != nil {
			return err
		}
		defer closeStore()

		result, err := service.Compute(leaveComputeRequest(cmd))
		if err != nil {
			return err
		}

		fmt.Printf("Net days: %.1f\n", result.NetDays)
		fmt.Printf("Base days: %d\n", result.BaseDays)
		fmt.Printf("Holiday deduction: %.1f\n", result.HolidayDeduction)
		for _, record := range result.Holidays {
			fmt.Printf("  %s %s\n", record.Key(), record.Name)
		}
		if result.HolidayLookupFailed {
			fmt.Println("Warning: holiday lookup failed, no holidays were deducted")
		}
		return nil
	},
}

var leaveSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Compute a leave request and store it for approval",
	Example: `
  attendly leave submit --employee E1 --type annual --start 2024-03-04 --end 2024-03-05 --reason "family visit"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		service, closeStore, err := openLeaveService()
		if err != nil {
			return err
		}
		defer closeStore()

		request, err := service.Submit(leave.SubmitRequest{
			ComputeRequest: leaveComputeRequest(cmd),
			EmployeeID:     leaveEmployee,
			LeaveType:      leaveType,
			Reason:         leaveReason,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Leave request %d stored for %s: %s %s to %s %s, %.1f days (%s)\n",
			request.ID,
			request.EmployeeID,
			timeutil.FormatDate(request.StartDate),
			request.StartSession,
			timeutil.FormatDate(request.EndDate),
			request.EndSession,
			request.NetDays,
			request.Status,
		)
		return nil
	},
}

var leaveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored leave requests, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadRuntime()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		requests, err := store.ListLeaveRequests(leaveEmployee)
		if err != nil {
			return err
		}
		if len(requests) == 0 {
			fmt.Println("No leave requests found.")
			return nil
		}
		return printTable(os.Stdout, output.LeaveTable(requests))
	},
}

func init() {
	rootCmd.AddCommand(leaveCmd)
	leaveCmd.AddCommand(leaveComputeCmd, leaveSubmitCmd, leaveListCmd)

	for _, command := range []*cobra.Command{leaveComputeCmd, leaveSubmitCmd} {
		command.Flags().StringVar(&leaveStart, "start", "", "First leave day, format YYYY-MM-DD")
		command.Flags().StringVar(&leaveEnd, "end", "", "Last leave day, format YYYY-MM-DD")
		command.Flags().StringVar(&leaveStartSession, "start-session", "AM", "Session the leave starts in: AM|PM")
		command.Flags().StringVar(&leaveEndSession, "end-session", "PM", "Session the leave ends in: AM|PM")
		command.Flags().BoolVar(&leaveIncludeWeekends, "include-weekends", false, "Count Saturdays and Sundays (default from config)")
		command.Flags().BoolVar(&leaveExcludeHolidays, "exclude-holidays", false, "Deduct stored public holidays (default from config)")
		_ = command.MarkFlagRequired("start")
		_ = command.MarkFlagRequired("end")
	}
	leaveSubmitCmd.Flags().StringVar(&leaveEmployee, "employee", "", "Employee ID")
	leaveSubmitCmd.Flags().StringVar(&leaveType, "type", "", "Leave type, e.g. annual or sick")
	leaveSubmitCmd.Flags().StringVar(&leaveReason, "reason", "", "Free-text reason")
	_ = leaveSubmitCmd.MarkFlagRequired("employee")
	_ = leaveSubmitCmd.MarkFlagRequired("type")
	leaveListCmd.Flags().StringVar(&leaveEmployee, "employee", "", "Only list requests of this employee")
}

// leaveComputeRequest leaves the weekend and holiday flags nil unless they
// were given, so the configured defaults apply.
func leaveComputeRequest(cmd *cobra.Command) leave.ComputeRequest {
	req := leave.ComputeRequest{
		StartDate:    leaveStart,
		EndDate:      leaveEnd,
		StartSession: leaveStartSession,
		EndSession:   leaveEndSession,
	}
	if cmd.Flags().Changed("include-weekends") {
		value := leaveIncludeWeekends
		req.IncludeWeekends = &value
	}
	if cmd.Flags().Changed("exclude-holidays") {
		value := leaveExcludeHolidays
		req.ExcludeHolidays = &value
	}
	return req
}

func openLeaveService() (*leave.Service, func(), error) {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return nil, nil, err
	}
	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	service := leave.NewService(store, store, logger, leaveDefaults(cfg))
	return service, func() { _ = store.Close() }, nil
}

func leaveDefaults(cfg *config.Config) leave.Defaults {
	return leave.Defaults{
		IncludeWeekends: cfg.Leave.IncludeWeekends,
		ExcludeHolidays: cfg.Leave.ExcludeHolidays,
		Location:        time.Local,
	}
}
