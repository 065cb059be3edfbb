package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"attendly/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. Values set
through ATTENDLY_* environment variables or global flags are included.`,
	Example: `
  # Show active configuration
  attendly config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		} else {
			fmt.Println("No config file loaded, showing defaults.")
		}
		fmt.Println("Configuration:")
		fmt.Printf("database.path: %s\n", cfg.Database.Path)
		fmt.Printf("log.level: %s\n", cfg.Log.Level)
		fmt.Printf("log.format: %s\n", cfg.Log.Format)
		fmt.Printf("leave.include_weekends: %t\n", cfg.Leave.IncludeWeekends)
		fmt.Printf("leave.exclude_holidays: %t\n", cfg.Leave.ExcludeHolidays)
		fmt.Printf("attendance.max_valid_punches: %d\n", cfg.Attendance.MaxValidPunches)
		fmt.Printf("attendance.overtime_threshold_minutes: %d\n", cfg.Attendance.OvertimeThresholdMinutes)
		fmt.Printf("attendance.cross_midnight_mode: %s\n", cfg.Attendance.CrossMidnightMode)
		fmt.Printf("import.auto_reconcile_after_import: %t\n", cfg.Import.AutoReconcileAfterImport)
		fmt.Printf("import.rules: %d\n", len(cfg.Import.Rules))
		for i, rule := range cfg.Import.Rules {
			fmt.Printf("import.rules[%d].name: %s\n", i, rule.Name)
			fmt.Printf("import.rules[%d].kind: %s\n", i, rule.Kind)
			fmt.Printf("import.rules[%d].file_template: %s\n", i, rule.FileTemplate)
			if rule.Format != "" {
				fmt.Printf("import.rules[%d].format: %s\n", i, rule.Format)
			}
			if rule.BranchCode != "" {
				fmt.Printf("import.rules[%d].branch_code: %s\n", i, rule.BranchCode)
			}
			if rule.Sheet != "" {
				fmt.Printf("import.rules[%d].sheet: %s\n", i, rule.Sheet)
			}
		}
		fmt.Printf("serve.port: %d\n", cfg.Serve.Port)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
