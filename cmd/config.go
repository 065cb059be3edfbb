package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage attendly configuration file values.",
	Long: `Create, edit, display, and delete the attendly configuration file.

The configuration stores application-wide values and import rules:
- database.path, log.level, log.format
- leave.include_weekends / leave.exclude_holidays
- attendance.max_valid_punches / overtime_threshold_minutes / cross_midnight_mode
- import.auto_reconcile_after_import
- import.rules[].name / kind / file_template / format / branch_code / sheet
- serve.port

Every key can also be set through the environment, e.g. ATTENDLY_DATABASE_PATH.`,
	Example: `
  # Create default config in $HOME/.attendly.yaml
  attendly config create

  # Show active config and source file
  attendly config show

  # Open active config in editor (creates example if missing)
  attendly config edit

  # Add one import rule
  attendly config rule add --name terminal-3 --kind clock --template "T3_*.txt" --format device --branch T3

  # Delete active config file
  attendly config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
