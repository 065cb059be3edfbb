package cmd

import "github.com/spf13/cobra"

var configRuleCmd = &cobra.Command{
	Use:   "rule",
	Short: "Manage import rules in config.",
	Long: `Manage import rules stored under config key import.rules.

A rule binds a file name template to an import kind (clock, roster, holiday),
the reader format its files use and, for punch files, a default branch code.`,
}

func init() {
	configCmd.AddCommand(configRuleCmd)
}
