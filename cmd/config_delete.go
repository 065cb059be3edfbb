package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configDeleteForce bool

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file currently selected by attendly.

A config that still defines import rules is only deleted with --force, since
the rules are lost with it. The attendance database is never touched; use
"attendly delete" for that.`,
	Example: `
  # Delete active config
  attendly config delete

  # Delete a config that still holds import rules
  attendly --configFile ./custom-attendly.yaml config delete --force
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := viper.ConfigFileUsed()
		if configPath == "" {
			return fmt.Errorf("no configuration file found")
		}

		content, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("read configuration file: %w", err)
		}
		if rules := configuredRuleNames(content); len(rules) > 0 && !configDeleteForce {
			return fmt.Errorf("config %s defines import rules (%s); pass --force to delete it anyway", configPath, strings.Join(rules, ", "))
		}

		if err := os.Remove(configPath); err != nil {
			return fmt.Errorf("error deleting configuration file: %w", err)
		}

		fmt.Printf("Configuration file successfully deleted: %s\n", configPath)
		fmt.Println(`The attendance database was not touched; use "attendly delete" to remove it.`)
		return nil
	},
}

// configuredRuleNames lists the import rule names of a config file. A file
// that does not parse has none, so a broken config can always be deleted.
func configuredRuleNames(content []byte) []string {
	var doc struct {
		Import struct {
			Rules []struct {
				Name string `yaml:"name"`
			} `yaml:"rules"`
		} `yaml:"import"`
	}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil
	}

	names := make([]string, 0, len(doc.Import.Rules))
	for _, rule := range doc.Import.Rules {
		if name := strings.TrimSpace(rule.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func init() {
	configCmd.AddCommand(configDeleteCmd)

	configDeleteCmd.Flags().BoolVar(&configDeleteForce, "force", false, "Delete even when import rules are defined")
}
