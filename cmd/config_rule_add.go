package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"attendly/config"
	"attendly/importer"
)

var (
	configRuleAddName     string
	configRuleAddKind     string
	configRuleAddTemplate string
	configRuleAddFormat   string
	configRuleAddBranch   string
	configRuleAddSheet    string
)

var configRuleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add one import rule to the config.",
	Long: `Append a rule to import.rules in the active config file.

Values not given as flags are asked for interactively. The updated file is
validated before it is written.`,
	Example: `
  # Punch files of terminal 3 are UTF-16 device exports
  attendly config rule add --name terminal-3 --kind clock --template "T3_*.txt" --format device --branch T3

  # Rosters live on the "Shifts" sheet of the planning workbook
  attendly config rule add --name rosters --kind roster --template "plan-*.xlsx" --sheet Shifts

  # Choose the kind interactively
  attendly config rule add --name rosters --template "roster-*.xlsx"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		_, err = ensureConfigFileWithTemplate(configPath)
		if err != nil {
			return err
		}

		reader := bufio.NewReader(os.Stdin)
		rule, err := completeRule(reader, os.Stdout, config.ImportRule{
			Name:         configRuleAddName,
			Kind:         configRuleAddKind,
			FileTemplate: configRuleAddTemplate,
			Format:       configRuleAddFormat,
			BranchCode:   configRuleAddBranch,
			Sheet:        configRuleAddSheet,
		})
		if err != nil {
			return err
		}

		current, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("read config file: %w", err)
		}

		updated, err := appendRuleToConfigYAML(current, rule)
		if err != nil {
			return err
		}

		if err := os.WriteFile(configPath, updated, 0o600); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}

		fmt.Println("Rule added successfully.")
		fmt.Printf("Config:   %s\n", configPath)
		fmt.Printf("Name:     %s\n", rule.Name)
		fmt.Printf("Kind:     %s\n", rule.Kind)
		fmt.Printf("Template: %s\n", rule.FileTemplate)
		if rule.Format != "" {
			fmt.Printf("Format:   %s\n", rule.Format)
		}
		if rule.BranchCode != "" {
			fmt.Printf("Branch:   %s\n", rule.BranchCode)
		}
		if rule.Sheet != "" {
			fmt.Printf("Sheet:    %s\n", rule.Sheet)
		}
		return nil
	},
}

// completeRule prompts for the required fields the flags left empty.
func completeRule(reader *bufio.Reader, out io.Writer, rule config.ImportRule) (config.ImportRule, error) {
	var err error
	if strings.TrimSpace(rule.Kind) == "" {
		kinds := importer.SupportedKinds()
		index, promptErr := promptSelectIndex(reader, out, "Select import kind:", kinds)
		if promptErr != nil {
			return rule, promptErr
		}
		rule.Kind = kinds[index]
	}
	if strings.TrimSpace(rule.Name) == "" {
		if rule.Name, err = promptRequiredString(reader, out, "Rule name"); err != nil {
			return rule, err
		}
	}
	if strings.TrimSpace(rule.FileTemplate) == "" {
		if rule.FileTemplate, err = promptRequiredString(reader, out, "File template (example: T3_*.txt)"); err != nil {
			return rule, err
		}
	}

	rule.Name = strings.TrimSpace(rule.Name)
	rule.Kind = strings.ToLower(strings.TrimSpace(rule.Kind))
	rule.FileTemplate = strings.TrimSpace(rule.FileTemplate)
	rule.Format = strings.ToLower(strings.TrimSpace(rule.Format))
	rule.BranchCode = strings.TrimSpace(rule.BranchCode)
	rule.Sheet = strings.TrimSpace(rule.Sheet)
	return rule, nil
}

func promptSelectIndex(reader *bufio.Reader, out io.Writer, title string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, fmt.Errorf("no options available for %q", title)
	}

	for {
		fmt.Fprintln(out, title)
		for i, option := range options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, option)
		}
		fmt.Fprintf(out, "Choose [1-%d]: ", len(options))

		input, err := reader.ReadString('\n')
		if err != nil {
			return -1, fmt.Errorf("read selection input: %w", err)
		}
		input = strings.TrimSpace(input)
		choice, err := strconv.Atoi(input)
		if err != nil || choice < 1 || choice > len(options) {
			fmt.Fprintln(out, "Invalid selection. Please enter a valid number.")
			continue
		}
		return choice - 1, nil
	}
}

func promptRequiredString(reader *bufio.Reader, out io.Writer, label string) (string, error) {
	for {
		fmt.Fprintf(out, "%s: ", strings.TrimSpace(label))
		input, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("read %s: %w", strings.TrimSpace(strings.ToLower(label)), err)
		}
		value := strings.TrimSpace(input)
		if value == "" {
			fmt.Fprintln(out, "Value must not be empty.")
			continue
		}
		return value, nil
	}
}

func appendRuleToConfigYAML(content []byte, rule config.ImportRule) ([]byte, error) {
	if strings.TrimSpace(rule.Name) == "" {
		return nil, fmt.Errorf("rule name is required")
	}
	if strings.TrimSpace(rule.Kind) == "" {
		return nil, fmt.Errorf("kind is required")
	}
	if strings.TrimSpace(rule.FileTemplate) == "" {
		return nil, fmt.Errorf("file template is required")
	}

	doc := map[string]any{}
	if strings.TrimSpace(string(content)) != "" {
		if err := yaml.Unmarshal(content, &doc); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	importSection, err := ensureMapAny(doc, "import")
	if err != nil {
		return nil, err
	}
	rulesList, err := ensureSliceAny(importSection, "rules")
	if err != nil {
		return nil, err
	}

	for _, existing := range rulesList {
		ruleMap, ok := existing.(map[string]any)
		if !ok {
			continue
		}
		existingName, _ := ruleMap["name"].(string)
		if strings.EqualFold(strings.TrimSpace(existingName), strings.TrimSpace(rule.Name)) {
			return nil, fmt.Errorf("rule with name %q already exists", rule.Name)
		}
	}

	entry := map[string]any{
		"name":          rule.Name,
		"kind":          rule.Kind,
		"file_template": rule.FileTemplate,
	}
	if rule.Format != "" {
		entry["format"] = rule.Format
	}
	if rule.BranchCode != "" {
		entry["branch_code"] = rule.BranchCode
	}
	if rule.Sheet != "" {
		entry["sheet"] = rule.Sheet
	}
	importSection["rules"] = append(rulesList, entry)

	updated, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal updated config yaml: %w", err)
	}
	if _, err := config.ValidateYAMLContent(updated); err != nil {
		return nil, fmt.Errorf("updated config is invalid: %w", err)
	}
	return updated, nil
}

func ensureMapAny(doc map[string]any, key string) (map[string]any, error) {
	raw, exists := doc[key]
	if !exists || raw == nil {
		result := map[string]any{}
		doc[key] = result
		return result, nil
	}
	result, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("config key %q must be a mapping", key)
	}
	return result, nil
}

func ensureSliceAny(doc map[string]any, key string) ([]any, error) {
	raw, exists := doc[key]
	if !exists || raw == nil {
		result := []any{}
		doc[key] = result
		return result, nil
	}
	result, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("config key %q must be a list", key)
	}
	return result, nil
}

func init() {
	configRuleCmd.AddCommand(configRuleAddCmd)

	configRuleAddCmd.Flags().StringVar(&configRuleAddName, "name", "", "Unique rule name")
	configRuleAddCmd.Flags().StringVar(&configRuleAddKind, "kind", "", "Import kind: clock|roster|holiday")
	configRuleAddCmd.Flags().StringVar(&configRuleAddTemplate, "template", "", "File name template, glob syntax (example: T3_*.txt)")
	configRuleAddCmd.Flags().StringVar(&configRuleAddFormat, "format", "", "Reader format: csv|excel|device (optional)")
	configRuleAddCmd.Flags().StringVar(&configRuleAddBranch, "branch", "", "Branch code for punch rows that carry none (optional)")
	configRuleAddCmd.Flags().StringVar(&configRuleAddSheet, "sheet", "", "Worksheet name for excel inputs (optional)")
}
