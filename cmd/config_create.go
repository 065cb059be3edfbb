package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"attendly/config"
)

var (
	configCreatePunches  int
	configCreateOvertime int
	configCreateMode     string
)

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file from the example template used by "config edit".

The attendance flags replace the template defaults before the file is written;
the result is validated first. If a configuration file already exists, it is
left unchanged.`,
	Example: `
  # Create default config at $HOME/.attendly.yaml
  attendly config create

  # Night-shift site: keep six punches, trust the day_offset column only
  attendly config create --max-valid-punches 6 --cross-midnight-mode explicit

  # Report every minute of overtime
  attendly config create --overtime-threshold 0
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides := templateOverrides{}
		if cmd.Flags().Changed("max-valid-punches") {
			overrides.maxValidPunches = &configCreatePunches
		}
		if cmd.Flags().Changed("overtime-threshold") {
			overrides.overtimeThreshold = &configCreateOvertime
		}
		if cmd.Flags().Changed("cross-midnight-mode") {
			overrides.crossMidnightMode = configCreateMode
		}
		return saveDefaultConfig(os.Stdout, overrides)
	},
}

// templateOverrides are attendance settings applied to the example template.
type templateOverrides struct {
	maxValidPunches   *int
	overtimeThreshold *int
	crossMidnightMode string
}

func (o templateOverrides) empty() bool {
	return o.maxValidPunches == nil && o.overtimeThreshold == nil && strings.TrimSpace(o.crossMidnightMode) == ""
}

func saveDefaultConfig(out io.Writer, overrides templateOverrides) error {
	configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	content, err := renderConfigTemplate(overrides)
	if err != nil {
		return err
	}

	created, err := writeConfigTemplate(configPath, content)
	if err != nil {
		return err
	}
	if !created {
		fmt.Fprintf(out, "Config file already exists at: %s\n", configPath)
		if !overrides.empty() {
			fmt.Fprintln(out, `Attendance flags were not applied; use "attendly config edit" to change the file.`)
		}
		return nil
	}

	cfg, err := config.ValidateYAMLContent(content)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "New config file created at: %s\n", configPath)
	describeConfig(out, cfg)
	return nil
}

// renderConfigTemplate returns the example template with overrides applied.
// Comments of the template are kept.
func renderConfigTemplate(overrides templateOverrides) ([]byte, error) {
	base := []byte(config.ExampleYAML())
	if overrides.empty() {
		return base, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(base, &doc); err != nil {
		return nil, fmt.Errorf("parse config template: %w", err)
	}

	if overrides.maxValidPunches != nil {
		if err := setTemplateScalar(&doc, "attendance.max_valid_punches", strconv.Itoa(*overrides.maxValidPunches), "!!int"); err != nil {
			return nil, err
		}
	}
	if overrides.overtimeThreshold != nil {
		if err := setTemplateScalar(&doc, "attendance.overtime_threshold_minutes", strconv.Itoa(*overrides.overtimeThreshold), "!!int"); err != nil {
			return nil, err
		}
	}
	if mode := strings.ToLower(strings.TrimSpace(overrides.crossMidnightMode)); mode != "" {
		if err := setTemplateScalar(&doc, "attendance.cross_midnight_mode", mode, "!!str"); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return nil, fmt.Errorf("render config template: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("render config template: %w", err)
	}

	if _, err := config.ValidateYAMLContent(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("config template is invalid: %w", err)
	}
	return buf.Bytes(), nil
}

// setTemplateScalar replaces the scalar at a dotted key path. The key must
// already exist in the template.
func setTemplateScalar(doc *yaml.Node, dottedKey, value, tag string) error {
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}

	for _, key := range strings.Split(dottedKey, ".") {
		if node.Kind != yaml.MappingNode {
			return fmt.Errorf("config template: %s is not under a mapping", dottedKey)
		}
		var next *yaml.Node
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == key {
				next = node.Content[i+1]
				break
			}
		}
		if next == nil {
			return fmt.Errorf("config template has no key %s", dottedKey)
		}
		node = next
	}

	node.Kind = yaml.ScalarNode
	node.Tag = tag
	node.Value = value
	if tag == "!!str" {
		node.Style = yaml.DoubleQuotedStyle
	} else {
		node.Style = 0
	}
	return nil
}

func resolveConfigEditPath(configFileFlag, configFileUsed string) (string, error) {
	if strings.TrimSpace(configFileFlag) != "" {
		return configFileFlag, nil
	}
	if strings.TrimSpace(configFileUsed) != "" {
		return configFileUsed, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".attendly.yaml"), nil
}

// ensureConfigFileWithTemplate writes the unmodified example template when
// path does not exist yet.
func ensureConfigFileWithTemplate(path string) (bool, error) {
	return writeConfigTemplate(path, []byte(config.ExampleYAML()))
}

// writeConfigTemplate never overwrites: it reports false when path exists.
func writeConfigTemplate(path string, content []byte) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking config file failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory failed: %w", err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return false, fmt.Errorf("creating config file failed: %w", err)
	}
	return true, nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)

	configCreateCmd.Flags().IntVar(&configCreatePunches, "max-valid-punches", 4, "Punches kept valid per employee-day")
	configCreateCmd.Flags().IntVar(&configCreateOvertime, "overtime-threshold", 15, "Minimum overtime reported, in minutes (0 reports every minute)")
	configCreateCmd.Flags().StringVar(&configCreateMode, "cross-midnight-mode", "heuristic", "How next-day punches are detected: heuristic|explicit")
}
