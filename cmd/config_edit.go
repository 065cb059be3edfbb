package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"attendly/config"
	"attendly/importer"
)

var (
	configEditInput  io.Reader = os.Stdin
	configEditOutput io.Writer = os.Stdout
)

// configKeyHelp is printed when an edited config does not validate.
const configKeyHelp = `Attendance keys:
  attendance.max_valid_punches           punches kept valid per employee-day, 1 to 32
  attendance.overtime_threshold_minutes  minimum overtime reported, 0 to 720
  attendance.cross_midnight_mode         heuristic or explicit
Import rule fields (import.rules):
  name           unique rule name
  kind           clock, roster or holiday
  file_template  glob matched against the file name
  format         csv, excel or device (optional)
  branch_code    branch for punch rows without one (optional)
  sheet          worksheet of excel inputs (optional)`

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active attendly config file in your editor.

Editor selection order:
1) $VISUAL
2) $EDITOR
3) vi

If no config file exists yet, this command creates one with an example template first.
After the editor exits the file is validated. When validation fails the valid
attendance keys and import rule fields are listed and the editor can be reopened.`,
	Example: `
  # Edit active config
  attendly config edit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		created, err := ensureConfigFileWithTemplate(configPath)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(configEditOutput, "No config file found. Created example config at: %s\n", configPath)
		}

		editor := resolveEditorValue(os.Getenv("VISUAL"), os.Getenv("EDITOR"))
		runEditor := func() error {
			editorCommand, err := buildEditorCommand(editor, configPath)
			if err != nil {
				return err
			}
			editorCommand.Stdin = os.Stdin
			editorCommand.Stdout = os.Stdout
			editorCommand.Stderr = os.Stderr
			return editorCommand.Run()
		}

		cfg, err := editUntilValid(configPath, runEditor, bufio.NewReader(configEditInput), configEditOutput)
		if err != nil {
			return err
		}

		fmt.Fprintf(configEditOutput, "Configuration saved and validated: %s\n", configPath)
		describeConfig(configEditOutput, cfg)
		return nil
	},
}

// editUntilValid runs the editor until the file validates or the user
// declines to reopen it. An empty answer reopens; end of input gives up.
func editUntilValid(path string, runEditor func() error, in *bufio.Reader, out io.Writer) (*config.Config, error) {
	for {
		if err := runEditor(); err != nil {
			return nil, fmt.Errorf("opening editor failed: %w", err)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading edited config failed: %w", err)
		}
		cfg, validateErr := config.ValidateYAMLContent(content)
		if validateErr == nil {
			return cfg, nil
		}

		fmt.Fprintf(out, "Config validation failed in %s: %v\n\n%s\n\nReopen editor? [Y/n]: ", path, validateErr, configKeyHelp)
		answer, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read reopen answer: %w", err)
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer == "n" || answer == "no" || (err != nil && answer == "") {
			return nil, fmt.Errorf("config validation failed in %s: %w", path, validateErr)
		}
	}
}

// describeConfig summarizes the settings that change attendance results.
func describeConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintf(out, "Database: %s\n", cfg.Database.Path)
	fmt.Fprintf(out, "Punches kept valid per day: %d\n", cfg.Attendance.MaxValidPunches)
	if cfg.Attendance.OvertimeThresholdMinutes == 0 {
		fmt.Fprintln(out, "Overtime: every minute past the scheduled end")
	} else {
		fmt.Fprintf(out, "Overtime: from %d min past the scheduled end\n", cfg.Attendance.OvertimeThresholdMinutes)
	}
	switch cfg.Attendance.CrossMidnightMode {
	case "explicit":
		fmt.Fprintln(out, "Cross-midnight: explicit (only the day offset marks next-day punches)")
	default:
		fmt.Fprintln(out, "Cross-midnight: heuristic (early punches on night rosters count for the next day)")
	}

	byKind := make(map[string][]config.ImportRule)
	for _, rule := range cfg.Import.Rules {
		kind := strings.ToLower(strings.TrimSpace(rule.Kind))
		byKind[kind] = append(byKind[kind], rule)
	}
	counts := make([]string, 0, len(importer.SupportedKinds()))
	for _, kind := range importer.SupportedKinds() {
		counts = append(counts, fmt.Sprintf("%s %d", kind, len(byKind[kind])))
	}
	fmt.Fprintf(out, "Import rules: %s\n", strings.Join(counts, ", "))
	for _, kind := range importer.SupportedKinds() {
		for _, rule := range byKind[kind] {
			line := fmt.Sprintf("  %s: %s files matching %s", rule.Name, kind, rule.FileTemplate)
			if rule.Format != "" {
				line += ", format " + strings.ToLower(rule.Format)
			}
			if rule.Sheet != "" {
				line += ", sheet " + rule.Sheet
			}
			if rule.BranchCode != "" {
				line += ", branch " + rule.BranchCode
			}
			fmt.Fprintln(out, line)
		}
	}
}

func resolveEditorValue(visual, editor string) string {
	if strings.TrimSpace(visual) != "" {
		return visual
	}
	if strings.TrimSpace(editor) != "" {
		return editor
	}
	return "vi"
}

func buildEditorCommand(editorValue, configPath string) (*exec.Cmd, error) {
	fields := strings.Fields(strings.TrimSpace(editorValue))
	if len(fields) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}

	args := append(fields[1:], configPath)
	return exec.Command(fields[0], args...), nil
}

func init() {
	configCmd.AddCommand(configEditCmd)
}
