package config

import (
	"strings"
	"testing"
)

func TestValidateYAMLContent_ExampleIsValid(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(ExampleYAML()))
	if err != nil {
		t.Fatalf("expected example config to validate: %v", err)
	}
	if cfg.Attendance.MaxValidPunches != 4 || cfg.Attendance.OvertimeThresholdMinutes != 15 {
		t.Fatalf("unexpected attendance defaults: %+v", cfg.Attendance)
	}
	if cfg.Attendance.CrossMidnightMode != "heuristic" || !cfg.Leave.ExcludeHolidays || cfg.Leave.IncludeWeekends {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Serve.Port != 8080 || cfg.Database.Path != "attendly.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestValidateYAMLContent_FillsDefaultsForMissingSections(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte("serve:\n  port: 9090\n"))
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}
	if cfg.Serve.Port != 9090 || cfg.Log.Level != "info" || cfg.Attendance.MaxValidPunches != 4 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestValidateYAMLContent_AcceptsZeroOvertimeThreshold(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte("attendance:\n  overtime_threshold_minutes: 0\n"))
	if err != nil {
		t.Fatalf("expected zero threshold to validate: %v", err)
	}
	if cfg.Attendance.OvertimeThresholdMinutes != 0 {
		t.Fatalf("expected threshold 0, got %d", cfg.Attendance.OvertimeThresholdMinutes)
	}
}

func TestValidateYAMLContent_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "unknown mode", content: "attendance:\n  cross_midnight_mode: \"offset\"\n", want: "CrossMidnightMode"},
		{name: "zero punches", content: "attendance:\n  max_valid_punches: 0\n", want: "MaxValidPunches"},
		{name: "bad log format", content: "log:\n  format: \"xml\"\n", want: "Format"},
		{name: "negative overtime", content: "attendance:\n  overtime_threshold_minutes: -5\n", want: "OvertimeThresholdMinutes"},
		{name: "bad port", content: "serve:\n  port: 70000\n", want: "Port"},
		{name: "rule kind", content: "import:\n  rules:\n    - name: \"t3\"\n      kind: \"payroll\"\n      file_template: \"T3_*.txt\"\n", want: "not supported"},
		{name: "rule template", content: "import:\n  rules:\n    - name: \"t3\"\n      kind: \"clock\"\n", want: "file_template is required"},
		{name: "sheet on csv rule", content: "import:\n  rules:\n    - name: \"t3\"\n      kind: \"clock\"\n      file_template: \"a.csv\"\n      format: \"csv\"\n      sheet: \"Punches\"\n", want: "sheet only applies to excel"},
		{name: "duplicate rule", content: "import:\n  rules:\n    - name: \"t3\"\n      kind: \"clock\"\n      file_template: \"a\"\n    - name: \"T3\"\n      kind: \"roster\"\n      file_template: \"b\"\n", want: "duplicate rule name"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ValidateYAMLContent([]byte(tc.content))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateYAMLContent_AcceptsRulesCaseInsensitive(t *testing.T) {
	t.Parallel()

	content := []byte(`import:
  rules:
    - name: "terminal-3"
      kind: "Clock"
      file_template: "T3_*.txt"
      format: "Device"
      branch_code: "HQ"
`)

	cfg, err := ValidateYAMLContent(content)
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}
	if len(cfg.Import.Rules) != 1 || cfg.Import.Rules[0].BranchCode != "HQ" {
		t.Fatalf("unexpected rules: %+v", cfg.Import.Rules)
	}
}

func TestValidateYAMLContent_NormalizesCase(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte("log:\n  level: \"DEBUG\"\nattendance:\n  cross_midnight_mode: \"Explicit\"\n"))
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Attendance.CrossMidnightMode != "explicit" {
		t.Fatalf("unexpected normalization: %+v", cfg)
	}
}
