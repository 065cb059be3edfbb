package cmd

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"attendly/config"
)

func TestAppendRuleToConfigYAML_AppendsRule(t *testing.T) {
	t.Parallel()

	input := []byte(`database:
  path: "attendly.db"
import:
  auto_reconcile_after_import: true
  rules:
    - name: "rosters"
      kind: "roster"
      file_template: "roster-*.xlsx"
`)

	updated, err := appendRuleToConfigYAML(input, config.ImportRule{
		Name:         "terminal-3",
		Kind:         "clock",
		FileTemplate: "T3_*.txt",
		Format:       "device",
		BranchCode:   "T3",
	})
	if err != nil {
		t.Fatalf("append rule failed: %v", err)
	}

	cfg, err := config.ValidateYAMLContent(updated)
	if err != nil {
		t.Fatalf("updated yaml should validate: %v", err)
	}
	if len(cfg.Import.Rules) != 2 || !cfg.Import.AutoReconcileAfterImport {
		t.Fatalf("unexpected import config: %+v", cfg.Import)
	}
	last := cfg.Import.Rules[1]
	if last.Name != "terminal-3" || last.Kind != "clock" || last.FileTemplate != "T3_*.txt" || last.Format != "device" || last.BranchCode != "T3" {
		t.Fatalf("unexpected last rule: %+v", last)
	}
}

func TestAppendRuleToConfigYAML_CreatesImportSection(t *testing.T) {
	t.Parallel()

	updated, err := appendRuleToConfigYAML([]byte("serve:\n  port: 9090\n"), config.ImportRule{
		Name: "holidays", Kind: "holiday", FileTemplate: "holidays-*.csv",
	})
	if err != nil {
		t.Fatalf("append rule failed: %v", err)
	}
	cfg, err := config.ValidateYAMLContent(updated)
	if err != nil {
		t.Fatalf("updated yaml should validate: %v", err)
	}
	if cfg.Serve.Port != 9090 || len(cfg.Import.Rules) != 1 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestAppendRuleToConfigYAML_KeepsSheet(t *testing.T) {
	t.Parallel()

	updated, err := appendRuleToConfigYAML(nil, config.ImportRule{
		Name: "plan", Kind: "roster", FileTemplate: "plan-*.xlsx", Format: "excel", Sheet: "Shifts",
	})
	if err != nil {
		t.Fatalf("append rule failed: %v", err)
	}
	cfg, err := config.ValidateYAMLContent(updated)
	if err != nil {
		t.Fatalf("updated yaml should validate: %v", err)
	}
	if len(cfg.Import.Rules) != 1 || cfg.Import.Rules[0].Sheet != "Shifts" {
		t.Fatalf("unexpected rules: %+v", cfg.Import.Rules)
	}

	if _, err := appendRuleToConfigYAML(nil, config.ImportRule{
		Name: "t3", Kind: "clock", FileTemplate: "T3_*.txt", Format: "device", Sheet: "Punches",
	}); err == nil {
		t.Fatalf("expected sheet on a device rule to be rejected")
	}
}

func TestAppendRuleToConfigYAML_Rejects(t *testing.T) {
	t.Parallel()

	input := []byte("import:\n  rules:\n    - name: \"rosters\"\n      kind: \"roster\"\n      file_template: \"roster-*.xlsx\"\n")

	tests := []struct {
		name string
		rule config.ImportRule
		want string
	}{
		{name: "duplicate", rule: config.ImportRule{Name: "ROSTERS", Kind: "clock", FileTemplate: "x"}, want: "already exists"},
		{name: "unknown kind", rule: config.ImportRule{Name: "payroll", Kind: "payroll", FileTemplate: "x"}, want: "not supported"},
		{name: "missing template", rule: config.ImportRule{Name: "t3", Kind: "clock"}, want: "file template is required"},
	}

	for _, tc := range tests {
		_, err := appendRuleToConfigYAML(input, tc.rule)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestCompleteRule_PromptsForMissingValues(t *testing.T) {
	t.Parallel()

	reader := bufio.NewReader(strings.NewReader("7\n2\n\nrosters\n"))
	var out bytes.Buffer

	rule, err := completeRule(reader, &out, config.ImportRule{FileTemplate: " roster-*.xlsx ", Format: "Excel"})
	if err != nil {
		t.Fatalf("complete rule: %v", err)
	}
	if rule.Kind != "roster" || rule.Name != "rosters" || rule.FileTemplate != "roster-*.xlsx" || rule.Format != "excel" {
		t.Fatalf("unexpected rule: %+v", rule)
	}
	if !strings.Contains(out.String(), "Invalid selection") || !strings.Contains(out.String(), "Value must not be empty") {
		t.Fatalf("expected re-prompts, got:\n%s", out.String())
	}
}
