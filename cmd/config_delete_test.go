package cmd

import (
	"reflect"
	"testing"
)

func TestConfiguredRuleNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{name: "no import section", content: "serve:\n  port: 8080\n", want: []string{}},
		{name: "rules", content: "import:\n  rules:\n    - name: terminal-3\n      kind: clock\n    - name: plan\n      kind: roster\n", want: []string{"terminal-3", "plan"}},
		{name: "broken yaml", content: "import: [\n", want: nil},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := configuredRuleNames([]byte(tc.content))
			if len(got) != len(tc.want) || (len(got) > 0 && !reflect.DeepEqual(got, tc.want)) {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}
