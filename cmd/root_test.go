package cmd

import (
	"testing"

	"attendly/config"
	"attendly/reconcile"
)

func TestReconcileOptions(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Attendance: config.AttendanceConfig{CrossMidnightMode: "heuristic", OvertimeThresholdMinutes: 0}}

	opts, err := reconcileOptions(cfg, "")
	if err != nil {
		t.Fatalf("reconcile options: %v", err)
	}
	if opts.Mode != reconcile.ModeHeuristic || opts.OvertimeThreshold == nil || *opts.OvertimeThreshold != 0 {
		t.Fatalf("expected heuristic mode with threshold 0, got %+v", opts)
	}

	opts, err = reconcileOptions(cfg, "explicit")
	if err != nil {
		t.Fatalf("reconcile options with override: %v", err)
	}
	if opts.Mode != reconcile.ModeExplicit {
		t.Fatalf("expected override to win, got %q", opts.Mode)
	}

	if _, err := reconcileOptions(cfg, "offset"); err == nil {
		t.Fatalf("expected unknown mode to fail")
	}
}
