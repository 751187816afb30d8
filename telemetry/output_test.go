package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run1")

	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	if err := om.WriteStats(WindowStats{WindowEndFrame: 60, Alive: 10}); err != nil {
		t.Fatalf("WriteStats: %v", err)
	}
	if err := om.WriteStats(WindowStats{WindowEndFrame: 120, Alive: 9}); err != nil {
		t.Fatalf("WriteStats: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "stats.csv"))
	if err != nil {
		t.Fatalf("reading stats.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("stats.csv has %d lines, want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end") {
		t.Errorf("header = %q, want it to start with window_end", lines[0])
	}
	if strings.HasPrefix(lines[2], "window_end") {
		t.Error("second row repeats the header")
	}
}

func TestOutputManagerNilIsDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	if om != nil {
		t.Fatal("empty dir should return a nil manager")
	}

	// All writes on the nil manager are no-ops.
	if err := om.WriteStats(WindowStats{}); err != nil {
		t.Errorf("WriteStats on nil = %v, want nil", err)
	}
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Errorf("WritePerf on nil = %v, want nil", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil = %v, want nil", err)
	}
}
