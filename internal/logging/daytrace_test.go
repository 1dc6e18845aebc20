package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nvandessel/corpsim/internal/world"
)

func readEntries(t *testing.T, dir string) []DayEntry {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, DayTraceFileName))
	if err != nil {
		t.Fatalf("failed to read %s: %v", DayTraceFileName, err)
	}
	var entries []DayEntry
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var e DayEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("failed to parse JSONL entry %q: %v", line, err)
		}
		entries = append(entries, e)
	}
	return entries
}

func TestNewDayTrace_InfoLevel(t *testing.T) {
	dir := t.TempDir()
	dt := NewDayTrace(dir, "info")

	// At info level, the trace should be nil
	if dt != nil {
		t.Error("expected nil DayTrace at info level")
	}

	// Nil trace should still be safe to use
	dt.RecordDay("run", world.DayReport{}, nil)
	dt.Event("onboard", "run", nil)

	if _, err := os.Stat(filepath.Join(dir, DayTraceFileName)); err == nil {
		t.Error("days.jsonl should not exist at info level")
	}
}

func TestDayTrace_RecordDay(t *testing.T) {
	dir := t.TempDir()
	dt := NewDayTrace(dir, "debug")
	defer dt.Close()

	report := world.DayReport{
		Date:     time.Date(2020, time.January, 31, 0, 0, 0, 0, time.UTC),
		MonthEnd: true,
		Companies: []world.CompanyDay{{
			CompanyID:   "c1",
			CompanyName: "Acme",
			Users:       100,
			Development: world.Development{Capacity: 5, Completed: []string{"Search"}},
			Settlement:  &world.Settlement{Revenue: 1500},
		}},
	}
	dt.RecordDay("run-1", report, map[string]float64{"c1": 42})

	entries := readEntries(t, dir)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Event != "day" || e.Run != "run-1" || e.Date != "2020-01-31" || !e.MonthEnd {
		t.Errorf("entry header = %+v", e)
	}
	if e.Time == "" {
		t.Error("expected time field")
	}
	if len(e.Companies) != 1 || e.Companies[0].Settlement == nil || e.Companies[0].Settlement.Revenue != 1500 {
		t.Errorf("companies = %+v", e.Companies)
	}
	if e.Companies[0].Development.Completed[0] != "Search" {
		t.Errorf("completed = %v", e.Companies[0].Development.Completed)
	}
	if e.Valuations["c1"] != 42 {
		t.Errorf("valuations = %v", e.Valuations)
	}
}

func TestDayTrace_EventAndOrdering(t *testing.T) {
	dir := t.TempDir()
	dt := NewDayTrace(dir, "trace")
	defer dt.Close()

	fields := map[string]any{"feature": "Search"}
	dt.Event("plan_feature", "run-1", fields)
	dt.RecordDay("run-1", world.DayReport{Date: time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC)}, nil)

	entries := readEntries(t, dir)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Event != "plan_feature" || entries[0].Fields["feature"] != "Search" {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].Event != "day" || entries[1].Date != "2020-01-02" {
		t.Errorf("second entry = %+v", entries[1])
	}
	if len(fields) != 1 {
		t.Error("Event() mutated the caller's map")
	}
}

func TestDayTrace_NilSafety(t *testing.T) {
	var dt *DayTrace
	dt.RecordDay("r", world.DayReport{}, nil)
	dt.Event("e", "r", nil)
	dt.Close()
}

func TestDayTrace_WriteAfterClose(t *testing.T) {
	dir := t.TempDir()
	dt := NewDayTrace(dir, "debug")

	dt.Event("before_close", "", nil)
	dt.Close()

	// Should be a no-op, not panic or error
	dt.Event("after_close", "", nil)
	dt.Close()

	if entries := readEntries(t, dir); len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}

func TestNewDayTrace_CreatesDirWithPrivatePermissions(t *testing.T) {
	nestedDir := filepath.Join(t.TempDir(), "sub", "dir")

	dt := NewDayTrace(nestedDir, "debug")
	if dt == nil {
		t.Fatal("expected non-nil DayTrace when dir needs creation")
	}
	defer dt.Close()

	dt.Event("perm_test", "", nil)

	info, err := os.Stat(filepath.Join(nestedDir, DayTraceFileName))
	if err != nil {
		t.Fatalf("days.jsonl should exist after dir creation: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permissions = %o, want 0600", perm)
	}
}
