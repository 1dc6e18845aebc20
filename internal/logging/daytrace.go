package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nvandessel/corpsim/internal/world"
)

// DayTraceFileName is the JSONL file a DayTrace appends to.
const DayTraceFileName = "days.jsonl"

// DayEntry is one line of the day trace.
type DayEntry struct {
	Time       string             `json:"time"`
	Event      string             `json:"event"`
	Run        string             `json:"run,omitempty"`
	Date       string             `json:"date,omitempty"`
	Weekend    bool               `json:"weekend,omitempty"`
	MonthEnd   bool               `json:"month_end,omitempty"`
	Companies  []world.CompanyDay `json:"companies,omitempty"`
	Valuations map[string]float64 `json:"valuations,omitempty"`
	Fields     map[string]any     `json:"fields,omitempty"`
}

// DayTrace writes structured tick records to a JSONL file.
// It is safe for concurrent use. A nil DayTrace is safe to use;
// all methods are no-ops on nil receiver.
type DayTrace struct {
	mu   sync.Mutex
	file *os.File
	now  func() time.Time
}

// NewDayTrace creates a day trace writing to dir/days.jsonl.
// At "info" level (the default), returns nil and no file is created.
// At "debug" or "trace" level, the file is opened for append.
// Returns nil if the file cannot be opened. All methods are nil-safe.
func NewDayTrace(dir string, level string) *DayTrace {
	if ParseLevel(level) == slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	path := filepath.Join(dir, DayTraceFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &DayTrace{file: f, now: time.Now}
}

// RecordDay writes one tick. valuations maps company ID to valuation.
// Safe to call on nil receiver.
func (dt *DayTrace) RecordDay(runID string, report world.DayReport, valuations map[string]float64) {
	if dt == nil {
		return
	}
	dt.write(DayEntry{
		Event:      "day",
		Run:        runID,
		Date:       report.Date.Format("2006-01-02"),
		Weekend:    report.Weekend,
		MonthEnd:   report.MonthEnd,
		Companies:  report.Companies,
		Valuations: valuations,
	})
}

// Event writes a named event such as an onboarding or a planned feature.
// The caller's map is not mutated. Safe to call on nil receiver.
func (dt *DayTrace) Event(name, runID string, fields map[string]any) {
	if dt == nil {
		return
	}
	cp := make(map[string]any, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	dt.write(DayEntry{Event: name, Run: runID, Fields: cp})
}

func (dt *DayTrace) write(entry DayEntry) {
	dt.mu.Lock()
	defer dt.mu.Unlock()

	if dt.file == nil {
		return
	}

	entry.Time = dt.now().UTC().Format(time.RFC3339Nano)
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = dt.file.Write(data)
}

// Close closes the underlying file. Safe to call on nil receiver.
func (dt *DayTrace) Close() {
	if dt == nil {
		return
	}

	dt.mu.Lock()
	defer dt.mu.Unlock()

	if dt.file == nil {
		return
	}
	dt.file.Close()
	dt.file = nil
}
