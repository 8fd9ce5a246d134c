package journal

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDayCounter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.json")

	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if got := j.Day(); got != 1 {
		t.Errorf("Day() on creation = %d, want 1", got)
	}

	// Three days later.
	base := time.Now()
	j.now = func() time.Time { return base.AddDate(0, 0, 3) }
	if got := j.Day(); got != 4 {
		t.Errorf("Day() after 3 days = %d, want 4", got)
	}
}

func TestLogAndToday(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "journal.json"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := j.Log("wired up the speech chain"); err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	if err := j.Log("fixed the mic calibration"); err != nil {
		t.Fatalf("Log() error = %v", err)
	}

	today := j.Today()
	if len(today) != 2 {
		t.Fatalf("Today() returned %d entries, want 2", len(today))
	}

	// Yesterday's entries don't leak into today.
	j.now = func() time.Time { return time.Now().AddDate(0, 0, 1) }
	if got := j.Today(); len(got) != 0 {
		t.Errorf("Today() next day = %v, want empty", got)
	}
}

func TestLogRejectsEmpty(t *testing.T) {
	j, _ := Open(filepath.Join(t.TempDir(), "journal.json"))
	if err := j.Log("  "); !errors.Is(err, ErrEmptyEntry) {
		t.Errorf("Log(blank) error = %v, want ErrEmptyEntry", err)
	}
}

func TestSummary(t *testing.T) {
	j, _ := Open(filepath.Join(t.TempDir(), "journal.json"))

	if s := j.Summary(); !strings.Contains(s, "day 1") || !strings.Contains(s, "Nothing logged") {
		t.Errorf("Summary() = %q", s)
	}

	j.Log("shipped the dispatcher")
	if s := j.Summary(); !strings.Contains(s, "shipped the dispatcher") {
		t.Errorf("Summary() = %q, want accomplishment included", s)
	}
}

func TestPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.json")

	j1, _ := Open(path)
	j1.Log("first entry")

	j2, err := Open(path)
	if err != nil {
		t.Fatalf("Open() reload error = %v", err)
	}
	if got := j2.Today(); len(got) != 1 || got[0] != "first entry" {
		t.Errorf("Today() after reload = %v", got)
	}
	if j2.Day() != 1 {
		t.Errorf("Day() after reload = %d, want 1", j2.Day())
	}
}
