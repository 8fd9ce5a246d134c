// Package journal tracks a running project log: which day of the project it
// is and what got done each day. The day counter starts at the date the
// journal was first created, so "what day is it" answers with the streak
// number rather than a calendar date.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrEmptyEntry is returned when logging blank text.
var ErrEmptyEntry = errors.New("journal: empty entry")

const dateLayout = "2006-01-02"

// Journal is the project log. Safe for concurrent use.
type Journal struct {
	mu      sync.RWMutex
	path    string
	started time.Time
	entries map[string][]string // date -> accomplishments

	// now is swapped in tests.
	now func() time.Time
}

// fileData is the on-disk JSON structure.
type fileData struct {
	Version int                 `json:"version"`
	Started string              `json:"started"`
	Entries map[string][]string `json:"entries"`
}

const currentVersion = 1

// Open loads the journal at path, creating it with today as the start date
// when it does not exist yet.
func Open(path string) (*Journal, error) {
	j := &Journal{
		path:    path,
		entries: make(map[string][]string),
		now:     time.Now,
	}

	if err := j.load(); err != nil {
		return nil, err
	}
	if j.started.IsZero() {
		j.started = truncateDay(j.now())
		if err := j.save(); err != nil {
			return nil, err
		}
	}
	return j, nil
}

// OpenDefault opens the journal at ~/.jarvis/journal.json.
func OpenDefault() (*Journal, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("journal: home directory: %w", err)
	}
	return Open(filepath.Join(home, ".jarvis", "journal.json"))
}

// Day returns the 1-based project day number.
func (j *Journal) Day() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	days := int(truncateDay(j.now()).Sub(j.started).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return days
}

// Log records an accomplishment for today.
func (j *Journal) Log(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyEntry
	}

	j.mu.Lock()
	key := truncateDay(j.now()).Format(dateLayout)
	j.entries[key] = append(j.entries[key], text)
	j.mu.Unlock()

	return j.save()
}

// Today returns today's accomplishments.
func (j *Journal) Today() []string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	key := truncateDay(j.now()).Format(dateLayout)
	out := make([]string, len(j.entries[key]))
	copy(out, j.entries[key])
	return out
}

// Summary returns a spoken-friendly report of the current day and what has
// been logged so far today.
func (j *Journal) Summary() string {
	day := j.Day()
	today := j.Today()

	if len(today) == 0 {
		return fmt.Sprintf("It is day %d of the project. Nothing logged yet today.", day)
	}
	return fmt.Sprintf("It is day %d of the project. Today: %s.",
		day, strings.Join(today, "; "))
}

func (j *Journal) save() error {
	j.mu.RLock()
	data := fileData{
		Version: currentVersion,
		Started: j.started.Format(dateLayout),
		Entries: j.entries,
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	j.mu.RUnlock()
	if err != nil {
		return err
	}

	dir := filepath.Dir(j.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("journal: create directory: %w", err)
		}
	}
	return os.WriteFile(j.path, raw, 0644)
}

func (j *Journal) load() error {
	raw, err := os.ReadFile(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("journal: read: %w", err)
	}

	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("journal: parse: %w", err)
	}

	if data.Started != "" {
		started, err := time.ParseInLocation(dateLayout, data.Started, time.Local)
		if err != nil {
			return fmt.Errorf("journal: parse start date: %w", err)
		}
		j.started = started
	}
	if data.Entries != nil {
		j.entries = data.Entries
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
