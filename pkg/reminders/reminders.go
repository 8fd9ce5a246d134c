// Package reminders schedules spoken reminders. Each reminder runs on its
// own timer goroutine; firing plays the chime, hands the text to the
// configured notify callback (normally the speaker), and posts a desktop
// notification.
package reminders

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Errors returned by the scheduler.
var (
	// ErrEmptyText is returned when scheduling a reminder with no text.
	ErrEmptyText = errors.New("reminders: empty text")

	// ErrInvalidDelay is returned for zero or negative delays.
	ErrInvalidDelay = errors.New("reminders: delay must be positive")

	// ErrNotFound is returned when cancelling an unknown reminder.
	ErrNotFound = errors.New("reminders: not found")

	// ErrStopped is returned when scheduling on a stopped scheduler.
	ErrStopped = errors.New("reminders: scheduler stopped")
)

// Reminder is one pending reminder.
type Reminder struct {
	// ID uniquely identifies the reminder.
	ID string

	// Text is what gets announced when the reminder fires.
	Text string

	// At is when the reminder fires.
	At time.Time

	timer *time.Timer
}

// Scheduler manages pending reminders. Safe for concurrent use.
type Scheduler struct {
	mu      sync.Mutex
	pending map[string]*Reminder
	stopped bool

	notify func(text string)
	chime  func()
	logger *slog.Logger
}

// New creates a scheduler. notify is called with the reminder text when a
// reminder fires; nil means log only.
func New(notify func(text string)) *Scheduler {
	return &Scheduler{
		pending: make(map[string]*Reminder),
		notify:  notify,
		logger:  slog.Default().With("component", "reminders"),
	}
}

// SetNotify replaces the notify callback. Used when the announcement
// channel (the speaker) is built after the scheduler.
func (s *Scheduler) SetNotify(notify func(text string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = notify
}

// SetChime installs a sound played right before a reminder is announced.
func (s *Scheduler) SetChime(chime func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chime = chime
}

// Schedule registers a reminder to fire after the given delay.
func (s *Scheduler) Schedule(text string, after time.Duration) (*Reminder, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if after <= 0 {
		return nil, ErrInvalidDelay
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil, ErrStopped
	}

	r := &Reminder{
		ID:   uuid.New().String(),
		Text: text,
		At:   time.Now().Add(after),
	}
	r.timer = time.AfterFunc(after, func() { s.fire(r) })
	s.pending[r.ID] = r

	s.logger.Info("reminder scheduled", "id", r.ID, "in", after.String())
	return r, nil
}

// fire announces the reminder and removes it from the pending set.
func (s *Scheduler) fire(r *Reminder) {
	s.mu.Lock()
	if _, ok := s.pending[r.ID]; !ok {
		s.mu.Unlock()
		return // cancelled while firing
	}
	delete(s.pending, r.ID)
	notify := s.notify
	chime := s.chime
	s.mu.Unlock()

	s.logger.Info("reminder fired", "id", r.ID)

	if chime != nil {
		chime()
	}
	message := fmt.Sprintf("Reminder: %s", r.Text)
	if notify != nil {
		notify(message)
	}
	desktopNotify("Jarvis", message)
}

// Cancel removes a pending reminder.
func (s *Scheduler) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.pending[id]
	if !ok {
		return ErrNotFound
	}
	r.timer.Stop()
	delete(s.pending, id)
	return nil
}

// ActiveCount returns the number of pending reminders.
func (s *Scheduler) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Pending returns a snapshot of pending reminders, soonest first.
func (s *Scheduler) Pending() []*Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Reminder, 0, len(s.pending))
	for _, r := range s.pending {
		out = append(out, r)
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].At.Before(out[i].At) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

// Stop cancels all pending reminders and rejects new ones.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, r := range s.pending {
		r.timer.Stop()
		delete(s.pending, id)
	}
	s.stopped = true
}

// desktopNotify posts a desktop notification, best effort.
func desktopNotify(title, body string) {
	switch runtime.GOOS {
	case "linux":
		exec.Command("notify-send", title, body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q`, body, title)
		exec.Command("osascript", "-e", script).Run()
	}
}
