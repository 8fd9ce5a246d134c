package reminders

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestScheduleAndFire(t *testing.T) {
	var mu sync.Mutex
	var fired []string

	s := New(func(text string) {
		mu.Lock()
		fired = append(fired, text)
		mu.Unlock()
	})
	defer s.Stop()

	if _, err := s.Schedule("check the oven", 20*time.Millisecond); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if s.ActiveCount() != 1 {
		t.Errorf("ActiveCount() = %d, want 1", s.ActiveCount())
	}

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := len(fired)
		mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("reminder never fired")
		case <-time.After(5 * time.Millisecond):
		}
	}

	mu.Lock()
	got := fired[0]
	mu.Unlock()
	if got != "Reminder: check the oven" {
		t.Errorf("fired with %q", got)
	}
	if s.ActiveCount() != 0 {
		t.Errorf("ActiveCount() after fire = %d, want 0", s.ActiveCount())
	}
}

func TestChimePlaysBeforeNotify(t *testing.T) {
	var mu sync.Mutex
	var order []string

	s := New(func(string) {
		mu.Lock()
		order = append(order, "notify")
		mu.Unlock()
	})
	defer s.Stop()
	s.SetChime(func() {
		mu.Lock()
		order = append(order, "chime")
		mu.Unlock()
	})

	if _, err := s.Schedule("stand up", 10*time.Millisecond); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := len(order)
		mu.Unlock()
		if n == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("reminder never fired")
		case <-time.After(5 * time.Millisecond):
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if order[0] != "chime" || order[1] != "notify" {
		t.Errorf("fire order = %v, want chime before notify", order)
	}
}

func TestScheduleValidation(t *testing.T) {
	s := New(nil)
	defer s.Stop()

	if _, err := s.Schedule("", time.Second); !errors.Is(err, ErrEmptyText) {
		t.Errorf("Schedule(empty) error = %v, want ErrEmptyText", err)
	}
	if _, err := s.Schedule("x", 0); !errors.Is(err, ErrInvalidDelay) {
		t.Errorf("Schedule(0) error = %v, want ErrInvalidDelay", err)
	}
	if _, err := s.Schedule("x", -time.Second); !errors.Is(err, ErrInvalidDelay) {
		t.Errorf("Schedule(negative) error = %v, want ErrInvalidDelay", err)
	}
}

func TestCancel(t *testing.T) {
	var mu sync.Mutex
	firedCount := 0

	s := New(func(string) {
		mu.Lock()
		firedCount++
		mu.Unlock()
	})
	defer s.Stop()

	r, err := s.Schedule("cancel me", 30*time.Millisecond)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if err := s.Cancel(r.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if s.ActiveCount() != 0 {
		t.Errorf("ActiveCount() = %d, want 0", s.ActiveCount())
	}

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if firedCount != 0 {
		t.Errorf("cancelled reminder fired %d times", firedCount)
	}

	if err := s.Cancel("nonexistent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Cancel(missing) error = %v, want ErrNotFound", err)
	}
}

func TestPendingSorted(t *testing.T) {
	s := New(nil)
	defer s.Stop()

	s.Schedule("later", time.Hour)
	s.Schedule("sooner", time.Minute)

	pending := s.Pending()
	if len(pending) != 2 {
		t.Fatalf("Pending() returned %d, want 2", len(pending))
	}
	if pending[0].Text != "sooner" {
		t.Errorf("Pending()[0] = %q, want sooner", pending[0].Text)
	}
}

func TestStop(t *testing.T) {
	s := New(nil)
	s.Schedule("never", time.Hour)

	s.Stop()
	if s.ActiveCount() != 0 {
		t.Errorf("ActiveCount() after Stop = %d, want 0", s.ActiveCount())
	}
	if _, err := s.Schedule("too late", time.Second); !errors.Is(err, ErrStopped) {
		t.Errorf("Schedule() after Stop error = %v, want ErrStopped", err)
	}
}
