// Package memory provides persistent fact storage for the assistant.
//
// Facts are short pieces of text the user asked to remember ("remember that
// my locker code is 4512"), optionally grouped by category. Recall is a
// case-insensitive substring search over fact text and category. Everything
// persists through a Store backend, JSON on disk by default.
package memory

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Fact is one remembered item.
type Fact struct {
	// ID uniquely identifies the fact.
	ID string `json:"id"`

	// Text is the remembered content.
	Text string `json:"text"`

	// Category groups related facts ("personal", "work"). Optional.
	Category string `json:"category,omitempty"`

	// CreatedAt is when the fact was stored.
	CreatedAt time.Time `json:"created_at"`
}

// Memory is the assistant's fact store. Safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	facts map[string]*Fact
	store Store
}

// New creates an in-memory store (no persistence).
func New() *Memory {
	return &Memory{facts: make(map[string]*Fact)}
}

// NewWithStore creates a memory with a persistence backend and loads any
// existing facts.
func NewWithStore(store Store) (*Memory, error) {
	m := New()
	m.store = store
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

// NewWithFile creates a memory that persists to a JSON file.
func NewWithFile(path string) (*Memory, error) {
	return NewWithStore(NewJSONStore(path))
}

// Remember stores a fact and persists it. Returns the stored fact.
func (m *Memory) Remember(text, category string) (*Fact, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyFact
	}

	fact := &Fact{
		ID:        uuid.New().String(),
		Text:      text,
		Category:  strings.ToLower(strings.TrimSpace(category)),
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	m.facts[fact.ID] = fact
	m.mu.Unlock()

	if err := m.save(); err != nil {
		return nil, err
	}
	return fact, nil
}

// Recall returns facts whose text or category contains the query,
// newest first. An empty query returns everything.
func (m *Memory) Recall(query string) []*Fact {
	query = strings.ToLower(strings.TrimSpace(query))

	m.mu.RLock()
	var out []*Fact
	for _, f := range m.facts {
		if query == "" ||
			strings.Contains(strings.ToLower(f.Text), query) ||
			strings.Contains(f.Category, query) {
			out = append(out, f)
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Forget removes a fact by ID.
func (m *Memory) Forget(id string) error {
	m.mu.Lock()
	if _, ok := m.facts[id]; !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	delete(m.facts, id)
	m.mu.Unlock()

	return m.save()
}

// Count returns the number of stored facts.
func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.facts)
}

// Close releases the persistence backend.
func (m *Memory) Close() error {
	if m.store == nil {
		return nil
	}
	return m.store.Close()
}

// fileData is the on-disk JSON structure.
type fileData struct {
	Version int     `json:"version"`
	Facts   []*Fact `json:"facts"`
}

const currentVersion = 1

func (m *Memory) save() error {
	if m.store == nil {
		return nil
	}

	m.mu.RLock()
	data := fileData{Version: currentVersion, Facts: make([]*Fact, 0, len(m.facts))}
	for _, f := range m.facts {
		data.Facts = append(data.Facts, f)
	}
	m.mu.RUnlock()

	sort.Slice(data.Facts, func(i, j int) bool {
		return data.Facts[i].CreatedAt.Before(data.Facts[j].CreatedAt)
	})

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return m.store.Save(raw)
}

func (m *Memory) load() error {
	if m.store == nil {
		return nil
	}

	raw, err := m.store.Load()
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range data.Facts {
		m.facts[f.ID] = f
	}
	return nil
}
