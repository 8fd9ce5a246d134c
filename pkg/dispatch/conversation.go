package dispatch

import (
	"sync"
	"time"
)

// State is the conversation state.
type State int

const (
	// StateIdle means the assistant is waiting for an activation word.
	StateIdle State = iota

	// StateActive means a conversation is in progress.
	StateActive
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// DefaultSilenceTimeout returns the conversation to idle after this much
// silence.
const DefaultSilenceTimeout = 30 * time.Second

// Conversation tracks the voice session state machine. Safe for concurrent
// use so a status endpoint can read it while the voice loop writes it.
type Conversation struct {
	mu       sync.Mutex
	state    State
	last     time.Time
	timeout  time.Duration
	onChange func(State)

	// now is swapped in tests.
	now func() time.Time
}

// NewConversation creates an idle conversation with the given silence
// timeout (zero means DefaultSilenceTimeout).
func NewConversation(timeout time.Duration) *Conversation {
	if timeout <= 0 {
		timeout = DefaultSilenceTimeout
	}
	return &Conversation{
		state:   StateIdle,
		timeout: timeout,
		now:     time.Now,
	}
}

// State returns the current state.
func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnChange installs a callback fired after each state transition, outside
// the lock. Used to surface voice state to the web feed.
func (c *Conversation) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Activate switches to the active state and marks an interaction.
func (c *Conversation) Activate() {
	c.mu.Lock()
	changed := c.state != StateActive
	c.state = StateActive
	c.last = c.now()
	fn := c.onChange
	c.mu.Unlock()

	if changed && fn != nil {
		fn(StateActive)
	}
}

// Touch marks an interaction, pushing the silence deadline out.
func (c *Conversation) Touch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = c.now()
}

// Expired reports whether the active conversation has been silent past the
// timeout. Always false when idle.
func (c *Conversation) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateActive {
		return false
	}
	return c.now().Sub(c.last) > c.timeout
}

// Deactivate returns to idle.
func (c *Conversation) Deactivate() {
	c.mu.Lock()
	changed := c.state != StateIdle
	c.state = StateIdle
	fn := c.onChange
	c.mu.Unlock()

	if changed && fn != nil {
		fn(StateIdle)
	}
}
