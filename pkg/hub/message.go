// Package hub provides a thread-safe websocket broadcast hub using the
// channel-based fan-out pattern. The server pushes conversation events to
// every connected dashboard client; slow clients are dropped rather than
// allowed to stall the rest.
package hub

import "time"

// Event types carried over the conversation stream.
const (
	// EventTurn is a completed exchange: what the user said and what the
	// assistant replied.
	EventTurn = "turn"

	// EventState is a voice session state change (idle, active).
	EventState = "state"
)

// TurnEvent is broadcast after each dispatched utterance.
type TurnEvent struct {
	Type     string `json:"type"`
	Time     string `json:"time"`
	User     string `json:"user"`
	Response string `json:"response"`
	// Source is "voice", "text", or "web".
	Source string `json:"source"`
}

// StateEvent is broadcast when the voice session changes state.
type StateEvent struct {
	Type  string `json:"type"`
	Time  string `json:"time"`
	State string `json:"state"`
}

// NewTurnEvent stamps a turn event with the current time.
func NewTurnEvent(source, user, response string) TurnEvent {
	return TurnEvent{
		Type:     EventTurn,
		Time:     time.Now().Format("15:04:05"),
		User:     user,
		Response: response,
		Source:   source,
	}
}

// NewStateEvent stamps a state event with the current time.
func NewStateEvent(state string) StateEvent {
	return StateEvent{
		Type:  EventState,
		Time:  time.Now().Format("15:04:05"),
		State: state,
	}
}
