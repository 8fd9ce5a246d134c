package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/Brian-Mwirigi/Jarvis/pkg/stt"
)

// UtteranceListener captures one utterance from the microphone.
type UtteranceListener interface {
	Listen(ctx context.Context) stt.Outcome
}

// Voice speaks replies to the user.
type Voice interface {
	Say(ctx context.Context, text string)
	SayQuick(ctx context.Context, text string)
}

// retryPrompt is spoken when an active-conversation utterance could not be
// transcribed.
const retryPrompt = "Sorry, I didn't catch that."

// farewellWindow bounds the goodbye spoken on shutdown, when the session
// context is already cancelled.
const farewellWindow = 5 * time.Second

// VoiceSession runs the always-on voice loop: listen for an activation word
// while idle, hold a conversation while active, drop back to idle after a
// silence timeout. Exit keywords end the loop from any state.
type VoiceSession struct {
	listener   UtteranceListener
	speaker    Voice
	dispatcher *Dispatcher
	conv       *Conversation
	logger     *slog.Logger
}

// NewVoiceSession wires a listener and speaker to a dispatcher. A nil conv
// gets the default silence timeout.
func NewVoiceSession(listener UtteranceListener, speaker Voice, d *Dispatcher, conv *Conversation) *VoiceSession {
	if conv == nil {
		conv = NewConversation(0)
	}
	return &VoiceSession{
		listener:   listener,
		speaker:    speaker,
		dispatcher: d,
		conv:       conv,
		logger:     slog.Default().With("component", "dispatch.voice"),
	}
}

// Conversation exposes the session state for status reporting.
func (s *VoiceSession) Conversation() *Conversation {
	return s.conv
}

// Run loops until an exit keyword or ctx cancellation; both end with a
// spoken farewell. Errors from individual turns are logged and never end
// the loop.
func (s *VoiceSession) Run(ctx context.Context) error {
	s.logger.Info("voice session started", "state", s.conv.State().String())

	for {
		if ctx.Err() != nil {
			s.farewell()
			return ctx.Err()
		}

		out := s.listener.Listen(ctx)
		if ctx.Err() != nil {
			s.farewell()
			return ctx.Err()
		}

		// Exit keywords end the loop from any state, before activation or
		// dispatch logic sees the utterance.
		if out.Kind == stt.OutcomeText && s.dispatcher.isExit(out.Text) {
			s.logger.Info("session ended by user")
			s.speaker.SayQuick(ctx, Farewell)
			s.conv.Deactivate()
			s.dispatcher.Reset()
			return nil
		}

		if s.conv.State() == StateIdle {
			s.handleIdle(ctx, out)
			continue
		}
		s.handleActive(ctx, out)
	}
}

// farewell speaks the goodbye on shutdown. The session context is already
// cancelled, so it gets its own deadline.
func (s *VoiceSession) farewell() {
	ctx, cancel := context.WithTimeout(context.Background(), farewellWindow)
	defer cancel()
	s.speaker.SayQuick(ctx, Farewell)
}

func (s *VoiceSession) handleIdle(ctx context.Context, out stt.Outcome) {
	if out.Kind != stt.OutcomeText {
		return
	}
	if !IsActivation(out.Text) {
		s.logger.Debug("ignoring speech while idle", "text", out.Text)
		return
	}

	s.logger.Info("activated", "text", out.Text)
	s.conv.Activate()
	s.speaker.SayQuick(ctx, Greeting)
}

func (s *VoiceSession) handleActive(ctx context.Context, out stt.Outcome) {
	switch out.Kind {
	case stt.OutcomeSilence:
		if s.conv.Expired() {
			s.logger.Info("conversation timed out, returning to idle")
			s.conv.Deactivate()
			s.dispatcher.Reset()
		}

	case stt.OutcomeUnintelligible:
		s.conv.Touch()
		s.speaker.SayQuick(ctx, retryPrompt)

	case stt.OutcomeError:
		// Already logged by the listener; keep the loop alive.

	case stt.OutcomeText:
		s.conv.Touch()
		turn := s.dispatcher.HandleUtterance(ctx, out.Text)
		if turn.Spoken != "" {
			s.speaker.Say(ctx, turn.Spoken)
		}
	}
}
