package concierge

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/tripkit-ai/tripkit/pkg/audio"
	"github.com/tripkit-ai/tripkit/pkg/core"
)

// Config configures a Concierge.
type Config struct {
	Session SessionConfig

	// Speech synthesizes assistant replies. Nil disables audio entirely.
	Speech core.SpeechBackend

	// Sink is the playback output. Nil disables playback (audio payloads
	// are still attached to messages).
	Sink audio.Sink

	// Autoplay starts playback automatically when a turn's audio arrives.
	Autoplay bool

	// OnSpeechError observes non-fatal speech synthesis failures.
	OnSpeechError func(error)

	Logger *slog.Logger
}

// Concierge orchestrates the conversation session, tool dispatch, audio
// decoding and playback for a UI shell. It enforces a single in-flight
// turn: a send while another is pending is rejected, matching an interface
// that disables input while "thinking".
type Concierge struct {
	session    *Session
	speech     core.SpeechBackend
	player     *audio.Player
	transcript *Transcript
	autoplay   bool
	onSpeech   func(error)
	logger     *slog.Logger

	pending atomic.Bool
}

// New creates a Concierge over a chat backend. The welcome greeting is the
// transcript's first message.
func New(backend core.ChatBackend, cfg Config) (*Concierge, error) {
	session, err := NewSession(backend, cfg.Session)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var player *audio.Player
	if cfg.Sink != nil {
		player = audio.NewPlayer(cfg.Sink)
	}

	c := &Concierge{
		session:    session,
		speech:     cfg.Speech,
		player:     player,
		transcript: NewTranscript(),
		autoplay:   cfg.Autoplay,
		onSpeech:   cfg.OnSpeechError,
		logger:     logger,
	}
	c.transcript.Append(MessageAssistant, WelcomeMessage(session.Itinerary().ClientName))
	return c, nil
}

// Session returns the underlying conversation session.
func (c *Concierge) Session() *Session {
	return c.session
}

// Pending reports whether a turn is in flight.
func (c *Concierge) Pending() bool {
	return c.pending.Load()
}

// Messages returns the transcript in arrival order, for rendering.
func (c *Concierge) Messages() []Message {
	return c.transcript.Messages()
}

// SendMessage runs one turn: the user message is appended to the
// transcript, relayed through the session (resolving tool calls), and the
// assistant reply is appended and voiced. A send failure leaves the
// transcript with only the user message appended and the session usable.
// Blank input is rejected before anything is recorded.
func (c *Concierge) SendMessage(ctx context.Context, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, core.NewTurnError("message must not be empty", nil)
	}
	if !c.pending.CompareAndSwap(false, true) {
		return Message{}, core.NewTurnError("a turn is already in flight", nil)
	}
	defer c.pending.Store(false)

	c.transcript.Append(MessageUser, text)

	reply, err := c.session.Send(ctx, text)
	if err != nil {
		return Message{}, err
	}

	msg := c.transcript.Append(MessageAssistant, reply)
	if payload := c.synthesize(ctx, reply); payload != nil {
		c.transcript.AttachAudio(msg.ID, payload)
		msg.Audio = payload
		if c.autoplay {
			c.startPlayback(msg)
		}
	}
	return msg, nil
}

// synthesize requests speech for text. Failure is non-fatal: it is
// reported through OnSpeechError and the turn degrades to text-only.
func (c *Concierge) synthesize(ctx context.Context, text string) []byte {
	if c.speech == nil {
		return nil
	}
	payload, err := c.speech.Synthesize(ctx, text)
	if err == nil && len(payload) == 0 {
		err = core.NewSpeechSynthesisError("backend returned no audio", nil)
	}
	if err != nil {
		c.logger.Warn("speech synthesis failed", "error", err)
		if c.onSpeech != nil {
			c.onSpeech(err)
		}
		return nil
	}
	return payload
}

// PlayAudioFor starts playback of the audio attached to a transcript
// message, superseding whatever is currently playing.
func (c *Concierge) PlayAudioFor(messageID string) error {
	msg, ok := c.transcript.Get(messageID)
	if !ok {
		return core.NewSpeechSynthesisError("no such message", nil)
	}
	if !msg.HasAudio() {
		return core.NewSpeechSynthesisError("message has no audio", nil)
	}
	return c.startPlaybackErr(msg)
}

func (c *Concierge) startPlayback(msg Message) {
	if err := c.startPlaybackErr(msg); err != nil {
		c.logger.Warn("audio playback failed", "message", msg.ID, "error", err)
	}
}

func (c *Concierge) startPlaybackErr(msg Message) error {
	if c.player == nil {
		return nil
	}
	res, err := audio.DecodeBytes(msg.Audio)
	if err != nil {
		return core.NewSpeechSynthesisError("decode audio payload", err)
	}
	return c.player.Play(msg.ID, res)
}

// PauseOrResume toggles playback of the currently active audio, if any.
func (c *Concierge) PauseOrResume() error {
	if c.player == nil {
		return nil
	}
	owner := c.player.Owner()
	if owner == "" {
		return nil
	}
	return c.player.Toggle(owner)
}

// Stop halts playback and releases the active resource.
func (c *Concierge) Stop() {
	if c.player != nil {
		c.player.Stop()
	}
}

// PlaybackState returns the playback controller state and owning message
// id, for rendering playback controls.
func (c *Concierge) PlaybackState() (audio.State, string) {
	if c.player == nil {
		return audio.StateIdle, ""
	}
	return c.player.State(), c.player.Owner()
}

// Close releases playback resources. The transcript stays readable.
func (c *Concierge) Close() error {
	if c.player != nil {
		return c.player.Close()
	}
	return nil
}
