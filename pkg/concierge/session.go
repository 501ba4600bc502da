// Package concierge implements the conversation core of the itinerary
// concierge: a stateful chat session scoped to one itinerary and client,
// local resolution of model-requested tool calls, the ordered transcript,
// and the orchestrator tying them to speech synthesis and playback.
package concierge

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tripkit-ai/tripkit/pkg/core"
	"github.com/tripkit-ai/tripkit/pkg/core/types"
)

// DefaultTemperature keeps generation low-randomness for factual
// consistency with the itinerary.
const DefaultTemperature = 0.2

// DefaultMaxToolRounds bounds how many rounds of tool calls are resolved
// within one turn, guarding against a backend that keeps requesting tools.
const DefaultMaxToolRounds = 4

// SessionConfig configures a conversation session.
type SessionConfig struct {
	// Itinerary is the immutable grounding context. Required.
	Itinerary types.ItineraryContext

	// Model names the backend model; empty picks the backend's default.
	Model string

	// Temperature overrides DefaultTemperature when > 0.
	Temperature float32

	// MaxToolRounds overrides DefaultMaxToolRounds when > 0.
	MaxToolRounds int

	// Dispatcher resolves tool calls; nil builds one with the logging
	// hotel notifier.
	Dispatcher *Dispatcher

	Logger *slog.Logger
}

// Session is one continuous dialogue scoped to an itinerary + client name
// pair. It owns the dialogue history exclusively: an append-only sequence
// of turn records passed to the backend on every call and never exposed
// mutably. Sessions are not safe for concurrent Sends; callers serialize
// turns (the orchestrator enforces a single in-flight turn).
type Session struct {
	backend     core.ChatBackend
	itinerary   types.ItineraryContext
	system      string
	model       string
	temperature float32
	maxRounds   int
	tools       []types.Tool
	dispatcher  *Dispatcher
	logger      *slog.Logger

	history []types.Turn
}

// NewSession creates a session over backend for the given itinerary.
func NewSession(backend core.ChatBackend, cfg SessionConfig) (*Session, error) {
	if backend == nil {
		return nil, core.NewInitializationError("chat backend is required", nil)
	}
	if !cfg.Itinerary.Ready() {
		return nil, core.NewInitializationError("itinerary text and client name are required", nil)
	}

	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	maxRounds := cfg.MaxToolRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxToolRounds
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	dispatcher := cfg.Dispatcher
	if dispatcher == nil {
		dispatcher = NewDispatcher(nil, logger)
	}

	return &Session{
		backend:     backend,
		itinerary:   cfg.Itinerary,
		system:      systemInstruction(cfg.Itinerary),
		model:       cfg.Model,
		temperature: temperature,
		maxRounds:   maxRounds,
		tools:       Declarations(),
		dispatcher:  dispatcher,
		logger:      logger,
	}, nil
}

// Itinerary returns the immutable grounding context.
func (s *Session) Itinerary() types.ItineraryContext {
	return s.itinerary
}

// History returns a copy of the owned dialogue history.
func (s *Session) History() []types.Turn {
	out := make([]types.Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Send forwards one user message, resolves any tool-call rounds the
// backend requests, and returns the final assistant text. On failure the
// dialogue history is restored to its pre-send state and the session
// remains usable for the next message.
func (s *Session) Send(ctx context.Context, userText string) (string, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return "", core.NewTurnError("message must not be empty", nil)
	}

	mark := len(s.history)
	s.history = append(s.history, types.TextTurn(types.RoleUser, userText))

	text, err := s.converse(ctx)
	if err != nil {
		s.history = s.history[:mark]
		return "", asTurnError(err)
	}
	return text, nil
}

// converse drives the request / tool-resolution loop until the backend
// returns a response with no pending tool calls. At most maxRounds rounds
// of tool calls are resolved; a backend still requesting tools after that
// fails the turn without running the extra handlers.
func (s *Session) converse(ctx context.Context) (string, error) {
	for round := 0; round <= s.maxRounds; round++ {
		temperature := s.temperature
		resp, err := s.backend.GenerateTurn(ctx, &types.TurnRequest{
			Model:       s.model,
			System:      s.system,
			Temperature: &temperature,
			Tools:       s.tools,
			History:     s.history,
		})
		if err != nil {
			return "", err
		}

		if !resp.HasToolCalls() {
			s.history = append(s.history, types.TextTurn(types.RoleModel, resp.Text))
			return resp.Text, nil
		}
		if round == s.maxRounds {
			break
		}

		// One structured response per requested call, in arrival order,
		// before the dialogue continues.
		s.history = append(s.history, types.CallTurn(resp.ToolCalls))
		responses := s.dispatcher.DispatchAll(ctx, resp.ToolCalls)
		s.history = append(s.history, types.ResponseTurn(responses))
	}
	return "", core.NewTurnError("exceeded maximum tool-call rounds", nil)
}

// asTurnError classifies err as a turn error unless it already carries a
// classification.
func asTurnError(err error) error {
	var ce *core.Error
	if errors.As(err, &ce) {
		return err
	}
	return core.NewTurnError("turn failed", err)
}
