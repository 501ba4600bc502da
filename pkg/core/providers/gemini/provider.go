// Package gemini adapts the concierge backend contracts to the Google
// Gemini API through the official Go SDK. It translates between the owned
// dialogue model and Gemini's content format.
package gemini

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/tripkit-ai/tripkit/pkg/core"
	"github.com/tripkit-ai/tripkit/pkg/core/types"
)

const (
	// DefaultChatModel answers itinerary questions.
	DefaultChatModel = "gemini-3-flash-preview"

	// DefaultSpeechModel voices assistant replies. Depending on version it
	// returns WAV or raw 24 kHz PCM; pkg/audio sniffs which.
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"

	// DefaultExtractionModel digs travel packages out of websites.
	DefaultExtractionModel = "gemini-3.1-pro-preview"

	// DefaultVoice is the prebuilt speech voice.
	DefaultVoice = "Kore"
)

// Config configures the provider. Constructed once at application start
// and passed in explicitly; there is no module-level client.
type Config struct {
	APIKey          string
	ChatModel       string
	SpeechModel     string
	ExtractionModel string
	Voice           string
}

// Provider implements core.ChatBackend, core.SpeechBackend and
// core.ExtractionBackend against the Gemini API.
type Provider struct {
	client          *genai.Client
	chatModel       string
	speechModel     string
	extractionModel string
	voice           string
}

// New creates a provider. A missing API key or an unreachable backend is
// an initialization error; the caller surfaces it as a connectivity
// problem rather than crashing.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, core.NewInitializationError("missing Gemini API key (set GEMINI_API_KEY)", nil)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, core.NewInitializationError("create gemini client", err)
	}

	p := &Provider{
		client:          client,
		chatModel:       cfg.ChatModel,
		speechModel:     cfg.SpeechModel,
		extractionModel: cfg.ExtractionModel,
		voice:           cfg.Voice,
	}
	if p.chatModel == "" {
		p.chatModel = DefaultChatModel
	}
	if p.speechModel == "" {
		p.speechModel = DefaultSpeechModel
	}
	if p.extractionModel == "" {
		p.extractionModel = DefaultExtractionModel
	}
	if p.voice == "" {
		p.voice = DefaultVoice
	}
	return p, nil
}

// GenerateTurn implements core.ChatBackend.
func (p *Provider) GenerateTurn(ctx context.Context, req *types.TurnRequest) (*types.TurnResponse, error) {
	model := req.Model
	if model == "" {
		model = p.chatModel
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, toContents(req.History), toGenerateConfig(req))
	if err != nil {
		return nil, core.NewTransportError("gemini generate content", err)
	}
	return fromResponse(resp), nil
}
