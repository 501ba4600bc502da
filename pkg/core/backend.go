// Package core defines the error taxonomy and the backend contracts the
// conversation pipeline is built against. The hosted generative service is
// reached only through these interfaces so the pipeline can be exercised
// with fakes.
package core

import (
	"context"

	"github.com/tripkit-ai/tripkit/pkg/core/types"
)

// ChatBackend produces one chat turn from the full accumulated dialogue.
// Implementations must be stateless with respect to the dialogue: History
// in the request is the single source of truth.
type ChatBackend interface {
	GenerateTurn(ctx context.Context, req *types.TurnRequest) (*types.TurnResponse, error)
}

// SpeechBackend converts assistant text to an audio payload. The payload is
// either a self-describing WAV container or headerless 16-bit LE mono PCM
// at 24 kHz; callers sniff which (see pkg/audio). An empty payload with a
// nil error is treated as synthesis failure by callers.
type SpeechBackend interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// ExtractionBackend pulls itinerary material out of the web.
type ExtractionBackend interface {
	// ExtractItinerary returns the itinerary text found at url.
	ExtractItinerary(ctx context.Context, url string) (string, error)

	// ExtractPackages returns the travel packages advertised on a travel
	// website, or an empty slice when none are found.
	ExtractPackages(ctx context.Context, url string) ([]types.TravelPackage, error)
}
