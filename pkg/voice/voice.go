// Package voice provides optional speech-to-text input for the concierge.
// Recognition is a capability: environments without a configured provider
// get an Unsupported recognizer and the application degrades to typed input.
package voice

import (
	"context"

	"github.com/tripkit-ai/tripkit/pkg/core"
)

// Options configures a transcription request.
type Options struct {
	Model      string // provider model (default "ink-whisper")
	Language   string // ISO language code (default "en")
	Format     string // audio format hint: "wav", "mp3", or a pcm_* encoding
	SampleRate int    // sample rate in Hz for raw PCM input
}

// Transcript is the result of transcribing a complete utterance.
type Transcript struct {
	Text     string
	Language string
	Duration float64 // seconds of audio transcribed
}

// Delta is one incremental update from a live recognition session.
type Delta struct {
	Text  string
	Final bool
}

// Recognizer converts recorded audio to text.
type Recognizer interface {
	Transcribe(ctx context.Context, audio []byte, opts Options) (*Transcript, error)
}

// Unsupported is a Recognizer for environments with no speech provider
// configured. Every call reports the missing capability.
type Unsupported struct{}

func (Unsupported) Transcribe(context.Context, []byte, Options) (*Transcript, error) {
	return nil, core.NewUnsupportedCapabilityError("speech-to-text is not configured (set CARTESIA_API_KEY)")
}
