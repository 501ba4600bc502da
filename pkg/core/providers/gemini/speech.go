package gemini

import (
	"context"

	"google.golang.org/genai"

	"github.com/tripkit-ai/tripkit/pkg/core"
)

// Synthesize implements core.SpeechBackend. The returned payload is the
// raw inline audio bytes; callers decode it with pkg/audio, which handles
// both WAV containers and bare PCM.
func (p *Provider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: p.voice},
			},
		},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.speechModel, genai.Text(text), cfg)
	if err != nil {
		return nil, core.NewSpeechSynthesisError("gemini speech request", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, core.NewSpeechSynthesisError("response carried no audio payload", nil)
}
