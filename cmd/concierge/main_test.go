package main

import (
	"strings"
	"testing"
	"time"

	"github.com/tripkit-ai/tripkit/pkg/core/providers/gemini"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := parseConfig(nil, envMap(map[string]string{"GEMINI_API_KEY": "gk"}))
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}

	if cfg.ChatModel != gemini.DefaultChatModel {
		t.Errorf("ChatModel = %q", cfg.ChatModel)
	}
	if cfg.SpeechModel != gemini.DefaultSpeechModel {
		t.Errorf("SpeechModel = %q", cfg.SpeechModel)
	}
	if cfg.Voice != gemini.DefaultVoice {
		t.Errorf("Voice = %q", cfg.Voice)
	}
	if cfg.Timeout != defaultTimeout {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if !cfg.Autoplay {
		t.Error("Autoplay should default to true")
	}
	if cfg.Volume != defaultVolume {
		t.Errorf("Volume = %d", cfg.Volume)
	}
	if cfg.GeminiAPIKey != "gk" {
		t.Errorf("GeminiAPIKey = %q", cfg.GeminiAPIKey)
	}
	if cfg.CartesiaAPIKey != "" {
		t.Errorf("CartesiaAPIKey = %q, want empty", cfg.CartesiaAPIKey)
	}
}

func TestParseConfig_GoogleKeyFallback(t *testing.T) {
	cfg, err := parseConfig(nil, envMap(map[string]string{"GOOGLE_API_KEY": "fallback"}))
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if cfg.GeminiAPIKey != "fallback" {
		t.Errorf("GeminiAPIKey = %q, want fallback from GOOGLE_API_KEY", cfg.GeminiAPIKey)
	}
}

func TestParseConfig_FlagsOverride(t *testing.T) {
	args := []string{
		"-model", "gemini-other",
		"-voice", "Puck",
		"-timeout", "10s",
		"-autoplay=false",
		"-volume", "50",
		"-client", "Ava",
		"-itinerary", "trip.txt",
	}
	cfg, err := parseConfig(args, envMap(map[string]string{"GEMINI_API_KEY": "gk", "CARTESIA_API_KEY": "ck"}))
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}

	if cfg.ChatModel != "gemini-other" || cfg.Voice != "Puck" {
		t.Errorf("model=%q voice=%q", cfg.ChatModel, cfg.Voice)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.Autoplay {
		t.Error("Autoplay should be off")
	}
	if cfg.Volume != 50 || cfg.ClientName != "Ava" || cfg.ItineraryFile != "trip.txt" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.CartesiaAPIKey != "ck" {
		t.Errorf("CartesiaAPIKey = %q", cfg.CartesiaAPIKey)
	}
}

func TestParseConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing api key",
			env:     map[string]string{},
			wantErr: "GEMINI_API_KEY",
		},
		{
			name:    "blank model",
			args:    []string{"-model", "  "},
			env:     map[string]string{"GEMINI_API_KEY": "gk"},
			wantErr: "model",
		},
		{
			name:    "zero timeout",
			args:    []string{"-timeout", "0s"},
			env:     map[string]string{"GEMINI_API_KEY": "gk"},
			wantErr: "timeout",
		},
		{
			name:    "volume out of range",
			args:    []string{"-volume", "101"},
			env:     map[string]string{"GEMINI_API_KEY": "gk"},
			wantErr: "volume",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseConfig(tc.args, envMap(tc.env))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}
