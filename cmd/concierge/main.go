// Command concierge is an interactive travel-concierge terminal client.
// It walks through itinerary setup, then runs a chat loop with spoken
// replies and playback controls.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/tripkit-ai/tripkit/internal/dotenv"
	"github.com/tripkit-ai/tripkit/pkg/audio"
	"github.com/tripkit-ai/tripkit/pkg/concierge"
	"github.com/tripkit-ai/tripkit/pkg/core/providers/gemini"
	"github.com/tripkit-ai/tripkit/pkg/core/types"
	"github.com/tripkit-ai/tripkit/pkg/voice"
)

const (
	defaultTimeout = 90 * time.Second
	defaultVolume  = 80
)

type cliConfig struct {
	ChatModel       string
	SpeechModel     string
	ExtractionModel string
	Voice           string
	Timeout         time.Duration
	Autoplay        bool
	Volume          int
	ItineraryFile   string
	ClientName      string
	GeminiAPIKey    string
	CartesiaAPIKey  string
}

func parseConfig(args []string, getenv func(string) string) (cliConfig, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := cliConfig{}
	fs := flag.NewFlagSet("concierge", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ChatModel, "model", gemini.DefaultChatModel, "chat model")
	fs.StringVar(&cfg.SpeechModel, "speech-model", gemini.DefaultSpeechModel, "speech synthesis model")
	fs.StringVar(&cfg.ExtractionModel, "extraction-model", gemini.DefaultExtractionModel, "website extraction model")
	fs.StringVar(&cfg.Voice, "voice", gemini.DefaultVoice, "prebuilt speech voice")
	fs.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "per-turn timeout (e.g. 90s)")
	fs.BoolVar(&cfg.Autoplay, "autoplay", true, "speak replies as they arrive")
	fs.IntVar(&cfg.Volume, "volume", defaultVolume, "playback volume (0-100)")
	fs.StringVar(&cfg.ItineraryFile, "itinerary", "", "plain-text itinerary file to preload")
	fs.StringVar(&cfg.ClientName, "client", "", "client name (skips the setup prompt)")

	if err := fs.Parse(args); err != nil {
		return cliConfig{}, err
	}

	cfg.GeminiAPIKey = strings.TrimSpace(getenv("GEMINI_API_KEY"))
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = strings.TrimSpace(getenv("GOOGLE_API_KEY"))
	}
	cfg.CartesiaAPIKey = strings.TrimSpace(getenv("CARTESIA_API_KEY"))

	if err := validateConfig(cfg); err != nil {
		return cliConfig{}, err
	}
	return cfg, nil
}

func validateConfig(cfg cliConfig) error {
	if cfg.GeminiAPIKey == "" {
		return errors.New("missing Gemini API key (set GEMINI_API_KEY or GOOGLE_API_KEY)")
	}
	if strings.TrimSpace(cfg.ChatModel) == "" {
		return errors.New("model must not be empty")
	}
	if cfg.Timeout <= 0 {
		return errors.New("timeout must be > 0")
	}
	if cfg.Volume < 0 || cfg.Volume > 100 {
		return errors.New("volume must be between 0 and 100")
	}
	return nil
}

func run(ctx context.Context, cfg cliConfig, in io.Reader, out, errOut io.Writer) error {
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelWarn}))

	provider, err := gemini.New(ctx, gemini.Config{
		APIKey:          cfg.GeminiAPIKey,
		ChatModel:       cfg.ChatModel,
		SpeechModel:     cfg.SpeechModel,
		ExtractionModel: cfg.ExtractionModel,
		Voice:           cfg.Voice,
	})
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	preset := types.ItineraryContext{ClientName: strings.TrimSpace(cfg.ClientName)}
	if cfg.ItineraryFile != "" {
		data, err := os.ReadFile(cfg.ItineraryFile)
		if err != nil {
			return fmt.Errorf("read itinerary file: %w", err)
		}
		preset.Content = string(data)
	}

	itinerary, err := runSetup(ctx, scanner, out, errOut, provider, preset)
	if err != nil {
		return err
	}

	var sink audio.Sink
	ffplay := audio.NewFFPlaySink(audio.WithVolume(cfg.Volume))
	if ffplay.Available() {
		sink = ffplay
	} else {
		fmt.Fprintln(errOut, "ffplay not found; playback disabled")
	}

	bot, err := concierge.New(provider, concierge.Config{
		Session: concierge.SessionConfig{
			Itinerary:  itinerary,
			Model:      cfg.ChatModel,
			Dispatcher: concierge.NewDispatcher(nil, logger),
			Logger:     logger,
		},
		Speech:   provider,
		Sink:     sink,
		Autoplay: cfg.Autoplay && sink != nil,
		OnSpeechError: func(err error) {
			fmt.Fprintf(errOut, "speech unavailable for this reply: %v\n", err)
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer bot.Close()

	var recognizer voice.Recognizer = voice.Unsupported{}
	if cfg.CartesiaAPIKey != "" {
		recognizer = voice.NewCartesia(cfg.CartesiaAPIKey)
	}

	return runChat(ctx, bot, recognizer, cfg.Timeout, scanner, out, errOut)
}

func main() {
	if err := dotenv.LoadFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "concierge: %v\n", err)
		os.Exit(1)
	}

	cfg, err := parseConfig(os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "concierge: %v\n", err)
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "concierge: %v\n", err)
		os.Exit(1)
	}
}
