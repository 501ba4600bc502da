package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/tripkit-ai/tripkit/pkg/audio"
	"github.com/tripkit-ai/tripkit/pkg/concierge"
	"github.com/tripkit-ai/tripkit/pkg/core"
	"github.com/tripkit-ai/tripkit/pkg/voice"
)

// runChat is the interactive loop. Plain lines are sent to the concierge;
// slash commands control playback and voice input.
func runChat(ctx context.Context, bot *concierge.Concierge, recognizer voice.Recognizer, timeout time.Duration, in *bufio.Scanner, out, errOut io.Writer) error {
	if msgs := bot.Messages(); len(msgs) > 0 {
		fmt.Fprintf(out, "%s\n", msgs[0].Text)
	}
	fmt.Fprintln(out, "Type a message, or /play, /pause, /stop, /voice <file>, /exit.")

	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			if err := in.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			fmt.Fprintln(out)
			return nil
		}

		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/exit" || line == "/quit":
			fmt.Fprintln(out, "bye")
			return nil
		case line == "/play":
			if err := replayLatest(bot); err != nil {
				fmt.Fprintf(errOut, "%v\n", err)
			}
			continue
		case line == "/pause":
			if err := bot.PauseOrResume(); err != nil {
				fmt.Fprintf(errOut, "pause: %v\n", err)
			}
			continue
		case line == "/stop":
			bot.Stop()
			continue
		case strings.HasPrefix(line, "/voice"):
			path := strings.TrimSpace(strings.TrimPrefix(line, "/voice"))
			if path == "" {
				fmt.Fprintln(out, "usage: /voice <recording.wav>")
				continue
			}
			text, err := transcribeFile(ctx, recognizer, path)
			if err != nil {
				fmt.Fprintf(errOut, "%v\n", err)
				continue
			}
			fmt.Fprintf(out, "you said: %s\n", text)
			sendTurn(ctx, bot, text, timeout, out, errOut)
			continue
		}

		sendTurn(ctx, bot, line, timeout, out, errOut)
	}
}

// sendTurn runs one conversation turn. Turn failures are printed and the
// loop continues; the session stays usable.
func sendTurn(ctx context.Context, bot *concierge.Concierge, text string, timeout time.Duration, out, errOut io.Writer) {
	turnCtx, cancel := context.WithTimeout(ctx, timeout)
	msg, err := bot.SendMessage(turnCtx, text)
	cancel()
	if err != nil {
		fmt.Fprintf(errOut, "turn failed: %v\n", err)
		return
	}

	fmt.Fprintf(out, "%s\n", msg.Text)
	if state, _ := bot.PlaybackState(); state == audio.StatePlaying {
		fmt.Fprintln(out, "(speaking — /pause to pause, /stop to stop)")
	}
}

// replayLatest replays the most recent spoken assistant reply.
func replayLatest(bot *concierge.Concierge) error {
	msgs := bot.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == concierge.MessageAssistant && msgs[i].HasAudio() {
			return bot.PlayAudioFor(msgs[i].ID)
		}
	}
	return fmt.Errorf("no spoken reply to play yet")
}

func transcribeFile(ctx context.Context, recognizer voice.Recognizer, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read recording: %w", err)
	}

	t, err := recognizer.Transcribe(ctx, data, voice.Options{Format: formatForPath(path)})
	if err != nil {
		if core.TypeOf(err) == core.ErrUnsupportedCapability {
			return "", fmt.Errorf("voice input is not configured (set CARTESIA_API_KEY)")
		}
		return "", err
	}
	if strings.TrimSpace(t.Text) == "" {
		return "", fmt.Errorf("no speech detected in %s", path)
	}
	return strings.TrimSpace(t.Text), nil
}

func formatForPath(path string) string {
	switch {
	case strings.HasSuffix(path, ".mp3"):
		return "mp3"
	case strings.HasSuffix(path, ".webm"):
		return "webm"
	case strings.HasSuffix(path, ".ogg"):
		return "ogg"
	default:
		return "wav"
	}
}
