package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"
)

// FFPlaySink plays PCM through an ffplay subprocess fed over stdin. Audio
// is written in realtime-paced chunks so Pause can hold position without
// ffplay draining a large buffered backlog.
type FFPlaySink struct {
	path     string
	logLevel string
	volume   int
	tick     time.Duration

	mu     sync.Mutex
	paused bool
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	cancel context.CancelFunc
}

// FFPlayOption configures an FFPlaySink.
type FFPlayOption func(*FFPlaySink)

// WithFFPlayPath sets the ffplay binary path.
func WithFFPlayPath(path string) FFPlayOption {
	return func(s *FFPlaySink) { s.path = path }
}

// WithVolume sets the ffplay volume (0-100).
func WithVolume(volume int) FFPlayOption {
	return func(s *FFPlaySink) { s.volume = volume }
}

// NewFFPlaySink creates an ffplay-backed playback sink.
func NewFFPlaySink(opts ...FFPlayOption) *FFPlaySink {
	s := &FFPlaySink{
		path:     "ffplay",
		logLevel: "error",
		volume:   80,
		tick:     20 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start implements Sink.
func (s *FFPlaySink) Start(f Format, pcm []byte, done func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()

	// ffplay does not accept ffmpeg-style `-ac` (channels); use `-ch_layout`.
	chLayout := "mono"
	if f.Channels == 2 {
		chLayout = "stereo"
	}
	args := []string{
		"-hide_banner",
		"-loglevel", s.logLevel,
		"-nostats",
		"-volume", fmt.Sprintf("%d", s.volume),
		"-nodisp",
		"-autoexit",
		"-f", "s16le",
		"-ch_layout", chLayout,
		"-ar", fmt.Sprintf("%d", f.SampleRate),
		"-i", "-",
	}
	cmd := exec.Command(s.path, args...)
	if runtime.GOOS == "darwin" {
		// ffplay uses SDL for audio output on macOS. In some environments SDL
		// selects a dummy backend with no sound; prefer CoreAudio unless the
		// user overrides it.
		if os.Getenv("SDL_AUDIODRIVER") == "" {
			cmd.Env = append(os.Environ(), "SDL_AUDIODRIVER=coreaudio")
		}
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cmd = cmd
	s.stdin = stdin
	s.cancel = cancel
	s.paused = false

	go s.feed(ctx, cmd, stdin, f, pcm, done)
	return nil
}

// feed writes pcm to the subprocess at roughly realtime rate, honoring the
// paused flag, then waits for ffplay to drain and signals completion.
func (s *FFPlaySink) feed(ctx context.Context, cmd *exec.Cmd, stdin io.WriteCloser, f Format, pcm []byte, done func()) {
	bytesPerTick := f.BytesPerSecond() * int(s.tick) / int(time.Second)
	if bytesPerTick <= 0 {
		bytesPerTick = 960
	}

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	off := 0
	for off < len(pcm) {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		paused := s.paused
		s.mu.Unlock()
		if paused {
			continue
		}

		end := off + bytesPerTick
		if end > len(pcm) {
			end = len(pcm)
		}
		if _, err := stdin.Write(pcm[off:end]); err != nil {
			return
		}
		off = end
	}

	_ = stdin.Close()
	_ = cmd.Wait()

	select {
	case <-ctx.Done():
		return
	default:
	}
	if done != nil {
		done()
	}
}

// Pause implements Sink.
func (s *FFPlaySink) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
	return nil
}

// Resume implements Sink.
func (s *FFPlaySink) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = false
	return nil
}

// Stop implements Sink.
func (s *FFPlaySink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	return nil
}

// Close implements io.Closer.
func (s *FFPlaySink) Close() error {
	return s.Stop()
}

func (s *FFPlaySink) stopLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.stdin != nil {
		_ = s.stdin.Close()
		s.stdin = nil
	}
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
		go func(c *exec.Cmd) { _ = c.Wait() }(s.cmd)
	}
	s.cmd = nil
	s.paused = false
}

// Available reports whether the ffplay binary can be found.
func (s *FFPlaySink) Available() bool {
	path := s.path
	if strings.TrimSpace(path) == "" {
		path = "ffplay"
	}
	_, err := exec.LookPath(path)
	return err == nil
}
