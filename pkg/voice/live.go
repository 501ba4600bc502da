package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tripkit-ai/tripkit/pkg/core"
)

// liveSampleRate is the PCM sample rate sent over live sessions. Cartesia
// recommends 16 kHz for recognition.
const liveSampleRate = 16000

// LiveSession is a realtime recognition session over a WebSocket. Audio is
// pushed incrementally with SendAudio and transcript deltas arrive on
// Deltas.
type LiveSession struct {
	conn    *websocket.Conn
	deltas  chan Delta
	done    chan struct{}
	closed  atomic.Bool
	writeMu sync.Mutex
	cancel  context.CancelFunc
	ctx     context.Context
}

// Live opens a streaming recognition session. The session expects raw
// pcm_s16le audio at 16 kHz unless opts says otherwise.
func (c *Cartesia) Live(ctx context.Context, opts Options) (*LiveSession, error) {
	u, err := url.Parse(websocketURL(c.baseURL) + "/stt/websocket")
	if err != nil {
		return nil, fmt.Errorf("parse websocket url: %w", err)
	}

	q := u.Query()
	model := opts.Model
	if model == "" {
		model = defaultModel
	}
	q.Set("model", model)

	language := opts.Language
	if language == "" {
		language = defaultLanguage
	}
	q.Set("language", language)

	encoding := opts.Format
	if encoding == "" {
		encoding = "pcm_s16le"
	}
	q.Set("encoding", encoding)

	sampleRate := opts.SampleRate
	if sampleRate == 0 {
		sampleRate = liveSampleRate
	}
	q.Set("sample_rate", fmt.Sprintf("%d", sampleRate))
	q.Set("min_volume", "0.01")
	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()

	headers := http.Header{}
	headers.Set("X-API-Key", c.apiKey)
	headers.Set("Cartesia-Version", cartesiaVersion)

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, u.String(), headers)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			return nil, core.NewTransportError(
				fmt.Sprintf("websocket connect status %d: %s", resp.StatusCode, string(body)), err)
		}
		return nil, core.NewTransportError("websocket connect", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &LiveSession{
		conn:   conn,
		deltas: make(chan Delta, 100),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}

	// Closing the connection is the only way to unblock a pending read, so
	// cancellation (of the caller's context or via Close) tears it down.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go s.readLoop()
	return s, nil
}

func (s *LiveSession) readLoop() {
	defer func() {
		s.cancel()
		close(s.deltas)
		close(s.done)
	}()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg liveMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "transcript":
			select {
			case s.deltas <- Delta{Text: msg.Text, Final: msg.IsFinal}:
			case <-s.ctx.Done():
				return
			}
		case "flush_done":
			continue
		case "done", "error":
			return
		}
	}
}

type liveMessage struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	IsFinal bool   `json:"is_final"`
	Error   string `json:"error"`
}

// SendAudio pushes a chunk of audio in the session's declared encoding.
func (s *LiveSession) SendAudio(data []byte) error {
	if s.closed.Load() {
		return fmt.Errorf("session closed")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteMessage(websocket.BinaryMessage, data)
}

// Finalize flushes buffered audio, marking the end of the current
// utterance while keeping the session open.
func (s *LiveSession) Finalize() error {
	if s.closed.Load() {
		return fmt.Errorf("session closed")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, []byte("finalize"))
}

// Deltas returns the stream of transcript updates.
func (s *LiveSession) Deltas() <-chan Delta {
	return s.deltas
}

// Done is closed when the session ends.
func (s *LiveSession) Done() <-chan struct{} {
	return s.done
}

// Close ends the session.
func (s *LiveSession) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.cancel()

	s.writeMu.Lock()
	s.conn.WriteMessage(websocket.TextMessage, []byte("done"))
	s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	s.writeMu.Unlock()

	return s.conn.Close()
}

func websocketURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}
