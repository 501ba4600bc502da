package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/tripkit-ai/tripkit/pkg/core"
)

const (
	cartesiaBaseURL = "https://api.cartesia.ai"
	cartesiaVersion = "2025-04-16"

	defaultModel    = "ink-whisper"
	defaultLanguage = "en"
)

// Cartesia implements Recognizer against the Cartesia STT API.
type Cartesia struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// CartesiaOption customizes the recognizer.
type CartesiaOption func(*Cartesia)

// WithHTTPClient swaps the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) CartesiaOption {
	return func(c *Cartesia) { c.httpClient = client }
}

// WithBaseURL points the recognizer at an alternate endpoint.
func WithBaseURL(base string) CartesiaOption {
	return func(c *Cartesia) { c.baseURL = base }
}

// NewCartesia creates a Cartesia recognizer.
func NewCartesia(apiKey string, opts ...CartesiaOption) *Cartesia {
	c := &Cartesia{
		apiKey:     apiKey,
		baseURL:    cartesiaBaseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transcribe implements Recognizer. Audio is uploaded as a multipart form;
// raw PCM formats additionally declare their encoding and sample rate as
// query parameters.
func (c *Cartesia) Transcribe(ctx context.Context, audio []byte, opts Options) (*Transcript, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", "audio."+fileExtension(opts.Format))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := fw.Write(audio); err != nil {
		return nil, fmt.Errorf("write audio data: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = defaultModel
	}
	if err := mw.WriteField("model", model); err != nil {
		return nil, fmt.Errorf("write model field: %w", err)
	}

	language := opts.Language
	if language == "" {
		language = defaultLanguage
	}
	if err := mw.WriteField("language", language); err != nil {
		return nil, fmt.Errorf("write language field: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	reqURL := c.baseURL + "/stt"
	if encoding := pcmEncoding(opts.Format); encoding != "" || opts.SampleRate > 0 {
		u, err := url.Parse(reqURL)
		if err != nil {
			return nil, fmt.Errorf("parse stt url: %w", err)
		}
		q := u.Query()
		if encoding != "" {
			q.Set("encoding", encoding)
		}
		if opts.SampleRate > 0 {
			q.Set("sample_rate", fmt.Sprintf("%d", opts.SampleRate))
		}
		u.RawQuery = q.Encode()
		reqURL = u.String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Cartesia-Version", cartesiaVersion)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.NewTransportError("cartesia stt request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, core.NewTransportError(
			fmt.Sprintf("cartesia stt status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var decoded transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("parse stt response: %w", err)
	}
	return decoded.transcript(), nil
}

type transcriptionResponse struct {
	Text     string   `json:"text"`
	Language *string  `json:"language,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
}

func (r transcriptionResponse) transcript() *Transcript {
	t := &Transcript{Text: r.Text}
	if r.Language != nil {
		t.Language = *r.Language
	}
	if r.Duration != nil {
		t.Duration = *r.Duration
	}
	return t
}

func fileExtension(format string) string {
	switch format {
	case "wav", "mp3", "webm", "ogg", "flac", "m4a":
		return format
	default:
		return "wav"
	}
}

func pcmEncoding(format string) string {
	switch format {
	case "pcm_s16le", "pcm_s32le", "pcm_f32le", "pcm_mulaw", "pcm_alaw":
		return format
	default:
		return ""
	}
}
