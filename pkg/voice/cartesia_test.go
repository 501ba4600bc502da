package voice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tripkit-ai/tripkit/pkg/core"
)

func TestTranscribe_SendsMultipartAndParsesResponse(t *testing.T) {
	var gotAuth, gotVersion, gotModel, gotLanguage string
	var gotAudio []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("Cartesia-Version")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		gotLanguage = r.FormValue("language")
		if file, _, err := r.FormFile("file"); err == nil {
			buf := make([]byte, 16)
			n, _ := file.Read(buf)
			gotAudio = buf[:n]
			file.Close()
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"book the spa","language":"en","duration":1.2}`))
	}))
	defer server.Close()

	c := NewCartesia("test-key", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	got, err := c.Transcribe(context.Background(), []byte("fake-wav"), Options{})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}

	if got.Text != "book the spa" || got.Language != "en" || got.Duration != 1.2 {
		t.Errorf("transcript = %+v", got)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotVersion == "" {
		t.Error("Cartesia-Version header missing")
	}
	if gotModel != "ink-whisper" || gotLanguage != "en" {
		t.Errorf("defaults model=%q language=%q", gotModel, gotLanguage)
	}
	if string(gotAudio) != "fake-wav" {
		t.Errorf("uploaded audio = %q", gotAudio)
	}
}

func TestTranscribe_PCMDeclaresEncoding(t *testing.T) {
	var gotEncoding, gotRate string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEncoding = r.URL.Query().Get("encoding")
		gotRate = r.URL.Query().Get("sample_rate")
		w.Write([]byte(`{"text":"ok"}`))
	}))
	defer server.Close()

	c := NewCartesia("key", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	_, err := c.Transcribe(context.Background(), []byte{0, 0}, Options{Format: "pcm_s16le", SampleRate: 16000})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if gotEncoding != "pcm_s16le" || gotRate != "16000" {
		t.Errorf("encoding=%q sample_rate=%q", gotEncoding, gotRate)
	}
}

func TestTranscribe_ErrorStatusIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewCartesia("key", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	_, err := c.Transcribe(context.Background(), nil, Options{})
	if core.TypeOf(err) != core.ErrTransport {
		t.Fatalf("error = %v, want transport error", err)
	}
}

func TestUnsupported_ReportsMissingCapability(t *testing.T) {
	_, err := Unsupported{}.Transcribe(context.Background(), nil, Options{})
	if core.TypeOf(err) != core.ErrUnsupportedCapability {
		t.Fatalf("error = %v, want unsupported capability", err)
	}
}

func TestFileExtensionAndPCMEncoding(t *testing.T) {
	tests := []struct {
		format       string
		wantExt      string
		wantEncoding string
	}{
		{"wav", "wav", ""},
		{"mp3", "mp3", ""},
		{"pcm_s16le", "wav", "pcm_s16le"},
		{"unknown", "wav", ""},
		{"", "wav", ""},
	}
	for _, tc := range tests {
		if got := fileExtension(tc.format); got != tc.wantExt {
			t.Errorf("fileExtension(%q) = %q, want %q", tc.format, got, tc.wantExt)
		}
		if got := pcmEncoding(tc.format); got != tc.wantEncoding {
			t.Errorf("pcmEncoding(%q) = %q, want %q", tc.format, got, tc.wantEncoding)
		}
	}
}

func TestWebsocketURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"https://api.cartesia.ai", "wss://api.cartesia.ai"},
		{"http://127.0.0.1:8080", "ws://127.0.0.1:8080"},
	}
	for _, tc := range tests {
		if got := websocketURL(tc.in); got != tc.want {
			t.Errorf("websocketURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
