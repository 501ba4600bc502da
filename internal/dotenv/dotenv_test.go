package dotenv

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile_MissingFileIsNoop(t *testing.T) {
	t.Parallel()
	if err := LoadFile(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("LoadFile missing file error: %v", err)
	}
}

func TestLoadFile_LoadsValuesAndPreservesExisting(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	content := "" +
		"# credentials\n" +
		"GEMINI_API_KEY=from-file\n" +
		"CARTESIA_API_KEY=\"quoted key\"\n" +
		"export CONCIERGE_MODEL=gemini-3-flash-preview\n" +
		"EXISTING=from_file\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("EXISTING", "already_set")

	if err := LoadFile(envPath); err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}

	if got := os.Getenv("GEMINI_API_KEY"); got != "from-file" {
		t.Fatalf("GEMINI_API_KEY=%q", got)
	}
	if got := os.Getenv("CARTESIA_API_KEY"); got != "quoted key" {
		t.Fatalf("CARTESIA_API_KEY=%q", got)
	}
	if got := os.Getenv("CONCIERGE_MODEL"); got != "gemini-3-flash-preview" {
		t.Fatalf("CONCIERGE_MODEL=%q", got)
	}
	if got := os.Getenv("EXISTING"); got != "already_set" {
		t.Fatalf("EXISTING=%q, want existing value preserved", got)
	}
}

func TestParseLine(t *testing.T) {
	t.Parallel()
	tests := []struct {
		line     string
		wantKey  string
		wantVal  string
		wantSkip bool
	}{
		{line: "KEY=value", wantKey: "KEY", wantVal: "value"},
		{line: "  KEY = value ", wantKey: "KEY", wantVal: "value"},
		{line: "export KEY=value", wantKey: "KEY", wantVal: "value"},
		{line: `KEY="a b"`, wantKey: "KEY", wantVal: "a b"},
		{line: "KEY='a b'", wantKey: "KEY", wantVal: "a b"},
		{line: "# comment", wantSkip: true},
		{line: "", wantSkip: true},
		{line: "=value", wantSkip: true},
		{line: "no equals sign", wantSkip: true},
	}
	for _, tc := range tests {
		key, val, ok := parseLine(tc.line)
		if tc.wantSkip {
			if ok {
				t.Errorf("parseLine(%q) = %q,%q, want skip", tc.line, key, val)
			}
			continue
		}
		if !ok || key != tc.wantKey || val != tc.wantVal {
			t.Errorf("parseLine(%q) = %q,%q,%v, want %q,%q", tc.line, key, val, ok, tc.wantKey, tc.wantVal)
		}
	}
}
