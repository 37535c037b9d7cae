package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBrowserAddr(t *testing.T) {
	tests := map[string]string{
		":8080":          "localhost:8080",
		"127.0.0.1:9000": "127.0.0.1:9000",
	}
	for in, want := range tests {
		if got := browserAddr(in); got != want {
			t.Errorf("browserAddr(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFindWebDir(t *testing.T) {
	dataDir := t.TempDir()

	if got := findWebDir(filepath.Join(dataDir, "missing"), filepath.Join(dataDir, "nowhere")); got != "" {
		t.Errorf("findWebDir() = %q, want empty", got)
	}

	web := filepath.Join(dataDir, "web")
	if err := os.Mkdir(web, 0o755); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}
	if got := findWebDir("", dataDir); got != web {
		t.Errorf("findWebDir() = %q, want %q", got, web)
	}

	preferred := t.TempDir()
	if got := findWebDir(preferred, dataDir); got != preferred {
		t.Errorf("findWebDir() = %q, want preferred %q", got, preferred)
	}
}
