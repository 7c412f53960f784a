package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jgranda1999/magistrate-voice-service/internal/audio"
)

func TestSaveWAV(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	buf := audio.NewBuffer([]int16{100, -200, 300, -400}, audio.DefaultSampleRate)
	filename, err := s.SaveWAV(buf)
	if err != nil {
		t.Fatalf("SaveWAV failed: %v", err)
	}

	if !strings.HasPrefix(filename, "response_") || !strings.HasSuffix(filename, ".wav") {
		t.Errorf("Unexpected artifact name: %q", filename)
	}

	if !s.Exists(filename) {
		t.Fatal("Expected artifact to exist after save")
	}

	path, err := s.Path(filename)
	if err != nil {
		t.Fatalf("Path failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read artifact: %v", err)
	}

	decoded, err := audio.DecodeWAV(data)
	if err != nil {
		t.Fatalf("Artifact is not a valid WAV: %v", err)
	}

	if len(decoded.Samples) != 4 {
		t.Errorf("Expected 4 samples, got %d", len(decoded.Samples))
	}

	// No temp leftovers once the artifact is published.
	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "pending-") {
			t.Errorf("Leftover temp file: %s", e.Name())
		}
	}
}

func TestSaveWAVUniqueNames(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	buf := audio.NewBuffer([]int16{1, 2, 3}, audio.DefaultSampleRate)
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		name, err := s.SaveWAV(buf)
		if err != nil {
			t.Fatalf("SaveWAV failed: %v", err)
		}
		if seen[name] {
			t.Fatalf("Duplicate artifact name: %s", name)
		}
		seen[name] = true
	}
}

func TestSaveWAVEmptyBuffer(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// A zero-byte artifact must never be published as if it were successful.
	if _, err := s.SaveWAV(audio.NewBuffer(nil, audio.DefaultSampleRate)); err == nil {
		t.Error("Expected error for empty buffer")
	}

	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty output directory, found %d entries", len(entries))
	}
}

func TestPathRejectsTraversal(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for _, name := range []string{"", "../secret.wav", "a/b.wav", ".hidden", "..", string(filepath.Separator) + "etc"} {
		if _, err := s.Path(name); err == nil {
			t.Errorf("Expected %q to be rejected", name)
		}
	}
}

func TestExistsMissing(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if s.Exists("response_missing.wav") {
		t.Error("Expected missing artifact to not exist")
	}
}
