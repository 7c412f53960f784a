// Package store persists generated response audio as WAV artifacts and
// serves them back by exact name. Artifacts are written once and never
// updated; each response gets a fresh random filename so concurrent
// requests cannot collide and caches cannot serve stale audio.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jgranda1999/magistrate-voice-service/internal/audio"
)

// Store manages the flat output directory of response artifacts.
type Store struct {
	dir string
}

// New creates the output directory if needed and returns a store over it.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("output directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the output directory path.
func (s *Store) Dir() string {
	return s.dir
}

// SaveWAV encodes the buffer as a WAV artifact under a fresh random
// filename and returns that filename. The artifact is written to a
// temporary file and renamed into place, so a partially written file is
// never visible under its final name.
func (s *Store) SaveWAV(buf *audio.Buffer) (string, error) {
	wavData, err := audio.EncodeWAV(buf.Samples, buf.SampleRate)
	if err != nil {
		return "", fmt.Errorf("failed to encode response audio: %w", err)
	}

	filename := fmt.Sprintf("response_%s.wav", uuid.NewString())
	finalPath := filepath.Join(s.dir, filename)

	tmp, err := os.CreateTemp(s.dir, "pending-*.wav")
	if err != nil {
		return "", fmt.Errorf("failed to create artifact file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(wavData); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to finalize artifact: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to publish artifact: %w", err)
	}

	return filename, nil
}

// Path resolves an artifact filename to its on-disk path. It rejects
// names that escape the output directory.
func (s *Store) Path(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) ||
		strings.HasPrefix(filename, ".") {
		return "", fmt.Errorf("invalid artifact name %q", filename)
	}
	return filepath.Join(s.dir, filename), nil
}

// Exists reports whether an artifact with the given name is present.
func (s *Store) Exists(filename string) bool {
	path, err := s.Path(filename)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
