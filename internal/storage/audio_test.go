package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/acme/voice-call-gateway/internal/config"
	"github.com/acme/voice-call-gateway/pkg/logger"
)

func newTestStore(t *testing.T) *AudioStore {
	t.Helper()

	lg, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	store, err := NewAudioStore(config.AudioConfig{
		Dir:        t.TempDir(),
		PublicPath: "/audio",
	}, lg)
	if err != nil {
		t.Fatalf("NewAudioStore: %v", err)
	}
	return store
}

func TestWriteProducesUniqueArtifacts(t *testing.T) {
	store := newTestStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		artifact, err := store.Write([]byte("audio"))
		if err != nil {
			t.Fatalf("Write: %v", err)
		}
		if seen[artifact.Filename] {
			t.Fatalf("duplicate filename %q", artifact.Filename)
		}
		seen[artifact.Filename] = true

		if !strings.HasPrefix(artifact.URL, "/audio/") {
			t.Errorf("unexpected URL %q", artifact.URL)
		}
		if _, err := os.Stat(artifact.Path); err != nil {
			t.Errorf("artifact not on disk: %v", err)
		}
	}
}

func TestCleanupRemovesEverythingAtZeroAge(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 3; i++ {
		if _, err := store.Write([]byte("audio")); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	deleted, err := store.Cleanup(0)
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}

	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty dir, found %d entries", len(entries))
	}
}

func TestCleanupKeepsFreshFiles(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Write([]byte("fresh")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	old := filepath.Join(store.Dir(), "speech_0_old.mp3")
	if err := os.WriteFile(old, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seed old file: %v", err)
	}
	stale := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatalf("age old file: %v", err)
	}

	deleted, err := store.Cleanup(24 * time.Hour)
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("stale file survived cleanup")
	}
}
