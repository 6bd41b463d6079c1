package testsupport

import (
	"context"
	"path/filepath"
	"testing"

	"cliptag/internal/clipstore"
	"cliptag/internal/config"
)

// MustOpenStore opens a clipstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *clipstore.Store {
	t.Helper()

	store, err := clipstore.Open(cfg)
	if err != nil {
		t.Fatalf("clipstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewClip writes a WAV fixture into the upload directory and stores a clip
// for it.
func NewClip(t testing.TB, store *clipstore.Store, cfg *config.Config, filename string, tags ...string) *clipstore.Clip {
	t.Helper()

	path := WriteWAV(t, filepath.Join(cfg.Paths.UploadDir, filename), WAVSpec{})
	clip := &clipstore.Clip{
		Filename:     filename,
		OriginalName: filename,
		Path:         path,
		Tags:         tags,
		DetectedTags: tags,
	}
	if err := store.Insert(context.Background(), clip); err != nil {
		t.Fatalf("store.Insert: %v", err)
	}
	return clip
}
