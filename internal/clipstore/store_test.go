package clipstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cliptag/internal/clipstore"
	"cliptag/internal/services"
	"cliptag/internal/testsupport"
)

func TestInsertAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	clip := &clipstore.Clip{
		Filename:     "1700000000000-abcd1234.wav",
		OriginalName: "Kick Loop.wav",
		Path:         "/tmp/a.wav",
		Tags:         []string{"drums"},
		Key:          "C major",
		AIAnalyzed:   true,
		DetectedTags: []string{"drums", "fx"},
		DetectedKey:  "C major",
	}
	if err := store.Insert(ctx, clip); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if clip.ID == "" || clip.UploadedAt.IsZero() {
		t.Fatalf("expected id and upload time to be assigned, got %+v", clip)
	}

	fetched, err := store.Get(ctx, clip.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched.OriginalName != "Kick Loop.wav" || fetched.Key != "C major" || !fetched.AIAnalyzed {
		t.Fatalf("unexpected clip %+v", fetched)
	}
	if len(fetched.DetectedTags) != 2 || fetched.DetectedTags[1] != "fx" {
		t.Fatalf("unexpected detected tags %v", fetched.DetectedTags)
	}
	if !fetched.UploadedAt.Equal(clip.UploadedAt) {
		t.Fatalf("upload time round trip: %v != %v", fetched.UploadedAt, clip.UploadedAt)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, clipstore.ErrNotFound) || !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.Delete(context.Background(), "nope"); !errors.Is(err, clipstore.ErrNotFound) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
	if err := store.Update(context.Background(), &clipstore.Clip{ID: "nope", Filename: "x.wav"}); !errors.Is(err, clipstore.ErrNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}
}

func TestInsertDuplicateFilenameConflicts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.NewClip(t, store, cfg, "same.wav")

	err := store.Insert(context.Background(), &clipstore.Clip{Filename: "SAME.wav", OriginalName: "x", Path: "/x"})
	if !errors.Is(err, clipstore.ErrConflict) || !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestListFilters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fixtures := []clipstore.Clip{
		{Filename: "a.wav", OriginalName: "Kick Loop.wav", Tags: []string{"drums"}, Key: "C major"},
		{Filename: "b.wav", OriginalName: "Vocal Hook.wav", Tags: []string{"vocals", "fx"}, Key: "A minor"},
		{Filename: "c.wav", OriginalName: "100%_pad.wav", Tags: []string{"instrumental"}, Key: "A minor"},
	}
	for i := range fixtures {
		fixtures[i].Path = "/uploads/" + fixtures[i].Filename
		fixtures[i].UploadedAt = base.Add(time.Duration(i) * time.Minute)
		if err := store.Insert(ctx, &fixtures[i]); err != nil {
			t.Fatalf("Insert %d failed: %v", i, err)
		}
	}

	tests := []struct {
		name   string
		filter clipstore.Filter
		want   []string
	}{
		{name: "all", filter: clipstore.Filter{}, want: []string{"a.wav", "b.wav", "c.wav"}},
		{name: "tag", filter: clipstore.Filter{Tag: "FX"}, want: []string{"b.wav"}},
		{name: "key", filter: clipstore.Filter{Key: "A minor"}, want: []string{"b.wav", "c.wav"}},
		{name: "query", filter: clipstore.Filter{Query: "loop"}, want: []string{"a.wav"}},
		{name: "literal percent", filter: clipstore.Filter{Query: "100%"}, want: []string{"c.wav"}},
		{name: "combined", filter: clipstore.Filter{Tag: "vocals", Key: "C major"}, want: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clips, err := store.List(ctx, tc.filter)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(clips) != len(tc.want) {
				t.Fatalf("got %d clips, want %d", len(clips), len(tc.want))
			}
			for i, clip := range clips {
				if clip.Filename != tc.want[i] {
					t.Fatalf("clip %d = %s, want %s", i, clip.Filename, tc.want[i])
				}
			}
		})
	}
}

func TestUpdateAndDelete(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	clip := testsupport.NewClip(t, store, cfg, "one.wav", "drums")

	clip.Tags = []string{"fx"}
	clip.Key = "D minor"
	clip.OriginalName = "Renamed.wav"
	if err := store.Update(ctx, clip); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	fetched, err := store.Get(ctx, clip.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched.OriginalName != "Renamed.wav" || fetched.Key != "D minor" || fetched.Tags[0] != "fx" {
		t.Fatalf("update not persisted: %+v", fetched)
	}

	taken, err := store.FilenameTaken(ctx, "ONE.wav", "other")
	if err != nil || !taken {
		t.Fatalf("expected filename to be taken, got %v %v", taken, err)
	}
	taken, err = store.FilenameTaken(ctx, "one.wav", clip.ID)
	if err != nil || taken {
		t.Fatalf("expected own filename to be free, got %v %v", taken, err)
	}

	if err := store.Delete(ctx, clip.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if count, err := store.Count(ctx); err != nil || count != 0 {
		t.Fatalf("expected empty store, got %d %v", count, err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := clipstore.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.Insert(context.Background(), &clipstore.Clip{Filename: "k.wav", OriginalName: "k.wav", Path: "/k"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	if count, err := reopened.Count(context.Background()); err != nil || count != 1 {
		t.Fatalf("expected one clip after reopen, got %d %v", count, err)
	}
}
