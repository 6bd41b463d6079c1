package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cliptag/internal/clipstore"
	"cliptag/internal/testsupport"
)

func TestVocabCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"vocab"}, "")
	if err != nil {
		t.Fatalf("vocab: %v", err)
	}
	requireContains(t, out, "woodwinds")
	requireContains(t, out, "C# minor")

	out, _, err = runCLI(t, []string{"vocab", "--json"}, "")
	if err != nil {
		t.Fatalf("vocab --json: %v", err)
	}
	var payload map[string][]string
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode vocab: %v", err)
	}
	if len(payload["tags"]) != 13 || len(payload["keys"]) != 24 {
		t.Fatalf("unexpected vocab sizes: %d tags, %d keys", len(payload["tags"]), len(payload["keys"]))
	}
}

func TestAnalyzeCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	path := testsupport.WriteWAV(t, filepath.Join(env.baseDir, "kick_drum_loop.wav"), testsupport.WAVSpec{})

	out, _, err := runCLI(t, []string{"analyze", "--json", path}, env.configPath)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var results []analyzeOutput
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode analyze output %q: %v", out, err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	got := results[0]
	if got.SuggestedName != "kick_drum_loop.wav" {
		t.Fatalf("expected descriptive name kept, got %q", got.SuggestedName)
	}
	if !strings.Contains(strings.Join(got.Tags, ","), "drums") {
		t.Fatalf("expected drums tag, got %v", got.Tags)
	}

	out, _, err = runCLI(t, []string{"analyze", path}, env.configPath)
	if err != nil {
		t.Fatalf("analyze table: %v", err)
	}
	requireContains(t, out, "SUGGESTED NAME")
	requireContains(t, out, "kick_drum_loop.wav")

	if _, _, err := runCLI(t, []string{"analyze", filepath.Join(env.baseDir, "missing.wav")}, env.configPath); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func listClips(t *testing.T, env *cliTestEnv, args ...string) []clipstore.Clip {
	t.Helper()
	out, _, err := runCLI(t, append([]string{"clips", "list", "--json"}, args...), env.configPath)
	if err != nil {
		t.Fatalf("clips list: %v", err)
	}
	var clips []clipstore.Clip
	if err := json.Unmarshal([]byte(out), &clips); err != nil {
		t.Fatalf("decode clips %q: %v", out, err)
	}
	return clips
}

func TestClipsLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)
	source := testsupport.WriteWAV(t, filepath.Join(env.baseDir, "bass_groove.wav"), testsupport.WAVSpec{})

	out, _, err := runCLI(t, []string{"clips", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("clips list: %v", err)
	}
	requireContains(t, out, "No clips")

	out, _, err = runCLI(t, []string{"clips", "add", source}, env.configPath)
	if err != nil {
		t.Fatalf("clips add: %v", err)
	}
	requireContains(t, out, "Added")

	clips := listClips(t, env)
	if len(clips) != 1 {
		t.Fatalf("expected 1 clip, got %d", len(clips))
	}
	id := clips[0].ID
	if _, err := os.Stat(clips[0].Path); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	if _, _, err := runCLI(t, []string{"clips", "rename", id, "Deep Groove"}, env.configPath); err != nil {
		t.Fatalf("clips rename: %v", err)
	}
	if _, _, err := runCLI(t, []string{"clips", "tag", id, "--tags", "bass,electronic", "--key", "A minor"}, env.configPath); err != nil {
		t.Fatalf("clips tag: %v", err)
	}
	if _, _, err := runCLI(t, []string{"clips", "tag", id, "--key", "H minor"}, env.configPath); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
	if _, _, err := runCLI(t, []string{"clips", "tag", id}, env.configPath); err == nil {
		t.Fatal("expected error when nothing changes")
	}

	out, _, err = runCLI(t, []string{"clips", "show", "--json", id}, env.configPath)
	if err != nil {
		t.Fatalf("clips show: %v", err)
	}
	var clip clipstore.Clip
	if err := json.Unmarshal([]byte(out), &clip); err != nil {
		t.Fatalf("decode clip: %v", err)
	}
	if clip.Filename != "deep-groove.wav" || clip.OriginalName != "Deep Groove" {
		t.Fatalf("rename not applied: %+v", clip)
	}
	if strings.Join(clip.Tags, ",") != "bass,electronic" || clip.Key != "A minor" {
		t.Fatalf("tags not applied: %+v", clip)
	}

	out, _, err = runCLI(t, []string{"clips", "show", id}, env.configPath)
	if err != nil {
		t.Fatalf("clips show: %v", err)
	}
	requireContains(t, out, "deep-groove.wav")

	if got := listClips(t, env, "--tag", "electronic"); len(got) != 1 {
		t.Fatalf("expected tag filter match, got %d", len(got))
	}
	if got := listClips(t, env, "--key", "C major"); len(got) != 0 {
		t.Fatalf("expected no key filter match, got %d", len(got))
	}

	out, _, err = runCLI(t, []string{"clips", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("clips list table: %v", err)
	}
	requireContains(t, out, "Deep Groove")

	if _, _, err := runCLI(t, []string{"clips", "delete", id}, env.configPath); err != nil {
		t.Fatalf("clips delete: %v", err)
	}
	if got := listClips(t, env); len(got) != 0 {
		t.Fatalf("expected empty library, got %d", len(got))
	}
	if _, _, err := runCLI(t, []string{"clips", "show", id}, env.configPath); err == nil {
		t.Fatal("expected error for deleted clip")
	}
}

func TestClipsImportAndPrune(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteWAV(t, filepath.Join(env.cfg.Paths.UploadDir, "present.wav"), testsupport.WAVSpec{})

	list := `[
  {"id": "a1", "filename": "present.wav", "originalName": "Present", "path": "/old/uploads/present.wav",
   "tags": ["drums", "banjo"], "key": "C major", "uploadDate": "2024-01-02T03:04:05Z"},
  {"id": "b2", "filename": "gone.wav", "originalName": "Gone", "path": "/old/uploads/gone.wav",
   "tags": ["pad"], "key": "", "uploadDate": "2024-01-02T03:04:05Z"}
]`
	listPath := filepath.Join(env.baseDir, "clips.json")
	if err := os.WriteFile(listPath, []byte(list), 0o644); err != nil {
		t.Fatalf("write clip list: %v", err)
	}

	out, _, err := runCLI(t, []string{"clips", "import", listPath}, env.configPath)
	if err != nil {
		t.Fatalf("clips import: %v", err)
	}
	requireContains(t, out, "Imported 2 clips (0 skipped)")

	out, _, err = runCLI(t, []string{"clips", "import", listPath}, env.configPath)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	requireContains(t, out, "Imported 0 clips (2 skipped)")

	out, _, err = runCLI(t, []string{"clips", "prune"}, env.configPath)
	if err != nil {
		t.Fatalf("clips prune: %v", err)
	}
	requireContains(t, out, "Removed 1 clips with missing files")

	clips := listClips(t, env)
	if len(clips) != 1 || clips[0].ID != "a1" {
		t.Fatalf("unexpected clips after prune: %+v", clips)
	}
	if strings.Join(clips[0].Tags, ",") != "drums" {
		t.Fatalf("expected unknown tag dropped, got %v", clips[0].Tags)
	}
	if clips[0].Path != filepath.Join(env.cfg.Paths.UploadDir, "present.wav") {
		t.Fatalf("expected path re-pointed, got %q", clips[0].Path)
	}

	out, _, err = runCLI(t, []string{"clips", "prune"}, env.configPath)
	if err != nil {
		t.Fatalf("second prune: %v", err)
	}
	requireContains(t, out, "All clip files present")
}
