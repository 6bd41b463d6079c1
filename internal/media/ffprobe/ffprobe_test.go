package ffprobe

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio", SampleRate: "48000", Channels: 2, Duration: "9.5"},
		},
		Format: Format{
			BitRate: "32000",
			Tags:    map[string]string{"GENRE": "Drums; Percussion", "TBPM": "128"},
		},
	}
	if result.DurationSeconds() != 9.5 {
		t.Fatalf("expected stream duration fallback, got %v", result.DurationSeconds())
	}
	if result.BitRate() != 32000 {
		t.Fatalf("unexpected bitrate: %d", result.BitRate())
	}
	if got := result.Genres(); !reflect.DeepEqual(got, []string{"Drums", "Percussion"}) {
		t.Fatalf("unexpected genres: %v", got)
	}
	if result.BPM() != 128 {
		t.Fatalf("unexpected bpm: %v", result.BPM())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			BitRate:  "nope",
		},
	}
	if result.DurationSeconds() != 0 && !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration 0 or NaN, got %v", result.DurationSeconds())
	}
	if result.BitRate() != 0 {
		t.Fatalf("expected bitrate 0, got %d", result.BitRate())
	}
	if result.BPM() != 0 {
		t.Fatalf("expected bpm 0, got %v", result.BPM())
	}
}

func TestReaderUsesBinaryOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub requires a POSIX shell")
	}
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	script := `#!/bin/sh
cat <<'JSON'
{"streams":[{"index":0,"codec_type":"audio","sample_rate":"44100","channels":1}],
 "format":{"duration":"3.200000","bit_rate":"705600","format_name":"wav","tags":{"genre":"Vocal"}}}
JSON
`
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	md, err := Reader{Binary: stub}.ReadMetadata(context.Background(), filepath.Join(dir, "clip.wav"))
	if err != nil {
		t.Fatalf("ReadMetadata returned error: %v", err)
	}
	if md.SampleRate != 44100 || md.Channels != 1 {
		t.Fatalf("unexpected stream fields: %+v", md)
	}
	if md.Duration != 3.2 {
		t.Fatalf("unexpected duration: %v", md.Duration)
	}
	if !reflect.DeepEqual(md.Genres, []string{"Vocal"}) {
		t.Fatalf("unexpected genres: %v", md.Genres)
	}
}

func TestReaderReportsMissingBinary(t *testing.T) {
	_, err := Reader{Binary: filepath.Join(t.TempDir(), "nope")}.ReadMetadata(context.Background(), "clip.wav")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}
