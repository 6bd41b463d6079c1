package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WAVSpec describes a generated PCM fixture.
type WAVSpec struct {
	SampleRate int
	Channels   int
	Seconds    float64
}

// WriteWAV writes a silent 16-bit PCM WAV file and returns its path.
// Zero fields default to 44.1 kHz stereo, half a second long.
func WriteWAV(t testing.TB, path string, spec WAVSpec) string {
	t.Helper()

	if spec.SampleRate <= 0 {
		spec.SampleRate = 44100
	}
	if spec.Channels <= 0 {
		spec.Channels = 2
	}
	if spec.Seconds <= 0 {
		spec.Seconds = 0.5
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	frames := int(float64(spec.SampleRate) * spec.Seconds)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: spec.Channels, SampleRate: spec.SampleRate},
		Data:           make([]int, frames*spec.Channels),
		SourceBitDepth: 16,
	}

	enc := wav.NewEncoder(f, spec.SampleRate, 16, spec.Channels, 1)
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("finalize %s: %v", path, err)
	}
	return path
}
