package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
	"github.com/go-audio/wav"
)

// NativeReader reads metadata without external binaries: WAV format fields
// through go-audio/wav and ID3/Vorbis/MP4 tags through dhowden/tag.
type NativeReader struct{}

// bpmKeys are raw tag names carrying tempo across ID3, Vorbis and MP4.
var bpmKeys = []string{"TBPM", "BPM", "bpm", "tmpo", "TEMPO", "tempo"}

// ReadMetadata implements Reader.
func (NativeReader) ReadMetadata(ctx context.Context, path string) (Metadata, error) {
	if err := ctx.Err(); err != nil {
		return Metadata{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var md Metadata
	wavOK := readWAV(file, &md)

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return Metadata{}, fmt.Errorf("rewind %s: %w", path, err)
	}
	tagsOK, tagErr := readTags(file, &md)

	if !wavOK && !tagsOK {
		if tagErr != nil && !errors.Is(tagErr, tag.ErrNoTagsFound) {
			return Metadata{}, fmt.Errorf("read tags %s: %w", path, tagErr)
		}
		return Metadata{}, fmt.Errorf("unrecognized audio container: %s", path)
	}
	return md, nil
}

func readWAV(file *os.File, md *Metadata) bool {
	dec := wav.NewDecoder(file)
	if !dec.IsValidFile() {
		return false
	}
	md.Format = "wav"
	md.SampleRate = int(dec.SampleRate)
	md.Channels = int(dec.NumChans)
	md.Bitrate = int(dec.SampleRate) * int(dec.BitDepth) * int(dec.NumChans)

	dec.ReadMetadata()
	if dec.Err() == nil && dec.Metadata != nil {
		if genre := strings.TrimSpace(dec.Metadata.Genre); genre != "" {
			md.Genres = append(md.Genres, genre)
		}
	}

	if dur, err := dec.Duration(); err == nil && dur > 0 {
		md.Duration = dur.Seconds()
	} else if dec.AvgBytesPerSec > 0 {
		if info, statErr := file.Stat(); statErr == nil && info.Size() > 44 {
			md.Duration = float64(info.Size()-44) / float64(dec.AvgBytesPerSec)
		}
	}
	return true
}

func readTags(file *os.File, md *Metadata) (bool, error) {
	meta, err := tag.ReadFrom(file)
	if err != nil {
		return false, err
	}
	if md.Format == "" {
		md.Format = strings.ToLower(string(meta.FileType()))
	}
	if genre := strings.TrimSpace(meta.Genre()); genre != "" {
		for _, part := range strings.Split(genre, ";") {
			if part = strings.TrimSpace(part); part != "" {
				md.Genres = append(md.Genres, part)
			}
		}
	}
	if bpm := rawBPM(meta.Raw()); bpm > 0 {
		md.BPM = bpm
	}
	return true, nil
}

func rawBPM(raw map[string]interface{}) float64 {
	for _, key := range bpmKeys {
		val, ok := raw[key]
		if !ok {
			continue
		}
		var bpm float64
		switch v := val.(type) {
		case string:
			bpm, _ = strconv.ParseFloat(strings.TrimSpace(v), 64)
		case int:
			bpm = float64(v)
		case int64:
			bpm = float64(v)
		case uint16:
			bpm = float64(v)
		case float64:
			bpm = v
		case *tag.Comm:
			if v != nil {
				bpm, _ = strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
			}
		}
		if bpm > 0 {
			return bpm
		}
	}
	return 0
}
