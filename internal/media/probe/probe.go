package probe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cliptag/internal/logging"
)

// Tempo buckets a clip's BPM.
type Tempo string

const (
	TempoUnknown Tempo = "unknown"
	TempoSlow    Tempo = "slow"
	TempoMedium  Tempo = "medium"
	TempoFast    Tempo = "fast"
)

// Metadata is the raw data a Reader extracts from a container.
type Metadata struct {
	Duration   float64
	SampleRate int
	Channels   int
	Bitrate    int
	Genres     []string
	BPM        float64
	Format     string
}

// Reader extracts container metadata from a file.
type Reader interface {
	ReadMetadata(ctx context.Context, path string) (Metadata, error)
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func(ctx context.Context, path string) (Metadata, error)

// ReadMetadata calls f.
func (f ReaderFunc) ReadMetadata(ctx context.Context, path string) (Metadata, error) {
	return f(ctx, path)
}

// Result is the probe's view of a clip.
type Result struct {
	Tags       []string `json:"tags"`
	Key        string   `json:"key"`
	Duration   float64  `json:"duration,omitempty"`
	SampleRate int      `json:"sampleRate,omitempty"`
	Channels   int      `json:"channels,omitempty"`
	Bitrate    int      `json:"bitrate,omitempty"`
	Tempo      Tempo    `json:"tempo"`
}

func emptyResult() Result {
	return Result{Tags: []string{}, Tempo: TempoUnknown}
}

// Probe runs readers against a file.
type Probe struct {
	readers []Reader
	logger  *slog.Logger
}

// New constructs a Probe over readers, consulted in order.
func New(readers ...Reader) *Probe {
	return &Probe{readers: readers, logger: logging.NewNop()}
}

// WithLogger sets the logger used for reader failures.
func (p *Probe) WithLogger(logger *slog.Logger) *Probe {
	p.logger = logging.NewComponentLogger(logger, "probe")
	return p
}

// Probe reads path with every reader and derives tags and tempo. It never
// fails; when no reader succeeds the result has no tags and unknown tempo.
func (p *Probe) Probe(ctx context.Context, path string) Result {
	if p == nil {
		return emptyResult()
	}
	logger := logging.WithContext(ctx, p.logger)

	var merged Metadata
	succeeded := 0
	for _, reader := range p.readers {
		md, err := safeRead(ctx, reader, path)
		if err != nil {
			logger.Debug("metadata reader failed", logging.String("path", path), logging.Error(err))
			continue
		}
		succeeded++
		merged = mergeMetadata(merged, md)
	}
	if succeeded == 0 {
		return emptyResult()
	}
	return Derive(merged)
}

func safeRead(ctx context.Context, reader Reader, path string) (md Metadata, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("metadata reader panic: %v", r)
		}
	}()
	return reader.ReadMetadata(ctx, path)
}

func mergeMetadata(into, from Metadata) Metadata {
	if into.Duration <= 0 {
		into.Duration = from.Duration
	}
	if into.SampleRate <= 0 {
		into.SampleRate = from.SampleRate
	}
	if into.Channels <= 0 {
		into.Channels = from.Channels
	}
	if into.Bitrate <= 0 {
		into.Bitrate = from.Bitrate
	}
	if into.BPM <= 0 {
		into.BPM = from.BPM
	}
	if into.Format == "" {
		into.Format = from.Format
	}
	for _, genre := range from.Genres {
		if !containsFold(into.Genres, genre) {
			into.Genres = append(into.Genres, genre)
		}
	}
	return into
}

// Derive folds raw metadata into a Result.
func Derive(md Metadata) Result {
	res := Result{
		Tags:       []string{},
		Duration:   md.Duration,
		SampleRate: md.SampleRate,
		Channels:   md.Channels,
		Bitrate:    md.Bitrate,
		Tempo:      TempoFor(md.BPM),
	}

	add := func(tag string) {
		for _, existing := range res.Tags {
			if existing == tag {
				return
			}
		}
		res.Tags = append(res.Tags, tag)
	}

	for _, genre := range md.Genres {
		lower := strings.ToLower(genre)
		if strings.Contains(lower, "vocal") {
			add("vocals")
		}
		if strings.Contains(lower, "drum") || strings.Contains(lower, "percus") {
			add("drums")
		}
		if strings.Contains(lower, "fx") || strings.Contains(lower, "effect") {
			add("fx")
		}
		if strings.Contains(lower, "instrument") {
			add("instrumental")
		}
	}

	// Stand-in for vocal/instrumental discrimination: anything with a known
	// duration and no vocal genre is treated as instrumental.
	if md.Duration > 0 {
		hasVocals := false
		for _, tag := range res.Tags {
			if tag == "vocals" {
				hasVocals = true
			}
		}
		if !hasVocals {
			add("instrumental")
		}
	}
	return res
}

// TempoFor buckets bpm: below 70 slow, below 120 medium, otherwise fast.
func TempoFor(bpm float64) Tempo {
	switch {
	case bpm <= 0:
		return TempoUnknown
	case bpm < 70:
		return TempoSlow
	case bpm < 120:
		return TempoMedium
	default:
		return TempoFast
	}
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
