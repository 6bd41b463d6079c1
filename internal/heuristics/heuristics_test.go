package heuristics_test

import (
	"reflect"
	"testing"

	"cliptag/internal/heuristics"
	"cliptag/internal/testsupport"
	"cliptag/internal/vocab"
)

func TestDetectTags(t *testing.T) {
	a := heuristics.New(vocab.Default(), nil, heuristics.DefaultOptions())
	tests := []struct {
		filename string
		want     []string
	}{
		{filename: "kick_drum_loop.wav", want: []string{"drums"}},
		{filename: "003829.wav", want: []string{"instrumental"}},
		{filename: "Vocal FX Sweep.wav", want: []string{"vocals", "fx"}},
		{filename: "Bass Lead.wav", want: []string{"instrumental"}},
		{filename: "Drum and Bass.wav", want: []string{"drums", "instrumental"}},
		{filename: "VOX_reverse.WAV", want: []string{"vocals", "fx"}},
	}
	for _, tc := range tests {
		t.Run(tc.filename, func(t *testing.T) {
			got := a.DetectTags(tc.filename)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("DetectTags(%q) = %v, want %v", tc.filename, got, tc.want)
			}
		})
	}
}

func TestDetectTagsNeverEmpty(t *testing.T) {
	a := heuristics.New(vocab.Default(), nil, heuristics.DefaultOptions())
	for _, name := range []string{"", "x", "12345.wav", "????", "untitled.wav", "Loop.wav"} {
		tags := a.DetectTags(name)
		if len(tags) == 0 {
			t.Fatalf("DetectTags(%q) returned no tags", name)
		}
		for _, tag := range tags {
			if !vocab.Default().IsTag(tag) {
				t.Fatalf("DetectTags(%q) produced non-vocabulary tag %q", name, tag)
			}
		}
	}
}

func TestDetectKeyPatterns(t *testing.T) {
	a := heuristics.New(vocab.Default(), nil, heuristics.DefaultOptions())
	tests := []struct {
		filename string
		want     string
	}{
		{filename: "Lead in F# minor.wav", want: "F# minor"},
		{filename: "Pad Am 120.wav", want: "A minor"},
		{filename: "Chords Gmin.wav", want: "G minor"},
		{filename: "Bb Pad.wav", want: "A# major"},
		{filename: "Keys D major.wav", want: "D major"},
		{filename: "Epic Drum Loop.wav", want: ""},
		{filename: "pad_am_120.wav", want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.filename, func(t *testing.T) {
			if got := a.DetectKey(tc.filename); got != tc.want {
				t.Fatalf("DetectKey(%q) = %q, want %q", tc.filename, got, tc.want)
			}
		})
	}
}

func TestDetectKeyRandomFallback(t *testing.T) {
	v := vocab.Default()

	fires := heuristics.New(v, &testsupport.FixedRandom{Float: 0.1, Int: 5}, heuristics.DefaultOptions())
	if got := fires.DetectKey("003829.wav"); got != "D minor" {
		t.Fatalf("expected random key D minor, got %q", got)
	}

	quiet := heuristics.New(v, &testsupport.FixedRandom{Float: 0.9, Int: 5}, heuristics.DefaultOptions())
	if got := quiet.DetectKey("003829.wav"); got != "" {
		t.Fatalf("expected empty key, got %q", got)
	}

	disabled := heuristics.New(v, &testsupport.FixedRandom{Float: 0.0, Int: 5}, heuristics.Options{})
	if got := disabled.DetectKey("003829.wav"); got != "" {
		t.Fatalf("expected fallback disabled, got %q", got)
	}
}
