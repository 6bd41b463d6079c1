// Package naming decides when a clip's filename is cryptic and synthesizes a
// descriptive replacement from its tags and key.
package naming

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"cliptag/internal/vocab"
)

// Source supplies randomness for synonym selection.
type Source interface {
	IntN(n int) int
}

// Options tunes name synthesis.
type Options struct {
	// DefaultExtension is used when the original name has no known audio
	// extension.
	DefaultExtension string
}

var knownExtensions = map[string]struct{}{
	".wav":  {},
	".mp3":  {},
	".flac": {},
	".aiff": {},
	".aif":  {},
	".ogg":  {},
	".m4a":  {},
}

type synonymGroup struct {
	tag   string
	words []string
}

// Checked in this order when building a name.
var synonyms = []synonymGroup{
	{tag: "drums", words: []string{"Kick", "Snare", "Percussion", "Drum Loop", "Beat", "Rhythm"}},
	{tag: "vocals", words: []string{"Vocal", "Voice", "Acapella", "Vocal Sample", "Vocal Hook"}},
	{tag: "fx", words: []string{"FX", "Effect", "Transition", "Sweep", "Ambient", "Atmosphere"}},
	{tag: "instrumental", words: []string{"Melody", "Lead", "Bass", "Pad", "Synth", "Chord", "Arpeggio"}},
}

// Suggester builds names.
type Suggester struct {
	rng  Source
	opts Options
}

// New constructs a Suggester. A nil rng always picks the first synonym.
func New(rng Source, opts Options) *Suggester {
	if strings.TrimSpace(opts.DefaultExtension) == "" {
		opts.DefaultExtension = ".wav"
	}
	return &Suggester{rng: rng, opts: opts}
}

// ShouldRename reports whether filename looks auto-generated: it starts with
// a digit or has fewer than five characters.
func ShouldRename(filename string) bool {
	if utf8.RuneCountInString(filename) < 5 {
		return true
	}
	first, _ := utf8.DecodeRuneInString(filename)
	return unicode.IsDigit(first)
}

// ShouldRename reports whether filename looks auto-generated.
func (s *Suggester) ShouldRename(filename string) bool {
	return ShouldRename(filename)
}

// Suggest returns originalName untouched when it is not cryptic. Otherwise it
// joins one synonym per matching tag with the key and appends the clip's
// extension.
func (s *Suggester) Suggest(originalName string, tags []string, key string) string {
	if !ShouldRename(originalName) {
		return originalName
	}

	parts := make([]string, 0, len(synonyms)+1)
	for _, group := range synonyms {
		if vocab.Contains(tags, group.tag) {
			parts = append(parts, s.pick(group.words))
		}
	}
	if key != "" {
		parts = append(parts, key)
	}

	name := strings.Join(parts, " ")
	if len(name) < 3 {
		name = "Audio Sample " + originalName
	}
	return EnsureExtension(name, s.Extension(originalName))
}

// Extension returns the extension a suggestion for originalName should carry.
func (s *Suggester) Extension(originalName string) string {
	return ExtensionFor(originalName, s.opts.DefaultExtension)
}

func (s *Suggester) pick(words []string) string {
	if s.rng == nil {
		return words[0]
	}
	return words[s.rng.IntN(len(words))]
}

// ExtensionFor returns the lower-cased extension of originalName when it is a
// known audio extension, else fallback.
func ExtensionFor(originalName, fallback string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := knownExtensions[ext]; ok {
		return ext
	}
	return fallback
}

// EnsureExtension appends ext to name unless name already ends with it
// (case-insensitive).
func EnsureExtension(name, ext string) string {
	if ext == "" || strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
		return name
	}
	return name + ext
}
