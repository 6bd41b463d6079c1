// Package heuristics derives candidate tags and a candidate key from a clip's
// original filename using keyword and pattern matching.
package heuristics

import (
	"regexp"
	"strings"

	"cliptag/internal/musickey"
	"cliptag/internal/vocab"
)

// Source supplies randomness for the no-match key fallback.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// Options tunes filename analysis.
type Options struct {
	// RandomKeyProbability is the chance that DetectKey returns a random key
	// when the filename carries no key. Zero disables the fallback.
	RandomKeyProbability float64
}

// DefaultOptions returns the stock probabilities.
func DefaultOptions() Options {
	return Options{RandomKeyProbability: 0.3}
}

type keywordGroup struct {
	tag      string
	keywords []string
}

var (
	drumKeywords       = keywordGroup{tag: "drums", keywords: []string{"drum", "beat", "kick", "snare", "hat", "percussion", "loop", "kit"}}
	vocalKeywords      = keywordGroup{tag: "vocals", keywords: []string{"vocal", "vox", "voice", "rap", "sing", "acapella"}}
	fxKeywords         = keywordGroup{tag: "fx", keywords: []string{"fx", "effect", "sweep", "rise", "ambient", "reverse", "crash", "noise"}}
	instrumentKeywords = keywordGroup{tag: "instrumental", keywords: []string{"instrument", "melody", "synth", "bass", "lead", "piano", "guitar", "pad"}}
)

// keyPatterns are tried in order; the first capture goes to musickey.
var keyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b([a-g](?:#|b)?\s*(?:min(?:or)?|maj(?:or)?|m))\b`),
	regexp.MustCompile(`(?i)\b([a-g](?:#|b)?m(?:aj|in|ajor|inor)?)\b`),
	regexp.MustCompile(`(?i)\b([a-g](?:#|b)?)\b`),
}

// Analyzer runs filename heuristics against a vocabulary.
type Analyzer struct {
	vocab *vocab.Vocabulary
	rng   Source
	opts  Options
}

// New constructs an Analyzer. A nil rng disables the random key fallback.
func New(v *vocab.Vocabulary, rng Source, opts Options) *Analyzer {
	if v == nil {
		v = vocab.Default()
	}
	return &Analyzer{vocab: v, rng: rng, opts: opts}
}

// DetectTags returns the tags suggested by keywords in filename. The result
// is never empty: without a drum, vocal or fx match, instrumental is added.
func (a *Analyzer) DetectTags(filename string) []string {
	lower := strings.ToLower(filename)
	tags := make([]string, 0, 4)
	for _, group := range []keywordGroup{drumKeywords, vocalKeywords, fxKeywords} {
		if group.matches(lower) {
			tags = append(tags, group.tag)
		}
	}
	if len(tags) == 0 || instrumentKeywords.matches(lower) {
		tags = append(tags, instrumentKeywords.tag)
	}
	return tags
}

func (g keywordGroup) matches(lower string) bool {
	for _, kw := range g.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DetectKey returns the canonical key named in filename, or "" when none is
// present and the random fallback does not fire.
func (a *Analyzer) DetectKey(filename string) string {
	lower := strings.ToLower(filename)
	for _, pattern := range keyPatterns {
		if match := pattern.FindStringSubmatch(lower); match != nil {
			return musickey.Normalize(match[1])
		}
	}
	return a.randomKey()
}

func (a *Analyzer) randomKey() string {
	if a.rng == nil || a.opts.RandomKeyProbability <= 0 || a.vocab.KeyCount() == 0 {
		return ""
	}
	if a.rng.Float64() >= a.opts.RandomKeyProbability {
		return ""
	}
	return a.vocab.KeyAt(a.rng.IntN(a.vocab.KeyCount()))
}
