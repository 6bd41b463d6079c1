// Package vocab holds the fixed tag and key vocabularies a clip may be
// labelled with, and the one function that checks values against them.
package vocab

import (
	"strings"
	"sync"
)

var defaultTags = []string{
	"drums", "instrumental", "vocals", "fx", "bass", "synth", "piano",
	"guitar", "strings", "brass", "woodwinds", "electronic", "acoustic",
}

// Roots lists the twelve chromatic roots in sharp notation.
var Roots = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Vocabulary is an immutable tag and key set. The zero value is empty; use
// Default or New.
type Vocabulary struct {
	tags   []string
	keys   []string
	tagSet map[string]struct{}
	keySet map[string]struct{}
}

var (
	defaultOnce  sync.Once
	defaultVocab *Vocabulary
)

// Default returns the shared vocabulary of 13 tags and 24 keys.
func Default() *Vocabulary {
	defaultOnce.Do(func() {
		defaultVocab = New(defaultTags, canonicalKeys())
	})
	return defaultVocab
}

// New builds a vocabulary from the given members. Tags are lower-cased and
// trimmed; duplicates keep their first position.
func New(tags, keys []string) *Vocabulary {
	v := &Vocabulary{
		tagSet: make(map[string]struct{}, len(tags)),
		keySet: make(map[string]struct{}, len(keys)),
	}
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := v.tagSet[tag]; ok {
			continue
		}
		v.tagSet[tag] = struct{}{}
		v.tags = append(v.tags, tag)
	}
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, ok := v.keySet[key]; ok {
			continue
		}
		v.keySet[key] = struct{}{}
		v.keys = append(v.keys, key)
	}
	return v
}

func canonicalKeys() []string {
	keys := make([]string, 0, len(Roots)*2)
	for _, root := range Roots {
		keys = append(keys, root+" major", root+" minor")
	}
	return keys
}

// Tags returns the ordered tag list.
func (v *Vocabulary) Tags() []string {
	return append([]string(nil), v.tags...)
}

// Keys returns the ordered key list.
func (v *Vocabulary) Keys() []string {
	return append([]string(nil), v.keys...)
}

// TagAt returns the i-th tag. It panics if i is out of range.
func (v *Vocabulary) TagAt(i int) string { return v.tags[i] }

// KeyAt returns the i-th key. It panics if i is out of range.
func (v *Vocabulary) KeyAt(i int) string { return v.keys[i] }

// TagCount reports the number of tags.
func (v *Vocabulary) TagCount() int { return len(v.tags) }

// KeyCount reports the number of keys.
func (v *Vocabulary) KeyCount() int { return len(v.keys) }

// CanonicalTag lower-cases and trims s and reports whether it is a member.
func (v *Vocabulary) CanonicalTag(s string) (string, bool) {
	tag := strings.ToLower(strings.TrimSpace(s))
	_, ok := v.tagSet[tag]
	return tag, ok
}

// IsTag reports case-insensitive tag membership.
func (v *Vocabulary) IsTag(s string) bool {
	_, ok := v.CanonicalTag(s)
	return ok
}

// IsKey reports exact key membership.
func (v *Vocabulary) IsKey(s string) bool {
	_, ok := v.keySet[s]
	return ok
}

// Validate keeps the member tags (canonicalized, deduplicated, first-seen
// order) and replaces a non-member key with "". The returned slice is never
// nil.
func (v *Vocabulary) Validate(tags []string, key string) ([]string, string) {
	kept := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, raw := range tags {
		tag, ok := v.CanonicalTag(raw)
		if !ok {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		kept = append(kept, tag)
	}
	if !v.IsKey(key) {
		key = ""
	}
	return kept, key
}

// Contains reports whether tags holds tag.
func Contains(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Union appends the members of extra that a does not already hold.
func Union(a, extra []string) []string {
	out := make([]string, 0, len(a)+len(extra))
	seen := make(map[string]struct{}, len(a)+len(extra))
	for _, list := range [][]string{a, extra} {
		for _, tag := range list {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}
