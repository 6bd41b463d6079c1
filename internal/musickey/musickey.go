// Package musickey turns free-text key descriptors such as "c#m", "Gmin" or
// "Bb major" into canonical keys of the form "<Root> <major|minor>" using
// sharp notation only.
package musickey

import "strings"

// Key is a parsed musical key.
type Key struct {
	Root  string
	Minor bool
}

// String renders the canonical form.
func (k Key) String() string {
	if k.Minor {
		return k.Root + " minor"
	}
	return k.Root + " major"
}

var enharmonic = map[string]string{
	"Cb": "B",
	"Db": "C#",
	"Eb": "D#",
	"Fb": "E",
	"Gb": "F#",
	"Ab": "G#",
	"Bb": "A#",
	"E#": "F",
	"B#": "C",
}

// Parse extracts the root, the accidental directly after it and the mode from
// token. The accidental is only read at the position following the root, so
// the "b" in "b minor" is the root and not a flat. ok is false when token has
// no root letter; the returned key is then C major.
func Parse(token string) (Key, bool) {
	lower := strings.ToLower(strings.TrimSpace(token))
	idx := strings.IndexAny(lower, "abcdefg")
	if idx < 0 {
		return Key{Root: "C"}, false
	}

	root := strings.ToUpper(lower[idx : idx+1])
	rest := lower[idx+1:]
	if rest != "" && (rest[0] == '#' || rest[0] == 'b') {
		root += rest[:1]
		rest = rest[1:]
	}
	if sharp, ok := enharmonic[root]; ok {
		root = sharp
	}

	return Key{Root: root, Minor: isMinor(strings.TrimSpace(rest))}, true
}

func isMinor(mode string) bool {
	switch {
	case strings.Contains(mode, "maj"):
		return false
	case strings.Contains(mode, "min"):
		return true
	case strings.HasPrefix(mode, "m"):
		return true
	default:
		return false
	}
}

// Normalize returns the canonical key for token. It has no error path.
func Normalize(token string) string {
	key, _ := Parse(token)
	return key.String()
}
