package musickey_test

import (
	"testing"

	"cliptag/internal/musickey"
	"cliptag/internal/vocab"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "c#m", want: "C# minor"},
		{in: "Gmin", want: "G minor"},
		{in: "Ab", want: "G# major"},
		{in: "F major", want: "F major"},
		{in: "bb minor", want: "A# minor"},
		{in: "b minor", want: "B minor"},
		{in: "d#maj", want: "D# major"},
		{in: "cb", want: "B major"},
		{in: "fbm", want: "E minor"},
		{in: "e#", want: "F major"},
		{in: "B#m", want: "C minor"},
		{in: "a", want: "A major"},
		{in: "am", want: "A minor"},
		{in: "e minor", want: "E minor"},
		{in: "xyz", want: "C major"},
		{in: "", want: "C major"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := musickey.Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotentOverKeySet(t *testing.T) {
	v := vocab.Default()
	for _, key := range v.Keys() {
		once := musickey.Normalize(key)
		if once != key {
			t.Fatalf("Normalize(%q) = %q, want unchanged", key, once)
		}
		if twice := musickey.Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q", once, twice)
		}
	}
}

func TestNormalizeAlwaysInKeySet(t *testing.T) {
	v := vocab.Default()
	inputs := []string{"c", "db", "D", "eb", "e", "f#", "gb", "G#M", "ab min", "Bbmaj", "b", "cminor", "???", "hm"}
	for _, in := range inputs {
		got := musickey.Normalize(in)
		if !v.IsKey(got) {
			t.Fatalf("Normalize(%q) = %q, not a canonical key", in, got)
		}
		if again := musickey.Normalize(got); again != got {
			t.Fatalf("Normalize(Normalize(%q)) = %q, want %q", in, again, got)
		}
	}
}

func TestParseReportsMissingRoot(t *testing.T) {
	if _, ok := musickey.Parse("123"); ok {
		t.Fatal("expected ok=false without a root letter")
	}
	key, ok := musickey.Parse("F#m")
	if !ok || key.Root != "F#" || !key.Minor {
		t.Fatalf("unexpected parse: %+v ok=%v", key, ok)
	}
}
