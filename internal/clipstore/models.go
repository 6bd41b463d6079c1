package clipstore

import (
	"strings"
	"time"
)

// Clip is one stored audio file and its labels.
type Clip struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	Path         string    `json:"path"`
	Tags         []string  `json:"tags"`
	Key          string    `json:"key"`
	UploadedAt   time.Time `json:"uploadDate"`
	AIAnalyzed   bool      `json:"aiAnalyzed"`
	DetectedTags []string  `json:"detectedTags"`
	DetectedKey  string    `json:"detectedKey"`
}

// Filter narrows List results. Empty fields match everything.
type Filter struct {
	// Tag matches clips carrying the tag (case-insensitive).
	Tag string
	// Key matches the musical key exactly.
	Key string
	// Query matches a substring of the display name or stored filename.
	Query string
}

func (f Filter) normalized() Filter {
	return Filter{
		Tag:   strings.ToLower(strings.TrimSpace(f.Tag)),
		Key:   strings.TrimSpace(f.Key),
		Query: strings.TrimSpace(f.Query),
	}
}
