package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cliptag/internal/clipstore"
	"cliptag/internal/fileutil"
	"cliptag/internal/logging"
	"cliptag/internal/services"
)

// Prune removes clips whose files no longer exist and returns them.
func (l *Library) Prune(ctx context.Context) ([]clipstore.Clip, error) {
	clips, err := l.store.List(ctx, clipstore.Filter{})
	if err != nil {
		return nil, err
	}
	removed := make([]clipstore.Clip, 0)
	for _, clip := range clips {
		if _, err := os.Stat(clip.Path); err == nil || !errors.Is(err, os.ErrNotExist) {
			continue
		}
		l.logger.Info("file not found for clip",
			logging.String("clip", clip.ID),
			logging.String("original_name", clip.OriginalName),
			logging.String("path", clip.Path),
		)
		if err := l.store.Delete(ctx, clip.ID); err != nil && !errors.Is(err, clipstore.ErrNotFound) {
			return removed, err
		}
		removed = append(removed, clip)
	}
	if len(removed) > 0 {
		l.logger.Info("removed clips with missing files", logging.Int("count", len(removed)))
	}
	return removed, nil
}

// ImportReport summarizes an Import run.
type ImportReport struct {
	Imported int
	Skipped  int
}

// Import loads a JSON array of clips in the API's clip shape. Paths are
// re-pointed at the upload directory when a file with the same base name
// exists there. A file found only at its recorded path is copied in. Tags and
// keys outside the vocabulary are dropped, and clips whose id or filename is
// already stored are skipped.
func (l *Library) Import(ctx context.Context, r io.Reader) (ImportReport, error) {
	var clips []clipstore.Clip
	if err := json.NewDecoder(r).Decode(&clips); err != nil {
		return ImportReport{}, services.Wrap(services.ErrValidation, "library", "import", "decode clip list", err)
	}

	var report ImportReport
	for i := range clips {
		clip := clips[i]
		if strings.TrimSpace(clip.Path) == "" && strings.TrimSpace(clip.Filename) == "" {
			report.Skipped++
			continue
		}
		if clip.Filename == "" {
			clip.Filename = filepath.Base(clip.Path)
		}
		expected := filepath.Join(l.uploadDir, filepath.Base(firstNonEmpty(clip.Path, clip.Filename)))
		copied := false
		if _, err := os.Stat(expected); err == nil {
			clip.Path = expected
		} else if clip.Path != "" {
			if _, err := os.Stat(clip.Path); err == nil {
				if err := fileutil.CopyInto(clip.Path, expected); err != nil {
					return report, fmt.Errorf("import clip %d: copy %s: %w", i, clip.Path, err)
				}
				clip.Path = expected
				clip.Filename = filepath.Base(expected)
				copied = true
			}
		}
		if clip.OriginalName == "" {
			clip.OriginalName = clip.Filename
		}
		clip.Tags, clip.Key = l.vocab.Validate(clip.Tags, clip.Key)
		clip.DetectedTags, clip.DetectedKey = l.vocab.Validate(clip.DetectedTags, clip.DetectedKey)

		if err := l.store.Insert(ctx, &clip); err != nil {
			if copied {
				_ = os.Remove(clip.Path)
			}
			if errors.Is(err, clipstore.ErrConflict) {
				report.Skipped++
				continue
			}
			return report, fmt.Errorf("import clip %d: %w", i, err)
		}
		report.Imported++
	}
	l.logger.Info("imported clips", logging.Int("imported", report.Imported), logging.Int("skipped", report.Skipped))
	return report, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
