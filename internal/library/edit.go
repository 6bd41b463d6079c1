package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cliptag/internal/clipstore"
	"cliptag/internal/logging"
	"cliptag/internal/naming"
	"cliptag/internal/services"
	"cliptag/internal/textutil"
)

// Changes describes a user edit. A nil Tags leaves tags alone; an empty
// non-nil slice clears them. Empty Key and Name leave those fields alone.
type Changes struct {
	Tags []string `json:"tags"`
	Key  string   `json:"key"`
	Name string   `json:"name"`
}

// Update applies changes to a clip. A new name renames the file on disk to a
// slug of the name, adding a timestamp when another clip already uses it.
func (l *Library) Update(ctx context.Context, id string, changes Changes) (*clipstore.Clip, error) {
	clip, err := l.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	tags, key, err := l.validateLabels(changes.Tags, changes.Key)
	if err != nil {
		return nil, err
	}
	if changes.Tags != nil {
		clip.Tags = tags
	}
	if key != "" {
		clip.Key = key
	}

	previousPath := clip.Path
	renamed := false
	name := strings.TrimSpace(changes.Name)
	if name != "" && name != clip.OriginalName {
		if err := l.rename(ctx, clip, name); err != nil {
			return nil, err
		}
		renamed = clip.Path != previousPath
	}
	if name != "" {
		clip.OriginalName = name
	}

	if err := l.store.Update(ctx, clip); err != nil {
		if renamed {
			if rbErr := os.Rename(clip.Path, previousPath); rbErr != nil {
				l.logger.Error("failed to restore renamed file",
					logging.String("from", clip.Path),
					logging.String("to", previousPath),
					logging.Error(rbErr),
				)
			}
		}
		return nil, err
	}
	return clip, nil
}

func (l *Library) rename(ctx context.Context, clip *clipstore.Clip, name string) error {
	filename := textutil.Slugify(name)
	if filename == "" || strings.Trim(filename, ".-") == "" {
		return services.Wrap(services.ErrValidation, "library", "rename", "name has no usable characters", nil)
	}
	if naming.ExtensionFor(filename, "") == "" {
		filename += strings.ToLower(filepath.Ext(clip.Path))
	}

	taken, err := l.store.FilenameTaken(ctx, filename, clip.ID)
	if err != nil {
		return err
	}
	if taken {
		filename = withTimestamp(filename, l.now().UnixMilli())
	}

	dir := filepath.Dir(clip.Path)
	target := filepath.Join(dir, filename)
	if _, err := os.Stat(clip.Path); err != nil {
		return services.Wrap(services.ErrNotFound, "library", "rename", "source file not found on disk", err)
	}
	if target != clip.Path {
		if _, err := os.Stat(target); err == nil {
			return services.Wrap(services.ErrConflict, "library", "rename", "a file with that name already exists", nil)
		}
		if err := os.Rename(clip.Path, target); err != nil {
			return fmt.Errorf("rename file on disk: %w", err)
		}
	}

	logging.WithContext(services.WithClipID(ctx, clip.ID), l.logger).Info("clip renamed",
		logging.String("from", clip.Filename),
		logging.String("to", filename),
	)
	clip.Filename = filename
	clip.Path = target
	return nil
}

// withTimestamp inserts "-<ts>" before the last extension.
func withTimestamp(filename string, ts int64) string {
	if idx := strings.LastIndex(filename, "."); idx > 0 {
		return fmt.Sprintf("%s-%d%s", filename[:idx], ts, filename[idx:])
	}
	return fmt.Sprintf("%s-%d", filename, ts)
}

// Delete removes a clip. Failure to remove its file is logged, not returned.
func (l *Library) Delete(ctx context.Context, id string) error {
	clip, err := l.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := os.Remove(clip.Path); err != nil {
		logging.WarnWithContext(logging.WithContext(services.WithClipID(ctx, id), l.logger),
			"failed to delete clip file", "clip_file_delete_failed",
			logging.String("path", clip.Path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the file manually if it still exists"),
			logging.String(logging.FieldImpact, "the clip is removed from the library but its file may remain"),
		)
	}
	if err := l.store.Delete(ctx, id); err != nil {
		if errors.Is(err, clipstore.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}
