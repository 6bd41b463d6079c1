package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"cliptag/internal/clipstore"
	"cliptag/internal/logging"
	"cliptag/internal/naming"
	"cliptag/internal/services"
)

// ErrTooLarge reports an upload over the configured size limit.
var ErrTooLarge = errors.New("file exceeds upload limit")

// Override carries user-supplied values that replace analysis output.
type Override struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
	Key  string   `json:"key"`
}

// Upload is one file to ingest.
type Upload struct {
	// OriginalName is the client-side filename.
	OriginalName string
	Body         io.Reader
	Override     Override
}

// Ingest stores the upload under a generated filename, analyses it, and
// records the clip. Non-empty override fields win over analysis results.
func (l *Library) Ingest(ctx context.Context, upload Upload) (*clipstore.Clip, error) {
	originalName := filepath.Base(strings.TrimSpace(upload.OriginalName))
	if originalName == "" || originalName == "." || originalName == string(filepath.Separator) {
		return nil, services.Wrap(services.ErrValidation, "library", "ingest", "original filename required", nil)
	}
	if upload.Body == nil {
		return nil, services.Wrap(services.ErrValidation, "library", "ingest", "upload body required", nil)
	}

	var overrideTags []string
	overrideKey := ""
	if len(upload.Override.Tags) > 0 || upload.Override.Key != "" {
		tags, key, err := l.validateLabels(upload.Override.Tags, upload.Override.Key)
		if err != nil {
			return nil, err
		}
		overrideTags, overrideKey = tags, key
	}

	filename := l.storedName(originalName)
	path := filepath.Join(l.uploadDir, filename)
	if err := l.save(path, upload.Body); err != nil {
		return nil, err
	}

	logger := logging.WithContext(services.WithClipID(ctx, filename), l.logger)
	result := l.analyzer.Analyze(ctx, path, originalName)

	clip := &clipstore.Clip{
		Filename:     filename,
		OriginalName: originalName,
		Path:         path,
		Tags:         result.Tags,
		Key:          result.Key,
		UploadedAt:   l.now().UTC(),
		AIAnalyzed:   true,
		DetectedTags: result.Tags,
		DetectedKey:  result.Key,
	}
	if result.SuggestedName != "" {
		clip.OriginalName = result.SuggestedName
	}
	if name := strings.TrimSpace(upload.Override.Name); name != "" {
		clip.OriginalName = name
	}
	if len(overrideTags) > 0 {
		clip.Tags = overrideTags
	}
	if overrideKey != "" {
		clip.Key = overrideKey
	}

	if err := l.store.Insert(ctx, clip); err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			logger.Warn("failed to remove orphaned upload", logging.String("path", path), logging.Error(rmErr))
		}
		return nil, err
	}
	logger.Info("clip ingested",
		logging.String("clip", clip.ID),
		logging.String("original_name", originalName),
		logging.String("name", clip.OriginalName),
		logging.Any("tags", clip.Tags),
		logging.String("key", clip.Key),
	)
	return clip, nil
}

// IngestFile ingests a local file as if it had been uploaded.
func (l *Library) IngestFile(ctx context.Context, source string, override Override) (*clipstore.Clip, error) {
	f, err := os.Open(source)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "library", "ingest file", source, err)
	}
	defer f.Close()
	return l.Ingest(ctx, Upload{OriginalName: filepath.Base(source), Body: f, Override: override})
}

// storedName builds "<unix millis>-<8 hex><ext>" so uploads never collide.
func (l *Library) storedName(originalName string) string {
	ext := naming.ExtensionFor(originalName, l.cfg.Analysis.DefaultExtension)
	return fmt.Sprintf("%d-%s%s", l.now().UnixMilli(), uuid.NewString()[:8], ext)
}

func (l *Library) save(path string, body io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}

	reader := body
	if l.maxUpload > 0 {
		reader = io.LimitReader(body, l.maxUpload+1)
	}
	written, copyErr := io.Copy(f, reader)
	closeErr := f.Close()
	switch {
	case copyErr != nil:
		_ = os.Remove(path)
		return fmt.Errorf("write upload: %w", copyErr)
	case closeErr != nil:
		_ = os.Remove(path)
		return fmt.Errorf("close upload: %w", closeErr)
	case l.maxUpload > 0 && written > l.maxUpload:
		_ = os.Remove(path)
		return services.Wrap(services.ErrValidation, "library", "save upload",
			fmt.Sprintf("limit is %d bytes", l.maxUpload), ErrTooLarge)
	}
	return nil
}
