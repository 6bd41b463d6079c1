package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"cliptag/internal/analysis"
	"cliptag/internal/clipstore"
	"cliptag/internal/config"
	"cliptag/internal/logging"
	"cliptag/internal/services"
	"cliptag/internal/vocab"
)

// ErrLocked reports that another process holds the library lock.
var ErrLocked = errors.New("library locked by another process")

// Analyzer is the analysis pipeline the library runs on new clips.
type Analyzer interface {
	Analyze(ctx context.Context, path, originalName string) analysis.Result
}

// Library coordinates the store, the upload directory and analysis.
type Library struct {
	cfg       *config.Config
	store     *clipstore.Store
	analyzer  Analyzer
	vocab     *vocab.Vocabulary
	logger    *slog.Logger
	uploadDir string
	maxUpload int64
	now       func() time.Time

	lockPath string
	lock     *flock.Flock
	locked   atomic.Bool
}

// New constructs a library. The lock is not taken until Open.
func New(cfg *config.Config, store *clipstore.Store, analyzer Analyzer, logger *slog.Logger) (*Library, error) {
	if cfg == nil || store == nil || analyzer == nil {
		return nil, errors.New("library requires config, store, and analyzer")
	}
	uploadDir := strings.TrimSpace(cfg.Paths.UploadDir)
	if uploadDir == "" {
		return nil, services.Wrap(services.ErrConfiguration, "library", "new", "upload_dir not configured", nil)
	}
	lockPath := cfg.LockPath()
	return &Library{
		cfg:       cfg,
		store:     store,
		analyzer:  analyzer,
		vocab:     vocab.Default(),
		logger:    logging.NewComponentLogger(logger, "library"),
		uploadDir: uploadDir,
		maxUpload: cfg.MaxUploadBytes(),
		now:       time.Now,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}, nil
}

// Open acquires the library lock and, when configured, prunes clips whose
// files are missing.
func (l *Library) Open(ctx context.Context) error {
	if l.locked.Load() {
		return errors.New("library already open")
	}
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return services.Wrap(services.ErrConflict, "library", "open", l.lockPath, ErrLocked)
	}
	l.locked.Store(true)
	l.logger.Info("library opened", logging.String("lock", l.lockPath), logging.String("upload_dir", l.uploadDir))

	if l.cfg.Library.ValidateOnStart {
		if _, err := l.Prune(ctx); err != nil {
			l.Close()
			return err
		}
	}
	return nil
}

// Close releases the library lock.
func (l *Library) Close() {
	if !l.locked.Load() {
		return
	}
	if err := l.lock.Unlock(); err != nil {
		l.logger.Warn("failed to release library lock", logging.Error(err))
	}
	l.locked.Store(false)
}

// UploadDir returns the directory holding stored clip files.
func (l *Library) UploadDir() string {
	return l.uploadDir
}

// MaxUploadBytes returns the per-file upload limit.
func (l *Library) MaxUploadBytes() int64 {
	return l.maxUpload
}

// Get returns one clip.
func (l *Library) Get(ctx context.Context, id string) (*clipstore.Clip, error) {
	return l.store.Get(ctx, id)
}

// List returns clips matching filter.
func (l *Library) List(ctx context.Context, filter clipstore.Filter) ([]clipstore.Clip, error) {
	return l.store.List(ctx, filter)
}

// validateLabels checks user-supplied tags and key against the vocabulary.
// Unlike analyzer output, unknown values are rejected rather than dropped.
func (l *Library) validateLabels(tags []string, key string) ([]string, string, error) {
	var unknown []string
	for _, tag := range tags {
		if !l.vocab.IsTag(tag) {
			unknown = append(unknown, tag)
		}
	}
	key = strings.TrimSpace(key)
	if key != "" && !l.vocab.IsKey(key) {
		unknown = append(unknown, key)
	}
	if len(unknown) > 0 {
		return nil, "", services.Wrap(services.ErrValidation, "library", "validate labels",
			"unknown tags or key: "+strings.Join(unknown, ", "), nil)
	}
	validTags, validKey := l.vocab.Validate(tags, key)
	return validTags, validKey, nil
}
