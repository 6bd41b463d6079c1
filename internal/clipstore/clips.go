package clipstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const clipColumns = "id, filename, original_name, path, tags_json, musical_key, uploaded_at, ai_analyzed, detected_tags_json, detected_key"

// Insert stores a new clip. An empty ID is assigned a UUID and a zero
// UploadedAt is set to now.
func (s *Store) Insert(ctx context.Context, clip *Clip) error {
	if clip == nil {
		return errors.New("clip is nil")
	}
	if strings.TrimSpace(clip.ID) == "" {
		clip.ID = uuid.NewString()
	}
	if clip.UploadedAt.IsZero() {
		clip.UploadedAt = time.Now().UTC()
	}
	clip.normalize()

	tags, detected, err := encodeTags(clip)
	if err != nil {
		return err
	}
	_, err = s.execWithRetry(ctx,
		`INSERT INTO clips (`+clipColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		clip.ID,
		clip.Filename,
		clip.OriginalName,
		clip.Path,
		tags,
		clip.Key,
		clip.UploadedAt.UTC().Format(time.RFC3339Nano),
		boolToInt(clip.AIAnalyzed),
		detected,
		clip.DetectedKey,
	)
	if isConstraint(err) {
		return conflict("insert clip", err)
	}
	if err != nil {
		return fmt.Errorf("insert clip: %w", err)
	}
	return nil
}

// Get fetches a clip by id.
func (s *Store) Get(ctx context.Context, id string) (*Clip, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+clipColumns+` FROM clips WHERE id = ?`, id)
	clip, err := scanClip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("get clip", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get clip: %w", err)
	}
	return clip, nil
}

// List returns clips matching filter, oldest upload first.
func (s *Store) List(ctx context.Context, filter Filter) ([]Clip, error) {
	filter = filter.normalized()
	var (
		where []string
		args  []any
	)
	if filter.Tag != "" {
		where = append(where, "EXISTS (SELECT 1 FROM json_each(clips.tags_json) WHERE lower(json_each.value) = ?)")
		args = append(args, filter.Tag)
	}
	if filter.Key != "" {
		where = append(where, "musical_key = ?")
		args = append(args, filter.Key)
	}
	if filter.Query != "" {
		pattern := "%" + escapeLike(filter.Query) + "%"
		where = append(where, `(original_name LIKE ? ESCAPE '\' OR filename LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	query := `SELECT ` + clipColumns + ` FROM clips`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY uploaded_at, id"

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list clips: %w", err)
	}
	defer rows.Close()

	clips := make([]Clip, 0)
	for rows.Next() {
		clip, err := scanClip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan clip: %w", err)
		}
		clips = append(clips, *clip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clips: %w", err)
	}
	return clips, nil
}

// Update persists every mutable field of an existing clip.
func (s *Store) Update(ctx context.Context, clip *Clip) error {
	if clip == nil {
		return errors.New("clip is nil")
	}
	clip.normalize()
	tags, detected, err := encodeTags(clip)
	if err != nil {
		return err
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE clips
         SET filename = ?, original_name = ?, path = ?, tags_json = ?, musical_key = ?,
             ai_analyzed = ?, detected_tags_json = ?, detected_key = ?
         WHERE id = ?`,
		clip.Filename,
		clip.OriginalName,
		clip.Path,
		tags,
		clip.Key,
		boolToInt(clip.AIAnalyzed),
		detected,
		clip.DetectedKey,
		clip.ID,
	)
	if isConstraint(err) {
		return conflict("update clip", err)
	}
	if err != nil {
		return fmt.Errorf("update clip: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound("update clip", clip.ID)
	}
	return nil
}

// Delete removes a clip row.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM clips WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete clip: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound("delete clip", id)
	}
	return nil
}

// FilenameTaken reports whether a clip other than exceptID already uses
// filename (case-insensitive).
func (s *Store) FilenameTaken(ctx context.Context, filename, exceptID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT COUNT(1) FROM clips WHERE filename = ? COLLATE NOCASE AND id <> ?`,
		filename, exceptID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check filename: %w", err)
	}
	return count > 0, nil
}

// Count returns the number of stored clips.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ensureContext(ctx), `SELECT COUNT(1) FROM clips`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count clips: %w", err)
	}
	return count, nil
}

func (c *Clip) normalize() {
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.DetectedTags == nil {
		c.DetectedTags = []string{}
	}
}

func encodeTags(clip *Clip) (string, string, error) {
	tags, err := json.Marshal(clip.Tags)
	if err != nil {
		return "", "", fmt.Errorf("marshal tags: %w", err)
	}
	detected, err := json.Marshal(clip.DetectedTags)
	if err != nil {
		return "", "", fmt.Errorf("marshal detected tags: %w", err)
	}
	return string(tags), string(detected), nil
}

func scanClip(scanner interface{ Scan(dest ...any) error }) (*Clip, error) {
	var (
		clip        Clip
		tagsRaw     string
		uploadedRaw string
		aiAnalyzed  int64
		detectedRaw string
	)
	if err := scanner.Scan(
		&clip.ID,
		&clip.Filename,
		&clip.OriginalName,
		&clip.Path,
		&tagsRaw,
		&clip.Key,
		&uploadedRaw,
		&aiAnalyzed,
		&detectedRaw,
		&clip.DetectedKey,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tagsRaw), &clip.Tags); err != nil {
		return nil, fmt.Errorf("decode tags for %s: %w", clip.ID, err)
	}
	if err := json.Unmarshal([]byte(detectedRaw), &clip.DetectedTags); err != nil {
		return nil, fmt.Errorf("decode detected tags for %s: %w", clip.ID, err)
	}
	if ts, err := time.Parse(time.RFC3339Nano, uploadedRaw); err == nil {
		clip.UploadedAt = ts
	}
	clip.AIAnalyzed = aiAnalyzed != 0
	clip.normalize()
	return &clip, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
