// Package history records pipeline runs and caches synthesized clips so
// unchanged turns are not re-rendered.
package history

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"

	"listenlab/pkg/db"
)

// Run is one recorded pipeline execution.
type Run struct {
	ID                 string
	Goal               string
	Level              string
	Topic              string
	DurationSec        int
	L1                 string
	Seed               int64
	OfflineOnly        bool
	EngineUsed         string
	TotalSegments      int
	SuccessfulSegments int
	QualityPass        bool
	OutputDir          string
}

// CachedClip is a previously synthesized turn.
type CachedClip struct {
	ContentHash string
	Engine      string
	Voice       string
	Path        string
	Format      string
}

// Store persists runs and the clip cache.
type Store struct {
	db *db.DB
}

// NewStore wraps an initialized database.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// RecordRun inserts one run row.
func (s *Store) RecordRun(r Run) error {
	_, err := s.db.Exec(`INSERT INTO runs
		(id, goal, level, topic, duration_sec, l1, seed, offline_only,
		 engine_used, total_segments, successful_segments, quality_pass, output_dir)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Goal, r.Level, r.Topic, r.DurationSec, r.L1, r.Seed, r.OfflineOnly,
		r.EngineUsed, r.TotalSegments, r.SuccessfulSegments, r.QualityPass, r.OutputDir)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// RecentRuns returns the newest runs, most recent first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(`SELECT id, goal, level, topic, duration_sec, l1, seed,
		offline_only, engine_used, total_segments, successful_segments, quality_pass, output_dir
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Goal, &r.Level, &r.Topic, &r.DurationSec, &r.L1,
			&r.Seed, &r.OfflineOnly, &r.EngineUsed, &r.TotalSegments,
			&r.SuccessfulSegments, &r.QualityPass, &r.OutputDir); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ContentHash derives the clip cache key from everything that affects the
// rendered audio.
func ContentHash(text, engine, voice string) string {
	sum := sha256.Sum256([]byte(text + "|" + engine + "|" + voice))
	return hex.EncodeToString(sum[:12])
}

// LookupClip returns a cached clip if its file still exists on disk.
// Stale rows (file deleted) are removed.
func (s *Store) LookupClip(contentHash string) (*CachedClip, bool) {
	var c CachedClip
	err := s.db.QueryRow(`SELECT content_hash, engine, voice, path, format
		FROM clip_cache WHERE content_hash = ?`, contentHash).
		Scan(&c.ContentHash, &c.Engine, &c.Voice, &c.Path, &c.Format)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		slog.Warn("Clip cache lookup failed", "hash", contentHash, "error", err)
		return nil, false
	}

	if _, err := os.Stat(c.Path); err != nil {
		s.db.Exec("DELETE FROM clip_cache WHERE content_hash = ?", contentHash)
		return nil, false
	}
	return &c, true
}

// StoreClip inserts or refreshes a cache entry.
func (s *Store) StoreClip(c CachedClip) error {
	_, err := s.db.Exec(`INSERT INTO clip_cache (content_hash, engine, voice, path, format)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(content_hash) DO UPDATE SET
			engine = excluded.engine,
			voice = excluded.voice,
			path = excluded.path,
			format = excluded.format,
			created_at = CURRENT_TIMESTAMP`,
		c.ContentHash, c.Engine, c.Voice, c.Path, c.Format)
	if err != nil {
		return fmt.Errorf("store clip: %w", err)
	}
	return nil
}
