// Package storage persists finished runs: frame documents as JSON files on
// disk, indexed by a SQLite database for listing and lookup.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/san-kum/larvasim/internal/export"
)

// RunRecord is one row of the run index.
type RunRecord struct {
	ID           string
	Preset       string
	Driver       string
	Segments     int
	Dt           float64
	Duration     float64
	Steps        int
	Displacement float64
	CreatedAt    time.Time
	Path         string
}

// Store owns the base directory and the index database.
type Store struct {
	baseDir string

	mu sync.RWMutex
	db *sql.DB
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Init creates the base directory and opens the index database.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.baseDir == "" {
		return errors.New("storage base directory is required")
	}
	if s.db != nil {
		return nil
	}
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", filepath.Join(s.baseDir, "runs.db"))
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// SaveRun writes the document to disk and indexes it. The document's RunID
// is generated here when empty.
func (s *Store) SaveRun(ctx context.Context, doc export.Document, displacement float64) (string, error) {
	db, err := s.getDB()
	if err != nil {
		return "", err
	}

	if doc.RunID == "" {
		doc.RunID = uuid.NewString()
	}
	path := filepath.Join(s.baseDir, doc.RunID+".json")
	if err := export.WriteJSON(path, doc); err != nil {
		return "", err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, preset, driver, segments, dt, duration, steps, displacement, created_at, path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			preset = excluded.preset,
			driver = excluded.driver,
			segments = excluded.segments,
			dt = excluded.dt,
			duration = excluded.duration,
			steps = excluded.steps,
			displacement = excluded.displacement,
			path = excluded.path
	`, doc.RunID, doc.Preset, doc.Driver, doc.Segments, doc.Dt, doc.Duration,
		doc.Steps, displacement, doc.Timestamp.Unix(), path)
	if err != nil {
		return "", fmt.Errorf("indexing run %s: %w", doc.RunID, err)
	}
	return doc.RunID, nil
}

// List returns all indexed runs, newest first.
func (s *Store) List(ctx context.Context) ([]RunRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, preset, driver, segments, dt, duration, steps, displacement, created_at, path
		FROM runs ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var createdAt int64
		if err := rows.Scan(&rec.ID, &rec.Preset, &rec.Driver, &rec.Segments, &rec.Dt,
			&rec.Duration, &rec.Steps, &rec.Displacement, &createdAt, &rec.Path); err != nil {
			return nil, err
		}
		rec.CreatedAt = time.Unix(createdAt, 0).UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Get looks up one indexed run by ID.
func (s *Store) Get(ctx context.Context, id string) (RunRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return RunRecord{}, false, err
	}

	var rec RunRecord
	var createdAt int64
	err = db.QueryRowContext(ctx, `
		SELECT id, preset, driver, segments, dt, duration, steps, displacement, created_at, path
		FROM runs WHERE id = ?
	`, id).Scan(&rec.ID, &rec.Preset, &rec.Driver, &rec.Segments, &rec.Dt,
		&rec.Duration, &rec.Steps, &rec.Displacement, &createdAt, &rec.Path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, false, nil
		}
		return RunRecord{}, false, err
	}
	rec.CreatedAt = time.Unix(createdAt, 0).UTC()
	return rec, true, nil
}

// LoadDocument reads the frame document of an indexed run back from disk.
func (s *Store) LoadDocument(ctx context.Context, id string) (export.Document, error) {
	rec, ok, err := s.Get(ctx, id)
	if err != nil {
		return export.Document{}, err
	}
	if !ok {
		return export.Document{}, fmt.Errorf("run %s not found", id)
	}
	return export.ReadJSON(rec.Path)
}

// Delete removes a run from the index and its document from disk.
func (s *Store) Delete(ctx context.Context, id string) error {
	rec, ok, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	db, err := s.getDB()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id); err != nil {
		return err
	}
	if err := os.Remove(rec.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			preset TEXT NOT NULL,
			driver TEXT NOT NULL,
			segments INTEGER NOT NULL,
			dt REAL NOT NULL,
			duration REAL NOT NULL,
			steps INTEGER NOT NULL,
			displacement REAL NOT NULL,
			created_at INTEGER NOT NULL,
			path TEXT NOT NULL
		);
	`)
	return err
}
