// Package bakeindex records baked passes in a SQLite database keyed by pass
// digest.
package bakeindex

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"procplanet/internal/pipeline"
	"procplanet/internal/stages"
)

// Entry is one baked pass.
type Entry struct {
	Digest      string
	Seed        string
	Archetype   string
	Resolution  int
	Hash        uint64
	OutDir      string
	Format      string
	Dumps       bool
	IceFraction float64
	CreatedAt   time.Time
}

// EntryFor describes pass as written to outDir.
func EntryFor(pass *pipeline.Pass, outDir, format string, dumps bool) Entry {
	return Entry{
		Digest:      pass.Digest(),
		Seed:        pass.Settings.Seed,
		Archetype:   pass.Settings.Archetype,
		Resolution:  int(pass.Resolution),
		Hash:        pass.Settings.Hash,
		OutDir:      outDir,
		Format:      format,
		Dumps:       dumps,
		IceFraction: stages.IceFraction(pass.Albedo),
		CreatedAt:   time.Now().UTC(),
	}
}

// Index is a handle on the bake database.
type Index struct {
	db *sql.DB
}

// Open creates or opens the index at path.
func Open(path string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Index{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bakes (
			digest TEXT PRIMARY KEY,
			seed TEXT NOT NULL,
			archetype TEXT NOT NULL,
			resolution INTEGER NOT NULL,
			hash TEXT NOT NULL,
			out_dir TEXT NOT NULL,
			format TEXT NOT NULL,
			dumps INTEGER NOT NULL DEFAULT 0,
			ice_fraction REAL NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS bakes_seed ON bakes(seed, resolution);`,
		`CREATE INDEX IF NOT EXISTS bakes_created ON bakes(created_at);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Record inserts e, replacing an earlier bake with the same digest.
func (x *Index) Record(ctx context.Context, e Entry) error {
	if e.Digest == "" {
		return fmt.Errorf("record: empty digest")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := x.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO bakes(digest, seed, archetype, resolution, hash, out_dir, format, dumps, ice_fraction, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Digest, e.Seed, e.Archetype, e.Resolution, strconv.FormatUint(e.Hash, 16),
		e.OutDir, e.Format, e.Dumps, e.IceFraction, e.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record %s: %w", e.Digest, err)
	}
	return nil
}

const selectEntry = `SELECT digest, seed, archetype, resolution, hash, out_dir, format, dumps, ice_fraction, created_at FROM bakes`

// Lookup returns the bake with digest, if present.
func (x *Index) Lookup(ctx context.Context, digest string) (Entry, bool, error) {
	row := x.db.QueryRowContext(ctx, selectEntry+` WHERE digest = ?`, digest)
	e, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

// Recent returns up to n bakes, newest first.
func (x *Index) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := x.db.QueryContext(ctx, selectEntry+` ORDER BY created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Covers reports whether the bake in e already holds the outputs of an
// export in format, with raw dumps if dumps is set.
func (e Entry) Covers(format string, dumps bool) bool {
	return e.Format == format && (e.Dumps || !dumps)
}

// Close releases the database.
func (x *Index) Close() error { return x.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (Entry, error) {
	var (
		e       Entry
		hash    string
		created string
	)
	if err := s.Scan(&e.Digest, &e.Seed, &e.Archetype, &e.Resolution, &hash, &e.OutDir, &e.Format, &e.Dumps, &e.IceFraction, &created); err != nil {
		return Entry{}, err
	}
	h, err := strconv.ParseUint(hash, 16, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("bad hash %q: %w", hash, err)
	}
	e.Hash = h
	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return Entry{}, fmt.Errorf("bad timestamp %q: %w", created, err)
	}
	return e, nil
}
