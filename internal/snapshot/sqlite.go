package snapshot

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"intent-router/internal/model"
	"intent-router/pkg/log"
)

const (
	metaFingerprint = "fingerprint"
	metaSavedAt     = "saved_at"
)

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS entries (
	seq        INTEGER PRIMARY KEY,
	route_name TEXT NOT NULL,
	utterance  TEXT NOT NULL,
	vector     BLOB NOT NULL,
	UNIQUE (route_name, utterance)
);`

// SQLite is a Store in a single SQLite file.
type SQLite struct {
	db *sql.DB
	l  log.Logger
}

var _ Store = (*SQLite)(nil)

// Open creates the database file and schema if needed.
func Open(ctx context.Context, path string, l log.Logger) (*SQLite, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("snapshot: create schema: %w", err)
	}
	return &SQLite{db: db, l: l}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Load(ctx context.Context, fingerprint string) ([]model.IndexEntry, error) {
	var saved string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, metaFingerprint).Scan(&saved)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: read fingerprint: %w", err)
	}
	if saved != fingerprint {
		s.l.Warnf(ctx, "snapshot: fingerprint %s does not match encoder %s, ignoring snapshot", saved, fingerprint)
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT route_name, utterance, vector FROM entries ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("snapshot: query entries: %w", err)
	}
	defer rows.Close()

	var out []model.IndexEntry
	for rows.Next() {
		var e model.IndexEntry
		var blob []byte
		if err := rows.Scan(&e.RouteName, &e.Utterance, &blob); err != nil {
			return nil, fmt.Errorf("snapshot: scan entry: %w", err)
		}
		if e.Vector, err = decodeVector(blob); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("snapshot: iterate entries: %w", err)
	}
	return out, nil
}

func (s *SQLite) Save(ctx context.Context, fingerprint string, entries []model.IndexEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("snapshot: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("snapshot: clear entries: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO entries (seq, route_name, utterance, vector) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("snapshot: prepare insert: %w", err)
	}
	defer stmt.Close()
	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, i, e.RouteName, e.Utterance, encodeVector(e.Vector)); err != nil {
			return fmt.Errorf("snapshot: insert %q/%q: %w", e.RouteName, e.Utterance, err)
		}
	}

	upsert := `INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := tx.ExecContext(ctx, upsert, metaFingerprint, fingerprint); err != nil {
		return fmt.Errorf("snapshot: write fingerprint: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsert, metaSavedAt, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("snapshot: write timestamp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("snapshot: commit: %w", err)
	}
	s.l.Infof(ctx, "snapshot: saved %d entries (%s)", len(entries), fingerprint)
	return nil
}

// encodeVector stores float32 values little-endian, 4 bytes each.
func encodeVector(v []float32) []byte {
	b := make([]byte, len(v)*4)
	for i, x := range v {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(x))
	}
	return b
}

func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("snapshot: vector blob length %d is not a multiple of 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}
