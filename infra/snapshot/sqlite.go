package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/induction/core/model"
	core "github.com/kilianp07/induction/core/snapshot"
)

// SQLiteStore appends every snapshot to a SQLite table and prunes all but the
// newest retain rows. Latest returns the most recently inserted row.
type SQLiteStore struct {
	db     *sql.DB
	retain int
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
// A non-positive retain keeps a single snapshot.
func NewSQLiteStore(path string, retain int) (*SQLiteStore, error) {
	if retain <= 0 {
		retain = 1
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; serialize saves through a single connection.
	db.SetMaxOpenConns(1)
	schema := `CREATE TABLE IF NOT EXISTS snapshots (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        cycle_id TEXT NOT NULL,
        planning_time INTEGER,
        generated_at INTEGER,
        rows TEXT
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db, retain: retain}, nil
}

// Save inserts the snapshot and prunes older rows in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, snap core.Snapshot) error {
	b, err := json.Marshal(snap.Rows)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (cycle_id, planning_time, generated_at, rows) VALUES (?, ?, ?, ?)`,
		snap.CycleID, snap.PlanningTime.UnixNano(), snap.GeneratedAt.UnixNano(), string(b)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM snapshots WHERE id NOT IN (SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)`,
		s.retain); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return tx.Commit()
}

// Count returns the number of stored snapshots.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n)
	return n, err
}

// Latest returns the snapshot with the highest id.
func (s *SQLiteStore) Latest(ctx context.Context) (core.Snapshot, error) {
	var (
		cycleID       string
		planning, gen int64
		data          string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT cycle_id, planning_time, generated_at, rows FROM snapshots ORDER BY id DESC LIMIT 1`).
		Scan(&cycleID, &planning, &gen, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Snapshot{}, core.ErrNoSnapshot
	}
	if err != nil {
		return core.Snapshot{}, err
	}
	var rows []model.RankedRow
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return core.Snapshot{}, fmt.Errorf("unmarshal rows: %w", err)
	}
	return core.Snapshot{
		CycleID:      cycleID,
		PlanningTime: time.Unix(0, planning).UTC(),
		GeneratedAt:  time.Unix(0, gen).UTC(),
		Rows:         rows,
	}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
