// Package maclist persists the flat address list: every MAC address known to
// the site with whatever IP, hostname, switch, and port identity was learned
// for it.
package maclist

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/icecake0141/switchmap/pkg/models"
)

// Store is a SQLite-backed address list.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the address list database at the given path and
// applies WAL-mode pragmas.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// One connection avoids writer contention; WAL still lets readers in.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}

	// The driver ignores pragma DSN parameters; issue them as statements.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS maclist (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			mac         TEXT NOT NULL,
			ip          TEXT NOT NULL DEFAULT '',
			hostname    TEXT NOT NULL DEFAULT '',
			switch_name TEXT NOT NULL DEFAULT '',
			port_name   TEXT NOT NULL DEFAULT ''
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create maclist table: %w", err)
	}

	return &Store{db: db}, nil
}

// Replace swaps the stored list for the given entries in one transaction.
func (s *Store) Replace(ctx context.Context, entries []models.MacEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := replaceAll(ctx, tx, entries); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original: %w)", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}

func replaceAll(ctx context.Context, tx *sql.Tx, entries []models.MacEntry) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM maclist"); err != nil {
		return fmt.Errorf("clear maclist: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO maclist (mac, ip, hostname, switch_name, port_name)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.MAC, e.IP, e.Hostname, e.Switch, e.Port); err != nil {
			return fmt.Errorf("insert %s: %w", e.MAC, err)
		}
	}
	return nil
}

// Load returns all stored entries ordered by MAC, then IP.
func (s *Store) Load(ctx context.Context) ([]models.MacEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT mac, ip, hostname, switch_name, port_name
		FROM maclist ORDER BY mac, ip
	`)
	if err != nil {
		return nil, fmt.Errorf("query maclist: %w", err)
	}
	defer rows.Close()

	var entries []models.MacEntry
	for rows.Next() {
		var e models.MacEntry
		if err := rows.Scan(&e.MAC, &e.IP, &e.Hostname, &e.Switch, &e.Port); err != nil {
			return nil, fmt.Errorf("scan maclist row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
