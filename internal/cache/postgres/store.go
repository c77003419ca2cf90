package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kozaktomas/photo-dedupe/internal/cache"
)

const queryTimeout = 5 * time.Second

// Store implements cache.Store on top of a PostgreSQL pool. Hashes are
// stored as BIGINT; the uint64 bit patterns pass through int64 unchanged.
type Store struct {
	pool *Pool
}

// NewStore wraps an existing pool. The store owns the pool and closes it
// with Close.
func NewStore(pool *Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Get(path string, modTime time.Time) (cache.Entry, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var (
		stored time.Time
		phash  int64
		dhash  int64
		entry  cache.Entry
	)
	err := s.pool.db.QueryRowContext(ctx,
		`SELECT mod_time, phash, dhash, width, height FROM fingerprints WHERE path = $1`,
		path,
	).Scan(&stored, &phash, &dhash, &entry.Width, &entry.Height)
	if err == sql.ErrNoRows {
		return cache.Entry{}, false, nil
	}
	if err != nil {
		return cache.Entry{}, false, fmt.Errorf("querying fingerprint for %s: %w", path, err)
	}

	// TIMESTAMPTZ stores microseconds; compare at that resolution.
	if !stored.Equal(modTime.Truncate(time.Microsecond)) {
		return cache.Entry{}, false, nil
	}

	entry.PHash = uint64(phash)
	entry.DHash = uint64(dhash)
	return entry, true, nil
}

func (s *Store) Put(path string, modTime time.Time, entry cache.Entry) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	_, err := s.pool.db.ExecContext(ctx, `
		INSERT INTO fingerprints (path, mod_time, phash, dhash, width, height, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (path) DO UPDATE SET
			mod_time = EXCLUDED.mod_time,
			phash = EXCLUDED.phash,
			dhash = EXCLUDED.dhash,
			width = EXCLUDED.width,
			height = EXCLUDED.height,
			updated_at = NOW()
	`, path, modTime.Truncate(time.Microsecond), int64(entry.PHash), int64(entry.DHash), entry.Width, entry.Height)
	if err != nil {
		return fmt.Errorf("storing fingerprint for %s: %w", path, err)
	}
	return nil
}

// Count returns the number of cached fingerprints.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fingerprints").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting fingerprints: %w", err)
	}
	return n, nil
}

// Prune removes entries whose path is not in the keep set. Used after a scan
// to drop fingerprints of files that no longer exist.
func (s *Store) Prune(ctx context.Context, keep map[string]bool) (int, error) {
	rows, err := s.pool.db.QueryContext(ctx, "SELECT path FROM fingerprints")
	if err != nil {
		return 0, fmt.Errorf("listing fingerprints: %w", err)
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return 0, fmt.Errorf("scanning fingerprint path: %w", err)
		}
		if !keep[p] {
			stale = append(stale, p)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterating fingerprint paths: %w", err)
	}

	for _, p := range stale {
		if _, err := s.pool.db.ExecContext(ctx, "DELETE FROM fingerprints WHERE path = $1", p); err != nil {
			return 0, fmt.Errorf("deleting fingerprint for %s: %w", p, err)
		}
	}
	return len(stale), nil
}

func (s *Store) Close() error {
	return s.pool.Close()
}
