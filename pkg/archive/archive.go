// Package archive persists the best individual of each generation to a
// SQLite database, so a finished run can be inspected or resumed from its
// hall of fame.
package archive

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/evoscope/symgp/pkg/errors"
	"github.com/evoscope/symgp/pkg/logging"
)

// Entry is one hall-of-fame record.
type Entry struct {
	Generation  int
	Expression  string
	Fitness     float64
	Length      int
	Depth       int
	Hash        uint64
	Evaluations uint64
}

// Store is a SQLite-backed run archive. Safe for concurrent use.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string

	initialized sync.Once
}

// NewStore opens (or creates) the archive at path. ":memory:" keeps the
// archive in memory for tests and throwaway runs.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.ArchiveError, "failed to open archive database"),
			errors.Fields{"path": path},
		)
	}
	store := &Store{db: db, path: path}
	if err := store.ensureInitialized(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) ensureInitialized() error {
	var initErr error
	s.initialized.Do(func() {
		// WAL mode for better concurrency
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			initErr = errors.Wrap(err, errors.ArchiveError, "failed to enable WAL mode")
			return
		}

		query := `
        CREATE TABLE IF NOT EXISTS hall_of_fame (
            generation INTEGER PRIMARY KEY,
            expression TEXT NOT NULL,
            fitness REAL NOT NULL,
            length INTEGER NOT NULL,
            depth INTEGER NOT NULL,
            hash TEXT NOT NULL,
            evaluations INTEGER NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );

        CREATE INDEX IF NOT EXISTS idx_hall_of_fame_fitness
        ON hall_of_fame(fitness);
        `
		if _, err := s.db.Exec(query); err != nil {
			initErr = errors.WithFields(
				errors.Wrap(err, errors.ArchiveError, "failed to initialize archive schema"),
				errors.Fields{"query": query},
			)
		}
	})
	return initErr
}

// Record upserts the entry for its generation.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if err := s.ensureInitialized(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, errors.ArchiveError, "failed to begin transaction")
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			logging.GetLogger().Error(ctx, "failed to rollback archive transaction: %v", err)
		}
	}()

	query := `
    INSERT INTO hall_of_fame (generation, expression, fitness, length, depth, hash, evaluations)
    VALUES (?, ?, ?, ?, ?, ?, ?)
    ON CONFLICT(generation) DO UPDATE SET
        expression = excluded.expression,
        fitness = excluded.fitness,
        length = excluded.length,
        depth = excluded.depth,
        hash = excluded.hash,
        evaluations = excluded.evaluations
    `
	// hashes are stored as text: SQLite integers are signed 64-bit
	_, err = tx.ExecContext(ctx, query,
		e.Generation, e.Expression, e.Fitness, e.Length, e.Depth,
		formatHash(e.Hash), e.Evaluations)
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.ArchiveError, "failed to record entry"),
			errors.Fields{"generation": e.Generation},
		)
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ArchiveError, "failed to commit transaction")
	}
	return nil
}

// Entries returns all records in generation order.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT generation, expression, fitness, length, depth, hash, evaluations FROM hall_of_fame ORDER BY generation")
	if err != nil {
		return nil, errors.Wrap(err, errors.ArchiveError, "failed to query entries")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var hash string
		if err := rows.Scan(&e.Generation, &e.Expression, &e.Fitness, &e.Length, &e.Depth, &hash, &e.Evaluations); err != nil {
			return nil, errors.Wrap(err, errors.ArchiveError, "failed to scan entry")
		}
		e.Hash, err = parseHash(hash)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ArchiveError, "error iterating entries")
	}
	return entries, nil
}

// Best returns the record with the best fitness under the given direction.
func (s *Store) Best(ctx context.Context, maximization bool) (Entry, error) {
	if err := s.ensureInitialized(); err != nil {
		return Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	order := "ASC"
	if maximization {
		order = "DESC"
	}
	var e Entry
	var hash string
	err := s.db.QueryRowContext(ctx,
		"SELECT generation, expression, fitness, length, depth, hash, evaluations FROM hall_of_fame ORDER BY fitness "+order+", generation ASC LIMIT 1").
		Scan(&e.Generation, &e.Expression, &e.Fitness, &e.Length, &e.Depth, &hash, &e.Evaluations)
	if err == sql.ErrNoRows {
		return Entry{}, errors.New(errors.ResourceNotFound, "archive is empty")
	}
	if err != nil {
		return Entry{}, errors.Wrap(err, errors.ArchiveError, "failed to query best entry")
	}
	e.Hash, err = parseHash(hash)
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.Close(); err != nil {
		return errors.Wrap(err, errors.ArchiveError, "failed to close archive database")
	}
	return nil
}
