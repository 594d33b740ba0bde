package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/pdfsync/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/pdfsync/internal/core/domain"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driven"
)

// File names inside a store directory.
const (
	DatabaseFile = "chroma.sqlite3"
	LockFile     = ".lock"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is a directory-backed vector store holding one row per chunk ID.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
	dir  string

	closeOnce sync.Once
	closeErr  error
}

// NewStore opens the store in dir, creating the directory and schema if needed.
// It fails with domain.ErrStore if another process holds the store.
func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: store path is empty", domain.ErrStore)
	}

	// Ensure directory exists
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating store directory: %w", domain.ErrStore, err)
	}

	lock := flock.New(filepath.Join(dir, LockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("%w: acquiring store lock: %w", domain.ErrStore, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: store is locked: %s", domain.ErrStore, dir)
	}

	dbPath := filepath.Join(dir, DatabaseFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("%w: opening database: %w", domain.ErrStore, err)
	}

	s := &Store{
		db:   db,
		lock: lock,
		dir:  dir,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("%w: running migrations: %w", domain.ErrStore, err)
	}

	return s, nil
}

// Close closes the database connection and releases the lock.
// Calling Close more than once returns the first result.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		dbErr := s.db.Close()
		lockErr := s.lock.Unlock()
		if err := errors.Join(dbErr, lockErr); err != nil {
			s.closeErr = fmt.Errorf("%w: closing store %s: %w", domain.ErrStore, s.dir, err)
		}
	})
	return s.closeErr
}

// IDs returns every stored ID. Only the id column is read.
func (s *Store) IDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM embeddings")
	if err != nil {
		return nil, fmt.Errorf("%w: querying ids: %w", domain.ErrStore, err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scanning id: %w", domain.ErrStore, err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating ids: %w", domain.ErrStore, err)
	}
	return ids, nil
}

// Add inserts the records in a single transaction.
// Rows whose ID already exists are left untouched.
func (s *Store) Add(ctx context.Context, ids []string, records []domain.VectorRecord) error {
	if len(ids) != len(records) {
		return fmt.Errorf("%w: %d ids for %d records", domain.ErrInvalidInput, len(ids), len(records))
	}
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %w", domain.ErrStore, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO embeddings (id, embedding, document, metadata)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("%w: preparing insert: %w", domain.ErrStore, err)
	}
	defer stmt.Close()

	for i, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: empty id at position %d", domain.ErrInvalidInput, i)
		}
		metadataJSON, err := json.Marshal(records[i].Metadata)
		if err != nil {
			return fmt.Errorf("%w: marshalling metadata for %s: %w", domain.ErrStore, id, err)
		}
		if _, err := stmt.ExecContext(ctx, id, float32SliceToBytes(records[i].Embedding),
			records[i].Text, string(metadataJSON)); err != nil {
			return fmt.Errorf("%w: inserting %s: %w", domain.ErrStore, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing: %w", domain.ErrStore, err)
	}
	return nil
}

// Count returns the number of stored rows.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM embeddings").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: counting rows: %w", domain.ErrStore, err)
	}
	return n, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	currentVersion, err := s.schemaVersion()
	if err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// applyMigration runs one migration and records its version atomically.
func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// schemaVersion returns the highest applied migration.
func (s *Store) schemaVersion() (int, error) {
	var v int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	return v, err
}

// float32SliceToBytes converts a []float32 to a little-endian byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return []byte{}
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
