// ABOUTME: SQLite implementation of the credential Store using modernc.org/sqlite
// ABOUTME: Seals values with ChaCha20-Poly1305 so credentials are encrypted at rest

package keyring

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a single-table SQLite database. Values are
// sealed with a caller-provisioned key before they touch disk.
type SQLiteStore struct {
	mu     sync.Mutex
	db     *sql.DB
	box    *sealer
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) the credential database at the given path.
// keyHex is the hex-encoded 32-byte sealing key. Parent directories are
// created if needed; the database file is created with owner-only permissions.
func NewSQLiteStore(path, keyHex string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "keyring")

	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("decoding keyring key: %w", err)
	}
	box, err := newSealer(key)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating keyring directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening keyring database: %w", err)
	}

	// Single writer; the session layer already serializes refresh waves.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS credentials (
			kind TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating keyring schema: %w", err)
	}

	if err := os.Chmod(path, 0600); err != nil {
		logger.Warn("could not restrict keyring file permissions", "path", path, "error", err)
	}

	logger.Debug("keyring initialized", "path", path)
	return &SQLiteStore{db: db, box: box, logger: logger}, nil
}

// Get returns the credential of the given kind. Any underlying fault
// (database error, corrupt ciphertext) is logged and reported as absent.
func (s *SQLiteStore) Get(ctx context.Context, kind Kind) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sealed []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM credentials WHERE kind = ?`, string(kind),
	).Scan(&sealed)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		s.logger.Warn("keyring read failed", "kind", kind, "error", err)
		return "", false
	}

	value, err := s.box.open(sealed)
	if err != nil {
		s.logger.Warn("keyring value unreadable", "kind", kind, "error", err)
		return "", false
	}
	return value, true
}

// SetPair writes both credentials in one transaction so no reader ever
// observes a half-written pair.
func (s *SQLiteStore) SetPair(ctx context.Context, access, refresh string) error {
	sealedAccess, err := s.box.seal(access)
	if err != nil {
		return fmt.Errorf("sealing access credential: %w", err)
	}
	sealedRefresh, err := s.box.seal(refresh)
	if err != nil {
		return fmt.Errorf("sealing refresh credential: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning keyring transaction: %w", err)
	}
	defer tx.Rollback()

	upsert := `
		INSERT INTO credentials (kind, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(kind) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := tx.ExecContext(ctx, upsert, string(KindAccess), sealedAccess); err != nil {
		return fmt.Errorf("writing access credential: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsert, string(KindRefresh), sealedRefresh); err != nil {
		return fmt.Errorf("writing refresh credential: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing credential pair: %w", err)
	}

	s.logger.Debug("credential pair updated")
	return nil
}

// Clear deletes both credentials. Faults are logged and swallowed.
func (s *SQLiteStore) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials`); err != nil {
		s.logger.Warn("keyring clear failed", "error", err)
		return
	}
	s.logger.Debug("credential pair cleared")
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
