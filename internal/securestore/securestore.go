// Package securestore is an encrypted key-value namespace backed by a SQLite
// file. Values are sealed with XChaCha20-Poly1305 under a key derived from a
// passphrase; keys and namespaces are stored in the clear.
package securestore

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

const (
	DefaultNamespace = "guestlist"

	metaSalt  = "kdf_salt"
	metaCheck = "kdf_check"
)

var checkValue = []byte("guestlist-check")

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	name  TEXT PRIMARY KEY,
	value BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS kv (
	namespace TEXT NOT NULL,
	key       TEXT NOT NULL,
	value     BLOB NOT NULL,
	PRIMARY KEY (namespace, key)
);`

type Config struct {
	// Path of the SQLite database file. The parent directory is created.
	Path       string
	Passphrase string
	// Namespace defaults to DefaultNamespace.
	Namespace string
	Logger    *zerolog.Logger
}

type Store struct {
	db        *sql.DB
	sealer    *sealer
	namespace string
	log       zerolog.Logger
}

// New opens (or creates) the database at cfg.Path and unlocks it with the
// passphrase. A wrong passphrase for an existing database returns ErrDecrypt.
func New(ctx context.Context, cfg *Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("securestore: empty database path")
	}
	if cfg.Passphrase == "" {
		return nil, fmt.Errorf("securestore: empty passphrase")
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	logger = logger.With().Str("component", "SecureStore").Logger()

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer, one UI thread.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	s, err := unlock(ctx, db, cfg.Passphrase)
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug().Str("path", cfg.Path).Str("namespace", namespace).Msg("Secure store opened")

	return &Store{
		db:        db,
		sealer:    s,
		namespace: namespace,
		log:       logger,
	}, nil
}

// unlock loads the KDF salt, creating it together with a check value on a
// fresh database, and verifies the passphrase against the check value.
func unlock(ctx context.Context, db *sql.DB, passphrase string) (*sealer, error) {
	var salt []byte
	err := db.QueryRowContext(ctx, `SELECT value FROM meta WHERE name = ?`, metaSalt).Scan(&salt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return initialize(ctx, db, passphrase)
	case err != nil:
		return nil, fmt.Errorf("failed to read salt: %w", err)
	}

	s, err := newSealer(passphrase, salt)
	if err != nil {
		return nil, err
	}

	var check []byte
	if err := db.QueryRowContext(ctx, `SELECT value FROM meta WHERE name = ?`, metaCheck).Scan(&check); err != nil {
		return nil, fmt.Errorf("failed to read check value: %w", err)
	}
	plain, err := s.open(check, []byte(metaCheck))
	if err != nil || !bytes.Equal(plain, checkValue) {
		return nil, ErrDecrypt
	}
	return s, nil
}

func initialize(ctx context.Context, db *sql.DB, passphrase string) (*sealer, error) {
	salt, err := newSalt()
	if err != nil {
		return nil, err
	}
	s, err := newSealer(passphrase, salt)
	if err != nil {
		return nil, err
	}
	check, err := s.seal(checkValue, []byte(metaCheck))
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO meta (name, value) VALUES (?, ?), (?, ?)`,
		metaSalt, salt, metaCheck, check); err != nil {
		return nil, fmt.Errorf("failed to store salt: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit salt: %w", err)
	}
	return s, nil
}

func (s *Store) additional(key string) []byte {
	return []byte(s.namespace + "/" + key)
}

// Get returns the decrypted value stored under key. A missing key is not an
// error: ok is false and value is nil.
func (s *Store) Get(ctx context.Context, key string) (value []byte, ok bool, err error) {
	var sealed []byte
	err = s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE namespace = ? AND key = ?`, s.namespace, key).Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %q: %w", key, err)
	}

	value, err = s.sealer.open(sealed, s.additional(key))
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("Failed to decrypt value")
		return nil, false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, true, nil
}

// Set encrypts value and stores it under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	sealed, err := s.sealer.seal(value, s.additional(key))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (namespace, key, value) VALUES (?, ?, ?)
		ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value`,
		s.namespace, key, sealed)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	s.log.Debug().Str("key", key).Int("bytes", len(value)).Msg("Value stored")
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM kv WHERE namespace = ? AND key = ?`, s.namespace, key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
