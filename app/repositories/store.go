package repositories

import (
	"fmt"
	"io"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// Store owns the Badger database that backs every repository.
type Store struct {
	db   *badger.DB
	path string
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// OpenInMemory opens a throwaway database, used by tests.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying handle.
func (s *Store) DB() *badger.DB {
	return s.db
}

// Path is the on-disk location, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Posts() *BadgerPostRepository {
	return NewBadgerPostRepository(s.db)
}

func (s *Store) Comments() *BadgerCommentRepository {
	return NewBadgerCommentRepository(s.db)
}

func (s *Store) Users() *BadgerUserRepository {
	return NewBadgerUserRepository(s.db)
}

func (s *Store) Sessions() *BadgerSessionRepository {
	return NewBadgerSessionRepository(s.db)
}

// Backup writes a full backup to w and returns the version it covers.
func (s *Store) Backup(w io.Writer) (uint64, error) {
	version, err := s.db.Backup(w, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to backup database: %w", err)
	}
	return version, nil
}

// Restore loads a backup produced by Backup.
func (s *Store) Restore(r io.Reader) error {
	if err := s.db.Load(r, 256); err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}
	return nil
}

// DropAll deletes every key.
func (s *Store) DropAll() error {
	return s.db.DropAll()
}

func (s *Store) Close() error {
	return s.db.Close()
}
