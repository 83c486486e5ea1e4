// Package credentials persists the session's bearer token between runs.
package credentials

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gestor/internal/client/migrations"
	"github.com/dmitrijs2005/gestor/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gestor/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// TokenKey is the key under which the bearer token is stored.
const TokenKey = "authToken"

// Store is a small key/value persistence boundary. Get returns "" for an
// absent key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// SQLiteStore keeps values in the metadata table of the local database.
type SQLiteStore struct {
	repo metadata.Repository
}

func NewSQLiteStore(repo metadata.Repository) *SQLiteStore {
	return &SQLiteStore{repo: repo}
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	return s.repo.Set(ctx, key, []byte(value))
}

func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

// RunMigrations applies the embedded migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// OpenSQLite opens (creating if needed) the database at path, migrates it and
// returns a store over it along with the handle the caller must close.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, *sql.DB, error) {
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate %s: %w", path, err)
	}

	return NewSQLiteStore(metadata.NewSQLiteRepository(db)), db, nil
}

// MemoryStore keeps values in process memory. It is used when no database
// path is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
