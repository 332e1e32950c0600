package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Collection names the persisted slices of application state. Each one is
// stored as a single JSON document under its own key.
type Collection string

const (
	CollectionProfiles        Collection = "testProfiles"
	CollectionGeneralSettings Collection = "generalSettings"
	CollectionDecks           Collection = "flashcardDecks"
	CollectionArticles        Collection = "articles"
	CollectionArticleProgress Collection = "articleProgress"
)

// AllCollections lists every persisted key.
var AllCollections = []Collection{
	CollectionProfiles,
	CollectionGeneralSettings,
	CollectionDecks,
	CollectionArticles,
	CollectionArticleProgress,
}

// Store is a synchronous key-value store of whole-document JSON blobs.
// No schema versioning, no partial writes: callers always read and write a
// collection in full.
type Store struct {
	db *sql.DB
}

// New opens (and if necessary creates) the store at dbPath.
// Use ":memory:" for an ephemeral store.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS collections (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the raw JSON document for a collection.
// A missing key returns nil and no error.
func (s *Store) Get(key Collection) ([]byte, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM collections WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return []byte(value), nil
}

// Set upserts the raw JSON document for a collection.
func (s *Store) Set(key Collection, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO collections (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?`,
		key, string(value), string(value),
	)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete removes a collection. Deleting a missing key is not an error.
func (s *Store) Delete(key Collection) error {
	_, err := s.db.Exec(`DELETE FROM collections WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
