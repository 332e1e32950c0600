package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/kasitis/tests1/internal/model"
)

// Snapshot holds every persisted collection, as loaded at startup.
type Snapshot struct {
	Profiles        []model.TestProfile
	GeneralSettings model.GeneralSettings
	Decks           []model.FlashcardDeck
	Articles        []model.Article
	ArticleProgress []model.ArticleProgress
}

// LoadAll reads every collection once. A parse failure in one collection is
// logged and yields that collection's zero value; the rest still load. Only
// an I/O error aborts the load.
func (s *Store) LoadAll() (Snapshot, error) {
	snap := Snapshot{GeneralSettings: model.DefaultGeneralSettings()}

	if err := s.loadInto(CollectionProfiles, &snap.Profiles); err != nil {
		return snap, err
	}
	if err := s.loadSettings(&snap.GeneralSettings); err != nil {
		return snap, err
	}
	if err := s.loadInto(CollectionDecks, &snap.Decks); err != nil {
		return snap, err
	}
	if err := s.loadInto(CollectionArticles, &snap.Articles); err != nil {
		return snap, err
	}
	if err := s.loadInto(CollectionArticleProgress, &snap.ArticleProgress); err != nil {
		return snap, err
	}
	return snap, nil
}

func (s *Store) loadInto(key Collection, dst any) error {
	data, err := s.Get(key)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		slog.Warn("corrupt collection, using empty value", "key", key, "error", err)
	}
	return nil
}

// legacySettings accepts the historical persisted shape where darkMode was
// written as the strings "true"/"false" instead of a boolean.
type legacySettings struct {
	CurrentLanguage model.Language  `json:"currentLanguage"`
	DarkMode        json.RawMessage `json:"darkMode"`
}

func (s *Store) loadSettings(dst *model.GeneralSettings) error {
	data, err := s.Get(CollectionGeneralSettings)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	var raw legacySettings
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.Warn("corrupt general settings, using defaults", "error", err)
		return nil
	}

	if raw.CurrentLanguage.Valid() {
		dst.CurrentLanguage = raw.CurrentLanguage
	} else if raw.CurrentLanguage != "" {
		slog.Warn("unknown language in settings, keeping default",
			"language", raw.CurrentLanguage, "default", model.DefaultLanguage)
	}
	dst.DarkMode = coerceBool(raw.DarkMode)
	return nil
}

func coerceBool(raw json.RawMessage) bool {
	switch {
	case bytes.Equal(raw, []byte("true")), bytes.Equal(raw, []byte(`"true"`)):
		return true
	default:
		return false
	}
}

// SaveCollection marshals and writes one collection from the snapshot.
func (s *Store) SaveCollection(key Collection, snap Snapshot) error {
	var v any
	switch key {
	case CollectionProfiles:
		v = snap.Profiles
	case CollectionGeneralSettings:
		v = snap.GeneralSettings
	case CollectionDecks:
		v = snap.Decks
	case CollectionArticles:
		v = snap.Articles
	case CollectionArticleProgress:
		v = snap.ArticleProgress
	default:
		return fmt.Errorf("unknown collection %q", key)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.Set(key, data)
}

// ClearUserData wipes every persisted key except general settings, which is
// rewritten with defaults so a fresh load does not fall back to stale
// language or theme values.
func (s *Store) ClearUserData() error {
	for _, key := range AllCollections {
		if key == CollectionGeneralSettings {
			continue
		}
		if err := s.Delete(key); err != nil {
			return err
		}
	}
	defaults, err := json.Marshal(model.DefaultGeneralSettings())
	if err != nil {
		return fmt.Errorf("marshal default settings: %w", err)
	}
	return s.Set(CollectionGeneralSettings, defaults)
}
