package app

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	appi18n "github.com/kasitis/tests1/internal/i18n"
	"github.com/kasitis/tests1/internal/model"
	"github.com/kasitis/tests1/internal/storage"
)

// Container owns the application state for one process. It is passed
// explicitly to everything that needs state access; there is no package
// global. Dispatch is the single entry point for mutations: it runs the
// pure reducer, then persists exactly the collections the reducer reports
// as changed.
//
// Persistence is best effort. A write failure is logged and the in-memory
// state stays authoritative for the running session.
type Container struct {
	mu      sync.Mutex
	store   *storage.Store
	reducer Reducer
	state   State
}

// NewContainer wires a container to its store. Call Init before use.
func NewContainer(store *storage.Store) *Container {
	return &Container{
		store:   store,
		reducer: NewReducer(),
		state:   NewState(),
	}
}

// Init performs the one-time startup load. Parse failures inside a single
// collection degrade to that collection's default; only store-level I/O
// errors are fatal.
func (c *Container) Init() error {
	snap, err := c.store.LoadAll()
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	c.Dispatch(Load{Snapshot: snap})
	return nil
}

// State returns a copy of the current state tree.
func (c *Container) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch applies an action. Transitions are serialized: each runs to
// completion, including persistence, before the next is admitted.
func (c *Container) Dispatch(action Action) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, changed := c.reducer.Reduce(c.state, action)
	c.state = next

	// Clearing user data wipes keys rather than writing empty documents,
	// so stale blobs cannot survive under renamed keys.
	if _, ok := action.(ClearAllUserData); ok {
		if err := c.store.ClearUserData(); err != nil {
			slog.Error("clear user data failed, in-memory state kept", "error", err)
		}
		return
	}

	snap := storage.Snapshot{
		Profiles:        next.Profiles,
		GeneralSettings: next.GeneralSettings,
		Decks:           next.Decks,
		Articles:        next.Articles,
		ArticleProgress: next.ArticleProgress,
	}
	for _, key := range changed {
		if err := c.store.SaveCollection(key, snap); err != nil {
			slog.Error("persist failed, in-memory state kept", "collection", key, "error", err)
		}
	}
}

// ActiveProfile returns the profile the navigation state points at, or nil
// when unset or dangling.
func (c *Container) ActiveProfile() *model.TestProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.ActiveProfileID == "" {
		return nil
	}
	if p := c.state.FindProfile(c.state.ActiveProfileID); p != nil {
		cp := *p
		return &cp
	}
	return nil
}

// ActiveDeck returns the deck the navigation state points at, or nil.
func (c *Container) ActiveDeck() *model.FlashcardDeck {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.ActiveDeckID == "" {
		return nil
	}
	if d := c.state.FindDeck(c.state.ActiveDeckID); d != nil {
		cp := *d
		return &cp
	}
	return nil
}

// ActiveArticle returns the article the navigation state points at, or nil.
func (c *Container) ActiveArticle() *model.Article {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.ActiveArticleID == "" {
		return nil
	}
	if a := c.state.FindArticle(c.state.ActiveArticleID); a != nil {
		cp := *a
		return &cp
	}
	return nil
}

// Language returns the currently configured UI language.
func (c *Container) Language() model.Language {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.GeneralSettings.CurrentLanguage
}

// Localizer returns a localizer for the current language.
func (c *Container) Localizer() *i18n.Localizer {
	return appi18n.NewLocalizer(c.Language())
}
