package app

import (
	"github.com/kasitis/tests1/internal/model"
)

// State is the root application state tree. Collections mirror what is
// persisted; navigation and modal state live only in memory.
type State struct {
	Profiles        []model.TestProfile
	Decks           []model.FlashcardDeck
	Articles        []model.Article
	ArticleProgress []model.ArticleProgress
	GeneralSettings model.GeneralSettings

	ActiveView        model.View
	ActiveProfileID   string
	EditingQuestionID string
	ActiveDeckID      string
	EditingCardID     string
	ActiveArticleID   string

	Modals Modals
}

// Modals is the UI-intent layer. It carries live callbacks and therefore
// must never be serialized or replayed.
type Modals struct {
	Message *MessageModal
	Confirm *ConfirmModal
	Mapping *MappingModal
}

// MessageModal is a blocking informational message, addressed by
// translation keys so the view layer localizes at render time.
type MessageModal struct {
	TitleKey string
	TextKey  string
	TextData map[string]any
}

// ConfirmModal asks the user to confirm a destructive action.
type ConfirmModal struct {
	TitleKey  string
	TextKey   string
	TextData  map[string]any
	OnConfirm func()
}

// MappingModal carries spreadsheet rows awaiting a column-to-field mapping.
type MappingModal struct {
	SheetData [][]string
	OnConfirm func(mapping map[string]string)
}

// NewState returns the state a fresh session starts from.
func NewState() State {
	return State{
		Profiles:        []model.TestProfile{},
		Decks:           []model.FlashcardDeck{},
		Articles:        []model.Article{},
		ArticleProgress: []model.ArticleProgress{},
		GeneralSettings: model.DefaultGeneralSettings(),
		ActiveView:      model.ViewHome,
	}
}

// nonScopedViews are views outside any entity's scope; entering one clears
// every active-entity id.
var nonScopedViews = map[model.View]bool{
	model.ViewHome:            true,
	model.ViewMyTests:         true,
	model.ViewGeneralSettings: true,
	model.ViewGamesHub:        true,
	model.ViewWordle:          true,
	model.ViewNumberCruncher:  true,
	model.ViewDecksList:       true,
	model.ViewArticlesList:    true,
}

// FindProfile returns a pointer into the state's profile slice, or nil.
func (s *State) FindProfile(id string) *model.TestProfile {
	for i := range s.Profiles {
		if s.Profiles[i].ID == id {
			return &s.Profiles[i]
		}
	}
	return nil
}

// FindDeck returns a pointer into the state's deck slice, or nil.
func (s *State) FindDeck(id string) *model.FlashcardDeck {
	for i := range s.Decks {
		if s.Decks[i].ID == id {
			return &s.Decks[i]
		}
	}
	return nil
}

// FindArticle returns a pointer into the state's article slice, or nil.
func (s *State) FindArticle(id string) *model.Article {
	for i := range s.Articles {
		if s.Articles[i].ID == id {
			return &s.Articles[i]
		}
	}
	return nil
}
