package app

import (
	"github.com/kasitis/tests1/internal/model"
	"github.com/kasitis/tests1/internal/storage"
)

// Action is a request for a state transition. Every mutation of the
// application flows through exactly one of these.
type Action interface {
	isAction()
}

// Load replaces the collections with a freshly loaded snapshot.
// Dispatched once at startup.
type Load struct {
	Snapshot storage.Snapshot
}

// Navigate switches the active view. Pointer fields distinguish "not
// supplied" (nil) from "explicitly set" (possibly to the empty string).
type Navigate struct {
	View       model.View
	ProfileID  *string
	DeckID     *string
	ArticleID  *string
	QuestionID *string
	CardID     *string
}

// CreateProfile adds an empty test profile and returns to the profile list.
type CreateProfile struct {
	Name        string
	Description string
}

// UpdateProfile renames a profile.
type UpdateProfile struct {
	ID          string
	Name        string
	Description string
}

// DeleteProfile removes a profile and everything it owns.
type DeleteProfile struct {
	ID string
}

// AddQuestion appends a question to a profile. A missing question ID is
// assigned.
type AddQuestion struct {
	ProfileID string
	Question  model.Question
}

// UpdateQuestion replaces a question in place, matched by ID.
type UpdateQuestion struct {
	ProfileID string
	Question  model.Question
}

// DeleteQuestion removes one question.
type DeleteQuestion struct {
	ProfileID  string
	QuestionID string
}

// DeleteQuestions removes a set of questions by ID.
type DeleteQuestions struct {
	ProfileID   string
	QuestionIDs []string
}

// ReplaceQuestions swaps a profile's entire question bank, used by both
// import paths.
type ReplaceQuestions struct {
	ProfileID string
	Questions []model.Question
}

// UpdateTestSettings replaces a profile's quiz settings.
type UpdateTestSettings struct {
	ProfileID string
	Settings  model.TestSettings
}

// AddHistory appends a completed quiz attempt.
type AddHistory struct {
	ProfileID string
	Entry     model.HistoryEntry
}

// ClearHistory removes all of a profile's history entries.
type ClearHistory struct {
	ProfileID string
}

// CreateDeck adds an empty flashcard deck and returns to the deck list.
type CreateDeck struct {
	Name        string
	Description string
}

// UpdateDeck renames a deck.
type UpdateDeck struct {
	ID          string
	Name        string
	Description string
}

// DeleteDeck removes a deck and its cards.
type DeleteDeck struct {
	ID string
}

// AddCard appends a flashcard to a deck. A missing card ID is assigned.
type AddCard struct {
	DeckID string
	Card   model.Flashcard
}

// UpdateCard replaces a card in place, matched by ID.
type UpdateCard struct {
	DeckID string
	Card   model.Flashcard
}

// DeleteCard removes one flashcard.
type DeleteCard struct {
	DeckID string
	CardID string
}

// MarkArticleRead upserts a read progress record. Idempotent: re-marking
// replaces the record, never duplicates it.
type MarkArticleRead struct {
	ArticleID string
}

// MarkArticleUnread flips the record to unread, inserting one if missing.
type MarkArticleUnread struct {
	ArticleID string
}

// UpdateGeneralSettings changes language and/or theme. Nil fields are left
// untouched.
type UpdateGeneralSettings struct {
	Language *model.Language
	DarkMode *bool
}

// ClearAllUserData resets every collection; general settings return to
// defaults rather than disappearing.
type ClearAllUserData struct{}

// Modal actions. These never touch persisted collections.
type OpenMessageModal struct{ Modal MessageModal }
type CloseMessageModal struct{}
type OpenConfirmModal struct{ Modal ConfirmModal }
type CloseConfirmModal struct{}
type OpenMappingModal struct{ Modal MappingModal }
type CloseMappingModal struct{}

func (Load) isAction()                  {}
func (Navigate) isAction()              {}
func (CreateProfile) isAction()         {}
func (UpdateProfile) isAction()         {}
func (DeleteProfile) isAction()         {}
func (AddQuestion) isAction()           {}
func (UpdateQuestion) isAction()        {}
func (DeleteQuestion) isAction()        {}
func (DeleteQuestions) isAction()       {}
func (ReplaceQuestions) isAction()      {}
func (UpdateTestSettings) isAction()    {}
func (AddHistory) isAction()            {}
func (ClearHistory) isAction()          {}
func (CreateDeck) isAction()            {}
func (UpdateDeck) isAction()            {}
func (DeleteDeck) isAction()            {}
func (AddCard) isAction()               {}
func (UpdateCard) isAction()            {}
func (DeleteCard) isAction()            {}
func (MarkArticleRead) isAction()       {}
func (MarkArticleUnread) isAction()     {}
func (UpdateGeneralSettings) isAction() {}
func (ClearAllUserData) isAction()      {}
func (OpenMessageModal) isAction()      {}
func (CloseMessageModal) isAction()     {}
func (OpenConfirmModal) isAction()      {}
func (CloseConfirmModal) isAction()     {}
func (OpenMappingModal) isAction()      {}
func (CloseMappingModal) isAction()     {}
