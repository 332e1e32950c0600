package app

import (
	"slices"
	"strings"
	"time"

	"github.com/kasitis/tests1/internal/model"
	"github.com/kasitis/tests1/internal/storage"
)

// Reducer computes state transitions. It is pure: the same state, action,
// and clock reading always produce the same next state. Persistence happens
// outside, driven by the returned collection set.
type Reducer struct {
	// Now supplies timestamps for createdAt/updatedAt bookkeeping.
	Now func() time.Time
}

// NewReducer returns a reducer on the wall clock.
func NewReducer() Reducer {
	return Reducer{Now: time.Now}
}

// Reduce applies an action and reports which persisted collections the
// transition touched. Collections it does not report are guaranteed
// unchanged. Invalid input never partially applies: the reducer either
// returns a fully updated slice or the input state with a message modal.
func (r Reducer) Reduce(s State, a Action) (State, []storage.Collection) {
	switch a := a.(type) {
	case Load:
		s.Profiles = a.Snapshot.Profiles
		s.Decks = a.Snapshot.Decks
		s.Articles = a.Snapshot.Articles
		s.ArticleProgress = a.Snapshot.ArticleProgress
		s.GeneralSettings = a.Snapshot.GeneralSettings
		if s.Profiles == nil {
			s.Profiles = []model.TestProfile{}
		}
		if s.Decks == nil {
			s.Decks = []model.FlashcardDeck{}
		}
		if s.Articles == nil {
			s.Articles = []model.Article{}
		}
		if s.ArticleProgress == nil {
			s.ArticleProgress = []model.ArticleProgress{}
		}
		return s, nil

	case Navigate:
		return r.navigate(s, a), nil

	case CreateProfile:
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return withMessage(s, "msgError", "msgNameRequired"), nil
		}
		p := model.NewTestProfile(name, r.Now())
		p.Description = strings.TrimSpace(a.Description)
		s.Profiles = append(slices.Clone(s.Profiles), p)
		// Back to the list with nothing selected: opening the new
		// profile is an explicit user step.
		s = r.navigate(s, Navigate{View: model.ViewMyTests})
		return s, []storage.Collection{storage.CollectionProfiles}

	case UpdateProfile:
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return withMessage(s, "msgError", "msgNameRequired"), nil
		}
		return r.withProfile(s, a.ID, func(p *model.TestProfile) {
			p.Name = name
			p.Description = strings.TrimSpace(a.Description)
		})

	case DeleteProfile:
		idx := slices.IndexFunc(s.Profiles, func(p model.TestProfile) bool { return p.ID == a.ID })
		if idx < 0 {
			return withMessage(s, "msgError", "msgProfileNotFound"), nil
		}
		s.Profiles = slices.Delete(slices.Clone(s.Profiles), idx, idx+1)
		if s.ActiveProfileID == a.ID {
			s.ActiveProfileID = ""
			s.EditingQuestionID = ""
		}
		if len(s.Profiles) == 0 {
			s = r.navigate(s, Navigate{View: model.ViewHome})
		} else {
			s = r.navigate(s, Navigate{View: model.ViewMyTests})
		}
		return s, []storage.Collection{storage.CollectionProfiles}

	case AddQuestion:
		q := a.Question
		if q.ID == "" {
			q.ID = model.NewID()
		}
		if err := q.Validate(); err != nil {
			return withMessage(s, "msgError", err.Error()), nil
		}
		return r.withProfile(s, a.ProfileID, func(p *model.TestProfile) {
			p.Questions = append(slices.Clone(p.Questions), q)
		})

	case UpdateQuestion:
		if err := a.Question.Validate(); err != nil {
			return withMessage(s, "msgError", err.Error()), nil
		}
		return r.withProfile(s, a.ProfileID, func(p *model.TestProfile) {
			qs := slices.Clone(p.Questions)
			for i := range qs {
				if qs[i].ID == a.Question.ID {
					qs[i] = a.Question
					break
				}
			}
			p.Questions = qs
		})

	case DeleteQuestion:
		return r.withProfile(s, a.ProfileID, func(p *model.TestProfile) {
			p.Questions = slices.DeleteFunc(slices.Clone(p.Questions), func(q model.Question) bool {
				return q.ID == a.QuestionID
			})
		})

	case DeleteQuestions:
		drop := make(map[string]bool, len(a.QuestionIDs))
		for _, id := range a.QuestionIDs {
			drop[id] = true
		}
		return r.withProfile(s, a.ProfileID, func(p *model.TestProfile) {
			p.Questions = slices.DeleteFunc(slices.Clone(p.Questions), func(q model.Question) bool {
				return drop[q.ID]
			})
		})

	case ReplaceQuestions:
		return r.withProfile(s, a.ProfileID, func(p *model.TestProfile) {
			p.Questions = slices.Clone(a.Questions)
		})

	case UpdateTestSettings:
		return r.withProfile(s, a.ProfileID, func(p *model.TestProfile) {
			p.Settings = a.Settings
		})

	case AddHistory:
		return r.withProfile(s, a.ProfileID, func(p *model.TestProfile) {
			p.History = append(slices.Clone(p.History), a.Entry)
		})

	case ClearHistory:
		return r.withProfile(s, a.ProfileID, func(p *model.TestProfile) {
			p.History = []model.HistoryEntry{}
		})

	case CreateDeck:
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return withMessage(s, "msgError", "msgNameRequired"), nil
		}
		d := model.NewFlashcardDeck(name, r.Now())
		d.Description = strings.TrimSpace(a.Description)
		s.Decks = append(slices.Clone(s.Decks), d)
		s = r.navigate(s, Navigate{View: model.ViewDecksList})
		return s, []storage.Collection{storage.CollectionDecks}

	case UpdateDeck:
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return withMessage(s, "msgError", "msgNameRequired"), nil
		}
		return r.withDeck(s, a.ID, func(d *model.FlashcardDeck) {
			d.Name = name
			d.Description = strings.TrimSpace(a.Description)
		})

	case DeleteDeck:
		idx := slices.IndexFunc(s.Decks, func(d model.FlashcardDeck) bool { return d.ID == a.ID })
		if idx < 0 {
			return withMessage(s, "msgError", "msgDeckNotFound"), nil
		}
		s.Decks = slices.Delete(slices.Clone(s.Decks), idx, idx+1)
		if s.ActiveDeckID == a.ID {
			s.ActiveDeckID = ""
			s.EditingCardID = ""
		}
		if len(s.Decks) == 0 {
			s = r.navigate(s, Navigate{View: model.ViewHome})
		} else {
			s = r.navigate(s, Navigate{View: model.ViewDecksList})
		}
		return s, []storage.Collection{storage.CollectionDecks}

	case AddCard:
		card := a.Card
		if card.ID == "" {
			card.ID = model.NewID()
		}
		if strings.TrimSpace(card.FrontText) == "" || strings.TrimSpace(card.BackText) == "" {
			return withMessage(s, "msgError", "msgCardTextRequired"), nil
		}
		return r.withDeck(s, a.DeckID, func(d *model.FlashcardDeck) {
			d.Flashcards = append(slices.Clone(d.Flashcards), card)
		})

	case UpdateCard:
		if strings.TrimSpace(a.Card.FrontText) == "" || strings.TrimSpace(a.Card.BackText) == "" {
			return withMessage(s, "msgError", "msgCardTextRequired"), nil
		}
		return r.withDeck(s, a.DeckID, func(d *model.FlashcardDeck) {
			cards := slices.Clone(d.Flashcards)
			for i := range cards {
				if cards[i].ID == a.Card.ID {
					cards[i] = a.Card
					break
				}
			}
			d.Flashcards = cards
		})

	case DeleteCard:
		return r.withDeck(s, a.DeckID, func(d *model.FlashcardDeck) {
			d.Flashcards = slices.DeleteFunc(slices.Clone(d.Flashcards), func(c model.Flashcard) bool {
				return c.ID == a.CardID
			})
		})

	case MarkArticleRead:
		// Replace, never duplicate: drop any existing record first.
		now := r.Now()
		progress := slices.DeleteFunc(slices.Clone(s.ArticleProgress), func(p model.ArticleProgress) bool {
			return p.ArticleID == a.ArticleID
		})
		s.ArticleProgress = append(progress, model.ArticleProgress{
			ArticleID:  a.ArticleID,
			IsRead:     true,
			LastReadAt: &now,
		})
		return s, []storage.Collection{storage.CollectionArticleProgress}

	case MarkArticleUnread:
		progress := slices.Clone(s.ArticleProgress)
		found := false
		for i := range progress {
			if progress[i].ArticleID == a.ArticleID {
				progress[i].IsRead = false
				found = true
				break
			}
		}
		if !found {
			progress = append(progress, model.ArticleProgress{ArticleID: a.ArticleID, IsRead: false})
		}
		s.ArticleProgress = progress
		return s, []storage.Collection{storage.CollectionArticleProgress}

	case UpdateGeneralSettings:
		if a.Language != nil && !a.Language.Valid() {
			return withMessage(s, "msgError", "msgUnknownLanguage"), nil
		}
		settings := s.GeneralSettings
		if a.Language != nil {
			settings.CurrentLanguage = *a.Language
		}
		if a.DarkMode != nil {
			settings.DarkMode = *a.DarkMode
		}
		s.GeneralSettings = settings
		return s, []storage.Collection{storage.CollectionGeneralSettings}

	case ClearAllUserData:
		s.Profiles = []model.TestProfile{}
		s.Decks = []model.FlashcardDeck{}
		s.Articles = []model.Article{}
		s.ArticleProgress = []model.ArticleProgress{}
		s.GeneralSettings = model.DefaultGeneralSettings()
		s = r.navigate(s, Navigate{View: model.ViewHome})
		return s, slices.Clone(storage.AllCollections)

	case OpenMessageModal:
		s.Modals.Message = &a.Modal
		return s, nil
	case CloseMessageModal:
		s.Modals.Message = nil
		return s, nil
	case OpenConfirmModal:
		s.Modals.Confirm = &a.Modal
		return s, nil
	case CloseConfirmModal:
		s.Modals.Confirm = nil
		return s, nil
	case OpenMappingModal:
		s.Modals.Mapping = &a.Modal
		return s, nil
	case CloseMappingModal:
		s.Modals.Mapping = nil
		return s, nil
	}

	return s, nil
}

// navigate applies the view-transition rules: non-scoped views clear every
// active-entity id; editing ids survive only inside their own edit view.
func (r Reducer) navigate(s State, a Navigate) State {
	prevView := s.ActiveView
	s.ActiveView = a.View

	if a.ProfileID != nil {
		s.ActiveProfileID = *a.ProfileID
	}
	if a.DeckID != nil {
		s.ActiveDeckID = *a.DeckID
	}
	if a.ArticleID != nil {
		s.ActiveArticleID = *a.ArticleID
	}

	if nonScopedViews[a.View] {
		s.ActiveProfileID = ""
		s.ActiveDeckID = ""
		s.ActiveArticleID = ""
	}

	s.EditingQuestionID = editingID(a.View, prevView, model.ViewCreateEditQuestion, a.QuestionID, s.EditingQuestionID)
	s.EditingCardID = editingID(a.View, prevView, model.ViewCreateEditCard, a.CardID, s.EditingCardID)
	return s
}

// editingID resolves the edit-target id for a create/edit view: supplied id
// wins; staying on the same edit view preserves it; anything else clears it.
func editingID(target, prev, editView model.View, supplied *string, current string) string {
	if target != editView {
		return ""
	}
	if supplied != nil {
		return *supplied
	}
	if prev == editView {
		return current
	}
	return ""
}

// withProfile clones the profile list, applies fn to the matching profile,
// and refreshes its updatedAt. A missing id yields an error modal.
func (r Reducer) withProfile(s State, id string, fn func(*model.TestProfile)) (State, []storage.Collection) {
	idx := slices.IndexFunc(s.Profiles, func(p model.TestProfile) bool { return p.ID == id })
	if idx < 0 {
		return withMessage(s, "msgError", "msgProfileNotFound"), nil
	}
	profiles := slices.Clone(s.Profiles)
	fn(&profiles[idx])
	profiles[idx].UpdatedAt = r.Now()
	s.Profiles = profiles
	return s, []storage.Collection{storage.CollectionProfiles}
}

// withDeck is the deck counterpart of withProfile.
func (r Reducer) withDeck(s State, id string, fn func(*model.FlashcardDeck)) (State, []storage.Collection) {
	idx := slices.IndexFunc(s.Decks, func(d model.FlashcardDeck) bool { return d.ID == id })
	if idx < 0 {
		return withMessage(s, "msgError", "msgDeckNotFound"), nil
	}
	decks := slices.Clone(s.Decks)
	fn(&decks[idx])
	decks[idx].UpdatedAt = r.Now()
	s.Decks = decks
	return s, []storage.Collection{storage.CollectionDecks}
}

func withMessage(s State, titleKey, textKey string) State {
	s.Modals.Message = &MessageModal{TitleKey: titleKey, TextKey: textKey}
	return s
}
