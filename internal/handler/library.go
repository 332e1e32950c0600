package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kasitis/tests1/internal/app"
	"github.com/kasitis/tests1/internal/model"
)

func (h *Handler) handleListDecks(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.app.State().Decks)
}

func (h *Handler) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	var req namedRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.app.Dispatch(app.CreateDeck{Name: req.Name, Description: req.Description})
	respondJSON(w, http.StatusCreated, h.app.State().Decks)
}

func (h *Handler) deckFromRequest(w http.ResponseWriter, r *http.Request) *model.FlashcardDeck {
	id := chi.URLParam(r, "deckID")
	s := h.app.State()
	d := s.FindDeck(id)
	if d == nil {
		respondError(w, http.StatusNotFound, "deck not found: "+id)
		return nil
	}
	return d
}

func (h *Handler) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	d := h.deckFromRequest(w, r)
	if d == nil {
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (h *Handler) handleUpdateDeck(w http.ResponseWriter, r *http.Request) {
	d := h.deckFromRequest(w, r)
	if d == nil {
		return
	}
	var req namedRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.app.Dispatch(app.UpdateDeck{ID: d.ID, Name: req.Name, Description: req.Description})
	s := h.app.State()
	respondJSON(w, http.StatusOK, s.FindDeck(d.ID))
}

func (h *Handler) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	d := h.deckFromRequest(w, r)
	if d == nil {
		return
	}
	h.app.Dispatch(app.DeleteDeck{ID: d.ID})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddCard(w http.ResponseWriter, r *http.Request) {
	d := h.deckFromRequest(w, r)
	if d == nil {
		return
	}
	var card model.Flashcard
	if !decodeJSON(w, r, &card) {
		return
	}
	h.app.Dispatch(app.AddCard{DeckID: d.ID, Card: card})
	s := h.app.State()
	respondJSON(w, http.StatusCreated, s.FindDeck(d.ID).Flashcards)
}

func (h *Handler) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	d := h.deckFromRequest(w, r)
	if d == nil {
		return
	}
	var card model.Flashcard
	if !decodeJSON(w, r, &card) {
		return
	}
	card.ID = chi.URLParam(r, "cardID")
	h.app.Dispatch(app.UpdateCard{DeckID: d.ID, Card: card})
	s := h.app.State()
	respondJSON(w, http.StatusOK, s.FindDeck(d.ID).Flashcards)
}

func (h *Handler) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	d := h.deckFromRequest(w, r)
	if d == nil {
		return
	}
	h.app.Dispatch(app.DeleteCard{DeckID: d.ID, CardID: chi.URLParam(r, "cardID")})
	w.WriteHeader(http.StatusNoContent)
}

// articleResponse joins an article with its read progress.
type articleResponse struct {
	model.Article
	IsRead     bool       `json:"isRead"`
	LastReadAt *time.Time `json:"lastReadAt,omitempty"`
}

func (h *Handler) articleWithProgress(s app.State, a model.Article) articleResponse {
	resp := articleResponse{Article: a}
	for _, p := range s.ArticleProgress {
		if p.ArticleID == a.ID {
			resp.IsRead = p.IsRead
			resp.LastReadAt = p.LastReadAt
			break
		}
	}
	return resp
}

func (h *Handler) handleListArticles(w http.ResponseWriter, r *http.Request) {
	s := h.app.State()
	out := make([]articleResponse, len(s.Articles))
	for i, a := range s.Articles {
		out[i] = h.articleWithProgress(s, a)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) articleFromRequest(w http.ResponseWriter, r *http.Request) *model.Article {
	id := chi.URLParam(r, "articleID")
	s := h.app.State()
	a := s.FindArticle(id)
	if a == nil {
		respondError(w, http.StatusNotFound, "article not found: "+id)
		return nil
	}
	return a
}

func (h *Handler) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	a := h.articleFromRequest(w, r)
	if a == nil {
		return
	}
	respondJSON(w, http.StatusOK, h.articleWithProgress(h.app.State(), *a))
}

func (h *Handler) handleMarkArticleRead(w http.ResponseWriter, r *http.Request) {
	a := h.articleFromRequest(w, r)
	if a == nil {
		return
	}
	h.app.Dispatch(app.MarkArticleRead{ArticleID: a.ID})
	respondJSON(w, http.StatusOK, h.articleWithProgress(h.app.State(), *a))
}

func (h *Handler) handleMarkArticleUnread(w http.ResponseWriter, r *http.Request) {
	a := h.articleFromRequest(w, r)
	if a == nil {
		return
	}
	h.app.Dispatch(app.MarkArticleUnread{ArticleID: a.ID})
	respondJSON(w, http.StatusOK, h.articleWithProgress(h.app.State(), *a))
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.app.State().GeneralSettings)
}

func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language *model.Language `json:"currentLanguage"`
		DarkMode *bool           `json:"darkMode"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Language != nil && !req.Language.Valid() {
		respondError(w, http.StatusBadRequest, "unknown language: "+string(*req.Language))
		return
	}
	h.app.Dispatch(app.UpdateGeneralSettings{Language: req.Language, DarkMode: req.DarkMode})
	respondJSON(w, http.StatusOK, h.app.State().GeneralSettings)
}

func (h *Handler) handleClearData(w http.ResponseWriter, r *http.Request) {
	h.quizMu.Lock()
	h.stopEngineLocked()
	h.quizMu.Unlock()

	h.app.Dispatch(app.ClearAllUserData{})
	respondJSON(w, http.StatusOK, h.app.State().GeneralSettings)
}
