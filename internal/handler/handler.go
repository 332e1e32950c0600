// Package handler exposes the application over a JSON API. Handlers stay
// thin: they decode the request, resolve entities through the state
// container, dispatch actions or drive the quiz engine, and encode the
// result.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kasitis/tests1/internal/app"
	"github.com/kasitis/tests1/internal/chat"
	"github.com/kasitis/tests1/internal/games"
	"github.com/kasitis/tests1/internal/quiz"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	app  *app.Container
	chat *chat.Client // nil when no LLM endpoint is configured

	quizMu        sync.Mutex
	engine        *quiz.Engine
	quizProfileID string
	quizSig       string
	quizStop      context.CancelFunc

	gamesMu      sync.Mutex
	cruncher     *games.Cruncher
	cruncherEnds time.Time
	wordle       *games.Wordle
}

// New creates a new Handler. The chat client may be nil.
func New(container *app.Container, chatClient *chat.Client) *Handler {
	return &Handler{app: container, chat: chatClient}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/api/state", h.handleAppState)
	r.Post("/api/navigate", h.handleNavigate)

	r.Get("/api/profiles", h.handleListProfiles)
	r.Post("/api/profiles", h.handleCreateProfile)
	r.Get("/api/profiles/{profileID}", h.handleGetProfile)
	r.Put("/api/profiles/{profileID}", h.handleUpdateProfile)
	r.Delete("/api/profiles/{profileID}", h.handleDeleteProfile)

	r.Post("/api/profiles/{profileID}/questions", h.handleAddQuestion)
	r.Put("/api/profiles/{profileID}/questions/{questionID}", h.handleUpdateQuestion)
	r.Delete("/api/profiles/{profileID}/questions/{questionID}", h.handleDeleteQuestion)
	r.Post("/api/profiles/{profileID}/questions/delete", h.handleDeleteQuestions)

	r.Put("/api/profiles/{profileID}/settings", h.handleUpdateTestSettings)
	r.Get("/api/profiles/{profileID}/history", h.handleGetHistory)
	r.Delete("/api/profiles/{profileID}/history", h.handleClearHistory)

	r.Get("/api/profiles/{profileID}/export", h.handleExportQuestions)
	r.Post("/api/profiles/{profileID}/import/json", h.handleImportJSON)
	r.Post("/api/profiles/{profileID}/import/csv", h.handleImportCSV)

	r.Post("/api/profiles/{profileID}/quiz/start", h.handleQuizStart)
	r.Get("/api/quiz", h.handleQuizState)
	r.Post("/api/quiz/answer", h.handleQuizAnswer)
	r.Post("/api/quiz/next", h.handleQuizNext)
	r.Post("/api/quiz/prev", h.handleQuizPrev)
	r.Post("/api/quiz/submit", h.handleQuizSubmit)
	r.Post("/api/quiz/again", h.handleQuizAgain)
	r.Post("/api/quiz/stop", h.handleQuizStop)

	r.Get("/api/decks", h.handleListDecks)
	r.Post("/api/decks", h.handleCreateDeck)
	r.Get("/api/decks/{deckID}", h.handleGetDeck)
	r.Put("/api/decks/{deckID}", h.handleUpdateDeck)
	r.Delete("/api/decks/{deckID}", h.handleDeleteDeck)
	r.Post("/api/decks/{deckID}/cards", h.handleAddCard)
	r.Put("/api/decks/{deckID}/cards/{cardID}", h.handleUpdateCard)
	r.Delete("/api/decks/{deckID}/cards/{cardID}", h.handleDeleteCard)

	r.Get("/api/articles", h.handleListArticles)
	r.Get("/api/articles/{articleID}", h.handleGetArticle)
	r.Post("/api/articles/{articleID}/read", h.handleMarkArticleRead)
	r.Post("/api/articles/{articleID}/unread", h.handleMarkArticleUnread)

	r.Get("/api/settings", h.handleGetSettings)
	r.Put("/api/settings", h.handleUpdateSettings)
	r.Post("/api/settings/clear-data", h.handleClearData)

	r.Post("/api/chat", h.handleChat)

	r.Post("/api/games/cruncher/start", h.handleCruncherStart)
	r.Post("/api/games/cruncher/answer", h.handleCruncherAnswer)
	r.Post("/api/games/wordle/start", h.handleWordleStart)
	r.Post("/api/games/wordle/guess", h.handleWordleGuess)
	r.Post("/api/games/wordle/hint", h.handleWordleHint)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads the request body into v, answering 400 itself on
// failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
