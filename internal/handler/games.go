package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/kasitis/tests1/internal/chat"
	"github.com/kasitis/tests1/internal/games"
	"github.com/kasitis/tests1/internal/i18n"
)

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	if h.chat == nil {
		respondError(w, http.StatusServiceUnavailable, "chat is not configured")
		return
	}
	var req struct {
		History []chat.Message `json:"history"`
		Message string         `json:"message"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "message is empty")
		return
	}
	reply, err := h.chat.Ask(r.Context(), req.History, req.Message)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

type cruncherResponse struct {
	Problem          games.Problem `json:"problem"`
	Score            int           `json:"score"`
	RemainingSeconds int           `json:"remainingSeconds"`
	GameOver         bool          `json:"gameOver"`
}

func (h *Handler) cruncherState(problem games.Problem) cruncherResponse {
	remaining := int(time.Until(h.cruncherEnds) / time.Second)
	if remaining < 0 {
		remaining = 0
	}
	return cruncherResponse{
		Problem:          problem,
		Score:            h.cruncher.Score(),
		RemainingSeconds: remaining,
		GameOver:         remaining == 0,
	}
}

func (h *Handler) handleCruncherStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Difficulty games.Difficulty `json:"difficulty"`
		Mode       games.Operation  `json:"mode"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = games.Easy
	}
	if req.Mode == "" {
		req.Mode = games.Add
	}

	h.gamesMu.Lock()
	defer h.gamesMu.Unlock()
	h.cruncher = games.NewCruncher(req.Difficulty, req.Mode)
	h.cruncherEnds = time.Now().Add(games.CruncherDuration)
	respondJSON(w, http.StatusOK, h.cruncherState(h.cruncher.Next()))
}

func (h *Handler) handleCruncherAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Problem games.Problem `json:"problem"`
		Answer  int           `json:"answer"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	h.gamesMu.Lock()
	defer h.gamesMu.Unlock()
	if h.cruncher == nil {
		respondError(w, http.StatusNotFound, "no game in progress")
		return
	}
	if time.Now().After(h.cruncherEnds) {
		resp := h.cruncherState(games.Problem{})
		resp.GameOver = true
		respondJSON(w, http.StatusOK, resp)
		return
	}

	correct := h.cruncher.Check(req.Problem, req.Answer)
	resp := h.cruncherState(h.cruncher.Next())
	respondJSON(w, http.StatusOK, struct {
		cruncherResponse
		Correct       bool `json:"correct"`
		CorrectAnswer int  `json:"correctAnswer"`
	}{resp, correct, req.Problem.Answer})
}

type wordleResponse struct {
	Guesses   [][]games.Tile `json:"guesses"`
	Attempts  int            `json:"attempts"`
	Remaining int            `json:"attemptsLeft"`
	Over      bool           `json:"over"`
	Won       bool           `json:"won"`
	Target    string         `json:"target,omitempty"`
	Message   string         `json:"message,omitempty"`
}

func (h *Handler) wordleState(message string) wordleResponse {
	return wordleResponse{
		Guesses:   h.wordle.Guesses(),
		Attempts:  h.wordle.Attempts(),
		Remaining: games.MaxAttempts - h.wordle.Attempts(),
		Over:      h.wordle.Over(),
		Won:       h.wordle.Won(),
		Target:    h.wordle.Target(),
		Message:   message,
	}
}

func (h *Handler) handleWordleStart(w http.ResponseWriter, r *http.Request) {
	h.gamesMu.Lock()
	defer h.gamesMu.Unlock()
	h.wordle = games.NewWordle()
	respondJSON(w, http.StatusOK, h.wordleState(""))
}

func (h *Handler) handleWordleGuess(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Word string `json:"word"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	h.gamesMu.Lock()
	defer h.gamesMu.Unlock()
	if h.wordle == nil {
		respondError(w, http.StatusNotFound, "no game in progress")
		return
	}

	ctx := r.Context()
	if _, err := h.wordle.Guess(req.Word); err != nil {
		switch {
		case errors.Is(err, games.ErrWordLength):
			respondError(w, http.StatusBadRequest,
				i18n.Td(ctx, "wordleInvalidWordLength", map[string]any{"Length": games.WordLength}))
		case errors.Is(err, games.ErrNotInWordList):
			respondError(w, http.StatusBadRequest, i18n.T(ctx, "wordleNotInWordList"))
		case errors.Is(err, games.ErrGameOver):
			respondError(w, http.StatusConflict, err.Error())
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	var message string
	if h.wordle.Over() {
		key := "wordleLossMessage"
		if h.wordle.Won() {
			key = "wordleWinMessage"
		}
		message = i18n.Td(ctx, key, map[string]any{"Word": h.wordle.Target()})
	}
	respondJSON(w, http.StatusOK, h.wordleState(message))
}

func (h *Handler) handleWordleHint(w http.ResponseWriter, r *http.Request) {
	h.gamesMu.Lock()
	defer h.gamesMu.Unlock()
	if h.wordle == nil {
		respondError(w, http.StatusNotFound, "no game in progress")
		return
	}
	letter, pos, err := h.wordle.Hint()
	if err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"letter": letter, "position": pos})
}
