package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kasitis/tests1/internal/app"
	"github.com/kasitis/tests1/internal/i18n"
	"github.com/kasitis/tests1/internal/importer"
	"github.com/kasitis/tests1/internal/model"
)

// appStateResponse is the navigation-relevant slice of the state tree.
type appStateResponse struct {
	ActiveView        model.View `json:"activeView"`
	ActiveProfileID   string     `json:"activeProfileId,omitempty"`
	EditingQuestionID string     `json:"editingQuestionId,omitempty"`
	ActiveDeckID      string     `json:"activeDeckId,omitempty"`
	EditingCardID     string     `json:"editingCardId,omitempty"`
	ActiveArticleID   string     `json:"activeArticleId,omitempty"`
}

func (h *Handler) handleAppState(w http.ResponseWriter, r *http.Request) {
	s := h.app.State()
	respondJSON(w, http.StatusOK, appStateResponse{
		ActiveView:        s.ActiveView,
		ActiveProfileID:   s.ActiveProfileID,
		EditingQuestionID: s.EditingQuestionID,
		ActiveDeckID:      s.ActiveDeckID,
		EditingCardID:     s.EditingCardID,
		ActiveArticleID:   s.ActiveArticleID,
	})
}

func (h *Handler) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		View       model.View `json:"view"`
		ProfileID  *string    `json:"profileId"`
		DeckID     *string    `json:"deckId"`
		ArticleID  *string    `json:"articleId"`
		QuestionID *string    `json:"questionId"`
		CardID     *string    `json:"cardId"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.View.Valid() {
		respondError(w, http.StatusBadRequest, "unknown view: "+string(req.View))
		return
	}
	h.app.Dispatch(app.Navigate{
		View:       req.View,
		ProfileID:  req.ProfileID,
		DeckID:     req.DeckID,
		ArticleID:  req.ArticleID,
		QuestionID: req.QuestionID,
		CardID:     req.CardID,
	})
	h.handleAppState(w, r)
}

func (h *Handler) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.app.State().Profiles)
}

type namedRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req namedRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.app.Dispatch(app.CreateProfile{Name: req.Name, Description: req.Description})
	respondJSON(w, http.StatusCreated, h.app.State().Profiles)
}

// profileFromRequest resolves the {profileID} URL parameter, answering 404
// itself when it dangles.
func (h *Handler) profileFromRequest(w http.ResponseWriter, r *http.Request) *model.TestProfile {
	id := chi.URLParam(r, "profileID")
	s := h.app.State()
	p := s.FindProfile(id)
	if p == nil {
		respondError(w, http.StatusNotFound, "profile not found: "+id)
		return nil
	}
	return p
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p := h.profileFromRequest(w, r)
	if p == nil {
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	p := h.profileFromRequest(w, r)
	if p == nil {
		return
	}
	var req namedRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.app.Dispatch(app.UpdateProfile{ID: p.ID, Name: req.Name, Description: req.Description})
	s := h.app.State()
	respondJSON(w, http.StatusOK, s.FindProfile(p.ID))
}

func (h *Handler) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	p := h.profileFromRequest(w, r)
	if p == nil {
		return
	}
	h.app.Dispatch(app.DeleteProfile{ID: p.ID})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	p := h.profileFromRequest(w, r)
	if p == nil {
		return
	}
	var q model.Question
	if !decodeJSON(w, r, &q) {
		return
	}
	if err := q.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.app.Dispatch(app.AddQuestion{ProfileID: p.ID, Question: q})
	s := h.app.State()
	respondJSON(w, http.StatusCreated, s.FindProfile(p.ID).Questions)
}

func (h *Handler) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	p := h.profileFromRequest(w, r)
	if p == nil {
		return
	}
	var q model.Question
	if !decodeJSON(w, r, &q) {
		return
	}
	q.ID = chi.URLParam(r, "questionID")
	if err := q.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.app.Dispatch(app.UpdateQuestion{ProfileID: p.ID, Question: q})
	s := h.app.State()
	respondJSON(w, http.StatusOK, s.FindProfile(p.ID).Questions)
}

func (h *Handler) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	p := h.profileFromRequest(w, r)
	if p == nil {
		return
	}
	h.app.Dispatch(app.DeleteQuestion{ProfileID: p.ID, QuestionID: chi.URLParam(r, "questionID")})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteQuestions(w http.ResponseWriter, r *http.Request) {
	p := h.profileFromRequest(w, r)
	if p == nil {
		return
	}
	var req struct {
		IDs []string `json:"ids"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.app.Dispatch(app.DeleteQuestions{ProfileID: p.ID, QuestionIDs: req.IDs})
	s := h.app.State()
	respondJSON(w, http.StatusOK, s.FindProfile(p.ID).Questions)
}

func (h *Handler) handleUpdateTestSettings(w http.ResponseWriter, r *http.Request) {
	p := h.profileFromRequest(w, r)
	if p == nil {
		return
	}
	var settings model.TestSettings
	if !decodeJSON(w, r, &settings) {
		return
	}
	h.app.Dispatch(app.UpdateTestSettings{ProfileID: p.ID, Settings: settings})
	s := h.app.State()
	respondJSON(w, http.StatusOK, s.FindProfile(p.ID).Settings)
}

func (h *Handler) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	p := h.profileFromRequest(w, r)
	if p == nil {
		return
	}
	respondJSON(w, http.StatusOK, p.History)
}

func (h *Handler) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	p := h.profileFromRequest(w, r)
	if p == nil {
		return
	}
	h.app.Dispatch(app.ClearHistory{ProfileID: p.ID})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleExportQuestions(w http.ResponseWriter, r *http.Request) {
	p := h.profileFromRequest(w, r)
	if p == nil {
		return
	}
	data, err := model.ExportQuestions(p.Questions)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="questions.json"`)
	w.Write(data)
}

// handleImportJSON replaces the profile's question bank from an exported
// file. The batch is all-or-nothing.
func (h *Handler) handleImportJSON(w http.ResponseWriter, r *http.Request) {
	p := h.profileFromRequest(w, r)
	if p == nil {
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	questions, err := model.ImportQuestions(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.app.Dispatch(app.ReplaceQuestions{ProfileID: p.ID, Questions: questions})
	respondJSON(w, http.StatusOK, map[string]int{"imported": len(questions)})
}

type csvImportResponse struct {
	Imported   int               `json:"imported"`
	Mapping    map[string]string `json:"mapping"`
	Errors     []string          `json:"errors,omitempty"`
	MoreErrors int               `json:"moreErrors,omitempty"`
}

// handleImportCSV imports a question bank from comma-separated data. Rows
// that cannot be converted are reported individually; valid rows import.
func (h *Handler) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	p := h.profileFromRequest(w, r)
	if p == nil {
		return
	}
	headers, rows, err := importer.ReadCSV(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	mapping := importer.AutoMap(headers)
	labels := importer.Labels{
		True:  i18n.T(ctx, "optionTrue"),
		False: i18n.T(ctx, "optionFalse"),
	}
	questions, rowErrs := importer.MapRows(headers, rows, mapping, labels)
	if len(questions) == 0 {
		respondError(w, http.StatusBadRequest, i18n.T(ctx, "importNoValidRows"))
		return
	}
	h.app.Dispatch(app.ReplaceQuestions{ProfileID: p.ID, Questions: questions})

	resp := csvImportResponse{Imported: len(questions), Mapping: mapping}
	for i, re := range rowErrs {
		if i >= importer.MaxDisplayedErrors {
			resp.MoreErrors = len(rowErrs) - importer.MaxDisplayedErrors
			break
		}
		resp.Errors = append(resp.Errors, i18n.Td(ctx, "importRowError", map[string]any{
			"Row":    re.Row,
			"Reason": i18n.T(ctx, re.Reason),
		}))
	}
	respondJSON(w, http.StatusOK, resp)
}
