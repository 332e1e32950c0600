package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/kasitis/tests1/internal/app"
	"github.com/kasitis/tests1/internal/i18n"
	"github.com/kasitis/tests1/internal/model"
	"github.com/kasitis/tests1/internal/quiz"
)

type quizOptionResponse struct {
	Text     string  `json:"text"`
	ImageURL *string `json:"imageURL,omitempty"`
}

type quizQuestionResponse struct {
	ID       string               `json:"id"`
	Type     model.QuestionType   `json:"type"`
	Question string               `json:"question"`
	ImageURL *string              `json:"imageURL,omitempty"`
	Options  []quizOptionResponse `json:"options"`
}

type quizResultQuestion struct {
	Question      string `json:"question"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	Answered      bool   `json:"answered"`
	Correct       bool   `json:"correct"`
}

type quizResultResponse struct {
	Score            int                  `json:"score"`
	TotalPossible    int                  `json:"totalPossible"`
	Percentage       float64              `json:"percentage"`
	QuestionsInQuiz  int                  `json:"questionsInQuiz"`
	TimeTakenSeconds *int                 `json:"timeTakenSeconds,omitempty"`
	TimedOut         bool                 `json:"timedOut"`
	Questions        []quizResultQuestion `json:"questions"`
}

type quizStateResponse struct {
	State     quiz.State            `json:"state"`
	Index     int                   `json:"index"`
	Total     int                   `json:"total"`
	Remaining int                   `json:"remainingSeconds"`
	Question  *quizQuestionResponse `json:"question,omitempty"`
	Result    *quizResultResponse   `json:"result,omitempty"`
}

func renderResult(res *quiz.Result) *quizResultResponse {
	if res == nil {
		return nil
	}
	out := &quizResultResponse{
		Score:            res.Score,
		TotalPossible:    res.TotalPossible,
		Percentage:       res.Percentage,
		QuestionsInQuiz:  res.QuestionsInQuiz,
		TimeTakenSeconds: res.TimeTakenSeconds,
		TimedOut:         res.TimedOut,
		Questions:        make([]quizResultQuestion, len(res.Questions)),
	}
	for i, qr := range res.Questions {
		out.Questions[i] = quizResultQuestion{
			Question:      qr.Question.Question,
			UserAnswer:    qr.UserAnswer,
			CorrectAnswer: qr.CorrectAnswer,
			Answered:      qr.Answered,
			Correct:       qr.Correct,
		}
	}
	return out
}

// quizState renders the engine state. The correct option value is never
// included while the attempt is running.
func quizState(e *quiz.Engine) quizStateResponse {
	resp := quizStateResponse{
		State:     e.State(),
		Index:     e.Index(),
		Total:     len(e.Questions()),
		Remaining: e.Remaining(),
		Result:    renderResult(e.Result()),
	}
	if resp.State == quiz.StateInProgress {
		rq := e.Current()
		q := &quizQuestionResponse{
			ID:       rq.Question.ID,
			Type:     rq.Question.Type,
			Question: rq.Question.Question,
			ImageURL: rq.Question.QuestionImageURL,
			Options:  make([]quizOptionResponse, len(rq.Options)),
		}
		for i, o := range rq.Options {
			q.Options[i] = quizOptionResponse{Text: o.Text, ImageURL: o.ImageURL}
		}
		resp.Question = q
	}
	return resp
}

func (h *Handler) handleQuizStart(w http.ResponseWriter, r *http.Request) {
	p := h.profileFromRequest(w, r)
	if p == nil {
		return
	}

	ctx := r.Context()
	labels := quiz.TrueFalseLabels{
		True:  i18n.T(ctx, "optionTrue"),
		False: i18n.T(ctx, "optionFalse"),
	}
	profileID := p.ID
	sink := func(entry model.HistoryEntry) {
		h.app.Dispatch(app.AddHistory{ProfileID: profileID, Entry: entry})
	}

	h.quizMu.Lock()
	defer h.quizMu.Unlock()
	h.stopEngineLocked()

	e := quiz.New(*p, quiz.WithLabels(labels), quiz.WithHistorySink(sink))
	if err := e.Start(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	timerCtx, cancel := context.WithCancel(context.Background())
	go e.RunTimer(timerCtx)

	h.engine = e
	h.quizProfileID = profileID
	h.quizSig = quiz.Signature(*p)
	h.quizStop = cancel

	respondJSON(w, http.StatusOK, quizState(e))
}

// stopEngineLocked abandons any running session. Callers hold quizMu.
func (h *Handler) stopEngineLocked() {
	if h.engine == nil {
		return
	}
	if h.quizStop != nil {
		h.quizStop()
	}
	h.engine.Stop()
	h.engine = nil
	h.quizProfileID = ""
	h.quizSig = ""
	h.quizStop = nil
}

// currentEngine returns the running engine, resetting it first when the
// backing profile was deleted or its questions or settings changed under a
// live attempt. A finished attempt keeps showing its results.
func (h *Handler) currentEngine(w http.ResponseWriter) *quiz.Engine {
	h.quizMu.Lock()
	defer h.quizMu.Unlock()
	if h.engine == nil {
		respondError(w, http.StatusNotFound, "no quiz session")
		return nil
	}
	if h.engine.State() == quiz.StateInProgress {
		s := h.app.State()
		p := s.FindProfile(h.quizProfileID)
		if p == nil || quiz.Signature(*p) != h.quizSig {
			h.stopEngineLocked()
			respondError(w, http.StatusConflict, "quiz session reset: profile changed")
			return nil
		}
	}
	return h.engine
}

func (h *Handler) handleQuizState(w http.ResponseWriter, r *http.Request) {
	e := h.currentEngine(w)
	if e == nil {
		return
	}
	e.Tick()
	respondJSON(w, http.StatusOK, quizState(e))
}

func (h *Handler) handleQuizAnswer(w http.ResponseWriter, r *http.Request) {
	e := h.currentEngine(w)
	if e == nil {
		return
	}
	var req struct {
		OptionIndex *int    `json:"optionIndex"`
		Text        *string `json:"text"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	var err error
	switch {
	case req.OptionIndex != nil:
		err = e.SelectOption(*req.OptionIndex)
	case req.Text != nil:
		err = e.SetText(*req.Text)
	default:
		respondError(w, http.StatusBadRequest, "optionIndex or text required")
		return
	}
	if err != nil {
		respondError(w, quizErrorStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, quizState(e))
}

func (h *Handler) handleQuizNext(w http.ResponseWriter, r *http.Request) {
	h.quizStep(w, r, func(e *quiz.Engine) error { return e.Next() })
}

func (h *Handler) handleQuizPrev(w http.ResponseWriter, r *http.Request) {
	h.quizStep(w, r, func(e *quiz.Engine) error { return e.Prev() })
}

func (h *Handler) quizStep(w http.ResponseWriter, r *http.Request, step func(*quiz.Engine) error) {
	e := h.currentEngine(w)
	if e == nil {
		return
	}
	if err := step(e); err != nil {
		respondError(w, quizErrorStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, quizState(e))
}

func (h *Handler) handleQuizSubmit(w http.ResponseWriter, r *http.Request) {
	e := h.currentEngine(w)
	if e == nil {
		return
	}
	if _, err := e.Submit(); err != nil {
		respondError(w, quizErrorStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, quizState(e))
}

func (h *Handler) handleQuizAgain(w http.ResponseWriter, r *http.Request) {
	h.quizMu.Lock()
	defer h.quizMu.Unlock()
	if h.engine == nil {
		respondError(w, http.StatusNotFound, "no quiz session")
		return
	}
	s := h.app.State()
	p := s.FindProfile(h.quizProfileID)
	if p == nil {
		h.stopEngineLocked()
		respondError(w, http.StatusNotFound, "profile not found")
		return
	}
	if h.quizStop != nil {
		h.quizStop()
	}
	if err := h.engine.TryAgain(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	timerCtx, cancel := context.WithCancel(context.Background())
	h.quizStop = cancel
	go h.engine.RunTimer(timerCtx)
	respondJSON(w, http.StatusOK, quizState(h.engine))
}

func (h *Handler) handleQuizStop(w http.ResponseWriter, r *http.Request) {
	h.quizMu.Lock()
	defer h.quizMu.Unlock()
	h.stopEngineLocked()
	w.WriteHeader(http.StatusNoContent)
}

func quizErrorStatus(err error) int {
	switch {
	case errors.Is(err, quiz.ErrNotInProgress):
		return http.StatusConflict
	case errors.Is(err, quiz.ErrUnanswered), errors.Is(err, quiz.ErrNoQuestions):
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}
