// Package quiz implements the quiz session engine: question selection and
// shuffling, per-question answer capture, the countdown timer, scoring, and
// the history entry a completed attempt folds back into the application
// state.
package quiz

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/kasitis/tests1/internal/model"
)

var (
	// ErrNoQuestions means the profile has nothing to quiz on.
	ErrNoQuestions = errors.New("profile has no questions")
	// ErrUnanswered blocks advancing or submitting past an unanswered question.
	ErrUnanswered = errors.New("current question is unanswered")
	// ErrNotInProgress rejects answer operations outside an active attempt.
	ErrNotInProgress = errors.New("no quiz attempt in progress")
)

// State is the session lifecycle phase.
type State string

const (
	StateLoading    State = "loading"
	StateInProgress State = "in-progress"
	StateResults    State = "results"
)

// TrueFalseLabels are the localized display texts for the two canonical
// true/false options.
type TrueFalseLabels struct {
	True  string
	False string
}

// RenderedOption is one option as actually shown for this attempt. Value is
// the language-independent token scoring compares against, so switching the
// UI language never flips correctness.
type RenderedOption struct {
	Text     string
	ImageURL *string
	Value    string
}

// RenderedQuestion pairs a persisted question with its per-attempt
// rendering. The rendering is session-scoped and never persisted.
type RenderedQuestion struct {
	Question model.Question
	Options  []RenderedOption
}

// Answer records the user's response to one question.
type Answer struct {
	OptionIndex int    // index into the rendered options, -1 when none
	Text        string // fill-in-the-blank response
}

func (a Answer) answeredFor(t model.QuestionType) bool {
	if t == model.FillInTheBlank {
		return strings.TrimSpace(a.Text) != ""
	}
	return a.OptionIndex >= 0
}

// QuestionResult is the per-question outcome shown on the results screen.
type QuestionResult struct {
	Question      model.Question
	Options       []RenderedOption
	UserAnswer    string
	CorrectAnswer string
	Answered      bool
	Correct       bool
}

// Result is the outcome of one completed attempt.
type Result struct {
	Score            int
	TotalPossible    int
	Percentage       float64 // rounded to one decimal
	QuestionsInQuiz  int
	TimeTakenSeconds *int // nil when the timer was disabled
	TimedOut         bool
	Questions        []QuestionResult
}

// HistorySink receives the history entry of a completed attempt, typically
// the state container's dispatch.
type HistorySink func(entry model.HistoryEntry)

// Option configures an Engine.
type Option func(*Engine)

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRand substitutes the shuffle source, for deterministic tests.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithLabels sets the localized true/false option texts.
func WithLabels(labels TrueFalseLabels) Option {
	return func(e *Engine) { e.labels = labels }
}

// WithHistorySink sets where completed attempts are recorded.
func WithHistorySink(sink HistorySink) Option {
	return func(e *Engine) { e.history = sink }
}

// Engine drives one quiz session over a profile. All methods are safe for
// the timer tick and user input to race; the submit guard ensures exactly
// one history entry per attempt regardless of which side wins.
type Engine struct {
	mu      sync.Mutex
	profile model.TestProfile
	labels  TrueFalseLabels
	now     func() time.Time
	rng     *rand.Rand
	history HistorySink

	state     State
	questions []RenderedQuestion
	answers   []Answer
	index     int

	timed           bool
	durationSeconds int
	startedAt       time.Time
	remaining       int

	submitted  bool
	result     *Result
	done       chan struct{}
	doneClosed bool
}

// New creates an engine for the given profile. Call Start to begin an
// attempt.
func New(profile model.TestProfile, opts ...Option) *Engine {
	e := &Engine{
		profile: profile,
		labels:  TrueFalseLabels{True: "True", False: "False"},
		now:     time.Now,
		state:   StateLoading,
		history: func(model.HistoryEntry) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start initializes a new attempt: selects and shuffles questions per the
// profile settings, renders options, resets answers, and arms the timer.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked()
}

func (e *Engine) startLocked() error {
	source := e.profile.Questions
	if len(source) == 0 {
		return ErrNoQuestions
	}
	settings := e.profile.Settings

	pool := make([]model.Question, len(source))
	copy(pool, source)
	if settings.RandomizeQuestions {
		e.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	}

	numToTake := len(pool)
	if !settings.UseAllQuestions {
		if settings.NumQuestions > 0 && settings.NumQuestions < len(pool) {
			numToTake = settings.NumQuestions
		} else if settings.NumQuestions <= 0 {
			numToTake = min(10, len(pool))
		}
	}
	pool = pool[:numToTake]

	e.questions = make([]RenderedQuestion, len(pool))
	for i, q := range pool {
		e.questions[i] = RenderedQuestion{Question: q, Options: e.renderOptions(q, settings)}
	}
	e.answers = make([]Answer, len(pool))
	for i := range e.answers {
		e.answers[i] = Answer{OptionIndex: -1}
	}
	e.index = 0
	e.state = StateInProgress
	e.submitted = false
	e.result = nil
	e.done = make(chan struct{})
	e.doneClosed = false

	if settings.EnableTimer && settings.TimerDurationMinutes > 0 {
		e.timed = true
		e.durationSeconds = settings.TimerDurationMinutes * 60
		e.startedAt = e.now()
		e.remaining = e.durationSeconds
	} else {
		e.timed = false
		e.durationSeconds = 0
		e.remaining = 0
	}
	return nil
}

// renderOptions computes the per-attempt option list. True/false questions
// always get the two canonical options in fixed order, localized for
// display; other types shuffle their own options when configured.
func (e *Engine) renderOptions(q model.Question, settings model.TestSettings) []RenderedOption {
	if q.Type == model.TrueFalse {
		return []RenderedOption{
			{Text: e.labels.True, Value: model.AnswerTrue},
			{Text: e.labels.False, Value: model.AnswerFalse},
		}
	}
	opts := make([]RenderedOption, len(q.Options))
	for i, o := range q.Options {
		opts[i] = RenderedOption{Text: o.Text, ImageURL: o.ImageURL, Value: o.Text}
	}
	if settings.RandomizeAnswers {
		e.shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
	}
	return opts
}

func (e *Engine) shuffle(n int, swap func(i, j int)) {
	if e.rng != nil {
		e.rng.Shuffle(n, swap)
		return
	}
	rand.Shuffle(n, swap)
}

// SelectOption records the rendered-option index for the current question.
func (e *Engine) SelectOption(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateInProgress {
		return ErrNotInProgress
	}
	q := e.questions[e.index]
	if index < 0 || index >= len(q.Options) {
		return errors.New("option index out of range")
	}
	e.answers[e.index].OptionIndex = index
	return nil
}

// SetText records a fill-in-the-blank response for the current question.
func (e *Engine) SetText(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateInProgress {
		return ErrNotInProgress
	}
	e.answers[e.index].Text = text
	return nil
}

// Next advances to the next question. Advancing past an unanswered
// question is blocked with ErrUnanswered.
func (e *Engine) Next() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateInProgress {
		return ErrNotInProgress
	}
	if !e.answers[e.index].answeredFor(e.questions[e.index].Question.Type) {
		return ErrUnanswered
	}
	if e.index < len(e.questions)-1 {
		e.index++
	}
	return nil
}

// Prev steps back one question. Stepping back never requires an answer.
func (e *Engine) Prev() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateInProgress {
		return ErrNotInProgress
	}
	if e.index > 0 {
		e.index--
	}
	return nil
}

// Submit finishes the attempt. The current question must be answered. If
// the timer already force-submitted, Submit is a no-op returning the
// existing result: exactly one history entry is recorded per attempt.
func (e *Engine) Submit() (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.submitted {
		return e.result, nil
	}
	if e.state != StateInProgress {
		return nil, ErrNotInProgress
	}
	if !e.answers[e.index].answeredFor(e.questions[e.index].Question.Type) {
		return nil, ErrUnanswered
	}
	return e.submitLocked(false), nil
}

// Tick recomputes the remaining time. When it reaches zero the attempt is
// force-submitted exactly once and expired reports true. Safe to call on an
// untimed or finished session.
func (e *Engine) Tick() (remaining int, expired bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.timed || e.state != StateInProgress || e.submitted {
		return e.remaining, false
	}
	elapsed := int(e.now().Sub(e.startedAt) / time.Second)
	e.remaining = max(e.durationSeconds-elapsed, 0)
	if e.remaining > 0 {
		return e.remaining, false
	}
	e.submitLocked(true)
	return 0, true
}

// submitLocked computes the result, records history, and moves to results.
// Callers hold e.mu and have checked the submit guard.
func (e *Engine) submitLocked(timedOut bool) *Result {
	e.submitted = true
	e.closeDoneLocked()

	result := &Result{
		TotalPossible:   len(e.questions),
		QuestionsInQuiz: len(e.questions),
		TimedOut:        timedOut,
		Questions:       make([]QuestionResult, len(e.questions)),
	}
	for i, rq := range e.questions {
		qr := e.scoreQuestion(rq, e.answers[i])
		result.Questions[i] = qr
		if qr.Correct {
			result.Score++
		}
	}
	if result.TotalPossible > 0 {
		pct := float64(result.Score) / float64(result.TotalPossible) * 100
		result.Percentage = math.Round(pct*10) / 10
	}

	if e.timed {
		elapsed := int(e.now().Sub(e.startedAt) / time.Second)
		// A late tick must not report more time than was configured.
		taken := min(elapsed, e.durationSeconds)
		result.TimeTakenSeconds = &taken
	}

	e.result = result
	e.state = StateResults
	e.history(model.HistoryEntry{
		Date:             e.now(),
		Score:            result.Score,
		TotalPossible:    result.TotalPossible,
		Percentage:       result.Percentage,
		QuestionsInQuiz:  result.QuestionsInQuiz,
		TimeTakenSeconds: result.TimeTakenSeconds,
	})
	return result
}

func (e *Engine) scoreQuestion(rq RenderedQuestion, ans Answer) QuestionResult {
	qr := QuestionResult{
		Question:      rq.Question,
		Options:       rq.Options,
		CorrectAnswer: rq.Question.CorrectOptionText,
		Answered:      ans.answeredFor(rq.Question.Type),
	}
	switch rq.Question.Type {
	case model.FillInTheBlank:
		qr.UserAnswer = strings.TrimSpace(ans.Text)
		qr.Correct = qr.Answered &&
			strings.EqualFold(qr.UserAnswer, strings.TrimSpace(rq.Question.CorrectOptionText))
	default:
		if ans.OptionIndex >= 0 && ans.OptionIndex < len(rq.Options) {
			chosen := rq.Options[ans.OptionIndex]
			qr.UserAnswer = chosen.Text
			qr.Correct = chosen.Value == rq.Question.CorrectOptionText
		}
	}
	return qr
}

// TryAgain re-enters a fresh attempt over the same profile, re-randomizing
// per the same initialization rules.
func (e *Engine) TryAgain() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked()
}

// Stop abandons the session and cancels any pending timer. No history is
// recorded for an abandoned attempt.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeDoneLocked()
	e.state = StateLoading
}

func (e *Engine) closeDoneLocked() {
	if e.done != nil && !e.doneClosed {
		close(e.done)
		e.doneClosed = true
	}
}

// RunTimer drives the one-second tick until the attempt finishes or ctx is
// cancelled. It returns immediately for untimed sessions.
func (e *Engine) RunTimer(ctx context.Context) {
	e.mu.Lock()
	timed, done := e.timed, e.done
	e.mu.Unlock()
	if !timed || done == nil {
		return
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			if _, expired := e.Tick(); expired {
				return
			}
		}
	}
}

// State reports the current session phase.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Index reports the current question position.
func (e *Engine) Index() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index
}

// Current returns the question being shown.
func (e *Engine) Current() RenderedQuestion {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.questions[e.index]
}

// Questions returns the selected questions for this attempt.
func (e *Engine) Questions() []RenderedQuestion {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]RenderedQuestion, len(e.questions))
	copy(out, e.questions)
	return out
}

// Remaining reports the last computed remaining seconds (zero-clamped).
func (e *Engine) Remaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remaining
}

// Result returns the outcome once the session reached results, else nil.
func (e *Engine) Result() *Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}
