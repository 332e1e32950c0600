package quiz

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/kasitis/tests1/internal/model"
)

func fixedClock(start time.Time) (func() time.Time, func(d time.Duration)) {
	now := start
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

func testProfile(n int, settings model.TestSettings) model.TestProfile {
	p := model.NewTestProfile("Driving", time.Now())
	p.Settings = settings
	for i := 0; i < n; i++ {
		p.Questions = append(p.Questions, model.Question{
			ID:                model.NewID(),
			Type:              model.MultipleChoice,
			Question:          "Q",
			Options:           []model.QuestionOption{{Text: "right"}, {Text: "wrong"}},
			CorrectOptionText: "right",
		})
	}
	return p
}

func plainSettings() model.TestSettings {
	s := model.DefaultTestSettings()
	s.RandomizeQuestions = false
	s.RandomizeAnswers = false
	return s
}

// answerCorrect selects whichever rendered option carries the correct value.
func answerCorrect(t *testing.T, e *Engine) {
	t.Helper()
	rq := e.Current()
	for i, opt := range rq.Options {
		if opt.Value == rq.Question.CorrectOptionText {
			if err := e.SelectOption(i); err != nil {
				t.Fatalf("SelectOption: %v", err)
			}
			return
		}
	}
	t.Fatal("no correct option rendered")
}

func answerWrong(t *testing.T, e *Engine) {
	t.Helper()
	rq := e.Current()
	for i, opt := range rq.Options {
		if opt.Value != rq.Question.CorrectOptionText {
			if err := e.SelectOption(i); err != nil {
				t.Fatalf("SelectOption: %v", err)
			}
			return
		}
	}
	t.Fatal("no wrong option rendered")
}

func TestStartRequiresQuestions(t *testing.T) {
	e := New(testProfile(0, plainSettings()))
	if err := e.Start(); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestQuestionSelectionCounts(t *testing.T) {
	cases := []struct {
		name      string
		questions int
		useAll    bool
		num       int
		want      int
	}{
		{"use all", 25, true, 10, 25},
		{"explicit subset", 25, false, 5, 5},
		{"subset larger than pool", 3, false, 10, 3},
		{"zero falls back to ten", 25, false, 0, 10},
		{"zero with small pool", 4, false, 0, 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			settings := plainSettings()
			settings.UseAllQuestions = c.useAll
			settings.NumQuestions = c.num
			e := New(testProfile(c.questions, settings))
			if err := e.Start(); err != nil {
				t.Fatalf("Start: %v", err)
			}
			if got := len(e.Questions()); got != c.want {
				t.Errorf("selected %d questions, want %d", got, c.want)
			}
		})
	}
}

func TestScoringAndPercentage(t *testing.T) {
	var entries []model.HistoryEntry
	e := New(testProfile(4, plainSettings()),
		WithHistorySink(func(h model.HistoryEntry) { entries = append(entries, h) }))
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	answerCorrect(t, e)
	for i := 0; i < 3; i++ {
		if err := e.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
		if i < 2 {
			answerCorrect(t, e)
		} else {
			answerWrong(t, e)
		}
	}

	res, err := e.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Score != 3 || res.TotalPossible != 4 {
		t.Errorf("score = %d/%d, want 3/4", res.Score, res.TotalPossible)
	}
	if res.Percentage != 75.0 {
		t.Errorf("percentage = %v, want 75.0", res.Percentage)
	}
	if res.TimeTakenSeconds != nil {
		t.Error("untimed attempt should have no time taken")
	}
	if e.State() != StateResults {
		t.Errorf("state = %q, want results", e.State())
	}
	if len(entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(entries))
	}
	if entries[0].Percentage != 75.0 {
		t.Errorf("history percentage = %v, want 75.0", entries[0].Percentage)
	}
}

func TestNextBlockedWhenUnanswered(t *testing.T) {
	e := New(testProfile(2, plainSettings()))
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := e.Next(); !errors.Is(err, ErrUnanswered) {
		t.Fatalf("expected ErrUnanswered, got %v", err)
	}
	answerCorrect(t, e)
	if err := e.Next(); err != nil {
		t.Fatalf("Next after answering: %v", err)
	}
	// Going back never requires an answer.
	if err := e.Prev(); err != nil {
		t.Fatalf("Prev: %v", err)
	}
}

// Language-independent scoring: a true/false question answered through the
// Latvian labels still scores against the canonical token.
func TestTrueFalseScoresOnCanonicalToken(t *testing.T) {
	p := model.NewTestProfile("TF", time.Now())
	p.Settings = plainSettings()
	p.Questions = []model.Question{{
		ID:                model.NewID(),
		Type:              model.TrueFalse,
		Question:          "Latvia is in Europe.",
		CorrectOptionText: model.AnswerTrue,
	}}

	e := New(p, WithLabels(TrueFalseLabels{True: "Patiess", False: "Aplams"}))
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	rq := e.Current()
	if len(rq.Options) != 2 {
		t.Fatalf("true/false should render exactly 2 options, got %d", len(rq.Options))
	}
	if rq.Options[0].Text != "Patiess" || rq.Options[0].Value != model.AnswerTrue {
		t.Errorf("first option = %+v, want localized true label with canonical value", rq.Options[0])
	}

	if err := e.SelectOption(0); err != nil {
		t.Fatalf("SelectOption: %v", err)
	}
	res, err := e.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Score != 1 {
		t.Error("localized label answer should score as correct")
	}
}

func TestFillInIsCaseAndSpaceInsensitive(t *testing.T) {
	p := model.NewTestProfile("Fill", time.Now())
	p.Settings = plainSettings()
	p.Questions = []model.Question{{
		ID:                model.NewID(),
		Type:              model.FillInTheBlank,
		Question:          "Capital of France?",
		CorrectOptionText: "Paris",
	}}

	e := New(p)
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := e.SetText("  pArIs "); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	res, err := e.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Score != 1 {
		t.Errorf("case/whitespace variant should score, got %d", res.Score)
	}
	if res.Questions[0].UserAnswer != "pArIs" {
		t.Errorf("user answer should be trimmed, got %q", res.Questions[0].UserAnswer)
	}
}

func TestTimerExpiryForceSubmitsOnce(t *testing.T) {
	now, advance := fixedClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	settings := plainSettings()
	settings.EnableTimer = true
	settings.TimerDurationMinutes = 1

	var entries []model.HistoryEntry
	e := New(testProfile(2, settings),
		WithClock(now),
		WithHistorySink(func(h model.HistoryEntry) { entries = append(entries, h) }))
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if e.Remaining() != 60 {
		t.Fatalf("remaining = %d, want 60", e.Remaining())
	}

	advance(30 * time.Second)
	if remaining, expired := e.Tick(); expired || remaining != 30 {
		t.Fatalf("after 30s: remaining=%d expired=%v", remaining, expired)
	}

	// Ticks long past the deadline clamp the recorded time to the limit.
	advance(45 * time.Second)
	remaining, expired := e.Tick()
	if !expired || remaining != 0 {
		t.Fatalf("after 75s: remaining=%d expired=%v, want 0/true", remaining, expired)
	}
	res := e.Result()
	if res == nil || !res.TimedOut {
		t.Fatal("expiry should produce a timed-out result")
	}
	if res.TimeTakenSeconds == nil || *res.TimeTakenSeconds != 60 {
		t.Errorf("time taken should clamp to 60, got %v", res.TimeTakenSeconds)
	}

	// A second tick and a late manual submit change nothing.
	if _, expired := e.Tick(); expired {
		t.Error("a finished session must not expire twice")
	}
	res2, err := e.Submit()
	if err != nil {
		t.Fatalf("late Submit: %v", err)
	}
	if res2 != res {
		t.Error("late Submit should return the existing result")
	}
	if len(entries) != 1 {
		t.Errorf("history entries = %d, want exactly 1", len(entries))
	}
}

func TestStopAbandonsWithoutHistory(t *testing.T) {
	var entries []model.HistoryEntry
	e := New(testProfile(2, plainSettings()),
		WithHistorySink(func(h model.HistoryEntry) { entries = append(entries, h) }))
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	answerCorrect(t, e)
	e.Stop()

	if e.State() != StateLoading {
		t.Errorf("state = %q, want loading", e.State())
	}
	if _, err := e.Submit(); !errors.Is(err, ErrNotInProgress) {
		t.Errorf("Submit after Stop: %v, want ErrNotInProgress", err)
	}
	if len(entries) != 0 {
		t.Error("an abandoned attempt must not record history")
	}
}

func TestTryAgainStartsFreshAttempt(t *testing.T) {
	e := New(testProfile(3, plainSettings()), WithRand(rand.New(rand.NewPCG(1, 2))))
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i := 0; i < 3; i++ {
		answerCorrect(t, e)
		if i < 2 {
			if err := e.Next(); err != nil {
				t.Fatalf("Next: %v", err)
			}
		}
	}
	if _, err := e.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err := e.TryAgain(); err != nil {
		t.Fatalf("TryAgain: %v", err)
	}
	if e.State() != StateInProgress {
		t.Errorf("state = %q, want in-progress", e.State())
	}
	if e.Index() != 0 {
		t.Error("retry should restart at the first question")
	}
	if e.Result() != nil {
		t.Error("retry should discard the previous result")
	}
}

func TestSignatureChangesWithContent(t *testing.T) {
	p := testProfile(2, plainSettings())
	sig := Signature(p)
	if Signature(p) != sig {
		t.Error("signature must be deterministic")
	}

	q := p
	q.Questions = append([]model.Question{}, p.Questions...)
	q.Questions[0].Question = "edited"
	if Signature(q) == sig {
		t.Error("editing a question must change the signature")
	}

	s := p
	s.Settings.EnableTimer = true
	if Signature(s) == sig {
		t.Error("changing settings must change the signature")
	}

	h := p
	h.History = append(h.History, model.HistoryEntry{Score: 1})
	if Signature(h) != sig {
		t.Error("history must not affect the signature")
	}
}
