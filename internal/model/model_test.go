package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func multipleChoiceQuestion() Question {
	return Question{
		ID:       NewID(),
		Type:     MultipleChoice,
		Question: "What is the capital of Latvia?",
		Topic:    "geography",
		Options: []QuestionOption{
			{Text: "Riga"},
			{Text: "Vilnius"},
			{Text: "Tallinn"},
		},
		CorrectOptionText: "Riga",
	}
}

func TestQuestionValidate(t *testing.T) {
	q := multipleChoiceQuestion()
	if err := q.Validate(); err != nil {
		t.Fatalf("valid question rejected: %v", err)
	}

	empty := q
	empty.Question = "   "
	if err := empty.Validate(); err == nil {
		t.Error("expected error for empty question text")
	}

	fewOptions := q
	fewOptions.Options = fewOptions.Options[:1]
	if err := fewOptions.Validate(); err == nil {
		t.Error("expected error for a single option")
	}

	noMatch := q
	noMatch.CorrectOptionText = "Helsinki"
	if err := noMatch.Validate(); err == nil {
		t.Error("expected error when correct answer matches no option")
	}

	tf := Question{ID: NewID(), Type: TrueFalse, Question: "The sky is green.", CorrectOptionText: AnswerFalse}
	if err := tf.Validate(); err != nil {
		t.Errorf("valid true/false question rejected: %v", err)
	}
	tf.CorrectOptionText = "Aplams"
	if err := tf.Validate(); err == nil {
		t.Error("expected error for non-canonical true/false answer")
	}

	fill := Question{ID: NewID(), Type: FillInTheBlank, Question: "2+2=?", CorrectOptionText: ""}
	if err := fill.Validate(); err == nil {
		t.Error("expected error for fill-in question without an answer")
	}
}

func TestDefaultTestSettings(t *testing.T) {
	s := DefaultTestSettings()
	if s.NumQuestions != 10 {
		t.Errorf("NumQuestions = %d, want 10", s.NumQuestions)
	}
	if !s.UseAllQuestions || !s.RandomizeQuestions || !s.RandomizeAnswers {
		t.Errorf("unexpected defaults: %+v", s)
	}
	if s.EnableTimer {
		t.Error("timer should default to off")
	}
	if s.TimerDurationMinutes != 30 {
		t.Errorf("TimerDurationMinutes = %d, want 30", s.TimerDurationMinutes)
	}
}

func TestNewTestProfile(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	p := NewTestProfile("Biology", now)
	if p.ID == "" {
		t.Error("profile should get an ID")
	}
	if p.Name != "Biology" {
		t.Errorf("Name = %q", p.Name)
	}
	if !p.CreatedAt.Equal(now) || !p.UpdatedAt.Equal(now) {
		t.Error("timestamps should be set to now")
	}
	if p.Questions == nil || p.History == nil {
		t.Error("slices should be initialized")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	questions := []Question{
		multipleChoiceQuestion(),
		{ID: NewID(), Type: TrueFalse, Question: "Go has generics.", CorrectOptionText: AnswerTrue},
		{ID: NewID(), Type: FillInTheBlank, Question: "Capital of France?", CorrectOptionText: "Paris"},
	}

	data, err := ExportQuestions(questions)
	if err != nil {
		t.Fatalf("ExportQuestions: %v", err)
	}
	if !strings.HasPrefix(string(data), "[\n") {
		t.Error("export should be an indented JSON array")
	}

	got, err := ImportQuestions(data)
	if err != nil {
		t.Fatalf("ImportQuestions: %v", err)
	}
	if len(got) != len(questions) {
		t.Fatalf("imported %d questions, want %d", len(got), len(questions))
	}
	for i := range got {
		if got[i].ID != questions[i].ID {
			t.Errorf("question %d: ID changed on round trip", i)
		}
	}
}

func TestImportRejectsBadBatch(t *testing.T) {
	cases := map[string]string{
		"not json":        "hello",
		"empty array":     "[]",
		"missing id":      `[{"type":"fill-in-the-blank","question":"q","correctOptionText":"a"}]`,
		"bad type":        `[{"id":"1","type":"essay","question":"q","correctOptionText":"a"}]`,
		"invalid content": `[{"id":"1","type":"multiple-choice","question":"q","options":[{"text":"a"}],"correctOptionText":"a"}]`,
	}
	for name, payload := range cases {
		if _, err := ImportQuestions([]byte(payload)); !errors.Is(err, ErrInvalidImport) {
			t.Errorf("%s: expected ErrInvalidImport, got %v", name, err)
		}
	}
}

func TestImportIsAllOrNothing(t *testing.T) {
	good := multipleChoiceQuestion()
	bad := Question{ID: NewID(), Type: FillInTheBlank, Question: "q"}
	data, err := ExportQuestions([]Question{good, bad})
	if err != nil {
		t.Fatalf("ExportQuestions: %v", err)
	}
	if _, err := ImportQuestions(data); err == nil {
		t.Fatal("one invalid question should reject the whole batch")
	}
}

func TestOptionPrefix(t *testing.T) {
	cases := []struct {
		style NumberingStyle
		index int
		want  string
	}{
		{NumberingNumbers, 0, "1. "},
		{NumberingNumbers, 9, "10. "},
		{NumberingLettersUpper, 0, "A. "},
		{NumberingLettersLower, 2, "c. "},
		{NumberingNone, 0, ""},
	}
	for _, c := range cases {
		if got := c.style.OptionPrefix(c.index); got != c.want {
			t.Errorf("OptionPrefix(%q, %d) = %q, want %q", c.style, c.index, got, c.want)
		}
	}
}
