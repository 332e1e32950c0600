package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Language is a UI language code.
type Language string

const (
	LanguageLV Language = "lv"
	LanguageEN Language = "en"
	LanguageUK Language = "uk"
)

// DefaultLanguage is the fallback for missing translations and unknown codes.
const DefaultLanguage = LanguageLV

// KnownLanguages lists every language the application ships locales for.
var KnownLanguages = []Language{LanguageLV, LanguageEN, LanguageUK}

// Valid reports whether the language is one the application knows.
func (l Language) Valid() bool {
	for _, k := range KnownLanguages {
		if l == k {
			return true
		}
	}
	return false
}

// View identifies which screen the application is showing.
type View string

const (
	ViewHome               View = "home"
	ViewMyTests            View = "my-tests"
	ViewTestProfileHub     View = "test-profile-hub"
	ViewQuiz               View = "quiz"
	ViewQuestionBank       View = "question-bank"
	ViewCreateEditQuestion View = "create-edit-question"
	ViewStats              View = "stats"
	ViewTestSettings       View = "test-settings"
	ViewGeneralSettings    View = "general-settings"
	ViewGamesHub           View = "games-hub"
	ViewWordle             View = "wordle-lv"
	ViewNumberCruncher     View = "number-cruncher"
	ViewDecksList          View = "flashcard-decks-list"
	ViewDeckHub            View = "flashcard-deck-hub"
	ViewCreateEditDeck     View = "flashcard-create-edit-deck"
	ViewCreateEditCard     View = "flashcard-create-edit-card"
	ViewStudyMode          View = "flashcard-study-mode"
	ViewArticlesList       View = "articles-list"
	ViewArticle            View = "article-view"
)

// AllViews lists every view the router accepts.
var AllViews = []View{
	ViewHome, ViewMyTests, ViewTestProfileHub, ViewQuiz, ViewQuestionBank,
	ViewCreateEditQuestion, ViewStats, ViewTestSettings, ViewGeneralSettings,
	ViewGamesHub, ViewWordle, ViewNumberCruncher, ViewDecksList, ViewDeckHub,
	ViewCreateEditDeck, ViewCreateEditCard, ViewStudyMode, ViewArticlesList,
	ViewArticle,
}

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	for _, known := range AllViews {
		if v == known {
			return true
		}
	}
	return false
}

// QuestionType distinguishes how a question is answered and scored.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	TrueFalse      QuestionType = "true-false"
	FillInTheBlank QuestionType = "fill-in-the-blank"
)

// Valid reports whether t is a recognized question type.
func (t QuestionType) Valid() bool {
	switch t {
	case MultipleChoice, TrueFalse, FillInTheBlank:
		return true
	}
	return false
}

// Canonical answer tokens for true/false questions. Stored instead of
// localized labels so a language switch between authoring and attempting
// never changes which option is correct.
const (
	AnswerTrue  = "true"
	AnswerFalse = "false"
)

// QuestionOption is one selectable answer.
type QuestionOption struct {
	Text     string  `json:"text"`
	ImageURL *string `json:"imageURL"`
}

// Question is one quiz item, owned by exactly one TestProfile.
type Question struct {
	ID                string           `json:"id"`
	Type              QuestionType     `json:"type"`
	Question          string           `json:"question"`
	Topic             string           `json:"topic,omitempty"`
	QuestionImageURL  *string          `json:"questionImageURL"`
	Options           []QuestionOption `json:"options"`
	CorrectOptionText string           `json:"correctOptionText"`
}

// Validate checks the per-type structural invariants.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("question text is empty")
	}
	switch q.Type {
	case MultipleChoice:
		if len(q.Options) < 2 {
			return fmt.Errorf("multiple-choice question needs at least 2 options, has %d", len(q.Options))
		}
		for _, opt := range q.Options {
			if opt.Text == q.CorrectOptionText {
				return nil
			}
		}
		return fmt.Errorf("correct answer %q does not match any option", q.CorrectOptionText)
	case TrueFalse:
		if q.CorrectOptionText != AnswerTrue && q.CorrectOptionText != AnswerFalse {
			return fmt.Errorf("true/false answer must be %q or %q, got %q", AnswerTrue, AnswerFalse, q.CorrectOptionText)
		}
	case FillInTheBlank:
		if strings.TrimSpace(q.CorrectOptionText) == "" {
			return fmt.Errorf("fill-in-the-blank question has no accepted answer")
		}
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	return nil
}

// NumberingStyle controls how answer options are prefixed during a quiz.
type NumberingStyle string

const (
	NumberingNumbers      NumberingStyle = "numbers"
	NumberingLettersUpper NumberingStyle = "letters_upper"
	NumberingLettersLower NumberingStyle = "letters_lower"
	NumberingNone         NumberingStyle = "none"
)

// OptionPrefix renders the prefix for the option at the given index.
func (s NumberingStyle) OptionPrefix(index int) string {
	switch s {
	case NumberingNumbers:
		return fmt.Sprintf("%d. ", index+1)
	case NumberingLettersUpper:
		return fmt.Sprintf("%c. ", 'A'+rune(index))
	case NumberingLettersLower:
		return fmt.Sprintf("%c. ", 'a'+rune(index))
	default:
		return ""
	}
}

// TestSettings is the per-profile quiz configuration.
type TestSettings struct {
	NumQuestions         int            `json:"numQuestions"`
	UseAllQuestions      bool           `json:"useAllQuestions"`
	RandomizeQuestions   bool           `json:"randomizeQuestions"`
	RandomizeAnswers     bool           `json:"randomizeAnswers"`
	AnswerNumberingStyle NumberingStyle `json:"answerNumberingStyle"`
	EnableTimer          bool           `json:"enableTimer"`
	TimerDurationMinutes int            `json:"timerDurationMinutes"`
}

// DefaultTestSettings returns the settings a new profile starts with.
func DefaultTestSettings() TestSettings {
	return TestSettings{
		NumQuestions:         10,
		UseAllQuestions:      true,
		RandomizeQuestions:   true,
		RandomizeAnswers:     true,
		AnswerNumberingStyle: NumberingNumbers,
		EnableTimer:          false,
		TimerDurationMinutes: 30,
	}
}

// HistoryEntry records one completed quiz attempt. Immutable once appended.
type HistoryEntry struct {
	Date             time.Time `json:"date"`
	Score            int       `json:"score"`
	TotalPossible    int       `json:"totalPossible"`
	Percentage       float64   `json:"percentage"`
	QuestionsInQuiz  int       `json:"questionsInQuiz"`
	TimeTakenSeconds *int      `json:"timeTakenSeconds"`
}

// TestProfile is a named container for one quiz subject.
type TestProfile struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Questions   []Question     `json:"questions"`
	Settings    TestSettings   `json:"settings"`
	History     []HistoryEntry `json:"history"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// NewTestProfile creates an empty profile with default settings.
func NewTestProfile(name string, now time.Time) TestProfile {
	return TestProfile{
		ID:        NewID(),
		Name:      name,
		Questions: []Question{},
		Settings:  DefaultTestSettings(),
		History:   []HistoryEntry{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Flashcard is one card in a deck.
type Flashcard struct {
	ID            string  `json:"id"`
	FrontText     string  `json:"frontText"`
	BackText      string  `json:"backText"`
	FrontImageURL *string `json:"frontImageURL,omitempty"`
	BackImageURL  *string `json:"backImageURL,omitempty"`
}

// FlashcardDeck owns an ordered list of cards.
type FlashcardDeck struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Flashcards  []Flashcard `json:"flashcards"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// NewFlashcardDeck creates an empty deck.
func NewFlashcardDeck(name string, now time.Time) FlashcardDeck {
	return FlashcardDeck{
		ID:         NewID(),
		Name:       name,
		Flashcards: []Flashcard{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ArticleBlockType identifies a content block kind.
type ArticleBlockType string

const (
	BlockParagraph ArticleBlockType = "paragraph"
	BlockHeading   ArticleBlockType = "heading"
	BlockImage     ArticleBlockType = "image"
)

// ArticleBlock is one block of article content.
type ArticleBlock struct {
	ID      string           `json:"id"`
	Type    ArticleBlockType `json:"type"`
	Text    string           `json:"text,omitempty"`
	Level   int              `json:"level,omitempty"`
	Src     string           `json:"src,omitempty"`
	Alt     string           `json:"alt,omitempty"`
	Caption string           `json:"caption,omitempty"`
}

// Article is a read-only content record.
type Article struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Excerpt    string         `json:"excerpt,omitempty"`
	CoverImage string         `json:"coverImage,omitempty"`
	Author     string         `json:"author,omitempty"`
	Category   string         `json:"category,omitempty"`
	Tags       []string       `json:"tags,omitempty"`
	Content    []ArticleBlock `json:"content"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// ArticleProgress records per-article read state, keyed by ArticleID.
// At most one record exists per article.
type ArticleProgress struct {
	ArticleID  string     `json:"articleId"`
	IsRead     bool       `json:"isRead"`
	LastReadAt *time.Time `json:"lastReadAt,omitempty"`
}

// GeneralSettings is the application-wide configuration slice.
type GeneralSettings struct {
	CurrentLanguage Language `json:"currentLanguage"`
	DarkMode        bool     `json:"darkMode"`
}

// DefaultGeneralSettings returns the documented defaults.
func DefaultGeneralSettings() GeneralSettings {
	return GeneralSettings{CurrentLanguage: DefaultLanguage, DarkMode: false}
}

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}
