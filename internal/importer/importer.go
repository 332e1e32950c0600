// Package importer converts user-supplied tabular data into question
// records. Parsing is row-granular: a bad row is collected as an error and
// the rest of the batch still imports, unlike the all-or-nothing JSON path
// in the model package.
package importer

import (
	"fmt"
	"strings"

	"github.com/kasitis/tests1/internal/model"
)

// MaxOptions is how many option columns a mapping may bind.
const MaxOptions = 6

// MaxDisplayedErrors caps how many row errors are surfaced to the user;
// the rest are summarized with an overflow count.
const MaxDisplayedErrors = 10

// Application field keys a spreadsheet column can be mapped to.
const (
	FieldQuestion      = "question"
	FieldType          = "type"
	FieldTopic         = "topic"
	FieldCorrectAnswer = "correctAnswer"
)

// OptionField returns the key for the n-th option column (1-based).
func OptionField(n int) string {
	return fmt.Sprintf("option%d", n)
}

// Fields lists every mappable field key in display order.
func Fields() []string {
	keys := []string{FieldQuestion, FieldType, FieldTopic, FieldCorrectAnswer}
	for i := 1; i <= MaxOptions; i++ {
		keys = append(keys, OptionField(i))
	}
	return keys
}

// RowError describes why one data row was rejected. Reason is a translation
// key from the importReason* family.
type RowError struct {
	Row    int    // 1-based data row number (excluding the header)
	Reason string // translation key
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// Labels are the localized true/false display texts accepted in the
// correct-answer column alongside the canonical "true"/"false".
type Labels struct {
	True  string
	False string
}

// MapRows converts data rows into questions using a field-to-header
// mapping. Fresh IDs are generated; rejected rows are reported per row and
// never abort the batch.
func MapRows(headers []string, rows [][]string, mapping map[string]string, labels Labels) ([]model.Question, []RowError) {
	colIndex := make(map[string]int, len(mapping))
	for field, header := range mapping {
		if header == "" {
			continue
		}
		for i, h := range headers {
			if h == header {
				colIndex[field] = i
				break
			}
		}
	}

	cell := func(row []string, field string) string {
		i, ok := colIndex[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var questions []model.Question
	var errs []RowError
	for n, row := range rows {
		rowNum := n + 1

		text := cell(row, FieldQuestion)
		if text == "" {
			errs = append(errs, RowError{Row: rowNum, Reason: "importReasonNoQuestion"})
			continue
		}

		qType := inferType(cell(row, FieldType))
		correct := cell(row, FieldCorrectAnswer)

		var options []model.QuestionOption
		for i := 1; i <= MaxOptions; i++ {
			if opt := cell(row, OptionField(i)); opt != "" {
				options = append(options, model.QuestionOption{Text: opt})
			}
		}

		q := model.Question{
			ID:       model.NewID(),
			Type:     qType,
			Question: text,
			Topic:    cell(row, FieldTopic),
			Options:  options,
		}

		switch qType {
		case model.MultipleChoice:
			if len(options) < 2 {
				errs = append(errs, RowError{Row: rowNum, Reason: "importReasonTooFewOptions"})
				continue
			}
			if !hasOption(options, correct) {
				errs = append(errs, RowError{Row: rowNum, Reason: "importReasonNoMatchingOption"})
				continue
			}
			q.CorrectOptionText = correct
		case model.TrueFalse:
			token, ok := trueFalseToken(correct, labels)
			if !ok {
				errs = append(errs, RowError{Row: rowNum, Reason: "importReasonBadTrueFalse"})
				continue
			}
			q.Options = nil
			q.CorrectOptionText = token
		case model.FillInTheBlank:
			if correct == "" {
				errs = append(errs, RowError{Row: rowNum, Reason: "importReasonNoFillAnswer"})
				continue
			}
			q.Options = nil
			q.CorrectOptionText = correct
		}

		questions = append(questions, q)
	}
	return questions, errs
}

func hasOption(options []model.QuestionOption, text string) bool {
	for _, o := range options {
		if o.Text == text {
			return true
		}
	}
	return false
}

// trueFalseToken normalizes a spreadsheet true/false value to the canonical
// stored token. It accepts the English words and the localized labels,
// case-insensitively.
func trueFalseToken(value string, labels Labels) (string, bool) {
	switch {
	case strings.EqualFold(value, model.AnswerTrue),
		labels.True != "" && strings.EqualFold(value, labels.True):
		return model.AnswerTrue, true
	case strings.EqualFold(value, model.AnswerFalse),
		labels.False != "" && strings.EqualFold(value, labels.False):
		return model.AnswerFalse, true
	}
	return "", false
}

// inferType maps a free-text type cell to a question type. Unrecognized
// values default to multiple choice.
func inferType(value string) model.QuestionType {
	switch simplify(value) {
	case "truefalse", "tf", "patiessaplams", "truthfalse":
		return model.TrueFalse
	case "fillintheblank", "fillin", "fill", "blank", "text":
		return model.FillInTheBlank
	case "multiplechoice", "mc", "choice", "multi":
		return model.MultipleChoice
	}
	return model.MultipleChoice
}

// AutoMap pre-fills a mapping by fuzzy-matching headers against field keys
// and their common aliases, the way the mapping dialog pre-selects columns.
func AutoMap(headers []string) map[string]string {
	aliases := map[string][]string{
		FieldQuestion:      {"question", "questiontext", "jautajums"},
		FieldType:          {"type", "questiontype", "tips"},
		FieldTopic:         {"topic", "category", "tema"},
		FieldCorrectAnswer: {"correctanswer", "correct", "answer", "pareizaatbilde"},
	}
	for i := 1; i <= MaxOptions; i++ {
		key := OptionField(i)
		aliases[key] = []string{key, fmt.Sprintf("answer%d", i), fmt.Sprintf("variant%d", i)}
	}

	mapping := make(map[string]string, len(Fields()))
	for _, field := range Fields() {
		mapping[field] = ""
		for _, header := range headers {
			if matchesField(header, field, aliases[field]) {
				mapping[field] = header
				break
			}
		}
	}
	return mapping
}

func matchesField(header, field string, aliases []string) bool {
	h := simplify(header)
	if h == "" {
		return false
	}
	if h == simplify(field) {
		return true
	}
	for _, a := range aliases {
		if strings.Contains(h, a) || strings.Contains(a, h) {
			return true
		}
	}
	return false
}

// simplify lowercases and strips everything but letters and digits so
// "Correct Answer", "correct_answer" and "correctAnswer" all compare equal.
func simplify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
