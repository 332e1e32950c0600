package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidImport rejects an entire question-bank import. The JSON import
// path is all-or-nothing: one bad question fails the whole batch.
var ErrInvalidImport = errors.New("invalid question import")

// ExportQuestions serializes a question list as indented JSON, the exact
// shape ImportQuestions accepts back.
func ExportQuestions(questions []Question) ([]byte, error) {
	data, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal questions: %w", err)
	}
	return data, nil
}

// ImportQuestions parses and validates an exported question list. Every
// question is checked field by field; any failure rejects the batch so a
// profile's question bank is never partially replaced.
func ImportQuestions(data []byte) ([]Question, error) {
	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("%w: parse JSON: %v", ErrInvalidImport, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions in file", ErrInvalidImport)
	}
	for i, q := range questions {
		if err := validateImported(q); err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", ErrInvalidImport, i+1, err)
		}
	}
	return questions, nil
}

func validateImported(q Question) error {
	if strings.TrimSpace(q.ID) == "" {
		return fmt.Errorf("missing id")
	}
	if !q.Type.Valid() {
		return fmt.Errorf("unrecognized type %q", q.Type)
	}
	if q.Type == MultipleChoice && q.Options == nil {
		return fmt.Errorf("options array is missing")
	}
	if strings.TrimSpace(q.CorrectOptionText) == "" {
		return fmt.Errorf("correctOptionText is missing")
	}
	return q.Validate()
}
