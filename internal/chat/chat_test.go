package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBuildSystemPrompt(t *testing.T) {
	prompt := buildSystemPrompt()
	if !strings.Contains(prompt, "study helper") {
		t.Error("prompt should frame the assistant as a study helper")
	}
	if !strings.Contains(prompt, "language the student writes in") {
		t.Error("prompt should pin the reply language to the student's")
	}
}

// Ask against a stub OpenAI-compatible endpoint: the history must arrive in
// order with the system prompt first, and the reply must come back verbatim.
func TestAskSendsHistoryInOrder(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Try spaced repetition."}}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key", "test-model")
	history := []Message{
		{Role: RoleUser, Content: "How do I memorize vocabulary?"},
		{Role: RoleAssistant, Content: "Flashcards help."},
	}
	reply, err := c.Ask(context.Background(), history, "How often should I review?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if reply != "Try spaced repetition." {
		t.Errorf("reply = %q", reply)
	}

	if got.Model != "test-model" {
		t.Errorf("model = %q, want test-model", got.Model)
	}
	if len(got.Messages) != 4 {
		t.Fatalf("sent %d messages, want 4 (system + 2 history + new)", len(got.Messages))
	}
	if got.Messages[0].Role != "system" {
		t.Errorf("first message role = %q, want system", got.Messages[0].Role)
	}
	if got.Messages[2].Role != "assistant" || got.Messages[2].Content != "Flashcards help." {
		t.Errorf("history out of order: %+v", got.Messages[2])
	}
	if got.Messages[3].Content != "How often should I review?" {
		t.Errorf("new message last, got %+v", got.Messages[3])
	}
}

func TestAskNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "k", "m")
	if _, err := c.Ask(context.Background(), nil, "hello"); err == nil {
		t.Fatal("expected an error for an empty choices list")
	}
}
