package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"TechBriefing/internal/config"
	"TechBriefing/internal/ports"
)

func TestOpenAICompleterComplete(t *testing.T) {
	t.Parallel()

	var body struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1760860800,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Ana: Hello\nCarlos: Hi"}}]
		}`))
	}))
	defer server.Close()

	completer, err := NewOpenAICompleter(config.GeneratorConfig{
		APIKey:  "sk-test",
		Model:   "gpt-4o-mini",
		BaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("new completer: %v", err)
	}

	out, err := completer.Complete(context.Background(), ports.Prompt{System: "be brief", User: "topics"})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if out != "Ana: Hello\nCarlos: Hi" {
		t.Fatalf("unexpected output %q", out)
	}
	if body.Model != "gpt-4o-mini" || len(body.Messages) != 2 {
		t.Fatalf("unexpected request: %+v", body)
	}
	if body.Messages[0].Role != "system" || body.Messages[1].Content != "topics" {
		t.Fatalf("unexpected messages: %+v", body.Messages)
	}
}

func TestOpenAICompleterServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	completer, err := NewOpenAICompleter(config.GeneratorConfig{APIKey: "k", Model: "m", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new completer: %v", err)
	}
	if _, err := completer.Complete(context.Background(), ports.Prompt{User: "x"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNewOpenAICompleterRequiresKey(t *testing.T) {
	t.Parallel()

	if _, err := NewOpenAICompleter(config.GeneratorConfig{Model: "m"}); err == nil {
		t.Fatalf("expected missing key error")
	}
}
