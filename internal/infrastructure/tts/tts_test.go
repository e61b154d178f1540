package tts

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"TechBriefing/internal/config"
)

func TestSpeedFromRate(t *testing.T) {
	t.Parallel()

	cases := map[string]float64{
		"":     1,
		"+5%":  1.05,
		"-10%": 0.9,
		"0%":   1,
	}
	for rate, want := range cases {
		got, err := SpeedFromRate(rate)
		if err != nil {
			t.Fatalf("SpeedFromRate(%q) error: %v", rate, err)
		}
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("SpeedFromRate(%q) = %v, want %v", rate, got, want)
		}
	}

	for _, bad := range []string{"fast", "5", "-100%"} {
		if _, err := SpeedFromRate(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestHTTPEngineSynthesize(t *testing.T) {
	t.Parallel()

	var got Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3-audio"))
	}))
	defer server.Close()

	engine, err := NewHTTPEngine(config.SynthesisConfig{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	audio, err := engine.Synthesize(context.Background(), "Hello there", "pt-BR-AntonioNeural", "+5%")
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}
	if string(audio) != "ID3-audio" {
		t.Fatalf("unexpected audio %q", audio)
	}
	if got.Text != "Hello there" || got.Voice != "pt-BR-AntonioNeural" || got.Rate != "+5%" {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestHTTPEngineErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "empty") {
			return
		}
		http.Error(w, "voice not found", http.StatusBadRequest)
	}))
	defer server.Close()

	engine, _ := NewHTTPEngine(config.SynthesisConfig{Endpoint: server.URL + "/speak"})
	if _, err := engine.Synthesize(context.Background(), "x", "v", ""); err == nil || !strings.Contains(err.Error(), "voice not found") {
		t.Fatalf("expected service error, got %v", err)
	}

	empty, _ := NewHTTPEngine(config.SynthesisConfig{Endpoint: server.URL + "/empty"})
	if _, err := empty.Synthesize(context.Background(), "x", "v", ""); !errors.Is(err, ErrEmptyAudio) {
		t.Fatalf("expected ErrEmptyAudio, got %v", err)
	}

	if _, err := NewHTTPEngine(config.SynthesisConfig{}); !errors.Is(err, ErrEndpointEmpty) {
		t.Fatalf("expected ErrEndpointEmpty, got %v", err)
	}
}

func TestOpenAIEngineSynthesize(t *testing.T) {
	t.Parallel()

	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio/speech") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	engine, err := NewOpenAIEngine(config.SynthesisConfig{APIKey: "k", Endpoint: server.URL, Model: "tts-1"})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	audio, err := engine.Synthesize(context.Background(), "Good morning", "nova", "+5%")
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Fatalf("unexpected audio %q", audio)
	}
	if payload["voice"] != "nova" || payload["input"] != "Good morning" || payload["model"] != "tts-1" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if speed, ok := payload["speed"].(float64); !ok || math.Abs(speed-1.05) > 1e-9 {
		t.Fatalf("unexpected speed %v", payload["speed"])
	}
}
