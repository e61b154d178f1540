package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"TechBriefing/internal/config"
	"TechBriefing/internal/ports"
)

const maxErrorBody = 1024

// Static errors.
var (
	ErrEndpointEmpty = errors.New("speech endpoint cannot be empty")
	ErrEmptyAudio    = errors.New("received empty audio data")
)

// Request is the JSON payload posted to a self-hosted speech service, e.g. an
// edge-tts HTTP wrapper.
type Request struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
	Rate  string `json:"rate,omitempty"`
}

// HTTPEngine posts utterances to a speech service and returns the audio body.
type HTTPEngine struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

var _ ports.SpeechEngine = (*HTTPEngine)(nil)

// NewHTTPEngine builds the engine from configuration.
func NewHTTPEngine(cfg config.SynthesisConfig) (*HTTPEngine, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, ErrEndpointEmpty
	}
	return &HTTPEngine{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: engineTimeout(cfg.TimeoutSeconds)},
	}, nil
}

// Synthesize sends one request per utterance.
func (e *HTTPEngine) Synthesize(ctx context.Context, text, voice, rate string) ([]byte, error) {
	body, err := json.Marshal(Request{Text: text, Voice: voice, Rate: rate})
	if err != nil {
		return nil, fmt.Errorf("marshal speech request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("speech service error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, ErrEmptyAudio
	}
	return audio, nil
}
