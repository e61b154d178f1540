package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"TechBriefing/internal/config"
	"TechBriefing/internal/ports"
)

// OpenAIEngine synthesizes MP3 speech through the OpenAI audio API.
type OpenAIEngine struct {
	client openai.Client
	model  string
}

var _ ports.SpeechEngine = (*OpenAIEngine)(nil)

// NewOpenAIEngine builds the engine from configuration.
func NewOpenAIEngine(cfg config.SynthesisConfig) (*OpenAIEngine, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai speech api key missing")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: engineTimeout(cfg.TimeoutSeconds)}),
		option.WithMaxRetries(0),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}

	model := cfg.Model
	if model == "" {
		model = string(openai.SpeechModelTTS1)
	}
	return &OpenAIEngine{client: openai.NewClient(opts...), model: model}, nil
}

// Synthesize returns the encoded audio for one utterance.
func (e *OpenAIEngine) Synthesize(ctx context.Context, text, voice, rate string) ([]byte, error) {
	speed, err := SpeedFromRate(rate)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(e.model),
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoice(voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
		Speed:          openai.Float(speed),
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read speech body: %w", err)
	}
	if len(audio) == 0 {
		return nil, errors.New("openai speech: empty audio")
	}
	return audio, nil
}

func engineTimeout(seconds int) time.Duration {
	if seconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(seconds) * time.Second
}
