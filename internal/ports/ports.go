package ports

import (
	"context"
	"time"

	"TechBriefing/internal/domain"
)

// FeedFetcher pulls the most recent entries of one feed, in feed order.
type FeedFetcher interface {
	Fetch(ctx context.Context, source domain.FeedSource, limit int) ([]domain.Item, error)
}

// SeenStore persists item identifiers that were already processed.
type SeenStore interface {
	Has(ctx context.Context, link string) (bool, error)
	Add(ctx context.Context, link string) error
	List(ctx context.Context, limit int) ([]domain.SeenRecord, error)
	Close() error
}

// Prompt is a system/user message pair sent to a text model.
type Prompt struct {
	System string
	User   string
}

// Completer runs one synchronous generation against an LLM provider.
type Completer interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// SpeechEngine turns one utterance into encoded audio.
type SpeechEngine interface {
	Synthesize(ctx context.Context, text, voice, rate string) ([]byte, error)
}

// Mixer lays the speech track over background music. Implementations must
// return the speech untouched when mixing is not possible.
type Mixer interface {
	Mix(ctx context.Context, speech []byte) []byte
}

// Audio is an outbound audio message.
type Audio struct {
	FileName  string
	Title     string
	Performer string
	Caption   string
	Data      []byte
}

// Messenger delivers briefings to a fixed chat.
type Messenger interface {
	SendText(ctx context.Context, text string) error
	SendAudio(ctx context.Context, audio Audio) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
