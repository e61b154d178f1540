package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"TechBriefing/internal/domain"
	"TechBriefing/internal/logging"
)

type pipelineFixture struct {
	fetcher   *fakeFetcher
	store     *memoryStore
	completer *fakeCompleter
	engine    *fakeEngine
	mixer     *fakeMixer
	messenger *fakeMessenger
}

func newPipelineFixture() *pipelineFixture {
	return &pipelineFixture{
		fetcher: &fakeFetcher{feeds: map[string][]domain.Item{
			"TechCrunch": {{Title: "X", Link: "https://techcrunch.com/a", SourceTag: "TechCrunch"}},
		}},
		store:     newMemoryStore(),
		completer: &fakeCompleter{reply: "Ana: one\nCarlos: two"},
		engine:    &fakeEngine{},
		mixer:     &fakeMixer{suffix: "+bg"},
		messenger: &fakeMessenger{},
	}
}

func (f *pipelineFixture) pipeline() *Pipeline {
	log := logging.Discard()
	return NewPipeline(PipelineDeps{
		Ingestor:       NewIngestor(f.fetcher, f.store, true, log),
		Writer:         NewScriptWriter(f.completer, testCast, ""),
		Assembler:      NewAssembler(f.engine, testCast, "+5%", log),
		Mixer:          f.mixer,
		Messenger:      f.messenger,
		Sources:        []domain.FeedSource{{Name: "TechCrunch"}},
		PerSourceLimit: 2,
		Delivery:       DeliveryMeta{CaptionHeader: "TECH UPDATE", Title: "Tech Briefing", Performer: "Ana & Carlos", FileName: "briefing.mp3"},
		Location:       time.UTC,
		Now:            func() time.Time { return time.Date(2026, 3, 7, 8, 0, 0, 0, time.UTC) },
		Logger:         log,
	})
}

func TestRunDeliversMixedBriefing(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture()
	report, err := f.pipeline().Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.RunID == "" || report.Items != 1 || report.Placeholder || report.Segments != 2 || !report.Mixed {
		t.Fatalf("unexpected report %+v", report)
	}
	if !report.TextDelivered || !report.AudioDelivered {
		t.Fatalf("expected both deliveries, got %+v", report)
	}

	if !strings.HasPrefix(f.messenger.texts[0], "TECH UPDATE - 07/03") || !strings.Contains(f.messenger.texts[0], "- [TechCrunch] X") {
		t.Fatalf("unexpected caption %q", f.messenger.texts[0])
	}
	audio := f.messenger.audios[0]
	if string(audio.Data) != "<one><two>+bg" || audio.Title != "Tech Briefing" || audio.Performer != "Ana & Carlos" {
		t.Fatalf("unexpected audio %+v", audio)
	}
	if audio.Caption != f.messenger.texts[0] {
		t.Fatalf("audio caption %q differs from text %q", audio.Caption, f.messenger.texts[0])
	}
	if _, ok := f.store.links["https://techcrunch.com/a"]; !ok {
		t.Fatal("expected link recorded")
	}
}

func TestRunAbortsBeforeSynthesisOnGenerationFailure(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture()
	f.completer.err = errors.New("model unavailable")

	_, err := f.pipeline().Run(context.Background())
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	if len(f.engine.calls) != 0 || f.mixer.calls != 0 || len(f.messenger.texts) != 0 {
		t.Fatal("no downstream stage may run after a generation failure")
	}
}

func TestRunStopsWhenNothingIsSpeakable(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture()
	f.completer.reply = "Narrator: nobody we know"

	_, err := f.pipeline().Run(context.Background())
	if !errors.Is(err, ErrNoSpeakableContent) {
		t.Fatalf("expected ErrNoSpeakableContent, got %v", err)
	}
	if f.mixer.calls != 0 || len(f.messenger.audios) != 0 {
		t.Fatal("mixer and delivery must be skipped")
	}
}

func TestRunUsesPlaceholderWhenNothingIsNew(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture()
	f.store = newMemoryStore("https://techcrunch.com/a")
	f.mixer.suffix = ""

	report, err := f.pipeline().Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.Placeholder || report.Mixed {
		t.Fatalf("unexpected report %+v", report)
	}
	if !strings.Contains(f.completer.prompt.User, "- Automation pipeline is running") {
		t.Fatalf("placeholder title missing from prompt: %s", f.completer.prompt.User)
	}
}

func TestRunReportsDeliveryFailure(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture()
	f.messenger.audioErr = errors.New("file too big")

	report, err := f.pipeline().Run(context.Background())
	if !errors.Is(err, ErrDelivery) {
		t.Fatalf("expected ErrDelivery, got %v", err)
	}
	if !report.TextDelivered || report.AudioDelivered {
		t.Fatalf("unexpected report %+v", report)
	}
}
