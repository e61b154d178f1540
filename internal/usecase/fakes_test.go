package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"TechBriefing/internal/domain"
	"TechBriefing/internal/ports"
)

type fakeFetcher struct {
	feeds map[string][]domain.Item
	fail  map[string]error
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, source domain.FeedSource, limit int) ([]domain.Item, error) {
	f.calls = append(f.calls, source.Name)
	if err := f.fail[source.Name]; err != nil {
		return nil, err
	}
	items := f.feeds[source.Name]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

type memoryStore struct {
	mu      sync.Mutex
	links   map[string]time.Time
	hasErr  error
	addErr  error
	hasHits int
}

func newMemoryStore(links ...string) *memoryStore {
	s := &memoryStore{links: make(map[string]time.Time)}
	for _, l := range links {
		s.links[l] = time.Now()
	}
	return s
}

func (s *memoryStore) Has(_ context.Context, link string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasHits++
	if s.hasErr != nil {
		return false, s.hasErr
	}
	_, ok := s.links[link]
	return ok, nil
}

func (s *memoryStore) Add(_ context.Context, link string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addErr != nil {
		return s.addErr
	}
	if _, ok := s.links[link]; !ok {
		s.links[link] = time.Now()
	}
	return nil
}

func (s *memoryStore) List(_ context.Context, limit int) ([]domain.SeenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]domain.SeenRecord, 0, len(s.links))
	for l, at := range s.links {
		records = append(records, domain.SeenRecord{Link: l, SeenAt: at})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Link < records[j].Link })
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *memoryStore) Close() error { return nil }

type fakeCompleter struct {
	reply  string
	err    error
	prompt ports.Prompt
	calls  int
}

func (f *fakeCompleter) Complete(_ context.Context, prompt ports.Prompt) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.reply, f.err
}

type synthCall struct {
	text  string
	voice string
	rate  string
}

type fakeEngine struct {
	calls  []synthCall
	failOn map[string]bool
}

func (f *fakeEngine) Synthesize(_ context.Context, text, voice, rate string) ([]byte, error) {
	f.calls = append(f.calls, synthCall{text: text, voice: voice, rate: rate})
	if f.failOn[text] {
		return nil, errors.New("engine unavailable")
	}
	return []byte("<" + text + ">"), nil
}

type fakeMixer struct {
	suffix string
	calls  int
}

func (f *fakeMixer) Mix(_ context.Context, speech []byte) []byte {
	f.calls++
	if f.suffix == "" {
		return speech
	}
	return append(append([]byte{}, speech...), f.suffix...)
}

type fakeMessenger struct {
	textErr  error
	audioErr error
	texts    []string
	audios   []ports.Audio
}

func (f *fakeMessenger) SendText(_ context.Context, text string) error {
	f.texts = append(f.texts, text)
	return f.textErr
}

func (f *fakeMessenger) SendAudio(_ context.Context, audio ports.Audio) error {
	f.audios = append(f.audios, audio)
	return f.audioErr
}

var testCast = domain.Cast{
	A: domain.Persona{Name: "Ana", Voice: "voice-a", Role: "senior analyst"},
	B: domain.Persona{Name: "Carlos", Voice: "voice-b", Role: "innovator"},
}
