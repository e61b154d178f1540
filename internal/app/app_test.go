package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"TechBriefing/internal/config"
	"TechBriefing/internal/logging"
)

func TestAcquireRefusesConcurrentRun(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run", "techbriefing.lock")
	first := &Application{lock: flock.New(path)}
	second := &Application{lock: flock.New(path)}

	unlock, err := first.acquire()
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	if _, err := second.acquire(); !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}

	unlock()

	unlockAgain, err := second.acquire()
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	unlockAgain()
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Config{}
	if _, err := New(context.Background(), cfg, logging.Discard()); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestNewMixerDisabled(t *testing.T) {
	t.Parallel()

	if m := newMixer(config.MixerConfig{Disabled: true}, logging.Discard()); m != nil {
		t.Fatalf("expected no mixer, got %T", m)
	}
	if m := newMixer(config.MixerConfig{CachePath: "bg.mp3"}, logging.Discard()); m == nil {
		t.Fatal("expected a mixer")
	}
}

func TestOpenStoreUsesSQLiteByDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Config{Storage: config.StorageConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "seen.db"),
	}}
	store, err := OpenStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close()

	if err := store.Add(context.Background(), "https://a"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	seen, err := store.Has(context.Background(), "https://a")
	if err != nil || !seen {
		t.Fatalf("expected link seen, got %v %v", seen, err)
	}
}
