package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"TechBriefing/internal/config"
	"TechBriefing/internal/infrastructure/audio"
	"TechBriefing/internal/infrastructure/feed"
	"TechBriefing/internal/infrastructure/llm"
	"TechBriefing/internal/infrastructure/scheduler"
	"TechBriefing/internal/infrastructure/storage"
	"TechBriefing/internal/infrastructure/telegram"
	"TechBriefing/internal/infrastructure/tts"
	"TechBriefing/internal/logging"
	"TechBriefing/internal/ports"
	"TechBriefing/internal/usecase"
)

// ErrRunInProgress is returned when another process holds the run lock.
var ErrRunInProgress = errors.New("another run is in progress")

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	store    ports.SeenStore
	pipeline *usecase.Pipeline
	lock     *flock.Flock
	closers  []io.Closer
}

// New validates the configuration and builds every adapter of the pipeline.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open seen store: %w", err)
	}
	a := &Application{
		cfg:     cfg,
		logger:  baseLogger,
		store:   store,
		lock:    flock.New(cfg.Paths.LockFile),
		closers: []io.Closer{store},
	}

	completer, err := a.newCompleter(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	engine, err := newSpeechEngine(cfg.Synthesis)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	if !cfg.Storage.RecordSeen {
		baseLogger.Warn("seen-set recording is disabled; items will repeat until storage.recordSeen is enabled")
	}

	cast := cfg.Speakers.Cast()
	fetcher := feed.NewFetcher(
		&http.Client{Timeout: seconds(cfg.Feeds.TimeoutSeconds, 20)},
		cfg.Feeds.UserAgent,
		baseLogger.With("component", "feed"),
	)

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Ingestor:       usecase.NewIngestor(fetcher, store, cfg.Storage.RecordSeen, baseLogger.With("component", "ingest")),
		Writer:         usecase.NewScriptWriter(completer, cast, cfg.Generator.Guidelines),
		Assembler:      usecase.NewAssembler(engine, cast, cfg.Synthesis.Rate, baseLogger.With("component", "assembler")),
		Mixer:          newMixer(cfg.Mixer, baseLogger.With("component", "mixer")),
		Messenger:      telegram.NewMessenger(cfg.Telegram.APIBaseURL, cfg.Telegram.BotToken, cfg.Telegram.ChatID, seconds(cfg.Telegram.TimeoutSeconds, 60)),
		Sources:        cfg.Feeds.DomainSources(),
		PerSourceLimit: cfg.Feeds.PerSourceLimit,
		Delivery: usecase.DeliveryMeta{
			CaptionHeader: cfg.Telegram.CaptionHeader,
			Title:         cfg.Telegram.AudioTitle,
			Performer:     cfg.Telegram.Performer,
			FileName:      "briefing.mp3",
		},
		Location: cfg.Scheduler.Location(),
		Logger:   baseLogger.With("component", "pipeline"),
	})

	return a, nil
}

// OpenStore opens only the seen store, for maintenance commands.
func OpenStore(ctx context.Context, cfg config.Config) (ports.SeenStore, error) {
	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open seen store: %w", err)
	}
	return store, nil
}

// Run performs one pipeline execution under the process-wide run lock.
func (a *Application) Run(ctx context.Context) (usecase.Report, error) {
	if a.pipeline == nil {
		return usecase.Report{}, errors.New("application not initialised")
	}

	unlock, err := a.acquire()
	if err != nil {
		return usecase.Report{}, err
	}
	defer unlock()

	return a.pipeline.Run(ctx)
}

// Schedule runs the pipeline on the configured cron expression until ctx is
// cancelled.
func (a *Application) Schedule(ctx context.Context) error {
	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
	if next, err := driver.Next(time.Now()); err == nil {
		a.logger.Info("scheduler started", "cron", a.cfg.Scheduler.CronExpression, "timezone", a.cfg.Scheduler.Timezone, "next", next)
	}

	sched := usecase.NewScheduler(driver, a.Run, a.logger.With("component", "scheduler"))
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return sched.Stop(stopCtx)
}

// Store exposes the seen store used by the pipeline.
func (a *Application) Store() ports.SeenStore {
	return a.store
}

// Close releases every adapter holding resources.
func (a *Application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *Application) acquire() (func(), error) {
	if a.lock == nil {
		return func() {}, nil
	}
	if dir := filepath.Dir(a.lock.Path()); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create lock dir: %w", err)
		}
	}

	locked, err := a.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (lock %s)", ErrRunInProgress, a.lock.Path())
	}
	return func() { _ = a.lock.Unlock() }, nil
}

func (a *Application) newCompleter(ctx context.Context) (ports.Completer, error) {
	switch a.cfg.Generator.Provider {
	case config.ProviderOpenAI:
		return llm.NewOpenAICompleter(a.cfg.Generator)
	case config.ProviderGemini:
		completer, err := llm.NewGeminiCompleter(ctx, a.cfg.Generator)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, completer)
		return completer, nil
	default:
		return nil, fmt.Errorf("unknown generator provider %q", a.cfg.Generator.Provider)
	}
}

func newSpeechEngine(cfg config.SynthesisConfig) (ports.SpeechEngine, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return tts.NewOpenAIEngine(cfg)
	case config.ProviderHTTP:
		return tts.NewHTTPEngine(cfg)
	default:
		return nil, fmt.Errorf("unknown synthesis provider %q", cfg.Provider)
	}
}

func newMixer(cfg config.MixerConfig, log *slog.Logger) ports.Mixer {
	if cfg.Disabled {
		log.Info("background mixing disabled")
		return nil
	}

	timing := audio.Timing{
		GainDB:       cfg.GainDB,
		LoopMargin:   time.Duration(cfg.LoopMarginMS) * time.Millisecond,
		TrimMargin:   time.Duration(cfg.TrimMarginMS) * time.Millisecond,
		FadeIn:       time.Duration(cfg.FadeInMS) * time.Millisecond,
		FadeOut:      time.Duration(cfg.FadeOutMS) * time.Millisecond,
		SpeechOffset: time.Duration(cfg.SpeechOffsetMS) * time.Millisecond,
	}
	background := audio.NewBackground(cfg.BackgroundURL, cfg.CachePath, seconds(cfg.TimeoutSeconds, 60), log)
	return audio.NewMixer(background, timing, log, audio.WithBinaries(cfg.FFmpeg, cfg.FFprobe))
}

func seconds(value, fallback int) time.Duration {
	if value <= 0 {
		value = fallback
	}
	return time.Duration(value) * time.Second
}
