package usecase

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"TechBriefing/internal/domain"
	"TechBriefing/internal/ports"
)

// DeliveryMeta describes the outbound audio message.
type DeliveryMeta struct {
	CaptionHeader string
	Title         string
	Performer     string
	FileName      string
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Ingestor       *Ingestor
	Writer         *ScriptWriter
	Assembler      *Assembler
	Mixer          ports.Mixer
	Messenger      ports.Messenger
	Sources        []domain.FeedSource
	PerSourceLimit int
	Delivery       DeliveryMeta
	Location       *time.Location
	Now            func() time.Time
	Logger         *slog.Logger
}

// Report summarises one run.
type Report struct {
	RunID          string
	Items          int
	Placeholder    bool
	Segments       int
	SkippedLines   int
	SpeechBytes    int
	ArtifactBytes  int
	Mixed          bool
	TextDelivered  bool
	AudioDelivered bool
}

// Pipeline runs collect, generate, synthesize, mix and deliver once.
type Pipeline struct {
	ingestor  *Ingestor
	writer    *ScriptWriter
	assembler *Assembler
	mixer     ports.Mixer
	messenger ports.Messenger
	sources   []domain.FeedSource
	limit     int
	delivery  DeliveryMeta
	location  *time.Location
	now       func() time.Time
	logger    *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	location := deps.Location
	if location == nil {
		location = time.Local
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		ingestor:  deps.Ingestor,
		writer:    deps.Writer,
		assembler: deps.Assembler,
		mixer:     deps.Mixer,
		messenger: deps.Messenger,
		sources:   deps.Sources,
		limit:     deps.PerSourceLimit,
		delivery:  deps.Delivery,
		location:  location,
		now:       now,
		logger:    log,
	}
}

// Run executes one briefing. The returned error wraps ErrGeneration,
// ErrNoSpeakableContent or ErrDelivery when a stage aborts the run.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	report := Report{RunID: uuid.NewString()}
	log := p.logger.With("run_id", report.RunID)
	started := p.now()
	log.Info("run started", "sources", len(p.sources))

	items := p.ingestor.Collect(ctx, p.sources, p.limit)
	report.Items = len(items)
	report.Placeholder = len(items) == 1 && items[0].IsPlaceholder()

	script, err := p.writer.Generate(ctx, items)
	if err != nil {
		log.Error("generation failed", "error", err)
		return report, err
	}

	track, err := p.assembler.Synthesize(ctx, script)
	if err != nil {
		log.Error("synthesis produced nothing", "error", err)
		return report, err
	}
	report.Segments = track.Segments
	report.SkippedLines = track.Skipped
	report.SpeechBytes = len(track.Audio)

	artifact := track.Audio
	if p.mixer != nil {
		artifact = p.mixer.Mix(ctx, track.Audio)
		report.Mixed = !bytes.Equal(artifact, track.Audio)
	}
	report.ArtifactBytes = len(artifact)

	caption := FormatCaption(p.delivery.CaptionHeader, p.now().In(p.location), items)
	delivered, err := Deliver(ctx, p.messenger, caption, ports.Audio{
		FileName:  p.delivery.FileName,
		Title:     p.delivery.Title,
		Performer: p.delivery.Performer,
		Caption:   caption,
		Data:      artifact,
	}, log)
	report.TextDelivered = delivered.Text
	report.AudioDelivered = delivered.Audio
	if err != nil {
		log.Error("delivery failed", "error", err)
		return report, err
	}

	log.Info("run finished",
		"items", report.Items,
		"placeholder", report.Placeholder,
		"segments", report.Segments,
		"mixed", report.Mixed,
		"bytes", report.ArtifactBytes,
		"elapsed", p.now().Sub(started).Round(time.Millisecond),
	)
	return report, nil
}
