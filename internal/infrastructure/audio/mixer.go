package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"TechBriefing/internal/ports"
)

const filePermissions = 0o600

// Errors absorbed by the mixer and reported in its logs.
var (
	ErrBackgroundFetch = errors.New("background fetch failed")
	ErrMix             = errors.New("mix failed")
)

// Mixer overlays speech on the looped, faded background with ffmpeg.
type Mixer struct {
	background *Background
	timing     Timing
	ffmpeg     string
	ffprobe    string
	run        Runner
	logger     *slog.Logger
}

var _ ports.Mixer = (*Mixer)(nil)

// MixerOption customises a Mixer.
type MixerOption func(*Mixer)

// WithRunner replaces the command runner.
func WithRunner(run Runner) MixerOption {
	return func(m *Mixer) { m.run = run }
}

// WithBinaries sets the ffmpeg and ffprobe executables.
func WithBinaries(ffmpeg, ffprobe string) MixerOption {
	return func(m *Mixer) {
		if ffmpeg != "" {
			m.ffmpeg = ffmpeg
		}
		if ffprobe != "" {
			m.ffprobe = ffprobe
		}
	}
}

// NewMixer builds a mixer over the given background source.
func NewMixer(background *Background, timing Timing, log *slog.Logger, opts ...MixerOption) *Mixer {
	m := &Mixer{
		background: background,
		timing:     timing,
		ffmpeg:     "ffmpeg",
		ffprobe:    "ffprobe",
		run:        ExecRunner,
		logger:     log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mix returns the final artifact, or speech unchanged when mixing fails.
func (m *Mixer) Mix(ctx context.Context, speech []byte) []byte {
	if len(speech) == 0 || m.background == nil {
		return speech
	}

	bgPath, err := m.background.Resolve(ctx)
	if err != nil {
		m.warn("background unavailable, sending speech only", "error", err)
		return speech
	}

	mixed, err := m.render(ctx, speech, bgPath)
	if err != nil {
		m.warn("mixing failed, sending speech only", "error", err)
		return speech
	}
	return mixed
}

func (m *Mixer) render(ctx context.Context, speech []byte, bgPath string) ([]byte, error) {
	workDir, err := os.MkdirTemp("", "techbriefing-mix-*")
	if err != nil {
		return nil, fmt.Errorf("%w: temp dir: %v", ErrMix, err)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	speechPath := filepath.Join(workDir, "speech.mp3")
	if err := os.WriteFile(speechPath, speech, filePermissions); err != nil {
		return nil, fmt.Errorf("%w: write speech: %v", ErrMix, err)
	}

	speechDur, err := DecodedDuration(ctx, m.run, m.ffmpeg, speechPath)
	if err != nil {
		return nil, fmt.Errorf("%w: measure speech: %v", ErrMix, err)
	}
	bgDur, err := ProbeDuration(ctx, m.run, m.ffprobe, bgPath)
	if err != nil {
		return nil, fmt.Errorf("%w: probe background: %v", ErrMix, err)
	}

	plan, err := NewPlan(speechDur, bgDur, m.timing)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMix, err)
	}

	outPath := filepath.Join(workDir, "final.mp3")
	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-stream_loop", strconv.Itoa(plan.Loops - 1), "-i", bgPath,
		"-i", speechPath,
		"-filter_complex", plan.FilterGraph(),
		"-map", "[out]",
		"-c:a", "libmp3lame", "-b:a", "192k",
		outPath,
	}

	if m.logger != nil {
		m.logger.Debug("mixing background",
			"speech", plan.Speech,
			"background", plan.Background,
			"loops", plan.Loops,
			"length", plan.Length,
		)
	}

	if output, err := m.run(ctx, m.ffmpeg, args...); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg: %v: %s", ErrMix, err, strings.TrimSpace(string(output)))
	}

	mixed, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read output: %v", ErrMix, err)
	}
	if len(mixed) == 0 {
		return nil, fmt.Errorf("%w: empty output", ErrMix)
	}
	return mixed, nil
}

func (m *Mixer) warn(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Warn(msg, args...)
	}
}
