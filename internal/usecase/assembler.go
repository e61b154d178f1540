package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"TechBriefing/internal/dialogue"
	"TechBriefing/internal/domain"
	"TechBriefing/internal/ports"
)

// SpeechTrack is the concatenated speech plus what went into it.
type SpeechTrack struct {
	Audio    []byte
	Segments int
	Skipped  int
}

// Assembler synthesizes a script line by line with per-speaker voices.
type Assembler struct {
	engine ports.SpeechEngine
	cast   domain.Cast
	rate   string
	logger *slog.Logger
}

// NewAssembler wires the speech engine to the cast voice map.
func NewAssembler(engine ports.SpeechEngine, cast domain.Cast, rate string, log *slog.Logger) *Assembler {
	return &Assembler{engine: engine, cast: cast, rate: rate, logger: log}
}

// Synthesize renders every recognized line in script order and appends the
// encoded audio into one track. Calls to the engine are sequential.
func (a *Assembler) Synthesize(ctx context.Context, script string) (SpeechTrack, error) {
	lines := dialogue.Parse(script, a.cast)
	if len(lines) == 0 {
		return SpeechTrack{}, fmt.Errorf("%w: script has no recognized lines", ErrNoSpeakableContent)
	}

	var (
		track   bytes.Buffer
		result  SpeechTrack
		ordinal int
	)
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return SpeechTrack{}, err
		}

		voice := a.cast.Voice(line.Speaker)
		audio, err := a.engine.Synthesize(ctx, line.Utterance, voice, a.rate)
		if err != nil || len(audio) == 0 {
			result.Skipped++
			if a.logger != nil {
				a.logger.Warn("segment skipped", "speaker", line.Speaker, "voice", voice, "error", err)
			}
			continue
		}

		segment := domain.Segment{Ordinal: ordinal, Speaker: line.Speaker, Voice: voice, Audio: audio}
		track.Write(segment.Audio)
		if a.logger != nil {
			a.logger.Debug("segment appended", "ordinal", segment.Ordinal, "speaker", segment.Speaker, "bytes", len(segment.Audio), "track", track.Len())
		}
		ordinal++
	}

	if ordinal == 0 {
		return SpeechTrack{}, fmt.Errorf("%w: all %d segments failed", ErrNoSpeakableContent, len(lines))
	}

	result.Audio = track.Bytes()
	result.Segments = ordinal
	if a.logger != nil {
		a.logger.Info("speech assembled", "segments", result.Segments, "skipped", result.Skipped, "bytes", len(result.Audio))
	}
	return result, nil
}
