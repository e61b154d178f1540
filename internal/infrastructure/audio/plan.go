package audio

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Timing holds the fixed mixing constants.
type Timing struct {
	GainDB       float64
	LoopMargin   time.Duration
	TrimMargin   time.Duration
	FadeIn       time.Duration
	FadeOut      time.Duration
	SpeechOffset time.Duration
}

// DefaultTiming returns the standard briefing mix constants.
func DefaultTiming() Timing {
	return Timing{
		GainDB:       -22,
		LoopMargin:   5000 * time.Millisecond,
		TrimMargin:   2000 * time.Millisecond,
		FadeIn:       2000 * time.Millisecond,
		FadeOut:      2000 * time.Millisecond,
		SpeechOffset: 1000 * time.Millisecond,
	}
}

// Plan is the resolved layout of one mix.
type Plan struct {
	Speech       time.Duration
	Background   time.Duration
	Loops        int
	Looped       time.Duration
	Length       time.Duration
	FadeIn       time.Duration
	FadeOut      time.Duration
	FadeOutStart time.Duration
	SpeechOffset time.Duration
	GainDB       float64
}

// NewPlan doubles the background until it covers speech plus the loop margin,
// then trims it to speech plus the trim margin.
func NewPlan(speech, background time.Duration, timing Timing) (Plan, error) {
	if speech <= 0 {
		return Plan{}, errors.New("speech duration must be positive")
	}
	if background <= 0 {
		return Plan{}, errors.New("background duration must be positive")
	}

	loops := 1
	for background*time.Duration(loops) < speech+timing.LoopMargin {
		loops *= 2
	}

	length := speech + timing.TrimMargin
	fadeIn := min(timing.FadeIn, length)
	fadeOut := min(timing.FadeOut, length)

	return Plan{
		Speech:       speech,
		Background:   background,
		Loops:        loops,
		Looped:       background * time.Duration(loops),
		Length:       length,
		FadeIn:       fadeIn,
		FadeOut:      fadeOut,
		FadeOutStart: length - fadeOut,
		SpeechOffset: timing.SpeechOffset,
		GainDB:       timing.GainDB,
	}, nil
}

// FilterGraph renders the plan as an ffmpeg filter_complex expression.
// Input 0 is the looped background, input 1 the speech.
func (p Plan) FilterGraph() string {
	delay := p.SpeechOffset.Milliseconds()

	background := []string{
		fmt.Sprintf("volume=%.1fdB", p.GainDB),
		fmt.Sprintf("atrim=duration=%s", seconds(p.Length)),
		"asetpts=PTS-STARTPTS",
		fmt.Sprintf("afade=t=in:st=0:d=%s", seconds(p.FadeIn)),
		fmt.Sprintf("afade=t=out:st=%s:d=%s", seconds(p.FadeOutStart), seconds(p.FadeOut)),
	}

	return fmt.Sprintf("[0:a]%s[bg];[1:a]adelay=%d:all=1[voice];[bg][voice]amix=inputs=2:duration=first:dropout_transition=0:normalize=0[out]",
		strings.Join(background, ","), delay)
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
