// Package tts adapts speech-synthesis backends to ports.SpeechEngine.
package tts

import (
	"fmt"
	"strconv"
	"strings"
)

// SpeedFromRate converts an edge-style rate adjustment ("+5%", "-10%") into a
// speed multiplier (1.05, 0.9). An empty rate means normal speed.
func SpeedFromRate(rate string) (float64, error) {
	rate = strings.TrimSpace(rate)
	if rate == "" {
		return 1, nil
	}

	value := strings.TrimSuffix(rate, "%")
	if value == rate {
		return 0, fmt.Errorf("rate %q must be a percentage", rate)
	}

	pct, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parse rate %q: %w", rate, err)
	}

	speed := 1 + pct/100
	if speed <= 0 {
		return 0, fmt.Errorf("rate %q yields non-positive speed", rate)
	}
	return speed, nil
}
