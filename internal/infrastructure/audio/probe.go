package audio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ProbeDuration asks ffprobe for the container duration of path.
func ProbeDuration(ctx context.Context, run Runner, binary, path string) (time.Duration, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" {
		return 0, errors.New("ffprobe: empty path")
	}

	output, err := run(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-of", "json", "--", path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return parseProbeDuration(output)
}

func parseProbeDuration(output []byte) (time.Duration, error) {
	var result probeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return 0, fmt.Errorf("ffprobe parse: %w", err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(result.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration %q: %w", result.Format.Duration, err)
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("ffprobe duration %q is not positive", result.Format.Duration)
	}
	return time.Duration(seconds * float64(time.Second)).Round(time.Millisecond), nil
}

var progressTime = regexp.MustCompile(`time=(\d+):(\d{2}):(\d{2}(?:\.\d+)?)`)

// DecodedDuration decodes path to the null muxer and reads the last progress
// timestamp. Concatenated MP3 segments can carry a Xing/Info header that only
// describes the first segment, so the container duration is not trusted.
func DecodedDuration(ctx context.Context, run Runner, binary, path string) (time.Duration, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if strings.TrimSpace(path) == "" {
		return 0, errors.New("ffmpeg decode: empty path")
	}

	output, err := run(ctx, binary, "-hide_banner", "-nostdin", "-i", path, "-map", "0:a:0", "-f", "null", "-")
	if err != nil {
		return 0, fmt.Errorf("ffmpeg decode: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return parseDecodedDuration(output)
}

func parseDecodedDuration(output []byte) (time.Duration, error) {
	matches := progressTime.FindAllSubmatch(output, -1)
	if len(matches) == 0 {
		return 0, errors.New("ffmpeg decode: no progress time in output")
	}
	last := matches[len(matches)-1]

	hours, _ := strconv.Atoi(string(last[1]))
	minutes, _ := strconv.Atoi(string(last[2]))
	secs, err := strconv.ParseFloat(string(last[3]), 64)
	if err != nil {
		return 0, fmt.Errorf("ffmpeg decode time %q: %w", last[0], err)
	}

	total := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute +
		time.Duration(secs*float64(time.Second))
	if total <= 0 {
		return 0, fmt.Errorf("ffmpeg decode time %q is not positive", last[0])
	}
	return total.Round(time.Millisecond), nil
}
