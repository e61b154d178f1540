package audio

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestProbeDuration(t *testing.T) {
	t.Parallel()

	var gotName string
	var gotArgs []string
	run := func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		return []byte(`{"format":{"duration":"12.345678"}}`), nil
	}

	d, err := ProbeDuration(context.Background(), run, "", "/tmp/speech.mp3")
	if err != nil {
		t.Fatalf("ProbeDuration: %v", err)
	}
	if d != 12346*time.Millisecond {
		t.Fatalf("unexpected duration %s", d)
	}
	if gotName != "ffprobe" {
		t.Fatalf("expected default binary, got %q", gotName)
	}
	if gotArgs[len(gotArgs)-1] != "/tmp/speech.mp3" {
		t.Fatalf("path not passed last: %v", gotArgs)
	}
}

func TestProbeDurationErrors(t *testing.T) {
	t.Parallel()

	failing := func(context.Context, string, ...string) ([]byte, error) {
		return []byte("boom"), errors.New("exit status 1")
	}
	if _, err := ProbeDuration(context.Background(), failing, "ffprobe", "x.mp3"); err == nil {
		t.Fatal("expected runner error")
	}

	for _, body := range []string{`not json`, `{"format":{"duration":"N/A"}}`, `{"format":{"duration":"0"}}`} {
		if _, err := parseProbeDuration([]byte(body)); err == nil {
			t.Fatalf("expected error for %s", body)
		}
	}
}

func TestDecodedDuration(t *testing.T) {
	t.Parallel()

	var gotName string
	var gotArgs []string
	run := func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		out := "Input #0, mp3, from 'speech.mp3':\n  Duration: 00:00:02.02, start: 0.000000\n" +
			"size=N/A time=00:00:30.00 bitrate=N/A\rsize=N/A time=00:01:05.43 bitrate=N/A speed=120x\n"
		return []byte(out), nil
	}

	d, err := DecodedDuration(context.Background(), run, "", "/tmp/speech.mp3")
	if err != nil {
		t.Fatalf("DecodedDuration: %v", err)
	}
	if d != 65430*time.Millisecond {
		t.Fatalf("expected last progress time, got %s", d)
	}
	if gotName != "ffmpeg" {
		t.Fatalf("expected default binary, got %q", gotName)
	}
	if gotArgs[len(gotArgs)-1] != "-" {
		t.Fatalf("expected null output, got %v", gotArgs)
	}
}

func TestParseDecodedDurationErrors(t *testing.T) {
	t.Parallel()

	for _, out := range []string{"", "Duration: 00:00:02.00", "size=N/A time=00:00:00.00 bitrate=N/A"} {
		if _, err := parseDecodedDuration([]byte(out)); err == nil {
			t.Fatalf("expected error for %q", out)
		}
	}
}
