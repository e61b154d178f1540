package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWithWriterPrefixesComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWithWriter(&buf, "cron")
	l.Printf("next run %s", "08:00")

	line := buf.String()
	if !strings.Contains(line, "[cron] next run 08:00") {
		t.Fatalf("unexpected log line %q", line)
	}
}
