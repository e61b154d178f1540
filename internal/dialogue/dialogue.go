// Package dialogue turns generated script text into speaker-tagged lines.
package dialogue

import (
	"regexp"
	"strings"

	"TechBriefing/internal/domain"
)

var (
	stageDirections = regexp.MustCompile(`\(.*?\)`)
	emphasis        = strings.NewReplacer("*", "", "#", "")
)

// Parse classifies every line of the script and keeps the recognized ones in
// script order.
func Parse(script string, cast domain.Cast) []domain.Line {
	var lines []domain.Line
	for _, raw := range strings.Split(script, "\n") {
		if line, ok := Classify(raw, cast); ok {
			lines = append(lines, line)
		}
	}
	return lines
}

// Classify matches a raw line against the "<Name>:" prefixes of the cast.
// Lines without a known prefix, or whose utterance is empty once cleaned,
// are rejected.
func Classify(raw string, cast domain.Cast) (domain.Line, bool) {
	line := strings.TrimSpace(emphasis.Replace(raw))
	if line == "" {
		return domain.Line{}, false
	}

	for _, speaker := range []domain.Speaker{domain.SpeakerA, domain.SpeakerB} {
		name := cast.Persona(speaker).Name
		if name == "" || !strings.HasPrefix(line, name+":") {
			continue
		}

		_, rest, _ := strings.Cut(line, ":")
		utterance := CleanUtterance(rest)
		if utterance == "" {
			return domain.Line{}, false
		}
		return domain.Line{Speaker: speaker, Utterance: utterance}, true
	}

	return domain.Line{}, false
}

// CleanUtterance drops parenthetical stage directions and emphasis markup.
func CleanUtterance(text string) string {
	text = stageDirections.ReplaceAllString(text, "")
	text = emphasis.Replace(text)
	return strings.TrimSpace(text)
}
