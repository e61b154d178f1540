package usecase

import (
	"context"
	"fmt"
	"strings"

	"TechBriefing/internal/domain"
	"TechBriefing/internal/ports"
)

// ScriptWriter asks the text model for a two-host dialogue about the items.
type ScriptWriter struct {
	completer  ports.Completer
	cast       domain.Cast
	guidelines string
}

// NewScriptWriter binds the completer to the cast and tone guidelines.
func NewScriptWriter(completer ports.Completer, cast domain.Cast, guidelines string) *ScriptWriter {
	return &ScriptWriter{completer: completer, cast: cast, guidelines: guidelines}
}

// Generate returns the raw script. The text is not validated here.
func (w *ScriptWriter) Generate(ctx context.Context, items []domain.Item) (string, error) {
	if w.completer == nil {
		return "", fmt.Errorf("%w: no completer configured", ErrGeneration)
	}

	script, err := w.completer.Complete(ctx, BuildPrompt(w.cast, w.guidelines, items))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if strings.TrimSpace(script) == "" {
		return "", fmt.Errorf("%w: empty reply", ErrGeneration)
	}
	return script, nil
}

// BuildPrompt lists every item title and pins the "Name: line" format.
func BuildPrompt(cast domain.Cast, guidelines string, items []domain.Item) ports.Prompt {
	a, b := cast.A, cast.B

	system := fmt.Sprintf(
		"You are a senior scriptwriter. Write a short dialogue between %s (%s) and %s (%s).",
		a.Name, a.Role, b.Name, b.Role,
	)

	var user strings.Builder
	user.WriteString("Topics:\n")
	for _, item := range items {
		fmt.Fprintf(&user, "- %s\n", item.Title)
	}
	if g := strings.TrimSpace(guidelines); g != "" {
		fmt.Fprintf(&user, "\nGuidelines: %s\n", g)
	}
	user.WriteString("\nWrite every line as \"Name: utterance\" with no other text. Format:\n")
	fmt.Fprintf(&user, "%s: [line]\n%s: [line]\n", a.Name, b.Name)

	return ports.Prompt{System: system, User: user.String()}
}
