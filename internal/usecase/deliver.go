package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"TechBriefing/internal/ports"
)

// Delivery reports which of the two messages reached the chat.
type Delivery struct {
	Text  bool
	Audio bool
}

// Deliver sends the caption, then the audio. A failed text send does not
// prevent the audio attempt; all failures are joined under ErrDelivery.
func Deliver(ctx context.Context, messenger ports.Messenger, caption string, audio ports.Audio, log *slog.Logger) (Delivery, error) {
	var (
		result Delivery
		errs   []error
	)

	if messenger == nil {
		return result, fmt.Errorf("%w: no messenger configured", ErrDelivery)
	}

	if err := messenger.SendText(ctx, caption); err != nil {
		errs = append(errs, fmt.Errorf("send text: %w", err))
		if log != nil {
			log.Warn("caption not delivered", "error", err)
		}
	} else {
		result.Text = true
	}

	if err := messenger.SendAudio(ctx, audio); err != nil {
		errs = append(errs, fmt.Errorf("send audio: %w", err))
		if log != nil {
			log.Warn("audio not delivered", "error", err)
		}
	} else {
		result.Audio = true
	}

	if len(errs) > 0 {
		return result, fmt.Errorf("%w: %w", ErrDelivery, errors.Join(errs...))
	}
	return result, nil
}
