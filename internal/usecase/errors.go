package usecase

import "errors"

// Stage failures. A run stops at the first of ErrGeneration,
// ErrNoSpeakableContent or ErrDelivery; ErrSourceFetch is only logged.
var (
	ErrSourceFetch        = errors.New("source fetch failed")
	ErrGeneration         = errors.New("script generation failed")
	ErrNoSpeakableContent = errors.New("no speakable content")
	ErrDelivery           = errors.New("delivery failed")
)
