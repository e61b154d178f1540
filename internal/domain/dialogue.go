package domain

import "fmt"

// Speaker identifies one of the two hosts of a briefing.
type Speaker int

const (
	SpeakerA Speaker = iota
	SpeakerB
)

func (s Speaker) String() string {
	switch s {
	case SpeakerA:
		return "A"
	case SpeakerB:
		return "B"
	default:
		return fmt.Sprintf("Speaker(%d)", int(s))
	}
}

// Persona binds a speaker to the name used in scripts and the engine voice.
type Persona struct {
	Name  string
	Voice string
	Role  string
}

// Cast is the fixed pair of hosts.
type Cast struct {
	A Persona
	B Persona
}

// Persona returns the persona playing the given speaker.
func (c Cast) Persona(s Speaker) Persona {
	if s == SpeakerB {
		return c.B
	}
	return c.A
}

// Voice returns the synthesis voice routed to the speaker.
func (c Cast) Voice(s Speaker) string {
	return c.Persona(s).Voice
}

// Line is one parsed utterance of the dialogue script.
type Line struct {
	Speaker   Speaker
	Utterance string
}

// Segment is the synthesized audio for one Line.
type Segment struct {
	Ordinal int
	Speaker Speaker
	Voice   string
	Audio   []byte
}
