package game

import (
	"time"

	"github.com/tomz197/letterfall/internal/layout"
)

// Phase is the lifecycle stage of a game.
type Phase int

const (
	PhaseIdle    Phase = iota // Not started, or waiting for a restart
	PhaseRunning              // Letters spawn and fall
	PhaseOver                 // Too many mistakes; only a restart resumes play
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase name for JSON frames.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Letter is a single falling letter.
// X is the left edge, Y the top edge, both in logical pixels.
type Letter struct {
	ID       uint64  `json:"id"`
	Char     rune    `json:"-"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Velocity float64 `json:"-"` // Logical pixels per reference frame, fixed at spawn
}

// KeyResult reports what a key press did.
type KeyResult int

const (
	KeyIgnored  KeyResult = iota // Game over; the press was discarded
	KeyNoTarget                  // No letter on screen
	KeyHit                       // Matched the nearest letter
	KeyWrong                     // Did not match; counted as a mistake
)

// EventType identifies an engine event.
type EventType int

const (
	EventStarted EventType = iota
	EventSpawned
	EventHit
	EventWrong
	EventMissed
	EventSpeedUp
	EventGameOver
)

// Event is emitted by the engine for renderers and result reporting.
type Event struct {
	Type   EventType
	Letter Letter // Spawned, Hit, Missed
	Key    rune   // Wrong
	Speed  int    // SpeedUp, GameOver
	Score  int    // GameOver

	// Final figures of the finished game, captured when it ended.
	Mistakes int           // GameOver
	Layout   layout.Layout // GameOver
	Played   time.Duration // GameOver
}

// State is a copy of everything a renderer needs.
type State struct {
	Phase          Phase
	Layout         layout.Layout
	Score          int
	Mistakes       int
	Speed          int
	SpawnRate      time.Duration
	Width          float64
	Height         float64
	Letters        []Letter
	RestartPending bool
	Played         time.Duration // Time spent running since the last start
}
