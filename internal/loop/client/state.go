package client

import (
	"time"

	"github.com/tomz197/letterfall/internal/input"
)

// Screen identifies what the client is showing.
type Screen int

const (
	ScreenTitle    Screen = iota // Layout picker and leaderboard
	ScreenPlaying                // Letters falling
	ScreenOver                   // Game over, waiting for a restart
	ScreenShutdown               // Server is shutting down
)

// Rank values before the hub has answered.
const (
	rankUnknown = -1 // No game submitted yet
	rankPending = -2 // Result submitted, waiting for the hub
)

// ClientState holds per-session state that is not part of the game engine.
type ClientState struct {
	Input         input.Input
	Running       bool          // Client loop running
	Rank          int           // Leaderboard rank of the last game, 0 if unranked
	delta         time.Duration // Frame delta time
	shutdown      bool          // Hub announced shutdown
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	wrongFlash    float64       // Seconds left to show the mistake counter in red
	isInactive    bool          // Whether the client is in inactive warning state
	wasInactive   bool
	prevScreen    Screen
	drawn         bool // At least one frame has been drawn
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Running: true,
		Rank:    rankUnknown,
	}
}
