// Package config centralizes all tunable game parameters.
package config

import "time"

// Play area - logical pixels used by the engine.
// Terminal clients render this area scaled to fit the terminal.
const (
	PlayWidth  = 800
	PlayHeight = 600
	LetterSize = 50 // Width/height of a letter box; also the miss margin at the bottom
)

// Letter motion
const (
	BaseVelocity   = 2.0                   // Logical pixels per reference frame at speed 1
	ReferenceFrame = time.Second / 60      // Velocities are expressed per this frame
	RestartDelay   = 100 * time.Millisecond // Delay between reset and restart
)

// Scoring
const (
	MaxMistakes      = 3
	InitialSpeed     = 1
	InitialSpawnRate = 1000 * time.Millisecond
)

// Tier is one step of the difficulty ramp.
type Tier struct {
	MinScore  int
	Speed     int
	SpawnRate time.Duration
}

// Tiers lists the difficulty ramp from hardest to easiest.
// The first tier whose MinScore is reached wins.
var Tiers = []Tier{
	{MinScore: 200, Speed: 4, SpawnRate: 400 * time.Millisecond},
	{MinScore: 50, Speed: 3, SpawnRate: 600 * time.Millisecond},
	{MinScore: 10, Speed: 2, SpawnRate: 800 * time.Millisecond},
}

// Leaderboard
const (
	TopScoresLimit    = 10
	MaxUsernameLength = 16 // Maximum display length for player usernames
)

// Effects
const (
	HitBurstParticles  = 10
	MissBurstParticles = 6
	BurstSpeed         = 120.0 // Logical pixels per second
	BurstLifetime      = 0.5   // Seconds
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS

	MaxTermWidth  = 160 // Render area is clamped to this many columns
	MaxTermHeight = 50  // and rows, then centered
)

// Hub tick rate
const (
	HubTickRate = 20
	HubTickTime = time.Second / HubTickRate
)

// Browser sessions
const (
	WebTickRate    = 60
	WebTickTime    = time.Second / WebTickRate
	WebFrameEvery  = 2 // Send a state frame every N ticks
	WebPingPeriod  = 25 * time.Second
	WebPongWait    = 60 * time.Second
	WebWriteWait   = 10 * time.Second
	WebReadLimit   = 4096
	WebMaxAreaSide = 4096 // Reject absurd play-area sizes reported by the page
)
