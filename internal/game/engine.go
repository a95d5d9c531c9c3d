// Package game implements the falling-letter typing game engine.
//
// An Engine is not safe for concurrent use. Each session owns one engine and
// drives it from its frame loop with Tick, HandleKey and the phase controls.
package game

import (
	"math/rand"
	"time"
	"unicode"

	"github.com/tomz197/letterfall/internal/layout"
	"github.com/tomz197/letterfall/internal/loop/config"
)

// Options configures a new Engine. Zero values fall back to defaults.
type Options struct {
	Width  float64
	Height float64
	Layout layout.Layout
	Rand   *rand.Rand
}

// Engine holds the state of one game.
type Engine struct {
	layout    layout.Layout
	width     float64
	height    float64
	letters   []Letter
	score     int
	mistakes  int
	speed     int
	spawnRate time.Duration
	phase     Phase

	spawnElapsed   time.Duration // Time since the last spawn
	restartPending bool
	restartIn      time.Duration
	played         time.Duration

	nextID uint64
	rng    *rand.Rand
	events []Event
}

// New creates an idle engine.
func New(opts Options) *Engine {
	if opts.Width <= 0 {
		opts.Width = config.PlayWidth
	}
	if opts.Height <= 0 {
		opts.Height = config.PlayHeight
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Engine{
		layout: opts.Layout,
		width:  opts.Width,
		height: opts.Height,
		rng:    opts.Rand,
	}
	e.resetState()
	return e
}

// SetLayout changes the layout used for letters spawned from now on.
func (e *Engine) SetLayout(l layout.Layout) {
	e.layout = l
}

// Layout returns the active keyboard layout.
func (e *Engine) Layout() layout.Layout {
	return e.layout
}

// SetArea updates the play area size. Non-positive sizes are ignored.
func (e *Engine) SetArea(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	e.width = width
	e.height = height
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Start begins a new game. It does nothing and returns false when a game is
// already running or the previous game is over.
func (e *Engine) Start() bool {
	if e.phase == PhaseOver || e.phase == PhaseRunning {
		return false
	}
	e.restartPending = false
	e.resetState()
	e.phase = PhaseRunning
	e.emit(Event{Type: EventStarted})
	return true
}

// Restart abandons the current game in any phase and starts a fresh one
// after config.RestartDelay of ticks.
func (e *Engine) Restart() {
	e.phase = PhaseIdle
	e.resetState()
	e.restartPending = true
	e.restartIn = config.RestartDelay
}

// Tick advances the game by dt.
func (e *Engine) Tick(dt time.Duration) {
	if e.restartPending {
		e.restartIn -= dt
		if e.restartIn <= 0 {
			e.Start()
		}
		return
	}
	if e.phase != PhaseRunning {
		return
	}

	e.played += dt

	// Spawning
	e.spawnElapsed += dt
	for e.phase == PhaseRunning && e.spawnElapsed >= e.spawnRate {
		e.spawnElapsed -= e.spawnRate
		e.SpawnLetter()
	}

	// Movement and misses
	step := float64(dt) / float64(config.ReferenceFrame)
	threshold := e.height - config.LetterSize
	kept := e.letters[:0] // reuse backing array
	for _, l := range e.letters {
		if e.phase != PhaseRunning {
			kept = append(kept, l) // Frozen after game over
			continue
		}
		l.Y += l.Velocity * step
		if l.Y >= threshold {
			e.miss(l)
			continue
		}
		kept = append(kept, l)
	}
	e.letters = kept
}

// SpawnLetter adds a letter at the top of the play area. It does nothing
// once the game is over.
func (e *Engine) SpawnLetter() {
	if e.phase == PhaseOver {
		return
	}

	span := e.width - config.LetterSize
	if span < 0 {
		span = 0
	}
	chars := e.layout.Letters()

	e.nextID++
	l := Letter{
		ID:       e.nextID,
		Char:     rune(chars[e.rng.Intn(len(chars))]),
		X:        e.rng.Float64() * span,
		Y:        0,
		Velocity: config.BaseVelocity * float64(e.speed),
	}
	e.letters = append(e.letters, l)
	e.emit(Event{Type: EventSpawned, Letter: l})
}

// HandleKey processes a key press against the nearest letter.
func (e *Engine) HandleKey(r rune) KeyResult {
	if e.phase == PhaseOver {
		return KeyIgnored
	}

	idx := e.nearestIndex()
	if idx < 0 {
		return KeyNoTarget
	}

	key := unicode.ToUpper(r)
	target := e.letters[idx]
	if key == target.Char {
		e.score++
		e.letters = append(e.letters[:idx], e.letters[idx+1:]...)
		e.emit(Event{Type: EventHit, Letter: target})
		e.applyDifficulty()
		return KeyHit
	}

	e.mistakes++
	e.emit(Event{Type: EventWrong, Key: key})
	e.applyDifficulty()
	if e.mistakes >= config.MaxMistakes {
		e.gameOver()
	}
	return KeyWrong
}

// Nearest returns the letter closest to the bottom. Ties go to the letter
// spawned first.
func (e *Engine) Nearest() (Letter, bool) {
	idx := e.nearestIndex()
	if idx < 0 {
		return Letter{}, false
	}
	return e.letters[idx], true
}

// Snapshot returns a copy of the observable state.
func (e *Engine) Snapshot() State {
	letters := make([]Letter, len(e.letters))
	copy(letters, e.letters)
	return State{
		Phase:          e.phase,
		Layout:         e.layout,
		Score:          e.score,
		Mistakes:       e.mistakes,
		Speed:          e.speed,
		SpawnRate:      e.spawnRate,
		Width:          e.width,
		Height:         e.height,
		Letters:        letters,
		RestartPending: e.restartPending,
		Played:         e.played,
	}
}

// Events returns the events emitted since the previous call.
func (e *Engine) Events() []Event {
	ev := e.events
	e.events = nil
	return ev
}

func (e *Engine) nearestIndex() int {
	idx := -1
	for i := range e.letters {
		if idx < 0 || e.letters[i].Y > e.letters[idx].Y {
			idx = i
		}
	}
	return idx
}

// miss records a letter that reached the bottom.
func (e *Engine) miss(l Letter) {
	e.mistakes++
	e.emit(Event{Type: EventMissed, Letter: l})
	e.applyDifficulty()
	if e.mistakes >= config.MaxMistakes {
		e.gameOver()
	}
}

// applyDifficulty raises speed and spawn rate once the score crosses a tier.
// A changed spawn rate restarts the spawn timer.
func (e *Engine) applyDifficulty() {
	if e.phase != PhaseRunning {
		return
	}
	tier := TierFor(e.score)
	if tier.Speed <= e.speed {
		return
	}
	e.speed = tier.Speed
	if tier.SpawnRate != e.spawnRate {
		e.spawnRate = tier.SpawnRate
		e.spawnElapsed = 0
	}
	e.emit(Event{Type: EventSpeedUp, Speed: e.speed})
}

func (e *Engine) gameOver() {
	e.phase = PhaseOver
	e.emit(Event{
		Type:     EventGameOver,
		Score:    e.score,
		Mistakes: e.mistakes,
		Speed:    e.speed,
		Layout:   e.layout,
		Played:   e.played,
	})
}

func (e *Engine) resetState() {
	e.score = 0
	e.mistakes = 0
	e.speed = config.InitialSpeed
	e.spawnRate = config.InitialSpawnRate
	e.spawnElapsed = 0
	e.played = 0
	e.letters = e.letters[:0]
}

func (e *Engine) emit(ev Event) {
	e.events = append(e.events, ev)
}
