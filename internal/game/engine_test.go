package game

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/letterfall/internal/layout"
	"github.com/tomz197/letterfall/internal/loop/config"
)

func newTestEngine() *Engine {
	return New(Options{Rand: rand.New(rand.NewSource(1))})
}

// place puts a letter at the given height with the current speed's velocity.
func place(e *Engine, ch rune, y float64) Letter {
	e.nextID++
	l := Letter{ID: e.nextID, Char: ch, Y: y, Velocity: config.BaseVelocity * float64(e.speed)}
	e.letters = append(e.letters, l)
	return l
}

func TestNewEngineDefaults(t *testing.T) {
	e := newTestEngine()
	s := e.Snapshot()
	if s.Phase != PhaseIdle {
		t.Fatalf("phase = %s, want idle", s.Phase)
	}
	if s.Layout != layout.Dvorak {
		t.Fatalf("layout = %s, want dvorak", s.Layout)
	}
	if s.Speed != 1 || s.SpawnRate != time.Second {
		t.Fatalf("speed=%d spawnRate=%s, want 1 and 1s", s.Speed, s.SpawnRate)
	}
	if s.Width != config.PlayWidth || s.Height != config.PlayHeight {
		t.Fatalf("area = %vx%v, want %dx%d", s.Width, s.Height, config.PlayWidth, config.PlayHeight)
	}
}

func TestStartRejectedWhileRunningOrOver(t *testing.T) {
	e := newTestEngine()
	if !e.Start() {
		t.Fatal("first Start should succeed")
	}
	if e.Start() {
		t.Fatal("Start while running should be rejected")
	}
	e.gameOver()
	if e.Start() {
		t.Fatal("Start after game over should be rejected")
	}
	if e.Phase() != PhaseOver {
		t.Fatalf("phase = %s, want over", e.Phase())
	}
}

func TestSpawnUsesLayoutLettersInsideArea(t *testing.T) {
	for _, l := range layout.All() {
		e := newTestEngine()
		e.SetLayout(l)
		e.Start()
		for i := 0; i < 200; i++ {
			e.SpawnLetter()
		}
		for _, letter := range e.Snapshot().Letters {
			if !strings.ContainsRune(l.Letters(), letter.Char) {
				t.Fatalf("%s: spawned %q outside %q", l, letter.Char, l.Letters())
			}
			if letter.X < 0 || letter.X >= config.PlayWidth-config.LetterSize {
				t.Fatalf("%s: x=%v outside [0,%d)", l, letter.X, config.PlayWidth-config.LetterSize)
			}
			if letter.Y != 0 {
				t.Fatalf("%s: spawned at y=%v, want 0", l, letter.Y)
			}
		}
	}
}

func TestSpawnCadenceFollowsSpawnRate(t *testing.T) {
	e := newTestEngine()
	e.Start()
	e.Tick(500 * time.Millisecond)
	e.Tick(499 * time.Millisecond)
	if n := len(e.Snapshot().Letters); n != 0 {
		t.Fatalf("letters after 999ms = %d, want 0", n)
	}
	e.Tick(time.Millisecond)
	if n := len(e.Snapshot().Letters); n != 1 {
		t.Fatalf("letters after 1000ms = %d, want 1", n)
	}
}

func TestTickMovesLettersByVelocity(t *testing.T) {
	e := newTestEngine()
	e.Start()
	place(e, 'A', 100)
	e.Tick(config.ReferenceFrame)
	got := e.Snapshot().Letters[0].Y
	if got != 100+config.BaseVelocity {
		t.Fatalf("y after one frame = %v, want %v", got, 100+config.BaseVelocity)
	}
}

func TestVelocityFixedAtSpawn(t *testing.T) {
	e := newTestEngine()
	e.Start()
	e.SpawnLetter()
	slow := e.Snapshot().Letters[0]

	e.score = 9
	l := place(e, 'H', 300)
	if r := e.HandleKey(l.Char); r != KeyHit {
		t.Fatalf("HandleKey = %v, want hit", r)
	}
	if e.speed != 2 {
		t.Fatalf("speed = %d, want 2", e.speed)
	}
	e.SpawnLetter()

	letters := e.Snapshot().Letters
	if letters[0].ID != slow.ID || letters[0].Velocity != config.BaseVelocity {
		t.Fatalf("old letter velocity = %v, want %v", letters[0].Velocity, config.BaseVelocity)
	}
	if letters[1].Velocity != 2*config.BaseVelocity {
		t.Fatalf("new letter velocity = %v, want %v", letters[1].Velocity, 2*config.BaseVelocity)
	}
}

func TestMissesEndGame(t *testing.T) {
	e := newTestEngine()
	e.Start()
	threshold := float64(config.PlayHeight - config.LetterSize)

	for i := 1; i <= config.MaxMistakes; i++ {
		place(e, 'A', threshold-1)
		e.Tick(config.ReferenceFrame)
		s := e.Snapshot()
		if s.Mistakes != i {
			t.Fatalf("mistakes after miss %d = %d", i, s.Mistakes)
		}
		if len(s.Letters) != 0 {
			t.Fatalf("missed letter still on screen")
		}
	}
	if e.Phase() != PhaseOver {
		t.Fatalf("phase = %s, want over", e.Phase())
	}
}

func TestLettersFreezeAfterGameOver(t *testing.T) {
	e := newTestEngine()
	e.Start()
	e.mistakes = config.MaxMistakes - 1
	threshold := float64(config.PlayHeight - config.LetterSize)
	place(e, 'A', threshold-1)
	place(e, 'O', 10)

	e.Tick(config.ReferenceFrame)
	if e.Phase() != PhaseOver {
		t.Fatalf("phase = %s, want over", e.Phase())
	}
	frozen := e.Snapshot().Letters
	if len(frozen) != 1 || frozen[0].Y != 10 {
		t.Fatalf("letters after game over = %+v, want one frozen at y=10", frozen)
	}

	e.Tick(time.Second)
	e.SpawnLetter()
	after := e.Snapshot().Letters
	if len(after) != 1 || after[0].Y != 10 {
		t.Fatalf("letters moved or spawned after game over: %+v", after)
	}
}

func TestNearestIsLowestLetter(t *testing.T) {
	e := newTestEngine()
	e.Start()
	place(e, 'A', 40)
	low := place(e, 'O', 300)
	place(e, 'E', 300)
	place(e, 'U', 120)

	got, ok := e.Nearest()
	if !ok || got.ID != low.ID {
		t.Fatalf("Nearest = %+v, want id %d", got, low.ID)
	}
}

func TestHandleKey(t *testing.T) {
	tests := []struct {
		name         string
		letters      []rune
		key          rune
		want         KeyResult
		wantScore    int
		wantMistakes int
		wantLeft     int
	}{
		{"no letters", nil, 'a', KeyNoTarget, 0, 0, 0},
		{"lower case hit", []rune{'A'}, 'a', KeyHit, 1, 0, 0},
		{"semicolon hit", []rune{';'}, ';', KeyHit, 1, 0, 0},
		{"wrong key", []rune{'A'}, 's', KeyWrong, 0, 1, 1},
		{"only nearest counts", []rune{'A', 'S'}, 'a', KeyWrong, 0, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine()
			e.Start()
			for i, r := range tt.letters {
				place(e, r, float64(i*100))
			}
			if got := e.HandleKey(tt.key); got != tt.want {
				t.Fatalf("HandleKey(%q) = %v, want %v", tt.key, got, tt.want)
			}
			s := e.Snapshot()
			if s.Score != tt.wantScore || s.Mistakes != tt.wantMistakes || len(s.Letters) != tt.wantLeft {
				t.Fatalf("score=%d mistakes=%d letters=%d, want %d %d %d",
					s.Score, s.Mistakes, len(s.Letters), tt.wantScore, tt.wantMistakes, tt.wantLeft)
			}
		})
	}
}

func TestThirdWrongKeyEndsGameAndIgnoresInput(t *testing.T) {
	e := newTestEngine()
	e.Start()
	place(e, 'A', 10)
	for i := 0; i < config.MaxMistakes; i++ {
		e.HandleKey('z')
	}
	if e.Phase() != PhaseOver {
		t.Fatalf("phase = %s, want over", e.Phase())
	}
	if r := e.HandleKey('a'); r != KeyIgnored {
		t.Fatalf("HandleKey after game over = %v, want ignored", r)
	}
	if s := e.Snapshot(); s.Score != 0 || s.Mistakes != config.MaxMistakes {
		t.Fatalf("score=%d mistakes=%d after game over", s.Score, s.Mistakes)
	}
}

func TestRestartStartsAfterDelay(t *testing.T) {
	e := newTestEngine()
	e.Start()
	e.score = 42
	place(e, 'A', 10)
	e.gameOver()

	e.Restart()
	s := e.Snapshot()
	if s.Phase != PhaseIdle || !s.RestartPending {
		t.Fatalf("after Restart phase=%s pending=%v", s.Phase, s.RestartPending)
	}
	if s.Score != 0 || len(s.Letters) != 0 {
		t.Fatalf("restart did not reset: score=%d letters=%d", s.Score, len(s.Letters))
	}

	e.Tick(config.RestartDelay / 2)
	if e.Phase() != PhaseIdle {
		t.Fatalf("started before the restart delay")
	}
	e.Tick(config.RestartDelay / 2)
	if e.Phase() != PhaseRunning {
		t.Fatalf("phase after delay = %s, want running", e.Phase())
	}
}

func TestSpeedUpRestartsSpawnTimer(t *testing.T) {
	e := newTestEngine()
	e.Start()
	e.spawnElapsed = 700 * time.Millisecond
	e.score = 9
	place(e, 'A', 10)
	e.HandleKey('a')

	if e.spawnRate != 800*time.Millisecond {
		t.Fatalf("spawnRate = %s, want 800ms", e.spawnRate)
	}
	if e.spawnElapsed != 0 {
		t.Fatalf("spawn timer = %s, want reset", e.spawnElapsed)
	}

	var sawSpeedUp bool
	for _, ev := range e.Events() {
		if ev.Type == EventSpeedUp && ev.Speed == 2 {
			sawSpeedUp = true
		}
	}
	if !sawSpeedUp {
		t.Fatal("expected a speed-up event")
	}
}

func TestHitWithoutTierChangeKeepsSpawnTimer(t *testing.T) {
	e := newTestEngine()
	e.Start()
	e.spawnElapsed = 700 * time.Millisecond
	place(e, 'A', 10)
	e.HandleKey('a')
	if e.spawnElapsed != 700*time.Millisecond {
		t.Fatalf("spawn timer = %s, want untouched", e.spawnElapsed)
	}
}

func TestLayoutChangeAffectsLaterSpawns(t *testing.T) {
	e := newTestEngine()
	e.Start()
	place(e, 'H', 10)
	e.SetLayout(layout.QWERTY)
	e.SpawnLetter()
	letters := e.Snapshot().Letters
	if letters[0].Char != 'H' {
		t.Fatalf("existing letter changed to %q", letters[0].Char)
	}
	if !strings.ContainsRune(layout.QWERTY.Letters(), letters[1].Char) {
		t.Fatalf("new letter %q not from qwerty", letters[1].Char)
	}
}

func TestEventsDrain(t *testing.T) {
	e := newTestEngine()
	e.Start()
	e.SpawnLetter()
	ev := e.Events()
	if len(ev) != 2 || ev[0].Type != EventStarted || ev[1].Type != EventSpawned {
		t.Fatalf("events = %+v, want started then spawned", ev)
	}
	if again := e.Events(); len(again) != 0 {
		t.Fatalf("events not drained: %+v", again)
	}
}

func TestSetAreaIgnoresInvalidSizes(t *testing.T) {
	e := newTestEngine()
	e.SetArea(0, 500)
	e.SetArea(-1, -1)
	if s := e.Snapshot(); s.Width != config.PlayWidth || s.Height != config.PlayHeight {
		t.Fatalf("area changed to %vx%v", s.Width, s.Height)
	}
	e.SetArea(400, 300)
	if s := e.Snapshot(); s.Width != 400 || s.Height != 300 {
		t.Fatalf("area = %vx%v, want 400x300", s.Width, s.Height)
	}
}
