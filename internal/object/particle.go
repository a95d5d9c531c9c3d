package object

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/tomz197/letterfall/internal/draw"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Symbol sets for bursts.
var (
	HitSymbols  = []rune{'*', '+', '.', '*'}
	MissSymbols = []rune{'x', 'X'}
)

// Particle is a short-lived visual effect drawn as a single colored symbol.
type Particle struct {
	X, Y        float64 // Position
	VX, VY      float64 // Velocity in logical pixels per second
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime (for fade calculation)
	Drag        float64 // Velocity decay per reference frame (1.0 = no drag)
	Symbol      rune
	Color       string
}

// NewParticle creates a single particle from the pool.
func NewParticle(x, y, vx, vy, lifetime float64, symbol rune, color string) *Particle {
	p := particlePool.Get().(*Particle)
	p.X = x
	p.Y = y
	p.VX = vx
	p.VY = vy
	p.Lifetime = lifetime
	p.MaxLifetime = lifetime
	p.Drag = 0.92
	p.Symbol = symbol
	p.Color = color
	return p
}

// Release returns the particle to the pool for reuse.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// Update moves the particle and checks lifetime.
func (p *Particle) Update(dt time.Duration) bool {
	sec := dt.Seconds()
	p.Lifetime -= sec
	if p.Lifetime <= 0 {
		return true
	}

	dragFactor := math.Pow(p.Drag, sec*60) // Normalize drag to ~60fps
	p.VX *= dragFactor
	p.VY *= dragFactor
	p.X += p.VX * sec
	p.Y += p.VY * sec
	return false
}

// Draw renders the particle symbol; faded particles (< 25% lifetime) are skipped.
func (p *Particle) Draw(ctx DrawContext) {
	if p.MaxLifetime > 0 && p.Lifetime/p.MaxLifetime < 0.25 {
		return
	}
	s := string(p.Symbol)
	if p.Color != "" {
		s = draw.Colorize(p.Color, s)
	}
	writeText(ctx, p.X, p.Y, s, 1)
}

// Effects owns the particles alive in one session.
type Effects struct {
	objects []Object
	rng     *rand.Rand
}

// NewEffects creates an empty effect set.
func NewEffects(rng *rand.Rand) *Effects {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Effects{rng: rng}
}

// Burst spawns count particles flying away from (x, y) in random directions.
func (e *Effects) Burst(x, y float64, count int, speed, lifetime float64, symbols []rune, color string) {
	if len(symbols) == 0 {
		return
	}
	for i := 0; i < count; i++ {
		angle := e.rng.Float64() * 2 * math.Pi
		// Speed 50% to 150%, lifetime 50% to 100%
		spd := speed * (0.5 + e.rng.Float64())
		life := lifetime * (0.5 + e.rng.Float64()*0.5)
		symbol := symbols[e.rng.Intn(len(symbols))]

		e.objects = append(e.objects, NewParticle(x, y, math.Cos(angle)*spd, math.Sin(angle)*spd, life, symbol, color))
	}
}

// Update advances every effect and drops expired ones.
func (e *Effects) Update(dt time.Duration) {
	kept := e.objects[:0]
	for _, obj := range e.objects {
		if obj.Update(dt) {
			ReleaseObject(obj)
			continue
		}
		kept = append(kept, obj)
	}
	clear(e.objects[len(kept):])
	e.objects = kept
}

// Draw draws every live effect.
func (e *Effects) Draw(ctx DrawContext) {
	for _, obj := range e.objects {
		obj.Draw(ctx)
	}
}

// Len returns the number of live effects.
func (e *Effects) Len() int {
	return len(e.objects)
}

// Clear releases every effect.
func (e *Effects) Clear() {
	for _, obj := range e.objects {
		ReleaseObject(obj)
	}
	clear(e.objects)
	e.objects = e.objects[:0]
}
