package object

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/letterfall/internal/draw"
	"github.com/tomz197/letterfall/internal/game"
)

func TestBurstExpires(t *testing.T) {
	e := NewEffects(rand.New(rand.NewSource(7)))
	e.Burst(100, 100, 12, 120, 0.5, HitSymbols, draw.ColorGreen)
	if e.Len() != 12 {
		t.Fatalf("Len = %d, want 12", e.Len())
	}

	e.Update(100 * time.Millisecond)
	if e.Len() != 12 {
		t.Fatalf("particles expired early: %d left", e.Len())
	}

	// Lifetimes are at most 0.5s.
	e.Update(500 * time.Millisecond)
	if e.Len() != 0 {
		t.Fatalf("Len after lifetime = %d, want 0", e.Len())
	}
}

func TestBurstWithoutSymbolsIsNoop(t *testing.T) {
	e := NewEffects(rand.New(rand.NewSource(1)))
	e.Burst(0, 0, 5, 10, 1, nil, "")
	if e.Len() != 0 {
		t.Fatalf("Len = %d, want 0", e.Len())
	}
}

func TestParticleMoves(t *testing.T) {
	p := NewParticle(10, 10, 60, 0, 1, '*', "")
	defer p.Release()
	p.Drag = 1
	if p.Update(500 * time.Millisecond) {
		t.Fatal("particle removed before lifetime")
	}
	if p.X != 40 {
		t.Fatalf("x = %v, want 40", p.X)
	}
}

func TestDrawLetterWritesBoxAndChar(t *testing.T) {
	var out bytes.Buffer
	cw := draw.NewChunkWriter(&out, 0, 0)
	canvas := draw.NewScaledCanvas(80, 30, 800, 600)
	ctx := DrawContext{Canvas: canvas, Writer: cw}

	l := game.Letter{Char: 'H', X: 100, Y: 100}
	DrawLetterBox(canvas, l)
	canvas.Render(cw)
	DrawLetterChar(ctx, l, false)
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "H") {
		t.Fatalf("output %q does not contain the letter", out.String())
	}
	if !canvas.Pixel(10, 10) {
		t.Fatal("box corner not drawn")
	}
}
