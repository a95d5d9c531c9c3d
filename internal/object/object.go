// Package object contains the drawable things shown in the play area.
package object

import (
	"time"

	"github.com/tomz197/letterfall/internal/draw"
)

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas      // Half-block canvas in logical coordinates
	Writer *draw.ChunkWriter // Text overlay (letters, particles)
}

// Object is a drawable and updatable visual element.
type Object interface {
	// Update advances the object. Returns true if the object should be removed.
	Update(dt time.Duration) (remove bool)

	// Draw draws the object.
	Draw(ctx DrawContext)
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// writeText places s at a logical position and marks the cells for cleanup.
func writeText(ctx DrawContext, x, y float64, s string, width int) {
	col, row := ctx.Canvas.LogicalToTerminal(x, y)
	if row < 1 || row > ctx.Canvas.TerminalHeight() {
		return
	}
	if col < 1 || col+width-1 > ctx.Canvas.TerminalWidth() {
		return
	}
	ctx.Writer.WriteAt(col, row, s)
	ctx.Canvas.MarkTextDirty(col, row, width)
}
