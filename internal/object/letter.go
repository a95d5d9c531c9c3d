package object

import (
	"github.com/tomz197/letterfall/internal/draw"
	"github.com/tomz197/letterfall/internal/game"
	"github.com/tomz197/letterfall/internal/loop/config"
)

// DrawLetterBox draws the outline of a falling letter on the canvas.
func DrawLetterBox(c *draw.Canvas, l game.Letter) {
	size := float64(config.LetterSize)
	c.DrawRect(l.X, l.Y, size, size)
}

// DrawLetterChar writes the letter's character in the middle of its box.
// Call after the canvas has been rendered. The nearest letter is highlighted.
func DrawLetterChar(ctx DrawContext, l game.Letter, nearest bool) {
	size := float64(config.LetterSize)
	s := string(l.Char)
	if nearest {
		s = draw.Colorize(draw.ColorBold+draw.ColorYellow, s)
	}
	writeText(ctx, l.X+size/2, l.Y+size/2, s, 1)
}

// DrawDangerLine draws the dotted line letters must not reach.
func DrawDangerLine(c *draw.Canvas, width, height float64) {
	y := height - config.LetterSize
	for x := 0.0; x < width; x += 8 {
		c.SetFloat(x, y)
	}
}
