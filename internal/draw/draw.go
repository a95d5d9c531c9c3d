// Package draw renders the play area to an ANSI terminal.
package draw

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// ANSI colors used by the screens.
const (
	ColorReset      = "\033[0m"
	ColorBold       = "\033[1m"
	ColorRed        = "\033[31m"
	ColorGreen      = "\033[32m"
	ColorYellow     = "\033[33m"
	ColorBrightCyan = "\033[96m"
	ColorReverse    = "\033[7m"
)

// Colorize wraps s in the given color and a reset.
func Colorize(color, s string) string {
	return color + s + ColorReset
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
