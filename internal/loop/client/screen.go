package client

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/tomz197/letterfall/internal/draw"
	"github.com/tomz197/letterfall/internal/loop/config"
	"github.com/tomz197/letterfall/internal/loop/server"
	"github.com/tomz197/letterfall/internal/object"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	screen := c.currentScreen()

	// On screen or inactivity transitions, do a full terminal clear
	// so UI elements from the previous screen don't persist.
	if !c.state.drawn || screen != c.state.prevScreen || c.state.isInactive != c.state.wasInactive {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevScreen = screen
		c.state.wasInactive = c.state.isInactive
		c.state.drawn = true
	}

	c.canvas.Clear()

	inGame := screen == ScreenPlaying || screen == ScreenOver
	st := c.engine.Snapshot()
	if inGame {
		object.DrawDangerLine(c.canvas, st.Width, st.Height)
		for _, l := range st.Letters {
			object.DrawLetterBox(c.canvas, l)
		}
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	// Text overlays go on top of the rendered canvas
	if inGame {
		ctx := object.DrawContext{Canvas: c.canvas, Writer: c.chunkWriter}
		nearest, ok := c.engine.Nearest()
		for _, l := range st.Letters {
			object.DrawLetterChar(ctx, l, ok && l.ID == nearest.ID)
		}
		c.effects.Draw(ctx)
	}

	c.drawUI(screen, c.server.GetSnapshot())

	return c.chunkWriter.Flush()
}

// writeAt writes text over the canvas and marks the cells so the next
// Render erases them. width is the visible width, 0 to measure s.
func (c *Client) writeAt(col, row int, s string, width int) {
	if width == 0 {
		width = utf8.RuneCountInString(s)
	}
	c.chunkWriter.WriteAt(col, row, s)
	c.canvas.MarkTextDirty(col, row, width)
}

func (c *Client) writeCentered(centerX, row int, s string) {
	width := utf8.RuneCountInString(s)
	col := c.chunkWriter.WriteCentered(centerX, row, s, width)
	c.canvas.MarkTextDirty(col, row, width)
}

// drawUI draws the overlay for the current screen.
func (c *Client) drawUI(screen Screen, snapshot *server.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if screen == ScreenShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch screen {
	case ScreenTitle:
		c.drawTitleScreen(centerX, centerY, snapshot)
	case ScreenPlaying:
		c.drawHUD(termWidth, termHeight, snapshot)
	case ScreenOver:
		c.drawHUD(termWidth, termHeight, snapshot)
		c.drawGameOverScreen(centerX, centerY)
	}

	c.drawDropdown(termWidth)
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-2, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	c.writeCentered(centerX, centerY, msg)
	c.writeCentered(centerX, centerY+2, "Press any key to continue")
}

var titleArt = []string{
	` _    ___ _____ _____ ___ ___ ___ _   _    _    `,
	`| |  | __|_   _|_   _| __| _ \ __/_\ | |  | |   `,
	`| |__| _|  | |   | | | _||   / _/ _ \| |__| |__ `,
	`|____|___| |_|   |_| |___|_|_\_/_/ \_\____|____|`,
}

// drawTitleScreen draws the title, controls and leaderboard.
func (c *Client) drawTitleScreen(centerX, centerY int, snapshot *server.Snapshot) {
	top := centerY - 10
	if top < 3 {
		top = 3
	}

	titleWidth := 0
	for _, line := range titleArt {
		if len(line) > titleWidth {
			titleWidth = len(line)
		}
	}
	for i, line := range titleArt {
		c.writeAt(centerX-titleWidth/2, top+i, draw.Colorize(draw.ColorBrightCyan, line), len(line))
	}

	row := top + len(titleArt) + 1
	c.writeCentered(centerX, row, "~ Type the falling letters before they land ~")
	c.writeCentered(centerX, row+1, fmt.Sprintf("Layout: [ %-6s v ]", c.dropdown.Label()))

	row += 3
	controls := []string{
		"ENTER  . . . . . . . Start",
		"A-Z . . . . . Type letters",
		"TAB . . . . Keyboard layout",
		"CTRL-R  . . . . . . Restart",
		"CTRL-C  . . . . . . . .Quit",
	}
	for i, line := range controls {
		c.writeCentered(centerX, row+i, line)
	}
	row += len(controls) + 1

	if time.Now().UnixMilli()/600%2 == 0 {
		c.writeCentered(centerX, row, ">>  Press ENTER to Start  <<")
	} else {
		c.writeCentered(centerX, row, strings.Repeat(" ", 28))
	}
	row += 2

	c.drawLeaderboard(centerX, row, snapshot.TopScores)
}

// drawLeaderboard lists the top scores while rows are available.
func (c *Client) drawLeaderboard(centerX, row int, top []server.TopScoreEntry) {
	termHeight := c.canvas.TerminalHeight()
	if row >= termHeight {
		return
	}
	c.writeCentered(centerX, row, "Top Scores")
	if len(top) == 0 {
		c.writeCentered(centerX, row+1, "No scores yet")
		return
	}
	for i, e := range top {
		r := row + 1 + i
		if r >= termHeight {
			return
		}
		line := fmt.Sprintf("%2d. %-*s %8s  %-6s  %s",
			i+1, config.MaxUsernameLength, e.Username,
			humanize.Comma(int64(e.Score)), e.Layout, humanize.Time(e.RecordedAt))
		c.writeCentered(centerX, r, fmt.Sprintf("%-62s", line))
	}
}

// drawHUD draws the in-game status line.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawHUD(termWidth, termHeight int, snapshot *server.Snapshot) {
	st := c.engine.Snapshot()

	c.writeAt(2, 1, fmt.Sprintf("Score: %-8s", humanize.Comma(int64(st.Score))), 0)

	mistakes := fmt.Sprintf("Mistakes: %-*s", config.MaxMistakes, strings.Repeat("X", st.Mistakes))
	width := utf8.RuneCountInString(mistakes)
	if c.state.wrongFlash > 0 {
		mistakes = draw.Colorize(draw.ColorBold+draw.ColorRed, mistakes)
	}
	c.writeAt(18, 1, mistakes, width)

	c.writeAt(34, 1, fmt.Sprintf("Speed: %-2d", st.Speed), 0)

	trigger := fmt.Sprintf("[ %-6s v ]", c.dropdown.Label())
	if termWidth > 46+len(trigger) {
		c.writeAt(termWidth-len(trigger)-1, 1, trigger, 0)
	}

	players := fmt.Sprintf("Players: %-4d", snapshot.Players)
	c.writeAt(termWidth-len(players)-1, termHeight, players, 0)
}

// drawDropdown draws the layout options under the trigger when open.
func (c *Client) drawDropdown(termWidth int) {
	if c.dropdown.Hidden() {
		return
	}
	items, cursor := c.dropdown.Items()
	const itemWidth = 14
	col := termWidth - itemWidth - 1
	if col < 1 {
		col = 1
	}
	for i, label := range items {
		text := fmt.Sprintf(" %d. %-*s", i+1, itemWidth-4, label)
		if i == cursor {
			text = draw.Colorize(draw.ColorReverse, text)
		}
		c.writeAt(col, 2+i, text, itemWidth)
	}
}

// drawGameOverScreen draws the final score and leaderboard placement.
func (c *Client) drawGameOverScreen(centerX, centerY int) {
	gameOverArt := []string{
		`   ___   _   __  __ ___    _____   _____ ___  `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
	}

	titleWidth := len(gameOverArt[0])
	top := centerY - 5
	for i, line := range gameOverArt {
		c.writeAt(centerX-titleWidth/2, top+i, line, 0)
	}

	st := c.engine.Snapshot()
	row := top + len(gameOverArt) + 1
	c.writeCentered(centerX, row, fmt.Sprintf(" Final score: %s ", humanize.Comma(int64(st.Score))))

	var rank string
	switch {
	case c.state.Rank == rankPending:
		rank = "Recording score..."
	case c.state.Rank > 0:
		rank = fmt.Sprintf("You placed %s on the leaderboard!", humanize.Ordinal(c.state.Rank))
	case c.state.Rank == 0:
		rank = "Not on the leaderboard this time"
	}
	if rank != "" {
		c.writeCentered(centerX, row+1, fmt.Sprintf("%-34s", rank))
	}

	if time.Now().UnixMilli()/600%2 == 0 {
		c.writeCentered(centerX, row+3, ">>  Press ENTER to Restart  <<")
	} else {
		c.writeCentered(centerX, row+3, strings.Repeat(" ", 30))
	}
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	c.writeCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	c.writeCentered(centerX, centerY, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	c.writeCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.writeCentered(centerX, centerY+4, "Press CTRL-C to disconnect now")
}
