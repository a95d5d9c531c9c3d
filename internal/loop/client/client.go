package client

import (
	"bufio"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/letterfall/internal/draw"
	"github.com/tomz197/letterfall/internal/game"
	"github.com/tomz197/letterfall/internal/input"
	"github.com/tomz197/letterfall/internal/layout"
	"github.com/tomz197/letterfall/internal/loop/config"
	"github.com/tomz197/letterfall/internal/loop/server"
	"github.com/tomz197/letterfall/internal/object"
	"github.com/tomz197/letterfall/internal/ui"
)

const wrongFlashSeconds = 0.3

// Client runs one terminal session: its own game engine, rendering and input.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	engine       *game.Engine
	dropdown     *ui.Dropdown
	effects      *object.Effects
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Transport    string // "local" or "ssh"
	Layout       layout.Layout
	Rand         *rand.Rand
	Logger       *log.Logger
}

// NewClient creates a new client connected to the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	transport := opts.Transport
	if transport == "" {
		transport = "local"
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	handle := gs.RegisterClient(opts.Username, transport)

	engine := game.New(game.Options{
		Width:  config.PlayWidth,
		Height: config.PlayHeight,
		Layout: opts.Layout,
		Rand:   rng,
	})

	// Canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.PlayWidth, config.PlayHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	c := &Client{
		server:       gs,
		handle:       handle,
		state:        NewClientState(),
		engine:       engine,
		effects:      object.NewEffects(rng),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		logger:       logger.With("client", handle.ID),
	}
	c.dropdown = ui.NewDropdown(c.selectLayout, opts.Layout)
	return c
}

// Run starts the client loop. Blocks until the client disconnects or server stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processServerEvents()
		c.updateScreen()
		c.update(c.state.delta)

		if err := c.drawFrame(); err != nil {
			c.server.UnregisterClient(c.handle.ID)
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	c.server.UnregisterClient(c.handle.ID)

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads the pending keys and applies them.
func (c *Client) processInput() {
	c.handleInput(input.ReadInput(c.inputStream))
}

func (c *Client) handleInput(in input.Input) {
	c.state.Input = in

	if in.Any() {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if in.Quit || in.Closed {
		c.state.Running = false
		return
	}
	if c.state.shutdown {
		return
	}

	if in.Tab {
		c.dropdown.Toggle()
	}
	if !c.dropdown.Hidden() {
		c.handleDropdown(in)
		return
	}

	if in.Restart {
		c.restart()
	}
	if in.Enter {
		switch c.engine.Phase() {
		case game.PhaseIdle:
			c.start()
		case game.PhaseOver:
			c.restart()
		}
	}

	for _, k := range in.Keys {
		if c.engine.HandleKey(k) == game.KeyWrong {
			c.state.wrongFlash = wrongFlashSeconds
		}
	}
}

// handleDropdown routes keys to the open layout picker. Typed letters are
// not forwarded to the game while it is open.
func (c *Client) handleDropdown(in input.Input) {
	if in.Up {
		c.dropdown.MoveUp()
	}
	if in.Down {
		c.dropdown.MoveDown()
	}
	switch {
	case in.Number > 0 && c.dropdown.SelectIndex(in.Number):
	case in.Enter:
		c.dropdown.Confirm()
	case in.Escape:
		c.dropdown.Close()
	}
}

func (c *Client) selectLayout(l layout.Layout) {
	c.engine.SetLayout(l)
	c.logger.Debug("layout selected", "layout", l)
}

// start begins a game from the title screen.
func (c *Client) start() {
	if c.engine.Start() {
		c.resetRound()
	}
}

// restart abandons the current game and starts a new one shortly after.
func (c *Client) restart() {
	c.engine.Restart()
	c.resetRound()
}

func (c *Client) resetRound() {
	c.state.Rank = rankUnknown
	c.state.wrongFlash = 0
	c.effects.Clear()
}

// processServerEvents handles events from the hub.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Hub closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventScoreRecorded:
				if c.state.Rank == rankPending {
					c.state.Rank = event.Rank
				}
			case server.EventServerShutdown:
				c.state.shutdown = true
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
				c.dropdown.Close()
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = termWidth
	renderHeight = termHeight
	if renderWidth > config.MaxTermWidth {
		renderWidth = config.MaxTermWidth
	}
	if renderHeight > config.MaxTermHeight {
		renderHeight = config.MaxTermHeight
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// update advances the engine and turns its events into effects.
func (c *Client) update(dt time.Duration) {
	if c.state.shutdown {
		c.state.shutdownTimer -= dt.Seconds()
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
		return
	}

	c.engine.Tick(dt)
	for _, ev := range c.engine.Events() {
		c.handleGameEvent(ev)
	}
	c.effects.Update(dt)

	if c.state.wrongFlash > 0 {
		c.state.wrongFlash -= dt.Seconds()
	}
}

func (c *Client) handleGameEvent(ev game.Event) {
	size := float64(config.LetterSize)
	switch ev.Type {
	case game.EventHit:
		c.effects.Burst(ev.Letter.X+size/2, ev.Letter.Y+size/2,
			config.HitBurstParticles, config.BurstSpeed, config.BurstLifetime,
			object.HitSymbols, draw.ColorGreen)
	case game.EventMissed:
		c.effects.Burst(ev.Letter.X+size/2, ev.Letter.Y+size/2,
			config.MissBurstParticles, config.BurstSpeed, config.BurstLifetime,
			object.MissSymbols, draw.ColorRed)
	case game.EventGameOver:
		c.submitResult(ev)
	}
}

// submitResult reports the finished game to the hub.
func (c *Client) submitResult(ev game.Event) {
	c.state.Rank = rankPending
	c.server.SubmitResult(c.handle.ID, server.Result{
		Score:    ev.Score,
		Mistakes: ev.Mistakes,
		Speed:    ev.Speed,
		Layout:   ev.Layout,
		Duration: ev.Played,
	})
	c.logger.Debug("game over", "score", ev.Score, "speed", ev.Speed, "layout", ev.Layout)
}

// currentScreen derives the screen from the hub and engine state.
func (c *Client) currentScreen() Screen {
	if c.state.shutdown {
		return ScreenShutdown
	}
	switch c.engine.Phase() {
	case game.PhaseRunning:
		return ScreenPlaying
	case game.PhaseOver:
		return ScreenOver
	}
	if c.engine.Snapshot().RestartPending {
		return ScreenPlaying
	}
	return ScreenTitle
}
