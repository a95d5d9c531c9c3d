// Package loop runs a single local terminal session against an in-process hub.
package loop

import (
	"bufio"
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/tomz197/letterfall/internal/draw"
	"github.com/tomz197/letterfall/internal/layout"
	"github.com/tomz197/letterfall/internal/loop/client"
	"github.com/tomz197/letterfall/internal/loop/server"
)

// Options configures a local session.
type Options struct {
	Username     string
	Layout       layout.Layout
	Store        server.ScoreStore // nil keeps scores in memory
	Logger       *log.Logger
	TermSizeFunc draw.TermSizeFunc
}

// Run starts a hub, plays one session on r and w and stops the hub when the
// player quits.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := server.NewServer(opts.Store, logger)
	go hub.Run(ctx)

	c := client.NewClient(hub, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Username:     opts.Username,
		Transport:    "local",
		Layout:       opts.Layout,
		Logger:       logger,
	})
	return c.Run()
}
