package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/user"

	"github.com/charmbracelet/log"
	"github.com/tomz197/letterfall/internal/config"
	"github.com/tomz197/letterfall/internal/loop"
	"github.com/tomz197/letterfall/internal/store"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	// The terminal belongs to the game, so logs only go to a file.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("LETTERFALL_LOG", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := log.NewWithOptions(logOut, log.Options{
		Level:           config.LogLevel(),
		ReportTimestamp: true,
		Prefix:          "letterfall",
	})

	initial, err := config.Layout()
	if err != nil {
		logger.Warn("falling back to default layout", "err", err)
	}

	opts := loop.Options{
		Username: localUsername(),
		Layout:   initial,
		Logger:   logger,
	}
	if path := config.DBPath(); path != "" {
		st, err := store.Open(path)
		if err != nil {
			return err
		}
		defer st.Close()
		opts.Store = st
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	return loop.Run(bufio.NewReader(os.Stdin), os.Stdout, opts)
}

func localUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}
