package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/letterfall/internal/config"
	"github.com/tomz197/letterfall/internal/loop/server"
	"github.com/tomz197/letterfall/internal/store"
	"github.com/tomz197/letterfall/internal/web"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = 8080
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "web",
	})
	if err := config.LoadDotEnv(); err != nil {
		logger.Fatal("load env", "err", err)
	}
	logger.SetLevel(config.LogLevel())

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.Port("WEB_PORT", defaultPort)

	initial, err := config.Layout()
	if err != nil {
		logger.Warn("falling back to default layout", "err", err)
	}

	var scores server.ScoreStore
	if path := config.DBPath(); path != "" {
		st, err := store.Open(path)
		if err != nil {
			logger.Fatal("open score store", "path", path, "err", err)
		}
		defer st.Close()
		scores = st
		logger.Info("score store opened", "path", path)
	}

	ctx, cancelHub := context.WithCancel(context.Background())
	hub := server.NewServer(scores, logger.WithPrefix("hub"))
	go hub.Run(ctx)

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           web.NewHandler(hub, logger, initial),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting web server", "addr", "http://"+srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	// Tell browsers first; hijacked WebSocket connections are not tracked by srv.
	hub.Shutdown(5 * time.Second)
	cancelHub()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
