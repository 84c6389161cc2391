package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ngmaloney/skypulse-terminal/internal/config"
	"github.com/ngmaloney/skypulse-terminal/internal/logging"
	"github.com/ngmaloney/skypulse-terminal/internal/shell"
)

func main() {
	addr := flag.String("addr", "", "Listen address (overrides SKYPULSE_SHELL_ADDR)")
	flag.Parse()

	logger := logging.New(os.Stdout, slog.LevelInfo)
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}
	logger = logging.New(os.Stdout, cfg.SlogLevel())
	slog.SetDefault(logger)

	if *addr == "" {
		*addr = cfg.ShellAddr
	}

	gin.SetMode(gin.ReleaseMode)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	server := shell.NewServer(shell.Options{
		Version:  cfg.CacheVersion,
		Gatherer: reg,
		Logger:   logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, *addr); err != nil {
		slog.Error("shell server error", "error", err)
		os.Exit(1)
	}
	slog.Info("shell server stopped")
}
