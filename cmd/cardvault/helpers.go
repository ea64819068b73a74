package main

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ovoronin/cardvault/internal/config"
)

func setupLogging(cfg config.Config) {
	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

func crawlDelay(cfg config.Config) time.Duration {
	d, err := time.ParseDuration(cfg.Crawl.Delay)
	if err != nil {
		slog.Warn("invalid crawl delay, using default 1s", "value", cfg.Crawl.Delay, "error", err)
		return time.Second
	}
	return d
}
