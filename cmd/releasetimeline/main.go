package main

import (
	"os"

	"github.com/joho/godotenv"

	"ReleaseTimeline/internal/config"
	"ReleaseTimeline/internal/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	root := newRootCommand(cfg, logger)
	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
