package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/HadiaEL/CABINET-MEDICAL/internal/config"
	"github.com/HadiaEL/CABINET-MEDICAL/internal/db"
	"github.com/HadiaEL/CABINET-MEDICAL/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("applying migrations")

	if err := db.RunMigrations(cfg.PostgresDSN, log); err != nil {
		log.Fatal("migration error", zap.Error(err))
	}

	log.Info("migrations complete")
}
