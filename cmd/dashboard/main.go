package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"promolens/adapters/csvfile"
	"promolens/internal"
	"promolens/internal/config"
	"promolens/ui"
)

func main() {
	// Load .env if present; real env vars win over file values.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	internal.DefaultLogger.Info("loading campaign data from %s", cfg.Data.Dir)

	bundle, err := csvfile.NewLoader(cfg.Data.Dir).Load(context.Background())
	if err != nil {
		log.Fatal("Failed to load campaign data:", err)
	}

	app, err := ui.NewApp(bundle, cfg.Data)
	if err != nil {
		log.Fatal("Failed to create dashboard app:", err)
	}

	log.Println("Starting PromoLens dashboard on http://localhost:" + cfg.Server.Port)
	log.Fatal(app.Start(cfg.Server.Port))
}
