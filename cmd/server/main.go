package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/leca/dt-valet/internal/config"
	"github.com/leca/dt-valet/internal/database"
	"github.com/leca/dt-valet/internal/model"
	"github.com/leca/dt-valet/internal/router"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	db, err := database.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	start, err := time.Parse(database.DateLayout, cfg.SeedStart)
	if err != nil {
		slog.Error("invalid DT_SEED_START", "value", cfg.SeedStart, "error", err)
		os.Exit(1)
	}
	end, err := time.Parse(database.DateLayout, cfg.SeedEnd)
	if err != nil {
		slog.Error("invalid DT_SEED_END", "value", cfg.SeedEnd, "error", err)
		os.Exit(1)
	}
	catalog := model.DefaultCatalog()
	if err := database.Seed(db, catalog, start, end); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}
	slog.Info("seeded observations", "series", len(catalog), "start", cfg.SeedStart, "end", cfg.SeedEnd)

	srv := router.New(db, cfg)

	slog.Info("starting server", "addr", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
