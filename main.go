package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/battleship/apps/go-server/internal/history"
	"github.com/robalobadob/battleship/apps/go-server/internal/httpserver"
	"github.com/robalobadob/battleship/apps/go-server/internal/scoreboard"
	"github.com/robalobadob/battleship/apps/go-server/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	scores := scoreboard.NewStore(cfg.ScoreboardPath)

	var hist *history.Store
	if cfg.HistoryEnabled {
		db, err := openDB(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
		}
		if err := ensureSchema(db); err != nil {
			log.Fatal().Err(err).Msg("failed to prepare schema")
		}
		hist = history.NewStore(db)
	}

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, scores, hist)
	log.Info().Str("port", cfg.Port).Bool("history", cfg.HistoryEnabled).Msg("starting go-server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
