package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pairs/internal/config"
	"github.com/robalobadob/pairs/internal/game"
	"github.com/robalobadob/pairs/internal/httpserver"
	"github.com/robalobadob/pairs/internal/scores"
	"github.com/robalobadob/pairs/internal/sqldb"
	"github.com/robalobadob/pairs/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	sessions, ledger, closeDB := backends(cfg)
	defer closeDB()

	engine, err := game.NewEngine(cfg.Rules, ledger, game.WithHasher(game.NewHasher(cfg.HashKey)))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid game rules")
	}

	srv := httpserver.New(engine, sessions, ledger, httpserver.Options{
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.SessionTTL,
		CookieName:    cfg.CookieName,
		ClientOrigin:  cfg.ClientOrigin,
		Secure:        cfg.Production,
	})
	log.Info().
		Str("port", cfg.Port).
		Str("db", cfg.DBDriver).
		Int("kinds", cfg.Rules.DistinctKinds).
		Int("copies", cfg.Rules.CopiesPerKind).
		Dur("time_limit", cfg.Rules.TimeLimit).
		Msg("starting pairs server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// backends opens the session store and score ledger for cfg.DBDriver.
// DB_DRIVER=memory keeps everything in process (nothing survives a restart).
func backends(cfg *config.Config) (store.Backend, scores.Ledger, func()) {
	if cfg.DBDriver == "memory" {
		log.Warn().Msg("DB_DRIVER=memory: sessions and scores are not persisted")
		return store.NewMemoryBackend(), scores.NewMemoryLedger(nil), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sqldb.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("open database")
	}
	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}
	return store.NewSQLBackend(db), scores.NewSQLLedger(db), func() { _ = db.Close() }
}
