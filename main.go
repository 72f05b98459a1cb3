package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/parolagame/go-server/internal/httpserver"
	"github.com/parolagame/go-server/internal/play"
	"github.com/parolagame/go-server/internal/store"
	"github.com/parolagame/go-server/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	lists, err := words.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}
	for lang, n := range lists.Stats() {
		log.Info().Str("lang", lang).Int("words", n).Msg("word list loaded")
	}

	db, err := openDB(getEnv("SQLITE_PATH", "./data/parola.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	players := store.NewSQLitePlayerStore(db)
	usage := store.NewSQLiteWordUsageStore(db)
	ledger := store.NewSQLiteScoreLedger(db)
	sessions := store.NewMemorySessionStore()

	svc := play.New(lists, players, usage, ledger, sessions)
	srv := httpserver.New(svc, players, sessions)

	port := getEnv("PORT", "5000")
	log.Info().Str("port", port).Msg("starting parola-go")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
