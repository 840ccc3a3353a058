package main

import (
	"net/http"
	"time"

	"vet-clinic-records/internal/adapters/auth/sessiontoken"
	"vet-clinic-records/internal/adapters/storage/postgres"
	"vet-clinic-records/internal/config"
	"vet-clinic-records/internal/platform/logger"
	"vet-clinic-records/internal/router"
)

func main() {
	cfg := config.Load()
	log := logger.NewFromEnv()

	opts := router.Options{
		TokenParser:     sessiontoken.NewParser(),
		ExternalAPIBase: cfg.ExternalAPIBase,
		UploadDir:       cfg.UploadDir,
		Logger:          &log,
	}

	db, err := postgres.Open(cfg.DSN())
	if err != nil {
		// Sin DB igual arrancamos: repos in-memory para dev local.
		log.Warn().Err(err).Msg("no se pudo conectar a Postgres, usando almacenamiento en memoria")
	} else {
		defer db.Close()
		opts.DB = db
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info().Str("addr", srv.Addr).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
}
