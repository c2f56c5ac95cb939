package main

import (
	"database/sql"
	"errors"

	pg "dogpass-api/internal/adapters/storage/postgres"
	"dogpass-api/internal/config"
	"dogpass-api/internal/platform/logger"
)

var errNoDatabase = errors.New("no database configured: set DB_DSN or POSTGRES_HOST")

// app es lo que comparten todos los subcomandos.
type app struct {
	cfg config.Config
	log logger.Logger
	db  *sql.DB // nil => in-memory
}

func bootstrap(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})

	a := &app{cfg: cfg, log: log}
	if dsn := cfg.DB.ConnString(); dsn != "" {
		db, err := pg.Open(dsn)
		if err != nil {
			log.Error("unable to connect to database", map[string]any{"err": err})
			return nil, err
		}
		a.db = db
	}
	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	_ = logger.Sync(a.log)
}
