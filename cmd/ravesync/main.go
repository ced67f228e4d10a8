package main

import (
	"context"
	"net/http"

	"ravesync/internal/store"
	"ravesync/shared/go/logging"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logging.Fatal(err, "load config")
	}

	logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	db, err := openDatabase(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logging.Fatal(err, "open database")
	}
	defer db.Close()

	dataStore := store.New(db)

	handler, err := newHTTPHandler(cfg, dataStore)
	if err != nil {
		logging.Fatal(err, "build handler")
	}

	logging.Info("listening on " + cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logging.Fatal(err, "server error")
	}
}
