package main

import (
	"log"
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/wc-bracket/internal/combination"
	"github.com/AdamBeresnev/wc-bracket/internal/config"
	"github.com/AdamBeresnev/wc-bracket/internal/db"
	"github.com/AdamBeresnev/wc-bracket/internal/metrics"
	"github.com/AdamBeresnev/wc-bracket/internal/middleware"
	"github.com/AdamBeresnev/wc-bracket/internal/registry"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	database := db.InitDB(cfg.DBPath)
	defer database.Close()

	if err := db.RunMigrations(database.DB); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	providers := middleware.InitAuth(cfg)

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.SessionLifetime
	sessionManager.Store = sqlite3store.New(database.DB)

	// without a table the bracket still builds, third-place opponents just show TBD
	table, err := combination.Load(cfg.CombinationsPath, registry.ThirdPlaceSlots())
	if err != nil {
		slog.Warn("combination table not loaded", "path", cfg.CombinationsPath, "error", err)
		table = nil
	} else {
		slog.Info("combination table loaded", "rows", table.Len(), "rejected", len(table.Rejected))
		for key, rows := range table.Duplicates() {
			slog.Warn("combination key appears more than once, first row wins", "key", key, "rows", rows)
		}
	}

	app := &application{
		db:        database,
		sessions:  sessionManager,
		registry:  registry.Groups(),
		table:     table,
		metrics:   metrics.NewService(),
		gatherer:  prometheus.DefaultGatherer,
		providers: providers,
		logger:    slog.Default(),
	}

	router := newRouter(app)

	log.Printf("Server starting on http://localhost%s", cfg.Addr())
	if err := http.ListenAndServe(cfg.Addr(), router); err != nil {
		log.Fatal(err)
	}
}
