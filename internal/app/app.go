package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"

	"github.com/fixturelab/matchbind/internal/config"
	"github.com/fixturelab/matchbind/internal/domain/binding"
	"github.com/fixturelab/matchbind/internal/domain/identity"
	"github.com/fixturelab/matchbind/internal/infrastructure/repository/memory"
	"github.com/fixturelab/matchbind/internal/infrastructure/repository/postgres"
	"github.com/fixturelab/matchbind/internal/interfaces/httpapi"
	"github.com/fixturelab/matchbind/internal/platform/logging"
	"github.com/fixturelab/matchbind/internal/usecase"
)

// NewHTTPServer wires repositories, services and the HTTP router. With a
// DB_URL configured the postgres repositories are used; without one the
// service falls back to in-memory storage for local development.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	bindingRepo, identityRepo, closeDB, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	bindingSvc := usecase.NewBindingService(bindingRepo, cfg.PrecheckWorkers, cfg.RetractionScope, logger)
	resolverSvc := usecase.NewResolverService(identityRepo)

	handler := httpapi.NewHandler(bindingSvc, resolverSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = closeDB()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, closeDB, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (binding.Repository, identity.Repository, func() error, error) {
	if strings.TrimSpace(cfg.DBURL) == "" {
		logger.Info("storage", "backend", "memory", "reason", "DB_URL empty")
		identityRepo := memory.NewIdentityRepository()
		return memory.NewBindingRepository(identityRepo), identityRepo, func() error { return nil }, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	logger.Info("storage", "backend", "postgres", "db_name", dbNameFromURL(cfg.DBURL))
	return postgres.NewBindingRepository(db), postgres.NewIdentityRepository(db), db.Close, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
