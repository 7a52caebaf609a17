package dataset

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/CollegeExplorer/internal/config"
	"github.com/JonMunkholm/CollegeExplorer/internal/logging"
)

// SourcesFromConfig builds the fallback chain for every table: Postgres
// first when db is non-nil, then the local file, then the remote URL. The
// dictionary is never stored in Postgres.
func SourcesFromConfig(cfg *config.Config, db Querier, client *http.Client) Sources {
	data := cfg.Data
	maxBytes := data.MaxDownloadBytes

	src := Sources{
		Institutions: Chain(data.InstitutionsPath, data.InstitutionsURL, client, maxBytes),
		Programs:     Chain(data.ProgramsPath, data.ProgramsURL, client, maxBytes),
		Dictionary:   Chain(data.DictionaryPath, data.DictionaryURL, client, maxBytes),
	}
	if db != nil {
		src.Institutions = append([]Source{PostgresSource{DB: db, Table: cfg.Database.InstitutionsTable}}, src.Institutions...)
		src.Programs = append([]Source{PostgresSource{DB: db, Table: cfg.Database.ProgramsTable}}, src.Programs...)
	}
	return src
}

// OpenPool connects to the configured database and verifies the connection.
// The caller closes the pool.
func OpenPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log := logging.FromContext(ctx)
	if u, err := url.Parse(cfg.URL); err == nil {
		log.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		log.Info("connected to database")
	}
	return pool, nil
}
