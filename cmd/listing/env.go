package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/spf13/cobra"

	"github.com/hugr-lab/listing"
	"github.com/hugr-lab/listing/catalog"
	"github.com/hugr-lab/listing/store"
	"github.com/hugr-lab/listing/store/pgstore"
	"github.com/hugr-lab/listing/store/sqlstore"

	_ "github.com/duckdb/duckdb-go/v2"
)

const (
	driverDuckDB   = "duckdb"
	driverPostgres = "postgres"
)

// env is the listing environment shared by the commands: configuration,
// service and one store per listed table.
type env struct {
	cfg     listing.Config
	logger  *slog.Logger
	service *listing.Service[sq.Sqlizer]
	stores  map[string]store.Store[sq.Sqlizer]
	close   func()
}

// loadConfig reads the configuration file and applies the --log-level flag.
func loadConfig(cmd *cobra.Command) (listing.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := listing.LoadConfig(path)
	if err != nil {
		return listing.Config{}, err
	}

	if raw, _ := cmd.Flags().GetString("log-level"); raw != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return listing.Config{}, fmt.Errorf("invalid --log-level %q: %w", raw, err)
		}
		cfg.LogLevel = &level
	}
	level := slog.LevelInfo
	if cfg.LogLevel != nil {
		level = *cfg.LogLevel
	}
	cfg.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return cfg, nil
}

// openEnv connects to the database selected by the persistent flags and
// prepares a store for each table.
func openEnv(ctx context.Context, cmd *cobra.Command, tables []string) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	driver, _ := cmd.Flags().GetString("driver")
	dsn, _ := cmd.Flags().GetString("dsn")
	initStmts, _ := cmd.Flags().GetStringArray("init")

	e := &env{
		cfg:    cfg,
		logger: cfg.Logger,
		stores: make(map[string]store.Store[sq.Sqlizer], len(tables)),
	}

	var cat catalog.Catalog
	switch driver {
	case driverDuckDB:
		db, err := sql.Open("duckdb", dsn)
		if err != nil {
			return nil, fmt.Errorf("open duckdb: %w", err)
		}
		db.SetMaxOpenConns(1)
		e.close = func() { db.Close() }

		for _, stmt := range initStmts {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				e.Close()
				return nil, fmt.Errorf("init statement: %w", err)
			}
		}
		cat = sqlstore.NewCatalog(db, tables...)
		for _, t := range tables {
			s, err := sqlstore.New(db, sqlstore.Options{Table: t}, e.logger)
			if err != nil {
				e.Close()
				return nil, err
			}
			e.stores[t] = s
		}

	case driverPostgres:
		if len(initStmts) > 0 {
			return nil, fmt.Errorf("--init is only supported by the %s driver", driverDuckDB)
		}
		pool, err := pgstore.Connect(ctx, dsn)
		if err != nil {
			return nil, err
		}
		e.close = pool.Close

		cat = pgstore.NewCatalog(pool, tables...)
		for _, t := range tables {
			s, err := pgstore.New(pool, sqlstore.Options{Table: t}, e.logger)
			if err != nil {
				e.Close()
				return nil, err
			}
			e.stores[t] = s
		}

	default:
		return nil, fmt.Errorf("unknown driver %q", driver)
	}

	e.service, err = listing.NewService[sq.Sqlizer](cfg, cat)
	if err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// Close releases the database connection.
func (e *env) Close() {
	if e.close != nil {
		e.close()
	}
}
