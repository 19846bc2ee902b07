package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/peggalex/rchkChampionships/internal/config"
	"github.com/peggalex/rchkChampionships/internal/constants"
)

const driverName = "sqlite3_rchk"

var registerOnce sync.Once

// pragmas run on every new connection; a pragma set through one pooled
// connection is invisible to the others.
var pragmas = []struct {
	name  string
	value string
}{
	{"journal_mode", "WAL"},
	{"synchronous", "NORMAL"},
	{"cache_size", "-64000"},
	{"foreign_keys", "ON"},
	{"temp_store", "MEMORY"},
	{"mmap_size", "268435456"}, // memory map 256MB for better performance https://sqlite.org/mmap.html
}

func registerDriver() {
	registerOnce.Do(func() {
		sql.Register(driverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				for _, pragma := range pragmas {
					query := fmt.Sprintf("PRAGMA %s = %s", pragma.name, pragma.value)
					if _, err := conn.Exec(query, nil); err != nil {
						return fmt.Errorf("failed to set PRAGMA %s: %w", pragma.name, err)
					}
				}
				return nil
			},
		})
	})
}

// DSN carries the connection-scoped flags: foreign keys, the busy timeout and
// BEGIN IMMEDIATE for every transaction.
func DSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=%d&_txlock=immediate", path, constants.DBBusyTimeoutMS)
}

func New(cfg *config.Config, logger zerolog.Logger) (*sql.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()
	return Open(ctx, cfg.DBPath, logger)
}

// Open connects to the SQLite file at path and brings the schema up to date.
func Open(ctx context.Context, path string, logger zerolog.Logger) (*sql.DB, error) {
	logger.Info().Str("path", path).Msg("connecting to database")
	registerDriver()

	db, err := sql.Open(driverName, DSN(path))
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database")
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(constants.DBMaxOpenConns)
	db.SetMaxIdleConns(constants.DBMaxIdleConns)
	db.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(constants.DBMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		logger.Error().Err(err).Msg("failed to open SQLite")
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}
	if err := runMigrations(ctx, db, logger); err != nil {
		_ = db.Close()
		logger.Error().Err(err).Msg("failed to run migrations")
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info().Msg("database connection established and optimized")
	return db, nil
}
