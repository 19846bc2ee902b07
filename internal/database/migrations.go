package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/peggalex/rchkChampionships/internal/repository"
)

// migrations are Go functions so the DDL always comes from the table model
// the statement builder validates against.
func migrations() []*goose.Migration {
	return []*goose.Migration{
		goose.NewGoMigration(1,
			&goose.GoFunc{RunTx: createTables},
			&goose.GoFunc{RunTx: dropTables},
		),
	}
}

func createTables(ctx context.Context, tx *sql.Tx) error {
	for _, table := range repository.Tables() {
		if _, err := tx.ExecContext(ctx, table.CreateStatement()); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.Name(), err)
		}
	}
	return nil
}

func dropTables(ctx context.Context, tx *sql.Tx) error {
	tables := repository.Tables()
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := tx.ExecContext(ctx, tables[i].DropStatement()); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", tables[i].Name(), err)
		}
	}
	return nil
}

func newProvider(db *sql.DB) (*goose.Provider, error) {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, nil,
		goose.WithGoMigrations(migrations()...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create goose provider: %w", err)
	}
	return provider, nil
}

func runMigrations(ctx context.Context, db *sql.DB, logger zerolog.Logger) error {
	provider, err := newProvider(db)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}
	for _, res := range results {
		logger.Debug().
			Int64("version", res.Source.Version).
			Dur("duration", res.Duration).
			Msg("migration applied")
	}

	logger.Info().Int("applied", len(results)).Msg("migrations completed successfully")
	return nil
}
