package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/peggalex/rchkChampionships/internal/constants"
	"github.com/peggalex/rchkChampionships/internal/domain"
	"github.com/peggalex/rchkChampionships/internal/repository"
	"github.com/peggalex/rchkChampionships/internal/store"
)

type MatchService struct {
	db      *sql.DB
	matches *repository.MatchRepository
	logger  zerolog.Logger
}

func NewMatchService(db *sql.DB, matches *repository.MatchRepository, logger zerolog.Logger) *MatchService {
	return &MatchService{db: db, matches: matches, logger: logger}
}

// List returns up to limit registered matches, newest first.
func (s *MatchService) List(ctx context.Context, limit int) ([]domain.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if limit <= 0 || limit > constants.MatchListLimit {
		limit = constants.MatchListLimit
	}

	var matches []domain.Match
	err := store.WithReader(ctx, s.db, s.logger, func(sess *store.Session) error {
		var err error
		matches, err = s.matches.List(ctx, sess, limit)
		return err
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list matches")
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	s.logger.Debug().Int("count", len(matches)).Msg("matches listed")
	return matches, nil
}
