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

type PlayerService struct {
	db      *sql.DB
	players *repository.PlayerRepository
	logger  zerolog.Logger
}

func NewPlayerService(db *sql.DB, players *repository.PlayerRepository, logger zerolog.Logger) *PlayerService {
	return &PlayerService{db: db, players: players, logger: logger}
}

func (s *PlayerService) GetPlayer(ctx context.Context, accountID int64) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	var player *domain.Player
	err := store.WithReader(ctx, s.db, s.logger, func(sess *store.Session) error {
		p, found, err := s.players.Get(ctx, sess, accountID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %d", ErrUnknownAccount, accountID)
		}
		player = p
		return nil
	})
	if err != nil {
		s.logger.Debug().Err(err).Int64("account_id", accountID).Msg("player lookup failed")
		return nil, err
	}
	return player, nil
}
