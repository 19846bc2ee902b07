package service

import (
	"context"
	"fmt"

	"github.com/peggalex/rchkChampionships/internal/constants"
	"github.com/peggalex/rchkChampionships/internal/domain"
	"github.com/peggalex/rchkChampionships/internal/store"
)

type MatchDetail struct {
	Match       domain.Match        `json:"match"`
	Teams       []domain.Team       `json:"teams"`
	TeamPlayers []domain.TeamPlayer `json:"teamPlayers"`
}

// Detail loads a registered match with both teams and every participant
// row, read in one session so the three parts are consistent.
func (s *MatchService) Detail(ctx context.Context, matchID int64) (*MatchDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.logger.Debug().Int64("match_id", matchID).Msg("getting match")

	detail := &MatchDetail{}
	err := store.WithReader(ctx, s.db, s.logger, func(sess *store.Session) error {
		match, found, err := s.matches.Get(ctx, sess, matchID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %d", ErrMatchNotFound, matchID)
		}
		detail.Match = *match

		if detail.Teams, err = s.matches.Teams(ctx, sess, matchID); err != nil {
			return err
		}
		detail.TeamPlayers, err = s.matches.TeamPlayers(ctx, sess, matchID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int64("match_id", matchID).
		Int("teams", len(detail.Teams)).
		Int("team_players", len(detail.TeamPlayers)).
		Msg("match found")
	return detail, nil
}
