package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/peggalex/rchkChampionships/internal/domain"
	"github.com/peggalex/rchkChampionships/internal/schema"
	"github.com/peggalex/rchkChampionships/internal/store"
)

type PlayerRepository struct {
	logger zerolog.Logger
}

func NewPlayerRepository(logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{logger: logger}
}

func (r *PlayerRepository) Exists(ctx context.Context, s *store.Session, accountID int64) (bool, error) {
	return s.Exists(ctx, store.Select(PlayerAccountIDCol).From(PlayerTable).Where(PlayerAccountIDCol.Eq(accountID)))
}

// Get returns the player with accountID; found is false when it is unknown.
func (r *PlayerRepository) Get(ctx context.Context, s *store.Session, accountID int64) (*domain.Player, bool, error) {
	row, found, err := s.FetchOne(ctx, store.Select().From(PlayerTable).Where(PlayerAccountIDCol.Eq(accountID)))
	if err != nil || !found {
		return nil, false, err
	}
	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) Create(ctx context.Context, s *store.Session, player *domain.Player) error {
	var person any
	if player.PersonName != "" {
		person = player.PersonName
	}

	_, err := s.Insert(ctx, store.InsertInto(PlayerTable).Values(
		PlayerAccountIDCol.Values(player.AccountID),
		PlayerSummonerNameCol.Values(player.SummonerName),
		PlayerIconIDCol.Values(player.IconID),
		PlayerRegionCol.Values(player.Region),
		PlayerPersonNameCol.Values(person),
	))
	if err != nil {
		r.logger.Error().Err(err).Int64("account_id", player.AccountID).Msg("failed to create player")
		return fmt.Errorf("failed to create player %d: %w", player.AccountID, err)
	}

	r.logger.Debug().
		Int64("account_id", player.AccountID).
		Str("summoner_name", player.SummonerName).
		Int("icon_id", player.IconID).
		Msg("player created")
	return nil
}

// UpdateProfile sets the two mutable display attributes.
func (r *PlayerRepository) UpdateProfile(ctx context.Context, s *store.Session, accountID int64, summonerName string, iconID int) error {
	_, err := s.Update(ctx, store.Update(PlayerTable).
		Set(PlayerSummonerNameCol, summonerName).
		Set(PlayerIconIDCol, iconID).
		Where(PlayerAccountIDCol.Eq(accountID)))
	if err != nil {
		return fmt.Errorf("failed to update player %d: %w", accountID, err)
	}
	return nil
}

func (r *PlayerRepository) SetPerson(ctx context.Context, s *store.Session, accountID int64, personName string) error {
	n, err := s.Update(ctx, store.Update(PlayerTable).
		Set(PlayerPersonNameCol, personName).
		Where(PlayerAccountIDCol.Eq(accountID)))
	if err != nil {
		return fmt.Errorf("failed to link player %d: %w", accountID, err)
	}
	if n == 0 {
		return fmt.Errorf("player %d not found", accountID)
	}
	return nil
}

// LatestMatchDate is the most recent recorded match date for accountID. found
// is false when the account has no recorded matches.
func (r *PlayerRepository) LatestMatchDate(ctx context.Context, s *store.Session, accountID int64) (int64, bool, error) {
	account, err := TeamPlayerAccountIDCol.Format(accountID)
	if err != nil {
		return 0, false, err
	}

	query := fmt.Sprintf(`SELECT MAX(m.%s) AS "latest" FROM %s m JOIN %s tp ON m.%s = tp.%s WHERE tp.%s = %s`,
		MatchDateCol.Ident(),
		MatchTable.Ident(),
		TeamPlayerTable.Ident(),
		MatchIDCol.Ident(), TeamPlayerMatchIDCol.Ident(),
		TeamPlayerAccountIDCol.Ident(), account,
	)

	row, found, err := s.FetchOne(ctx, store.Raw(query))
	if err != nil || !found {
		return 0, false, err
	}
	latest, ok := row.Int64("latest")
	if !ok {
		return 0, false, nil
	}
	return latest, true, nil
}

func playerFromRow(row store.Row) *domain.Player {
	p := &domain.Player{}
	p.AccountID, _ = row.Int64(PlayerAccountIDCol.Name())
	p.SummonerName, _ = row.String(PlayerSummonerNameCol.Name())
	p.IconID, _ = row.Int(PlayerIconIDCol.Name())
	p.Region, _ = row.String(PlayerRegionCol.Name())
	p.PersonName, _ = row.String(PlayerPersonNameCol.Name())
	p.CreatedAt, _ = row.Int64(schema.TimestampColumn)
	return p
}
