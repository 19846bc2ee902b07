package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/peggalex/rchkChampionships/internal/domain"
	"github.com/peggalex/rchkChampionships/internal/schema"
	"github.com/peggalex/rchkChampionships/internal/store"
)

type MatchRepository struct {
	logger zerolog.Logger
}

func NewMatchRepository(logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{logger: logger}
}

func (r *MatchRepository) Exists(ctx context.Context, s *store.Session, matchID int64) (bool, error) {
	return s.Exists(ctx, store.Select(MatchIDCol).From(MatchTable).Where(MatchIDCol.Eq(matchID)))
}

func (r *MatchRepository) Insert(ctx context.Context, s *store.Session, match *domain.Match) error {
	_, err := s.Insert(ctx, store.InsertInto(MatchTable).Values(
		MatchIDCol.Values(match.MatchID),
		MatchRedSideWonCol.Values(match.RedSideWon),
		MatchLengthCol.Values(match.Length),
		MatchDateCol.Values(match.Date),
	))
	if err != nil {
		return fmt.Errorf("failed to insert match %d: %w", match.MatchID, err)
	}
	return nil
}

// InsertTeams writes all teams of a match in one statement.
func (r *MatchRepository) InsertTeams(ctx context.Context, s *store.Session, teams []domain.Team) error {
	if len(teams) == 0 {
		return nil
	}

	cols := newColumnSet(len(teams))
	for _, t := range teams {
		cols.add(TeamMatchIDCol, t.MatchID)
		cols.add(TeamIsRedSideCol, t.IsRedSide)
		cols.add(TeamDragonsCol, t.Dragons)
		cols.add(TeamBaronsCol, t.Barons)
		cols.add(TeamTowersCol, t.Towers)
		cols.add(TeamInhibsCol, t.Inhibs)
		for i, ban := range t.Bans {
			cols.add(TeamBanCols[i], ban)
		}
	}

	if _, err := s.Insert(ctx, store.InsertInto(TeamTable).Values(cols.values()...)); err != nil {
		return fmt.Errorf("failed to insert teams of match %d: %w", teams[0].MatchID, err)
	}
	return nil
}

// InsertTeamPlayers writes every participant row of a match in one statement.
func (r *MatchRepository) InsertTeamPlayers(ctx context.Context, s *store.Session, players []domain.TeamPlayer) error {
	if len(players) == 0 {
		return nil
	}

	cols := newColumnSet(len(players))
	for _, p := range players {
		cols.add(TeamPlayerMatchIDCol, p.MatchID)
		cols.add(TeamPlayerAccountIDCol, p.AccountID)
		cols.add(TeamPlayerChampionCol, p.Champion)
		cols.add(TeamPlayerIsRedSideCol, p.IsRedSide)
		cols.add(TeamPlayerKillsCol, p.Kills)
		cols.add(TeamPlayerDeathsCol, p.Deaths)
		cols.add(TeamPlayerAssistsCol, p.Assists)
		cols.add(TeamPlayerCSCol, p.CS)
		cols.add(TeamPlayerDoublesCol, p.Doubles)
		cols.add(TeamPlayerTriplesCol, p.Triples)
		cols.add(TeamPlayerQuadrasCol, p.Quadras)
		cols.add(TeamPlayerPentasCol, p.Pentas)
		cols.add(TeamPlayerKPCol, p.KP)
		cols.add(TeamPlayerDmgDealtCol, p.DmgDealt)
		cols.add(TeamPlayerDmgTakenCol, p.DmgTaken)
		cols.add(TeamPlayerGoldCol, p.Gold)
		cols.add(TeamPlayerSpell1Col, p.Spell1)
		cols.add(TeamPlayerSpell2Col, p.Spell2)
		for i, item := range p.Items {
			cols.add(TeamPlayerItemCols[i], item)
		}
		cols.add(TeamPlayerKeyStoneURLCol, p.KeyStoneURL)
		cols.add(TeamPlayerHealingCol, p.Healing)
		cols.add(TeamPlayerVisionCol, p.Vision)
		cols.add(TeamPlayerCCTimeCol, p.CCTime)
		cols.add(TeamPlayerFirstBloodCol, p.FirstBlood)
		cols.add(TeamPlayerTurretsCol, p.Turrets)
		cols.add(TeamPlayerInhibsCol, p.Inhibs)
	}

	if _, err := s.Insert(ctx, store.InsertInto(TeamPlayerTable).Values(cols.values()...)); err != nil {
		return fmt.Errorf("failed to insert players of match %d: %w", players[0].MatchID, err)
	}
	return nil
}

func (r *MatchRepository) Get(ctx context.Context, s *store.Session, matchID int64) (*domain.Match, bool, error) {
	row, found, err := s.FetchOne(ctx, store.Select().From(MatchTable).Where(MatchIDCol.Eq(matchID)))
	if err != nil || !found {
		return nil, false, err
	}
	return matchFromRow(row), true, nil
}

// List returns matches newest first. limit <= 0 returns all of them.
func (r *MatchRepository) List(ctx context.Context, s *store.Session, limit int) ([]domain.Match, error) {
	rows, err := s.FetchAll(ctx, store.Select().From(MatchTable).OrderBy(MatchDateCol, MatchIDCol).Desc().Limit(limit))
	if err != nil {
		return nil, err
	}

	matches := make([]domain.Match, len(rows))
	for i, row := range rows {
		matches[i] = *matchFromRow(row)
	}
	return matches, nil
}

func (r *MatchRepository) Teams(ctx context.Context, s *store.Session, matchID int64) ([]domain.Team, error) {
	rows, err := s.FetchAll(ctx, store.Select().From(TeamTable).Where(MatchIDCol.Eq(matchID)).OrderBy(TeamIsRedSideCol))
	if err != nil {
		return nil, err
	}

	teams := make([]domain.Team, len(rows))
	for i, row := range rows {
		t := &teams[i]
		t.MatchID, _ = row.Int64(TeamMatchIDCol.Name())
		t.IsRedSide, _ = row.Bool(TeamIsRedSideCol.Name())
		t.Dragons, _ = row.Int(TeamDragonsCol.Name())
		t.Barons, _ = row.Int(TeamBaronsCol.Name())
		t.Towers, _ = row.Int(TeamTowersCol.Name())
		t.Inhibs, _ = row.Int(TeamInhibsCol.Name())
		for j, col := range TeamBanCols {
			t.Bans[j], _ = row.String(col.Name())
		}
	}
	return teams, nil
}

func (r *MatchRepository) TeamPlayers(ctx context.Context, s *store.Session, matchID int64) ([]domain.TeamPlayer, error) {
	rows, err := s.FetchAll(ctx, store.Select().From(TeamPlayerTable).
		Where(MatchIDCol.Eq(matchID)).
		OrderBy(TeamPlayerIsRedSideCol, TeamPlayerAccountIDCol))
	if err != nil {
		return nil, err
	}

	players := make([]domain.TeamPlayer, len(rows))
	for i, row := range rows {
		p := &players[i]
		p.MatchID, _ = row.Int64(TeamPlayerMatchIDCol.Name())
		p.AccountID, _ = row.Int64(TeamPlayerAccountIDCol.Name())
		p.Champion, _ = row.String(TeamPlayerChampionCol.Name())
		p.IsRedSide, _ = row.Bool(TeamPlayerIsRedSideCol.Name())
		p.Kills, _ = row.Int(TeamPlayerKillsCol.Name())
		p.Deaths, _ = row.Int(TeamPlayerDeathsCol.Name())
		p.Assists, _ = row.Int(TeamPlayerAssistsCol.Name())
		p.CS, _ = row.Int(TeamPlayerCSCol.Name())
		p.Doubles, _ = row.Int(TeamPlayerDoublesCol.Name())
		p.Triples, _ = row.Int(TeamPlayerTriplesCol.Name())
		p.Quadras, _ = row.Int(TeamPlayerQuadrasCol.Name())
		p.Pentas, _ = row.Int(TeamPlayerPentasCol.Name())
		p.KP, _ = row.Int(TeamPlayerKPCol.Name())
		p.DmgDealt, _ = row.Int64(TeamPlayerDmgDealtCol.Name())
		p.DmgTaken, _ = row.Int64(TeamPlayerDmgTakenCol.Name())
		p.Gold, _ = row.Int64(TeamPlayerGoldCol.Name())
		p.Spell1, _ = row.String(TeamPlayerSpell1Col.Name())
		p.Spell2, _ = row.String(TeamPlayerSpell2Col.Name())
		for j, col := range TeamPlayerItemCols {
			p.Items[j], _ = row.Int(col.Name())
		}
		p.KeyStoneURL, _ = row.String(TeamPlayerKeyStoneURLCol.Name())
		p.Healing, _ = row.Int64(TeamPlayerHealingCol.Name())
		p.Vision, _ = row.Int64(TeamPlayerVisionCol.Name())
		p.CCTime, _ = row.Int64(TeamPlayerCCTimeCol.Name())
		p.FirstBlood, _ = row.Bool(TeamPlayerFirstBloodCol.Name())
		p.Turrets, _ = row.Int(TeamPlayerTurretsCol.Name())
		p.Inhibs, _ = row.Int(TeamPlayerInhibsCol.Name())
	}
	return players, nil
}

func matchFromRow(row store.Row) *domain.Match {
	m := &domain.Match{}
	m.MatchID, _ = row.Int64(MatchIDCol.Name())
	m.RedSideWon, _ = row.Bool(MatchRedSideWonCol.Name())
	m.Length, _ = row.Int64(MatchLengthCol.Name())
	m.Date, _ = row.Int64(MatchDateCol.Name())
	m.CreatedAt, _ = row.Int64(schema.TimestampColumn)
	return m
}

// columnSet accumulates per-column value lists in first-seen column order.
type columnSet struct {
	order []*schema.Column
	byCol map[*schema.Column][]any
	rows  int
}

func newColumnSet(rows int) *columnSet {
	return &columnSet{byCol: make(map[*schema.Column][]any), rows: rows}
}

func (c *columnSet) add(col *schema.Column, v any) {
	vals, ok := c.byCol[col]
	if !ok {
		c.order = append(c.order, col)
		vals = make([]any, 0, c.rows)
	}
	c.byCol[col] = append(vals, v)
}

func (c *columnSet) values() []schema.ColumnValues {
	out := make([]schema.ColumnValues, len(c.order))
	for i, col := range c.order {
		out[i] = col.Values(c.byCol[col]...)
	}
	return out
}
