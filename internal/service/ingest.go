package service

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/peggalex/rchkChampionships/internal/api"
	"github.com/peggalex/rchkChampionships/internal/config"
	"github.com/peggalex/rchkChampionships/internal/constants"
	"github.com/peggalex/rchkChampionships/internal/domain"
	"github.com/peggalex/rchkChampionships/internal/metrics"
	"github.com/peggalex/rchkChampionships/internal/refdata"
	"github.com/peggalex/rchkChampionships/internal/repository"
	"github.com/peggalex/rchkChampionships/internal/store"
)

// Resolver turns reference ids into the names stored with a match.
type Resolver interface {
	Champion(ctx context.Context, id int) (string, error)
	Spell(ctx context.Context, id int) (string, error)
	Keystone(ctx context.Context, id int) (string, error)
	SummonerIcon(ctx context.Context, region string, accountID int64) (int, error)
}

// MatchSource fetches a match document from the Riot API.
type MatchSource interface {
	Match(ctx context.Context, region string, matchID int64) (*api.MatchResponse, error)
}

type IngestResult struct {
	IngestID       string `json:"ingestId"`
	MatchID        int64  `json:"matchId"`
	Date           int64  `json:"date"`
	RedSideWon     bool   `json:"redSideWon"`
	Teams          int    `json:"teams"`
	TeamPlayers    int    `json:"teamPlayers"`
	PlayersCreated int    `json:"playersCreated"`
	PlayersRenamed int    `json:"playersRenamed"`
	StaleRenames   int    `json:"staleRenames"`
}

type IngestService struct {
	db            *sql.DB
	players       *repository.PlayerRepository
	matches       *repository.MatchRepository
	refs          Resolver
	remote        MatchSource
	defaultRegion string
	validate      *validator.Validate
	metrics       *metrics.Metrics
	logger        zerolog.Logger
}

func NewIngestService(
	db *sql.DB,
	players *repository.PlayerRepository,
	matches *repository.MatchRepository,
	refs Resolver,
	remote MatchSource,
	cfg *config.Config,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *IngestService {
	return &IngestService{
		db:            db,
		players:       players,
		matches:       matches,
		refs:          refs,
		remote:        remote,
		defaultRegion: cfg.DefaultRegion,
		validate:      newValidator(),
		metrics:       m,
		logger:        logger,
	}
}

// region normalizes a caller-supplied region, falling back to the configured
// default when it is blank.
func (s *IngestService) region(region string) string {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		return s.defaultRegion
	}
	return region
}

// IngestJSON decodes one raw match record and ingests it.
func (s *IngestService) IngestJSON(ctx context.Context, body []byte) (*IngestResult, error) {
	var raw domain.RawMatch
	if err := sonic.Unmarshal(body, &raw); err != nil {
		err = invalidf("malformed match record: %v", err)
		s.metrics.ObserveIngest(resultLabel(err), 0)
		return nil, err
	}
	return s.Ingest(ctx, &raw)
}

// IngestRemote fetches (region, matchID) from the Riot API and ingests it.
// Registered matches are rejected before any request is made.
func (s *IngestService) IngestRemote(ctx context.Context, region string, matchID int64) (*IngestResult, error) {
	start := time.Now()
	raw, err := s.fetchRemote(ctx, region, matchID)
	if err != nil {
		s.metrics.ObserveIngest(resultLabel(err), time.Since(start))
		return nil, err
	}
	return s.Ingest(ctx, raw)
}

func (s *IngestService) fetchRemote(ctx context.Context, region string, matchID int64) (*domain.RawMatch, error) {
	region = s.region(region)
	if !domain.IsRegion(region) {
		return nil, invalidf("unknown region %q", region)
	}
	if matchID <= 0 {
		return nil, invalidf("match id must be positive, got %d", matchID)
	}

	registered, err := s.Registered(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateMatch, matchID)
	}

	apiCtx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	resp, err := s.remote.Match(apiCtx, region, matchID)
	if err != nil {
		s.logger.Error().Err(err).Str("region", region).Int64("match_id", matchID).Msg("failed to fetch match")
		return nil, errors.Mark(fmt.Errorf("failed to fetch match %d: %w", matchID, err), ErrFetchFailed)
	}

	raw, err := RawFromRiot(region, resp)
	if err != nil {
		return nil, invalidf("match %d: %v", matchID, err)
	}
	return raw, nil
}

// Registered reports whether matchID has been ingested.
func (s *IngestService) Registered(ctx context.Context, matchID int64) (bool, error) {
	var exists bool
	err := store.WithReader(ctx, s.db, s.logger, func(sess *store.Session) error {
		var err error
		exists, err = s.matches.Exists(ctx, sess, matchID)
		return err
	})
	return exists, err
}

// Ingest validates raw and commits it with all of its teams, participants
// and player changes in one transaction. On error nothing is written.
func (s *IngestService) Ingest(ctx context.Context, raw *domain.RawMatch) (*IngestResult, error) {
	start := time.Now()
	ingestID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ingest id: %w", err)
	}

	logger := s.logger.With().Str("ingest_id", ingestID).Int64("match_id", raw.MatchID).Logger()

	result, err := s.ingest(ctx, raw, logger)
	elapsed := time.Since(start)
	s.metrics.ObserveIngest(resultLabel(err), elapsed)

	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateMatch), errors.Is(err, ErrInvalidInput):
			logger.Warn().Err(err).Msg("match rejected")
		default:
			logger.Error().Err(err).Dur("elapsed", elapsed).Msg("failed to ingest match")
		}
		return nil, err
	}

	result.IngestID = ingestID
	s.metrics.PlayerChange("created", result.PlayersCreated)
	s.metrics.PlayerChange("renamed", result.PlayersRenamed)
	s.metrics.PlayerChange("stale_rename", result.StaleRenames)

	logger.Info().
		Int("players_created", result.PlayersCreated).
		Int("players_renamed", result.PlayersRenamed).
		Int("stale_renames", result.StaleRenames).
		Dur("elapsed", elapsed).
		Msg("match ingested")

	return result, nil
}

// prepared is a validated match with every reference already resolved, so
// the transaction only has to write.
type prepared struct {
	region       string
	match        domain.Match
	teams        []domain.Team
	teamPlayers  []domain.TeamPlayer
	participants []domain.RawParticipant
}

func (s *IngestService) ingest(ctx context.Context, in *domain.RawMatch, logger zerolog.Logger) (*IngestResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	raw := *in
	raw.Region = s.region(raw.Region)
	if err := s.validate.Struct(&raw); err != nil {
		return nil, invalidf("%v", err)
	}
	if err := checkShape(&raw); err != nil {
		return nil, err
	}

	rec, err := s.prepare(ctx, &raw)
	if err != nil {
		return nil, err
	}
	logger.Debug().Int("participants", len(rec.participants)).Msg("match record prepared")

	// Icon lookups are remote calls and must not run while the write lock is
	// held.
	icons, err := s.prefetchIcons(ctx, rec.region, rec.participants, logger)
	if err != nil {
		return nil, err
	}

	result := &IngestResult{
		MatchID:     rec.match.MatchID,
		Date:        rec.match.Date,
		RedSideWon:  rec.match.RedSideWon,
		Teams:       len(rec.teams),
		TeamPlayers: len(rec.teamPlayers),
	}

	err = store.WithSession(ctx, s.db, logger, func(sess *store.Session) error {
		exists, err := s.matches.Exists(ctx, sess, rec.match.MatchID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %d", ErrDuplicateMatch, rec.match.MatchID)
		}

		// Written first: teams and teamPlayers reference it and foreign keys
		// are checked per statement.
		if err := s.matches.Insert(ctx, sess, &rec.match); err != nil {
			if store.IsUniqueViolation(err) {
				return errors.Mark(err, ErrDuplicateMatch)
			}
			return err
		}

		for _, p := range rec.participants {
			if err := s.resolvePlayer(ctx, sess, rec.region, rec.match.Date, p, icons, result, logger); err != nil {
				return err
			}
		}

		if err := s.matches.InsertTeams(ctx, sess, rec.teams); err != nil {
			return err
		}
		return s.matches.InsertTeamPlayers(ctx, sess, rec.teamPlayers)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// prepare resolves champion, spell and keystone names and derives every row
// of the match.
func (s *IngestService) prepare(ctx context.Context, raw *domain.RawMatch) (*prepared, error) {
	rec := &prepared{
		region:       raw.Region,
		participants: raw.Participants,
		match: domain.Match{
			MatchID: raw.MatchID,
			Length:  raw.Duration,
			Date:    raw.OccurredAt,
		},
	}

	for _, t := range raw.Teams {
		if t.Win {
			rec.match.RedSideWon = t.Side.IsRed()
		}

		team := domain.Team{
			MatchID:   raw.MatchID,
			IsRedSide: t.Side.IsRed(),
			Dragons:   t.Dragons,
			Barons:    t.Barons,
			Towers:    t.Towers,
			Inhibs:    t.Inhibs,
		}

		bans := append([]domain.RawBan(nil), t.Bans...)
		sort.SliceStable(bans, func(i, j int) bool { return bans[i].PickTurn < bans[j].PickTurn })
		for i, ban := range bans {
			name, err := s.reference(ctx, s.refs.Champion, ban.ChampionID)
			if err != nil {
				return nil, err
			}
			team.Bans[i] = name
		}
		rec.teams = append(rec.teams, team)
	}

	sideKills := make(map[domain.Side]int, 2)
	for _, p := range raw.Participants {
		sideKills[p.Side] += p.Kills
	}

	for _, p := range raw.Participants {
		champion, err := s.reference(ctx, s.refs.Champion, p.ChampionID)
		if err != nil {
			return nil, err
		}
		spell1, err := s.reference(ctx, s.refs.Spell, p.Spell1ID)
		if err != nil {
			return nil, err
		}
		spell2, err := s.reference(ctx, s.refs.Spell, p.Spell2ID)
		if err != nil {
			return nil, err
		}
		keystone, err := s.reference(ctx, s.refs.Keystone, p.KeystoneID)
		if err != nil {
			return nil, err
		}

		// Missing trailing slots are empty.
		var items [constants.ItemSlots]int
		copy(items[:], p.Items)

		rec.teamPlayers = append(rec.teamPlayers, domain.TeamPlayer{
			MatchID:     raw.MatchID,
			AccountID:   p.AccountID,
			Champion:    champion,
			IsRedSide:   p.Side.IsRed(),
			Kills:       p.Kills,
			Deaths:      p.Deaths,
			Assists:     p.Assists,
			CS:          p.CS,
			Doubles:     p.Doubles,
			Triples:     p.Triples,
			Quadras:     p.Quadras,
			Pentas:      p.Pentas,
			KP:          KillParticipation(p.Kills, p.Assists, sideKills[p.Side]),
			DmgDealt:    p.DmgDealt,
			DmgTaken:    p.DmgTaken,
			Gold:        p.Gold,
			Spell1:      spell1,
			Spell2:      spell2,
			Items:       items,
			KeyStoneURL: keystone,
			Healing:     p.Healing,
			Vision:      p.Vision,
			CCTime:      p.CCTime,
			FirstBlood:  p.FirstBlood,
			Turrets:     p.Turrets,
			Inhibs:      p.Inhibs,
		})
	}

	return rec, nil
}

func (s *IngestService) reference(ctx context.Context, lookup func(context.Context, int) (string, error), id int) (string, error) {
	name, err := lookup(ctx, id)
	if err != nil {
		if errors.Is(err, refdata.ErrUnknownReference) {
			return "", invalidf("%v", err)
		}
		return "", errors.Mark(fmt.Errorf("failed to resolve reference %d: %w", id, err), ErrFetchFailed)
	}
	return name, nil
}

// resolvePlayer creates the account on first sight and otherwise applies a
// display-name change only when this match is newer than every match already
// recorded for the account.
func (s *IngestService) resolvePlayer(
	ctx context.Context,
	sess *store.Session,
	region string,
	date int64,
	p domain.RawParticipant,
	icons iconSet,
	result *IngestResult,
	logger zerolog.Logger,
) error {
	existing, found, err := s.players.Get(ctx, sess, p.AccountID)
	if err != nil {
		return err
	}

	if !found {
		icon, err := icons.lookup(p)
		if err != nil {
			logger.Warn().Err(err).Int64("account_id", p.AccountID).Msg("icon lookup failed, using placeholder")
			icon = constants.PlaceholderIconID
		}
		if err := s.players.Create(ctx, sess, &domain.Player{
			AccountID:    p.AccountID,
			SummonerName: p.SummonerName,
			IconID:       icon,
			Region:       region,
		}); err != nil {
			return err
		}
		result.PlayersCreated++
		return nil
	}

	if existing.SummonerName == p.SummonerName {
		return nil
	}

	latest, played, err := s.players.LatestMatchDate(ctx, sess, p.AccountID)
	if err != nil {
		return err
	}
	if played && date <= latest {
		logger.Debug().
			Int64("account_id", p.AccountID).
			Str("stored_name", existing.SummonerName).
			Str("incoming_name", p.SummonerName).
			Int64("latest_match", latest).
			Msg("stale name change skipped")
		result.StaleRenames++
		return nil
	}

	icon, err := icons.lookup(p)
	if err != nil {
		logger.Warn().Err(err).Int64("account_id", p.AccountID).Msg("icon lookup failed, keeping stored icon")
		icon = existing.IconID
	}
	if err := s.players.UpdateProfile(ctx, sess, p.AccountID, p.SummonerName, icon); err != nil {
		return err
	}

	logger.Info().
		Int64("account_id", p.AccountID).
		Str("from", existing.SummonerName).
		Str("to", p.SummonerName).
		Msg("player renamed")
	result.PlayersRenamed++
	return nil
}

var errIconNotFetched = errors.New("icon was not fetched for this account")

type iconResult struct {
	id  int
	err error
}

// iconSet holds the icons looked up before the write transaction opened.
type iconSet map[int64]iconResult

func (set iconSet) lookup(p domain.RawParticipant) (int, error) {
	if p.IconID > 0 {
		return p.IconID, nil
	}
	r, ok := set[p.AccountID]
	if !ok {
		return 0, errIconNotFetched
	}
	return r.id, r.err
}

// prefetchIcons looks up the icon of every participant that will need one:
// accounts not seen before and accounts whose name changed. Participants that
// carry their own icon are skipped. Lookup failures are kept in the set so
// the transaction can fall back.
func (s *IngestService) prefetchIcons(ctx context.Context, region string, participants []domain.RawParticipant, logger zerolog.Logger) (iconSet, error) {
	var wanted []int64
	err := store.WithReader(ctx, s.db, logger, func(sess *store.Session) error {
		for _, p := range participants {
			if p.IconID > 0 {
				continue
			}
			existing, found, err := s.players.Get(ctx, sess, p.AccountID)
			if err != nil {
				return err
			}
			if !found || existing.SummonerName != p.SummonerName {
				wanted = append(wanted, p.AccountID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	icons := make(iconSet, len(wanted))
	workers := pool.New().WithMaxGoroutines(constants.IconLookupWorkers)
	for _, accountID := range wanted {
		workers.Go(func() {
			iconCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
			defer cancel()
			id, err := s.refs.SummonerIcon(iconCtx, region, accountID)

			mu.Lock()
			icons[accountID] = iconResult{id: id, err: err}
			mu.Unlock()
		})
	}
	workers.Wait()

	logger.Debug().Int("icons", len(icons)).Msg("icons prefetched")
	return icons, nil
}

// KillParticipation is the percentage of the side's kills the player killed
// or assisted, rounded to the nearest integer. A side without kills yields 0.
func KillParticipation(kills, assists, sideKills int) int {
	if sideKills <= 0 {
		return 0
	}
	return int(math.Round(float64(100*(kills+assists)) / float64(sideKills)))
}
