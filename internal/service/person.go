package service

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/peggalex/rchkChampionships/internal/constants"
	"github.com/peggalex/rchkChampionships/internal/repository"
	"github.com/peggalex/rchkChampionships/internal/store"
)

var personNamePattern = regexp.MustCompile(`^[0-9A-Za-z ]+$`)

type LinkResult struct {
	AccountID     int64  `json:"accountId"`
	PersonName    string `json:"personName"`
	PersonCreated bool   `json:"personCreated"`
}

type PersonService struct {
	db      *sql.DB
	players *repository.PlayerRepository
	persons *repository.PersonRepository
	logger  zerolog.Logger
}

func NewPersonService(db *sql.DB, players *repository.PlayerRepository, persons *repository.PersonRepository, logger zerolog.Logger) *PersonService {
	return &PersonService{db: db, players: players, persons: persons, logger: logger}
}

// LinkAccount attributes a known account to a real person, creating the
// person on first use.
func (s *PersonService) LinkAccount(ctx context.Context, accountID int64, personName string) (*LinkResult, error) {
	personName = strings.TrimSpace(personName)
	if accountID <= 0 {
		return nil, invalidf("account id must be positive, got %d", accountID)
	}
	if personName == "" || utf8.RuneCountInString(personName) > constants.MaxPersonName {
		return nil, invalidf("person name must be 1 to %d characters", constants.MaxPersonName)
	}
	if !personNamePattern.MatchString(personName) {
		return nil, invalidf("person name %q may only contain letters, digits and spaces", personName)
	}

	result := &LinkResult{AccountID: accountID, PersonName: personName}
	err := store.WithSession(ctx, s.db, s.logger, func(sess *store.Session) error {
		known, err := s.players.Exists(ctx, sess, accountID)
		if err != nil {
			return err
		}
		if !known {
			return fmt.Errorf("%w: %d", ErrUnknownAccount, accountID)
		}

		result.PersonCreated, err = s.persons.Ensure(ctx, sess, personName)
		if err != nil {
			return err
		}
		return s.players.SetPerson(ctx, sess, accountID, personName)
	})
	if err != nil {
		s.logger.Warn().Err(err).Int64("account_id", accountID).Str("person_name", personName).Msg("failed to link account")
		return nil, err
	}

	s.logger.Info().
		Int64("account_id", accountID).
		Str("person_name", personName).
		Bool("person_created", result.PersonCreated).
		Msg("account linked")
	return result, nil
}
