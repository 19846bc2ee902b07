package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/peggalex/rchkChampionships/internal/store"
)

type PersonRepository struct {
	logger zerolog.Logger
}

func NewPersonRepository(logger zerolog.Logger) *PersonRepository {
	return &PersonRepository{logger: logger}
}

func (r *PersonRepository) Exists(ctx context.Context, s *store.Session, personName string) (bool, error) {
	return s.Exists(ctx, store.Select(PersonNameCol).From(PersonTable).Where(PersonNameCol.Eq(personName)))
}

func (r *PersonRepository) Create(ctx context.Context, s *store.Session, personName string) error {
	if _, err := s.Insert(ctx, store.InsertInto(PersonTable).Values(PersonNameCol.Values(personName))); err != nil {
		return fmt.Errorf("failed to create person %q: %w", personName, err)
	}
	r.logger.Info().Str("person_name", personName).Msg("person created")
	return nil
}

// Ensure creates personName unless it already exists and reports whether it
// was created.
func (r *PersonRepository) Ensure(ctx context.Context, s *store.Session, personName string) (bool, error) {
	exists, err := r.Exists(ctx, s, personName)
	if err != nil || exists {
		return false, err
	}
	return true, r.Create(ctx, s, personName)
}
