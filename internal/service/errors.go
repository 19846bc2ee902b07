package service

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/peggalex/rchkChampionships/internal/api"
	"github.com/peggalex/rchkChampionships/internal/metrics"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrDuplicateMatch = errors.New("match already registered")
	ErrUnknownAccount = errors.New("unknown account")
	ErrMatchNotFound  = errors.New("match not found")
	// ErrFetchFailed marks failures talking to the Riot API or Data Dragon.
	ErrFetchFailed = errors.New("remote fetch failed")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// resultLabel classifies an ingestion error for metrics.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, ErrDuplicateMatch):
		return metrics.ResultDuplicate
	case errors.Is(err, ErrInvalidInput):
		return metrics.ResultInvalid
	case errors.Is(err, ErrFetchFailed), errors.Is(err, api.ErrNotFound), errors.Is(err, api.ErrTooManyRetries):
		return metrics.ResultFetch
	default:
		return metrics.ResultStorage
	}
}
