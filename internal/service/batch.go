package service

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/peggalex/rchkChampionships/internal/config"
	"github.com/peggalex/rchkChampionships/internal/constants"
)

type BatchItem struct {
	MatchID   int64         `json:"matchId"`
	Result    *IngestResult `json:"result,omitempty"`
	Duplicate bool          `json:"duplicate,omitempty"`
	Error     string        `json:"error,omitempty"`
}

type BatchResult struct {
	Ingested   int         `json:"ingested"`
	Duplicates int         `json:"duplicates"`
	Failed     int         `json:"failed"`
	Items      []BatchItem `json:"items"`
}

// BatchService ingests many remote matches at once. Every match gets its own
// session, so one failure never affects the others.
type BatchService struct {
	ingest  *IngestService
	workers int
	logger  zerolog.Logger
}

func NewBatchService(ingest *IngestService, cfg *config.Config, logger zerolog.Logger) *BatchService {
	return &BatchService{ingest: ingest, workers: cfg.IngestWorkers, logger: logger}
}

func (s *BatchService) IngestRemote(ctx context.Context, region string, matchIDs []int64) (*BatchResult, error) {
	if len(matchIDs) == 0 {
		return nil, invalidf("no match ids given")
	}
	if len(matchIDs) > constants.MaxBatchSize {
		return nil, invalidf("at most %d match ids per batch, got %d", constants.MaxBatchSize, len(matchIDs))
	}

	ctx, cancel := context.WithTimeout(ctx, constants.BatchTimeout)
	defer cancel()

	start := time.Now()
	items := make([]BatchItem, len(matchIDs))

	p := pool.New().WithMaxGoroutines(s.workers)
	for i, id := range matchIDs {
		p.Go(func() {
			item := BatchItem{MatchID: id}
			result, err := s.ingest.IngestRemote(ctx, region, id)
			switch {
			case err == nil:
				item.Result = result
			case errors.Is(err, ErrDuplicateMatch):
				item.Duplicate = true
			default:
				item.Error = err.Error()
			}
			items[i] = item
		})
	}
	p.Wait()

	out := &BatchResult{Items: items}
	for _, item := range items {
		switch {
		case item.Result != nil:
			out.Ingested++
		case item.Duplicate:
			out.Duplicates++
		default:
			out.Failed++
		}
	}

	s.logger.Info().
		Str("region", region).
		Int("requested", len(matchIDs)).
		Int("ingested", out.Ingested).
		Int("duplicates", out.Duplicates).
		Int("failed", out.Failed).
		Dur("elapsed", time.Since(start)).
		Msg("batch ingest finished")

	return out, nil
}
